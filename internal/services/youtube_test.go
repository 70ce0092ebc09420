package services

import (
	"errors"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"watch url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"short url", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"embed url", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"with extra params", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", false},
		{"no id", "https://example.com", "", true},
		{"empty", "", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractVideoID(tc.url)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ExtractVideoID(%q) expected error, got %q", tc.url, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractVideoID(%q) error = %v", tc.url, err)
			}
			if got != tc.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}

func TestExtractCaptionURL(t *testing.T) {
	page := `{"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[{"baseUrl":"https:\/\/www.youtube.com\/api\/timedtext?v=abc&lang=en","name":"English"}],"`

	url, err := extractCaptionURL(page)
	if err != nil {
		t.Fatalf("extractCaptionURL() error = %v", err)
	}
	want := "https://www.youtube.com/api/timedtext?v=abc&lang=en"
	if url != want {
		t.Errorf("extractCaptionURL() = %q, want %q", url, want)
	}
}

func TestExtractCaptionURL_NoCaptions(t *testing.T) {
	_, err := extractCaptionURL(`<html>no caption data here</html>`)
	if !errors.Is(err, ErrNoCaptions) {
		t.Errorf("error = %v, want ErrNoCaptions", err)
	}
}

func TestParseCaptionsXML(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0" dur="2">Hello &amp; welcome</text>
  <text start="2" dur="3">  to the show  </text>
  <text start="5" dur="1"></text>
</transcript>`)

	got, err := parseCaptionsXML(data)
	if err != nil {
		t.Fatalf("parseCaptionsXML() error = %v", err)
	}
	if got != "Hello & welcome to the show" {
		t.Errorf("parseCaptionsXML() = %q", got)
	}
}

func TestParseCaptionsXML_Empty(t *testing.T) {
	data := []byte(`<transcript></transcript>`)
	if _, err := parseCaptionsXML(data); !errors.Is(err, ErrNoCaptions) {
		t.Errorf("error = %v, want ErrNoCaptions", err)
	}
}
