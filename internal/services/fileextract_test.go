package services

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func TestExtractText_TXT(t *testing.T) {
	svc := NewFileExtractService()

	got, err := svc.ExtractText("notes.txt", []byte("line one\r\n\r\n\r\nline two\r\n"))
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}
	if got != "line one\n\nline two" {
		t.Errorf("ExtractText() = %q", got)
	}
}

func TestExtractText_EmptyTXT(t *testing.T) {
	svc := NewFileExtractService()
	if _, err := svc.ExtractText("empty.txt", []byte("  \n \t ")); err == nil {
		t.Error("expected error for empty text file")
	}
}

func TestExtractText_UnsupportedType(t *testing.T) {
	svc := NewFileExtractService()
	if _, err := svc.ExtractText("image.png", []byte{0x89}); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestExtractText_DOCX(t *testing.T) {
	documentXML := `<?xml version="1.0"?>
<w:document><w:body>
<w:p><w:r><w:t>First paragraph with &amp; entity</w:t></w:r></w:p>
<w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p>
</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	svc := NewFileExtractService()
	got, err := svc.ExtractText("doc.docx", buf.Bytes())
	if err != nil {
		t.Fatalf("ExtractText() error = %v", err)
	}

	if !strings.Contains(got, "First paragraph with & entity") {
		t.Errorf("missing first paragraph: %q", got)
	}
	if !strings.Contains(got, "Second paragraph") {
		t.Errorf("missing second paragraph: %q", got)
	}
}

func TestStripDOCXML_Breaks(t *testing.T) {
	src := []byte(`<w:p><w:t>a</w:t></w:p><w:p><w:t>b</w:t><w:br/><w:t>c</w:t></w:p>`)
	got := stripDOCXML(src)

	if !strings.Contains(got, "a\n") {
		t.Errorf("paragraph end should become newline: %q", got)
	}
	if !strings.Contains(got, "b\nc") {
		t.Errorf("w:br should become newline: %q", got)
	}
}

func TestNormalizeExtractedText(t *testing.T) {
	in := "  one  \n\n\n\n two \r\nthree\r"
	got := normalizeExtractedText(in)
	if got != "one\n\ntwo\nthree" {
		t.Errorf("normalizeExtractedText() = %q", got)
	}
}
