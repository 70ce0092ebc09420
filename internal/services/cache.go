package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"smartlens-backend/internal/models"
)

// LessonCache deduplicates generation requests: identical (truncated,
// sanitized) source text maps to the same fingerprint, so re-analyzing the
// same video or pasted text within the TTL skips the upstream call.
// A nil *LessonCache disables caching.
type LessonCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewLessonCache(redisClient *redis.Client, ttl time.Duration) *LessonCache {
	return &LessonCache{redis: redisClient, ttl: ttl}
}

func cacheKey(source string) string {
	sum := sha256.Sum256([]byte(source))
	return "lesson_cache:" + hex.EncodeToString(sum[:])
}

func (c *LessonCache) Get(ctx context.Context, source string) (*models.Lesson, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.redis.Get(ctx, cacheKey(source)).Bytes()
	if err != nil {
		return nil, false
	}

	var lesson models.Lesson
	if err := json.Unmarshal(data, &lesson); err != nil {
		return nil, false
	}
	if len(lesson.Questions) == 0 {
		return nil, false
	}

	return &lesson, true
}

func (c *LessonCache) Set(ctx context.Context, source string, lesson *models.Lesson) {
	if c == nil {
		return
	}

	data, err := json.Marshal(lesson)
	if err != nil {
		return
	}

	if err := c.redis.Set(ctx, cacheKey(source), data, c.ttl).Err(); err != nil {
		log.Printf("Lesson cache write failed: %v", err)
	}
}
