package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/vague/internal/detect"
)

func TestCacheKey(t *testing.T) {
	a := CacheKey("I am a failure.")
	b := CacheKey("I am a failure.")
	c := CacheKey("I am a failure")

	if a != b {
		t.Errorf("Expected identical keys for identical text, got %s and %s", a, b)
	}
	if a == c {
		t.Error("Expected different keys for different text")
	}
	if !strings.HasPrefix(a, "vague:v1:") {
		t.Errorf("Expected versioned prefix, got %s", a)
	}
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	analysis := detect.Analyze("Nothing works.")

	if _, found := c.Get("missing"); found {
		t.Error("Expected miss for unknown key")
	}

	if err := c.Set("k", analysis, 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, found := c.Get("k")
	if !found {
		t.Fatal("Expected hit after Set")
	}
	if got.HasCognitiveDistortion != analysis.HasCognitiveDistortion || len(got.Signals) != len(analysis.Signals) {
		t.Errorf("Expected %+v, got %+v", analysis, got)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 item, got %d", c.Len())
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	if err := c.Set("k", detect.Analysis{}, 20*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	if _, found := c.Get("k"); found {
		t.Error("Expected entry to expire")
	}
}

func TestMemoryCache_LenCountsDistinctKeys(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_ = c.Set("a", detect.Analysis{}, 0)
	_ = c.Set("b", detect.Analysis{}, 0)
	_ = c.Set("a", detect.Analysis{}, 0)

	if c.Len() != 2 {
		t.Errorf("Expected 2 items, got %d", c.Len())
	}
}
