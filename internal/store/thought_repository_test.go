package store

import (
	"encoding/json"
	"testing"
)

func TestNormalizePlatformKeys(t *testing.T) {
	raw := json.RawMessage(`{
		"content": {
			"x_twitter": "short take",
			"instagram": "caption",
			"linkedin_post": "long post",
			"youtube_script": "outline"
		},
		"authenticity_score": 0.8
	}`)

	normalized := NormalizePlatformKeys(raw)

	var payload map[string]any
	if err := json.Unmarshal(normalized, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	content, ok := payload["content"].(map[string]any)
	if !ok {
		t.Fatalf("content object missing: %v", payload)
	}

	for _, canonical := range []string{"twitter", "instagram", "linkedin", "youtube"} {
		if _, ok := content[canonical]; !ok {
			t.Errorf("canonical key %q missing: %v", canonical, content)
		}
	}
	for _, legacy := range []string{"x_twitter", "linkedin_post", "youtube_script"} {
		if _, ok := content[legacy]; ok {
			t.Errorf("legacy key %q survived", legacy)
		}
	}
	if payload["authenticity_score"] != 0.8 {
		t.Error("unrelated fields must pass through")
	}
}

func TestNormalizePlatformKeysPrefersCanonical(t *testing.T) {
	raw := json.RawMessage(`{"twitter": "canonical wins", "x_twitter": "legacy"}`)

	var payload map[string]any
	if err := json.Unmarshal(NormalizePlatformKeys(raw), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload["twitter"] != "canonical wins" {
		t.Errorf("twitter = %v, canonical value clobbered", payload["twitter"])
	}
	if _, ok := payload["x_twitter"]; ok {
		t.Error("legacy key survived")
	}
}

func TestNormalizePlatformKeysPassthrough(t *testing.T) {
	malformed := json.RawMessage(`not json`)
	if got := NormalizePlatformKeys(malformed); string(got) != "not json" {
		t.Errorf("malformed payload must pass through unchanged, got %q", got)
	}

	if got := NormalizePlatformKeys(nil); got != nil {
		t.Errorf("nil payload must stay nil, got %q", got)
	}
}
