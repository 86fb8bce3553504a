package ollama

import (
	"reflect"
	"testing"
)

func TestParseDescriptionCleanJSON(t *testing.T) {
	got := parseDescription(`{"description": "a beach at sunset", "tags": ["beach", "sunset"]}`)
	want := Description{Description: "a beach at sunset", Tags: []string{"beach", "sunset"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestParseDescriptionFencedJSON(t *testing.T) {
	raw := "```json\n{\"description\": \"city street\", \"tags\": [\"urban\",]}\n```"
	got := parseDescription(raw)
	if got.Description != "city street" {
		t.Errorf("description = %q, want %q", got.Description, "city street")
	}
	if len(got.Tags) != 1 || got.Tags[0] != "urban" {
		t.Errorf("tags = %v, want [urban]", got.Tags)
	}
}

func TestParseDescriptionFallsBackToRawText(t *testing.T) {
	got := parseDescription("This frame shows a mountain range.")
	if got.Description != "This frame shows a mountain range." {
		t.Errorf("description = %q, want raw text", got.Description)
	}
	if got.Tags != nil {
		t.Errorf("tags = %v, want nil", got.Tags)
	}
}

func TestNewClientRejectsGarbageURL(t *testing.T) {
	if _, err := NewClient("://not-a-url"); err == nil {
		t.Fatal("expected error for malformed URL")
	}
}
