package services

import (
	"reflect"
	"testing"
)

func TestCollectURLStrings(t *testing.T) {
	raw := map[string]any{
		"b": "https://example.org/two",
		"a": "https://example.org/one",
		"c": []any{
			map[string]any{"id": "not a url"},
			"http://example.org/three",
		},
	}
	got := CollectURLStrings(raw)
	// Map-Keys werden sortiert besucht, das Ergebnis ist deterministisch.
	want := []string{
		"https://example.org/one",
		"https://example.org/two",
		"http://example.org/three",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CollectURLStrings = %v, want %v", got, want)
	}
}

func TestFindBestImageCandidate(t *testing.T) {
	t.Run("Bild-Endung gewinnt vor IIIF-Marker", func(t *testing.T) {
		raw := map[string]any{
			"a": "https://iiif.rijksmuseum.nl/some/document",
			"b": "https://example.org/photo.JPG?token=abc",
		}
		want := "https://example.org/photo.JPG?token=abc"
		if got := FindBestImageCandidate(raw); got != want {
			t.Errorf("FindBestImageCandidate = %q, want %q", got, want)
		}
	})

	t.Run("zweite Stufe braucht IIIF und Institutions-Domain", func(t *testing.T) {
		raw := map[string]any{
			"a": "https://iiif.elsewhere.org/abc",
			"b": "https://iiif.rijksmuseum.nl/image/SK-C-5",
		}
		want := "https://iiif.rijksmuseum.nl/image/SK-C-5"
		if got := FindBestImageCandidate(raw); got != want {
			t.Errorf("FindBestImageCandidate = %q, want %q", got, want)
		}
	})

	t.Run("keine Kandidaten", func(t *testing.T) {
		raw := map[string]any{"a": "https://example.org/page.html"}
		if got := FindBestImageCandidate(raw); got != "" {
			t.Errorf("FindBestImageCandidate = %q, want empty", got)
		}
	})
}

func TestWalkDeeplyNested(t *testing.T) {
	// Tiefe Verschachtelung über dem Limit darf weder panicken noch hängen.
	var v any = "https://example.org/leaf.jpg"
	for i := 0; i < 300; i++ {
		v = map[string]any{"nested": v}
	}
	if got := FindBestImageCandidate(v); got != "" {
		t.Errorf("expected traversal to stop at depth limit, got %q", got)
	}

	// Unter dem Limit wird das Blatt gefunden.
	v = "https://example.org/leaf.jpg"
	for i := 0; i < 10; i++ {
		v = map[string]any{"nested": v}
	}
	if got := FindBestImageCandidate(v); got != "https://example.org/leaf.jpg" {
		t.Errorf("FindBestImageCandidate = %q, want leaf", got)
	}
}

func TestDecodeRecordUseNumber(t *testing.T) {
	v, err := DecodeRecord([]byte(`{"year": 1642}`))
	if err != nil {
		t.Fatalf("DecodeRecord: %v", err)
	}
	obj := v.(map[string]any)
	if _, isFloat := obj["year"].(float64); isFloat {
		t.Error("numbers must not be decoded as float64")
	}
}
