package services

import (
	"testing"

	"rijkslens/models"
)

func TestNormalizeMakerName(t *testing.T) {
	h := DefaultHeuristics()

	cases := []struct {
		in   string
		want string
	}{
		{"", models.UnknownArtist},
		{"unknown", models.UnknownArtist},
		{"Unknown Artist", models.UnknownArtist},
		{"onbekend", models.UnknownArtist},
		{"Onbekende kunstenaar", models.UnknownArtist},
		{"n/a", models.UnknownArtist},
		{"niet vermeld", models.UnknownArtist},
		{"anonymous", models.Anonymous},
		{"Anoniem", models.Anonymous},
		{"  Rembrandt van Rijn  ", "Rembrandt van Rijn"},
		{"Johannes Vermeer", "Johannes Vermeer"},
	}

	for _, tc := range cases {
		if got := h.NormalizeMakerName(tc.in); got != tc.want {
			t.Errorf("NormalizeMakerName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLoadHeuristicsMissingFile(t *testing.T) {
	// Fehlende Datei degradiert still auf die Defaults.
	h := LoadHeuristics("/does/not/exist.yaml")
	if len(h.UnknownTokens) == 0 || len(h.RoleTokens) == 0 {
		t.Error("defaults must survive a missing heuristics file")
	}
}
