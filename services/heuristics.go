package services

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Heuristics bündelt die institution-spezifischen Token-Mengen der
// Extraktions-Heuristiken. Die eingebauten Defaults sind ein Minimum und
// können über eine optionale YAML-Datei erweitert werden.
type Heuristics struct {
	// Namen, die als "unbekannter Künstler" gelten (case-insensitive).
	UnknownTokens []string `yaml:"unknown_tokens"`
	// Namen, die als explizit anonym gelten.
	AnonymousTokens []string `yaml:"anonymous_tokens"`
	// Rollen-Tokens, die der HTML-Fallback-Extractor erkennt.
	RoleTokens []string `yaml:"role_tokens"`
}

// DefaultHeuristics liefert die eingebauten Token-Mengen.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		UnknownTokens: []string{
			"", "unknown", "unknown artist", "onbekend", "onbekende kunstenaar",
			"n/a", "niet vermeld",
		},
		AnonymousTokens: []string{"anonymous", "anoniem"},
		RoleTokens: []string{
			"painter", "engraver", "draughtsman", "draftsman", "printmaker",
			"photographer", "sculptor", "designer", "publisher", "artist",
		},
	}
}

// LoadHeuristics lädt Defaults plus optionale YAML-Erweiterungen.
// Eine fehlende oder kaputte Datei degradiert still auf die Defaults.
func LoadHeuristics(path string) Heuristics {
	h := DefaultHeuristics()
	if path == "" {
		return h
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return h
	}
	var extra Heuristics
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return h
	}
	h.UnknownTokens = mergeTokens(h.UnknownTokens, extra.UnknownTokens)
	h.AnonymousTokens = mergeTokens(h.AnonymousTokens, extra.AnonymousTokens)
	h.RoleTokens = mergeTokens(h.RoleTokens, extra.RoleTokens)
	return h
}

func mergeTokens(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	for _, t := range base {
		seen[strings.ToLower(t)] = true
	}
	for _, t := range extra {
		key := strings.ToLower(strings.TrimSpace(t))
		if !seen[key] {
			seen[key] = true
			base = append(base, strings.TrimSpace(t))
		}
	}
	return base
}
