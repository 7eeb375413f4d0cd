package services

import (
	"strings"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"rijkslens/models"
)

// foldName normalisiert einen Namen für Vergleiche: NFC, trim, lowercase.
// NFC, damit "Dürer" aus unterschiedlichen Quellen identisch matcht.
func foldName(s string) string {
	normalized, _, err := transform.String(norm.NFC, s)
	if err != nil {
		normalized = s
	}
	return strings.ToLower(strings.TrimSpace(normalized))
}

// NormalizeMakerName bildet einen rohen Künstlernamen auf eine der drei
// normalisierten Formen ab: einen bereinigten Namen, "anonymous" oder
// "Unknown artist". Gilt überall, wo ein Name auftaucht (auch aus dem
// HTML-Fallback).
func (h Heuristics) NormalizeMakerName(raw string) string {
	folded := foldName(raw)

	for _, t := range h.UnknownTokens {
		if folded == strings.ToLower(t) {
			return models.UnknownArtist
		}
	}
	for _, t := range h.AnonymousTokens {
		if folded == strings.ToLower(t) {
			return models.Anonymous
		}
	}
	return strings.TrimSpace(raw)
}
