package models

import "strings"

// SortMode bestimmt die lokale Sortierung der Suchergebnisse.
type SortMode string

const (
	SortRelevance    SortMode = "relevance"
	SortArtist       SortMode = "artist"
	SortTitle        SortMode = "title"
	SortChronologic  SortMode = "chronologic"
	SortAchronologic SortMode = "achronologic"
)

// ParseSortMode normalisiert einen Sort-Parameter; unbekannte Werte fallen
// auf relevance zurück.
func ParseSortMode(s string) SortMode {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case SortArtist:
		return SortArtist
	case SortTitle:
		return SortTitle
	case SortChronologic:
		return SortChronologic
	case SortAchronologic:
		return SortAchronologic
	default:
		return SortRelevance
	}
}

// SearchParams sind die normalisierten Suchparameter des Such-Orchestrators.
type SearchParams struct {
	Query      string   `json:"query"`
	ObjectType string   `json:"object_type,omitempty"`
	Sort       SortMode `json:"sort"`
	PageSize   int      `json:"page_size"`
	Page       int      `json:"page"`
}

// SearchResult ist eine Ergebnisseite plus Metadaten der lokalen Paginierung.
// Total ist die Größe der lokal gefilterten Menge, kein Remote-Count.
type SearchResult struct {
	Items    []Artwork `json:"items"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	MaxPages int       `json:"max_pages"`
}
