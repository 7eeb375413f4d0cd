package models

import "time"

// CachedRecord ist die sqlite-Zeile des lokalen Record-Caches. Titel,
// Künstler und Jahr liegen als eigene Spalten, damit die Offline-Suche ohne
// JSON-Parsing filtern kann; das vollständige Artwork steckt als JSON im
// Payload.
type CachedRecord struct {
	ObjectNumber string    `gorm:"primaryKey" json:"object_number"`
	Title        string    `gorm:"index" json:"title"`
	Maker        string    `gorm:"index" json:"maker"`
	Year         *int      `json:"year,omitempty"`
	Payload      string    `json:"-"`
	ResolvedAt   time.Time `gorm:"index" json:"resolved_at"`
}
