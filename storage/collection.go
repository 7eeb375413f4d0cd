package storage

import (
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"rijkslens/models"
)

// RecordCache memoiziert aufgelöste Artworks in sqlite. Er dient zwei
// Zwecken: wiederholte Detail-Aufrufe sparen sich den Upstream, und die
// gecachte Menge ist gleichzeitig der Korpus der Offline-Suche.
type RecordCache struct {
	db     *gorm.DB
	ttl    time.Duration
	logger *zap.Logger
}

// NewRecordCache erstellt den Cache über einer offenen gorm-Verbindung.
func NewRecordCache(db *gorm.DB, ttl time.Duration, logger *zap.Logger) *RecordCache {
	return &RecordCache{db: db, ttl: ttl, logger: logger}
}

// Get liefert ein gecachtes Artwork, sofern es noch frisch ist.
func (c *RecordCache) Get(objectNumber string) (models.Artwork, bool) {
	var rec models.CachedRecord
	err := c.db.First(&rec, "object_number = ?", objectNumber).Error
	if err != nil {
		return models.Artwork{}, false
	}
	if time.Since(rec.ResolvedAt) > c.ttl {
		return models.Artwork{}, false
	}

	var art models.Artwork
	if err := json.Unmarshal([]byte(rec.Payload), &art); err != nil {
		c.logger.Warn("Cache-Payload nicht lesbar, Eintrag wird verworfen",
			zap.String("object_number", objectNumber), zap.Error(err))
		c.db.Delete(&models.CachedRecord{}, "object_number = ?", objectNumber)
		return models.Artwork{}, false
	}
	return art, true
}

// Put schreibt ein aufgelöstes Artwork in den Cache (Upsert).
func (c *RecordCache) Put(art models.Artwork) {
	if art.ObjectNumber == "" {
		return
	}
	payload, err := json.Marshal(art)
	if err != nil {
		c.logger.Warn("Artwork nicht serialisierbar", zap.Error(err))
		return
	}

	var year *int
	if y, ok := art.Dating.YearValue(); ok {
		year = &y
	}
	rec := models.CachedRecord{
		ObjectNumber: art.ObjectNumber,
		Title:        art.Title,
		Maker:        art.PrincipalMaker,
		Year:         year,
		Payload:      string(payload),
		ResolvedAt:   time.Now().UTC(),
	}
	if err := c.db.Save(&rec).Error; err != nil {
		c.logger.Warn("Cache-Schreibvorgang fehlgeschlagen",
			zap.String("object_number", art.ObjectNumber), zap.Error(err))
	}
}

// Search durchsucht den lokalen Korpus per LIKE über Titel und Künstler.
// Frische spielt hier keine Rolle; offline ist ein alter Treffer besser
// als keiner.
func (c *RecordCache) Search(query string, limit int) []models.Artwork {
	if limit <= 0 {
		limit = 100
	}
	pattern := "%" + strings.TrimSpace(query) + "%"

	var recs []models.CachedRecord
	err := c.db.
		Where("title LIKE ? OR maker LIKE ?", pattern, pattern).
		Order("object_number").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		c.logger.Warn("Lokale Suche fehlgeschlagen", zap.Error(err))
		return []models.Artwork{}
	}

	out := make([]models.Artwork, 0, len(recs))
	for _, rec := range recs {
		var art models.Artwork
		if err := json.Unmarshal([]byte(rec.Payload), &art); err != nil {
			continue
		}
		out = append(out, art)
	}
	return out
}

// Prune entfernt Einträge, die älter als die doppelte TTL sind; läuft
// periodisch per Cron. Die Schonfrist hält die Offline-Suche nutzbar.
func (c *RecordCache) Prune() int64 {
	cutoff := time.Now().UTC().Add(-2 * c.ttl)
	res := c.db.Delete(&models.CachedRecord{}, "resolved_at < ?", cutoff)
	if res.Error != nil {
		c.logger.Warn("Cache-Pruning fehlgeschlagen", zap.Error(res.Error))
		return 0
	}
	return res.RowsAffected
}

// Count gibt die Größe des lokalen Korpus zurück.
func (c *RecordCache) Count() int64 {
	var n int64
	c.db.Model(&models.CachedRecord{}).Count(&n)
	return n
}
