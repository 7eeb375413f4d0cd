package services

import (
	"context"

	"go.uber.org/zap"

	"rijkslens/models"
	"rijkslens/storage"
)

// ObjectResolver kapselt die Upstream-Fähigkeiten für Einzelobjekt-Abrufe.
type ObjectResolver interface {
	ResolveObjectNumber(ctx context.Context, objectNumber string) (string, error)
	FetchRecord(ctx context.Context, pidURL string) (map[string]any, error)
}

// ArtworkService löst einzelne Objektnummern zu normalisierten Artworks
// auf, mit sqlite-Memoization davor.
type ArtworkService struct {
	Resolver ObjectResolver
	Mapper   *RecordMapper
	Cache    *storage.RecordCache
	Logger   *zap.Logger
}

// NewArtworkService erstellt den Service; cache darf nil sein.
func NewArtworkService(resolver ObjectResolver, mapper *RecordMapper, cache *storage.RecordCache, logger *zap.Logger) *ArtworkService {
	return &ArtworkService{Resolver: resolver, Mapper: mapper, Cache: cache, Logger: logger}
}

// FetchByObjectNumber liefert das normalisierte Artwork zu einem
// Inventarcode. Frische Cache-Treffer sparen den kompletten
// Upstream-Roundtrip.
func (a *ArtworkService) FetchByObjectNumber(ctx context.Context, objectNumber string) (models.Artwork, error) {
	if a.Cache != nil {
		if art, ok := a.Cache.Get(objectNumber); ok {
			a.Logger.Debug("Cache-Treffer", zap.String("object_number", objectNumber))
			return art, nil
		}
	}

	raw, err := a.FetchRawRecord(ctx, objectNumber)
	if err != nil {
		return models.Artwork{}, err
	}
	art := a.Mapper.MapRecord(ctx, raw)
	if a.Cache != nil {
		a.Cache.Put(art)
	}
	return art, nil
}

// FetchRawRecord liefert das rohe Linked-Art-Dokument (DEV-Endpunkt und CLI).
func (a *ArtworkService) FetchRawRecord(ctx context.Context, objectNumber string) (map[string]any, error) {
	pid, err := a.Resolver.ResolveObjectNumber(ctx, objectNumber)
	if err != nil {
		return nil, err
	}
	return a.Resolver.FetchRecord(ctx, pid)
}
