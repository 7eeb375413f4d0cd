package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"rijkslens/models"
)

// Discovery liefert Kandidaten-PIDs für ein einzelnes Suchfeld.
type Discovery interface {
	SearchIDs(ctx context.Context, field, query string, limit int) ([]string, error)
}

// RecordResolver dereferenziert eine PID zum rohen Linked-Art-Dokument.
type RecordResolver interface {
	FetchRecord(ctx context.Context, pidURL string) (map[string]any, error)
}

// SearchService ist der Such-Orchestrator: Discovery über mehrere Felder,
// Deduplizierung, parallele Auflösung durch den Mapper, dann lokale
// Sortierung und Paginierung.
type SearchService struct {
	Discovery  Discovery
	Resolver   RecordResolver
	Mapper     *RecordMapper
	Logger     *zap.Logger
	Fields     []string
	MaxResults int
	Workers    int
}

// NewSearchService erstellt den Orchestrator mit den konfigurierten
// Suchfeldern und Limits.
func NewSearchService(discovery Discovery, resolver RecordResolver, mapper *RecordMapper, logger *zap.Logger, fields []string, maxResults, workers int) *SearchService {
	if workers <= 0 {
		workers = 8
	}
	if maxResults <= 0 {
		maxResults = 100
	}
	return &SearchService{
		Discovery:  discovery,
		Resolver:   resolver,
		Mapper:     mapper,
		Logger:     logger,
		Fields:     fields,
		MaxResults: maxResults,
		Workers:    workers,
	}
}

// Search führt eine komplette Suche aus. Upstream-Totalausfall wird als
// leeres Ergebnis mit total=0 zurückgegeben, nie als Fehler über die
// Modulgrenze geworfen; einzelne gescheiterte Kandidaten werden
// übersprungen und geloggt.
func (s *SearchService) Search(ctx context.Context, params models.SearchParams) models.SearchResult {
	query := strings.TrimSpace(params.Query)
	if query == "" {
		return emptyResult(params)
	}

	pids := s.discover(ctx, query)
	if len(pids) == 0 {
		return emptyResult(params)
	}

	items := s.resolveAll(ctx, pids)
	items = filterByObjectType(items, params.ObjectType)
	SortArtworks(items, params.Sort)
	return paginate(items, params.Page, params.PageSize)
}

// discover fragt die Suchfelder in Prioritätsreihenfolge ab und sammelt
// eindeutige PIDs. Ein späteres Feld wird nur befragt, wenn die früheren
// das Limit nicht decken.
func (s *SearchService) discover(ctx context.Context, query string) []string {
	seen := make(map[string]struct{})
	ordered := make([]string, 0, s.MaxResults)

	for _, field := range s.Fields {
		if len(ordered) >= s.MaxResults {
			break
		}
		ids, err := s.Discovery.SearchIDs(ctx, field, query, s.MaxResults)
		if err != nil {
			s.Logger.Warn("Discovery über Feld fehlgeschlagen",
				zap.String("field", field), zap.Error(err))
			continue
		}
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ordered = append(ordered, id)
			if len(ordered) >= s.MaxResults {
				break
			}
		}
	}
	return ordered
}

// resolveAll löst alle Kandidaten parallel auf. Die Discovery-Reihenfolge
// bleibt erhalten (Slots nach Index); Fehler eines Kandidaten kosten nur
// diesen einen Slot.
func (s *SearchService) resolveAll(ctx context.Context, pids []string) []models.Artwork {
	slots := make([]*models.Artwork, len(pids))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, s.Workers)

	for i, pid := range pids {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(i int, pid string) {
			defer wg.Done()
			defer func() { <-semaphore }()
			defer func() {
				if r := recover(); r != nil {
					s.Logger.Warn("Kandidaten-Auflösung gepanict",
						zap.String("pid", pid), zap.Any("panic", r))
				}
			}()

			raw, err := s.Resolver.FetchRecord(ctx, pid)
			if err != nil {
				s.Logger.Warn("Kandidat konnte nicht aufgelöst werden",
					zap.String("pid", pid), zap.Error(err))
				return
			}
			art := s.Mapper.MapRecord(ctx, raw)
			slots[i] = &art
		}(i, pid)
	}
	wg.Wait()

	items := make([]models.Artwork, 0, len(pids))
	for _, slot := range slots {
		if slot != nil {
			items = append(items, *slot)
		}
	}
	return items
}

// filterByObjectType filtert lokal auf die grobe Werk-Klassifikation.
func filterByObjectType(items []models.Artwork, objectType string) []models.Artwork {
	objectType = strings.ToLower(strings.TrimSpace(objectType))
	if objectType == "" {
		return items
	}
	filtered := items[:0:0]
	for _, art := range items {
		if string(art.WorkKind) == objectType {
			filtered = append(filtered, art)
		}
	}
	return filtered
}

// sortYearKey liefert den Sortierschlüssel für die Jahres-Modi. Fehlende
// Jahre sortieren in beiden Richtungen ans Ende (chronologic: +unendlich,
// achronologic: negiert ebenfalls +unendlich).
func sortYearKey(art models.Artwork, descending bool) float64 {
	year, ok := art.Dating.YearValue()
	if !ok {
		return math.Inf(1)
	}
	if descending {
		return -float64(year)
	}
	return float64(year)
}

// SortArtworks sortiert stabil nach dem gewählten Modus.
func SortArtworks(items []models.Artwork, mode models.SortMode) {
	maker := func(a models.Artwork) string { return strings.ToLower(a.PrincipalMaker) }
	title := func(a models.Artwork) string { return strings.ToLower(a.Title) }

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch mode {
		case models.SortTitle:
			if title(a) != title(b) {
				return title(a) < title(b)
			}
			return maker(a) < maker(b)
		case models.SortChronologic, models.SortAchronologic:
			ka := sortYearKey(a, mode == models.SortAchronologic)
			kb := sortYearKey(b, mode == models.SortAchronologic)
			if ka != kb {
				return ka < kb
			}
			if maker(a) != maker(b) {
				return maker(a) < maker(b)
			}
			return title(a) < title(b)
		default: // relevance, artist
			if maker(a) != maker(b) {
				return maker(a) < maker(b)
			}
			return title(a) < title(b)
		}
	})
}

// paginate schneidet eine 1-basierte Seite aus der fertig sortierten Menge.
// page wird auf [1, maxPages] geklemmt; total ist die lokale Mengengröße.
func paginate(items []models.Artwork, page, pageSize int) models.SearchResult {
	if pageSize <= 0 {
		pageSize = 20
	}
	total := len(items)
	maxPages := (total + pageSize - 1) / pageSize
	if maxPages < 1 {
		maxPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > maxPages {
		page = maxPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return models.SearchResult{
		Items:    append([]models.Artwork{}, items[start:end]...),
		Total:    total,
		Page:     page,
		MaxPages: maxPages,
	}
}

func emptyResult(_ models.SearchParams) models.SearchResult {
	return models.SearchResult{Items: []models.Artwork{}, Total: 0, Page: 1, MaxPages: 1}
}
