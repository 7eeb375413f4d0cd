package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"rijkslens/models"
)

// bareObjectCodeRe matcht einen Inventarcode als kompletten String (für
// identified_by-Einträge, in denen der Code ohne URL drumherum steht).
var bareObjectCodeRe = regexp.MustCompile(`^(?i)[A-Z]{1,4}-[A-Z0-9][A-Z0-9-]*$`)

// RecordMapper komponiert Deep-JSON-Suche, URL-Helfer, HTML-Fallback und
// Zuschreibungs-Klassifikator zu einer Funktion: rohes Linked-Art-JSON →
// normalisiertes Artwork. Wirft nie für kaputten Input; jedes Feld hat
// einen sicheren Default.
type RecordMapper struct {
	Logger            *zap.Logger
	Scraper           *PageScraper
	Heuristics        Heuristics
	CollectionBaseURL string
	ImageTargetWidth  int
	// DisableScrape schaltet den HTML-Fallback ab (z.B. für reine
	// Offline-Auflösung aus dem lokalen Cache).
	DisableScrape bool
}

// NewRecordMapper erstellt einen Mapper mit den üblichen Abhängigkeiten.
func NewRecordMapper(logger *zap.Logger, scraper *PageScraper, h Heuristics, collectionBaseURL string, imageWidth int) *RecordMapper {
	return &RecordMapper{
		Logger:            logger,
		Scraper:           scraper,
		Heuristics:        h,
		CollectionBaseURL: strings.TrimRight(collectionBaseURL, "/"),
		ImageTargetWidth:  imageWidth,
	}
}

// MapRecord ist der einzige Einstiegspunkt des Mappers.
//
// Auflösungs-Reihenfolge pro Feld (Details siehe die einzelnen Helfer):
// Titel → Objektcode/Link → Künstler (JSON, dann höchstens EIN Seiten-Fetch)
// → Datierung → Bild (JSON, dann derselbe Seiten-Fetch) → Zuschreibung.
// Die Seite wird nie zweimal geholt: der erste Fetch hält den Text für alle
// nachgelagerten Fallbacks vor.
func (m *RecordMapper) MapRecord(ctx context.Context, raw map[string]any) models.Artwork {
	art := models.Artwork{
		Title:            models.UntitledWork,
		PrincipalMaker:   models.UnknownArtist,
		Materials:        []string{},
		Techniques:       []string{},
		ProductionPlaces: []string{},
		Attribution:      models.AttributionUnknown,
		ImageStatus:      models.ImageNoPublicImage,
		WorkKind:         models.WorkUnknown,
	}
	if raw == nil {
		return art
	}

	sourceID := stringField(raw, "id", "@id")
	producedBy, _ := raw["produced_by"].(map[string]any)

	// 1. Titel
	if t := m.extractTitle(raw); t != "" {
		art.Title = t
	}

	// 2. Objektcode + kanonischer Link
	accessPoint := StripNegotiationSuffix(FindAccessPoint(raw))
	code := ExtractObjectCode(accessPoint)
	if code == "" {
		code = m.codeFromIdentifiedBy(raw)
	}
	switch {
	case code != "":
		art.ObjectNumber = code
		art.Links.Web = m.CollectionBaseURL + "/" + code
	case accessPoint != "":
		art.ObjectNumber = sourceID
		art.Links.Web = accessPoint
	default:
		art.ObjectNumber = sourceID
		art.Links.Web = sourceID
	}

	// Seitentext des HTML-Fallbacks; wird höchstens einmal geholt.
	pageText := ""
	pageFetched := false
	fetchPageOnce := func() string {
		if pageFetched || m.DisableScrape || m.Scraper == nil {
			return pageText
		}
		pageFetched = true
		if strings.HasPrefix(art.Links.Web, "http") {
			pageText = m.Scraper.FetchPage(ctx, art.Links.Web)
		}
		return pageText
	}

	// 3. Künstler: JSON zuerst; HTML-Fallback nur, wenn der Name danach
	// immer noch der Unknown-Sentinel ist (vermeidet unnötige Netz-Calls).
	maker, role := m.extractMaker(producedBy)
	art.PrincipalMaker = m.Heuristics.NormalizeMakerName(maker)
	art.CreatorRole = role
	if art.PrincipalMaker == models.UnknownArtist {
		if text := fetchPageOnce(); text != "" {
			if scraped := m.Scraper.ExtractArtist(text); scraped != "" {
				art.PrincipalMaker = m.Heuristics.NormalizeMakerName(scraped)
			}
			if art.CreatorRole == "" {
				art.CreatorRole = m.Scraper.ExtractRole(text)
			}
		}
	}

	// 4. Datierung
	art.Dating = m.extractDating(producedBy)

	// 5. Materialien / Techniken / Entstehungsorte (best effort)
	art.Materials = labelList(raw["made_of"])
	if producedBy != nil {
		art.Techniques = labelList(producedBy["technique"])
		art.ProductionPlaces = labelList(producedBy["took_place_at"])
	}

	// 6. Bild: Deep-Search zuerst, dann IIIF aus dem Seiten-Markup; wenn
	// beides scheitert, klassifiziert derselbe Seitentext den Grund.
	if candidate := FindBestImageCandidate(raw); candidate != "" {
		art.WebImage.URL = NormalizeIIIFURL(candidate, m.ImageTargetWidth)
		art.ImageStatus = models.ImageOK
	} else {
		text := fetchPageOnce()
		if text != "" {
			if iiif := m.Scraper.ExtractIIIFURL(text); iiif != "" {
				art.WebImage.URL = NormalizeIIIFURL(iiif, m.ImageTargetWidth)
				art.ImageStatus = models.ImageOK
			} else {
				art.ImageStatus = m.Scraper.ClassifyUnavailability(text)
			}
		}
	}

	// 7. Zuschreibung zuletzt, sie hängt am aufgelösten Namen.
	art.Attribution = ClassifyAttribution(producedBy, principalName(art.PrincipalMaker))

	art.WorkKind = m.Heuristics.DeriveWorkKind(art.CreatorRole)
	art.LongTitle = composeLongTitle(art)

	return art
}

// extractTitle nimmt den ersten nicht-leeren identified_by-Content. Steht
// dort nur der Inventarcode, wird ein späterer Nicht-Code-Eintrag bevorzugt.
func (m *RecordMapper) extractTitle(raw map[string]any) string {
	entries, _ := raw["identified_by"].([]any)
	first := ""
	for _, e := range entries {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		content, _ := obj["content"].(string)
		content = strings.TrimSpace(content)
		if content == "" {
			continue
		}
		if first == "" {
			first = content
		}
		if !bareObjectCodeRe.MatchString(content) {
			return content
		}
	}
	return first
}

// codeFromIdentifiedBy sucht einen Inventarcode direkt in den
// identified_by-Einträgen.
func (m *RecordMapper) codeFromIdentifiedBy(raw map[string]any) string {
	entries, _ := raw["identified_by"].([]any)
	for _, e := range entries {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		content, _ := obj["content"].(string)
		content = strings.TrimSpace(content)
		if bareObjectCodeRe.MatchString(content) {
			return content
		}
	}
	return ""
}

// extractMaker liest den ersten benannten Agenten des Produktions-Events
// (auch aus Unter-Parts) plus dessen Rollen-Label.
func (m *RecordMapper) extractMaker(producedBy map[string]any) (name, role string) {
	if producedBy == nil {
		return "", ""
	}

	scan := func(event map[string]any) (string, string) {
		agents, _ := event["carried_out_by"].([]any)
		for _, a := range agents {
			agent, ok := a.(map[string]any)
			if !ok {
				continue
			}
			ids, _ := agent["identified_by"].([]any)
			for _, idEntry := range ids {
				obj, ok := idEntry.(map[string]any)
				if !ok {
					continue
				}
				if content, ok := obj["content"].(string); ok && strings.TrimSpace(content) != "" {
					return strings.TrimSpace(content), firstLabel(agent["classified_as"])
				}
			}
		}
		return "", ""
	}

	if n, r := scan(producedBy); n != "" {
		return n, r
	}
	parts, _ := producedBy["part"].([]any)
	for _, p := range parts {
		part, ok := p.(map[string]any)
		if !ok {
			continue
		}
		if n, r := scan(part); n != "" {
			return n, r
		}
	}
	return "", ""
}

// extractDating liest die Timespan-Grenzen des Produktions-Events: die erste
// der beiden Grenzen (begin, end), die mit vier Ziffern beginnt, liefert
// Jahr und Anzeigedatum (YYYY-MM-DD-Präfix).
func (m *RecordMapper) extractDating(producedBy map[string]any) models.Dating {
	var d models.Dating
	if producedBy == nil {
		return d
	}
	timespan, _ := producedBy["timespan"].(map[string]any)
	if timespan == nil {
		return d
	}

	bob, _ := timespan["begin_of_the_begin"].(string)
	eoe, _ := timespan["end_of_the_end"].(string)
	for _, candidate := range []string{bob, eoe} {
		if len(candidate) < 4 {
			continue
		}
		year, err := strconv.Atoi(candidate[:4])
		if err != nil {
			continue
		}
		d.Year = &year
		if len(candidate) >= 10 {
			d.PresentingDate = candidate[:10]
		} else {
			d.PresentingDate = candidate[:4]
		}
		break
	}
	return d
}

// DeriveWorkKind bildet die Künstler-Rolle auf die grobe Werk-Klassifikation
// ab.
func (h Heuristics) DeriveWorkKind(role string) models.WorkKind {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "":
		return models.WorkUnknown
	case "photographer", "fotograaf":
		return models.WorkPhotograph
	case "engraver", "printmaker", "copyist", "graveur":
		return models.WorkReproduction
	case "painter", "draughtsman", "draftsman", "sculptor", "designer", "schilder":
		return models.WorkOriginal
	default:
		return models.WorkUnknown
	}
}

// principalName gibt den Namen für den Zuschreibungs-Check zurück; die
// Sentinels bleiben unangetastet.
func principalName(maker string) string {
	if maker == models.Anonymous {
		return models.Anonymous
	}
	return maker
}

// composeLongTitle baut den Anzeige-Langtitel "Titel, Künstler, Datum" aus
// den vorhandenen Teilen.
func composeLongTitle(art models.Artwork) string {
	parts := []string{art.Title}
	if art.PrincipalMaker != models.UnknownArtist {
		parts = append(parts, art.PrincipalMaker)
	}
	if art.Dating.PresentingDate != "" {
		parts = append(parts, art.Dating.PresentingDate)
	}
	if len(parts) == 1 && art.Title == models.UntitledWork {
		return ""
	}
	return strings.Join(parts, ", ")
}

// stringField gibt das erste nicht-leere String-Feld der gegebenen Keys
// zurück.
func stringField(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstLabel extrahiert das erste "_label"-Feld aus einer
// classified_as-artigen Liste.
func firstLabel(v any) string {
	list, _ := v.([]any)
	for _, e := range list {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		for _, key := range []string{"_label", "label", "content"} {
			if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// labelList extrahiert alle "_label"-Strings aus einer Liste von
// klassifizierten Referenzen (made_of, technique, took_place_at).
func labelList(v any) []string {
	out := []string{}
	list, _ := v.([]any)
	for _, e := range list {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		for _, key := range []string{"_label", "label", "content"} {
			if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
				break
			}
		}
	}
	return out
}
