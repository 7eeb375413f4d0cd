package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"rijkslens/models"
)

// PageFetcher ist die plain-GET-Fähigkeit für öffentliche Objektseiten.
type PageFetcher interface {
	FetchPage(ctx context.Context, pageURL string) (string, error)
}

var (
	// "painter (artist): Rembrandt van Rijn"
	artistRoleArtistRe = regexp.MustCompile(`(?i)([a-z][a-z ]{1,30})\(artist\)\s*:\s*([^\r\n<]{2,80})`)

	// Namenszeile gefolgt von Lebensdaten: "Johannes Vermeer, 1632 - 1675"
	artistLifespanRe = regexp.MustCompile(`(\p{Lu}[\p{L}'.-]+(?:\s+[\p{L}'.-]+){1,4}),?\s*\d{4}\s*[-–]\s*\d{4}`)

	// Alle URLs im Seiten-Markup.
	pageURLRe = regexp.MustCompile(`https?://[^\s"'<>\\]+`)
)

// PageScraper ist der HTML-Fallback: er wird nur aufgerufen, wenn die
// JSON-Extraktion ein Pflichtfeld (Künstler oder Bild) nicht liefern konnte.
// Jeder Fehler degradiert auf leere Werte; dieser Layer ist rein advisorisch
// und darf die Auflösung eines Records nie abbrechen.
type PageScraper struct {
	Fetcher    PageFetcher
	Logger     *zap.Logger
	Heuristics Heuristics

	roleRe *regexp.Regexp
}

// NewPageScraper erstellt einen Scraper mit den konfigurierten Rollen-Tokens.
func NewPageScraper(fetcher PageFetcher, logger *zap.Logger, h Heuristics) *PageScraper {
	escaped := make([]string, 0, len(h.RoleTokens))
	for _, t := range h.RoleTokens {
		escaped = append(escaped, regexp.QuoteMeta(t))
	}
	roleRe := regexp.MustCompile(fmt.Sprintf(`(?i)\b(%s)\s*:\s*([^\r\n<]{2,80})`, strings.Join(escaped, "|")))
	return &PageScraper{Fetcher: fetcher, Logger: logger, Heuristics: h, roleRe: roleRe}
}

// FetchPage holt die Seite; Fehler werden geloggt und als leerer Text
// zurückgegeben, damit der Aufrufer auf Defaults degradieren kann.
func (ps *PageScraper) FetchPage(ctx context.Context, pageURL string) string {
	if ps.Fetcher == nil || strings.TrimSpace(pageURL) == "" {
		return ""
	}
	body, err := ps.Fetcher.FetchPage(ctx, pageURL)
	if err != nil {
		ps.Logger.Debug("HTML-Fallback-Fetch fehlgeschlagen", zap.String("url", pageURL), zap.Error(err))
		return ""
	}
	return body
}

// ExtractArtist sucht einen Künstlernamen im Seitentext. Die Muster werden
// strikt nacheinander probiert; ein späteres nur, wenn das frühere nichts
// geliefert hat:
//  1. "<role> (artist): <Name>"
//  2. "<role>: <Name>" für die bekannten Rollen-Tokens
//  3. Namenszeile gefolgt von Lebensdaten ("<Name>, YYYY - YYYY")
func (ps *PageScraper) ExtractArtist(pageText string) string {
	if m := artistRoleArtistRe.FindStringSubmatch(pageText); m != nil {
		return cleanScrapedName(m[2])
	}
	if m := ps.roleRe.FindStringSubmatch(pageText); m != nil {
		return cleanScrapedName(m[2])
	}
	if m := artistLifespanRe.FindStringSubmatch(pageText); m != nil {
		return cleanScrapedName(m[1])
	}
	return ""
}

// ExtractRole liefert das Rollen-Label, falls die Seite eines der bekannten
// Rollen-Tokens vor einem Namen trägt.
func (ps *PageScraper) ExtractRole(pageText string) string {
	if m := ps.roleRe.FindStringSubmatch(pageText); m != nil {
		return strings.ToLower(strings.TrimSpace(m[1]))
	}
	return ""
}

// ExtractIIIFURL sucht im Markup eine IIIF-URL; bevorzugt wird eine, die auf
// das Info-Dokument endet.
func (ps *PageScraper) ExtractIIIFURL(pageText string) string {
	urls := pageURLRe.FindAllString(pageText, -1)

	var fallback string
	for _, u := range urls {
		u = strings.TrimRight(u, ".,;)")
		if !strings.Contains(strings.ToLower(u), "iiif") {
			continue
		}
		if strings.HasSuffix(u, "/info.json") {
			return u
		}
		if fallback == "" {
			fallback = u
		}
	}
	return fallback
}

// Phrasen für die Unavailability-Klassifikation. page_missing gewinnt vor
// copyright: bei fehlender Seite ist der Copyright-Status gar nicht
// feststellbar.
var (
	pageMissingPhrases = []string{
		"page does not exist", "page you are looking for does not exist",
		"page not found", "pagina niet gevonden", "bestaat niet",
	}
	copyrightPhrases = []string{
		"due to copyright", "copyright restrictions", "for copyright reasons",
		"vanwege auteursrecht", "auteursrechtelijk",
	}
)

// ClassifyUnavailability bestimmt, warum kein Bild verfügbar ist.
func (ps *PageScraper) ClassifyUnavailability(pageText string) models.ImageStatus {
	lower := strings.ToLower(pageText)

	for _, p := range pageMissingPhrases {
		if strings.Contains(lower, p) {
			return models.ImagePageMissing
		}
	}
	for _, p := range copyrightPhrases {
		if strings.Contains(lower, p) {
			return models.ImageCopyright
		}
	}
	return models.ImageNoPublicImage
}

// cleanScrapedName entfernt Markup-Reste und überschüssige Interpunktion aus
// einem gescrapten Namen.
func cleanScrapedName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ",;:.")
	// Lebensdaten am Ende abschneiden ("Rembrandt van Rijn, 1606 - 1669")
	if i := regexp.MustCompile(`,?\s*\d{4}\s*[-–]`).FindStringIndex(s); i != nil {
		s = strings.TrimSpace(s[:i[0]])
	}
	return strings.TrimSpace(strings.Trim(s, ",;:."))
}
