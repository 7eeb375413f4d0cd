package services

import (
	"fmt"
	"regexp"
	"strings"
)

// Reine URL/Text-Helfer ohne I/O.

var (
	// Inventarcodes wie SK-C-5 oder RP-T-1898-A-3689: kurzes
	// Buchstaben-Präfix, dann "-" und Alphanumerik, als eigenes Pfadsegment.
	objectCodeRe = regexp.MustCompile(`(?i)/([A-Z]{1,4}-[A-Z0-9][A-Z0-9-]*)(?:[/?#]|$)`)

	// Content-Negotiation-Suffix der Resolver-URLs: "-" plus 10+ Hex-Zeichen
	// am Ende.
	negotiationSuffixRe = regexp.MustCompile(`-[0-9a-f]{10,}$`)

	// "full/..."-Segment einer IIIF-Image-Request-URL.
	iiifFullSegmentRe = regexp.MustCompile(`/full/.*$`)
)

// NormalizeIIIFURL formt eine beliebige IIIF-artige URL in einen
// "full image"-Request mit fester Zielbreite um. Die Funktion ist idempotent:
// das Ergebnis endet immer auf full/<width>,/0/default.jpg.
func NormalizeIIIFURL(rawURL string, targetWidth int) string {
	u := strings.TrimSpace(rawURL)
	if u == "" {
		return ""
	}
	suffix := fmt.Sprintf("/full/%d,/0/default.jpg", targetWidth)

	if strings.HasSuffix(u, "/info.json") {
		return strings.TrimSuffix(u, "/info.json") + suffix
	}
	if loc := iiifFullSegmentRe.FindStringIndex(u); loc != nil {
		return u[:loc[0]] + suffix
	}
	return strings.TrimRight(u, "/") + suffix
}

// ExtractObjectCode sucht einen kanonischen Inventarcode in einem
// Pfadsegment der URL; leerer String wenn keiner gefunden wurde.
func ExtractObjectCode(rawURL string) string {
	m := objectCodeRe.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// StripNegotiationSuffix entfernt den Hash-artigen Content-Negotiation-Anhang
// einer öffentlichen Seiten-URL und lässt die stabile kanonische URL übrig.
func StripNegotiationSuffix(rawURL string) string {
	return negotiationSuffixRe.ReplaceAllString(rawURL, "")
}

// FindAccessPoint sucht rekursiv (in stabiler Dokumentreihenfolge) das erste
// Objekt mit einer "access_point"-Liste, deren erster Eintrag eine
// Identifier-URL trägt, und gibt diese zurück; leer wenn keiner existiert.
func FindAccessPoint(raw any) string {
	var found string
	walkObjects(raw, func(obj map[string]any) bool {
		ap, ok := obj["access_point"]
		if !ok {
			return true
		}
		list, ok := ap.([]any)
		if !ok || len(list) == 0 {
			return true
		}
		first, ok := list[0].(map[string]any)
		if !ok {
			return true
		}
		for _, key := range []string{"id", "@id"} {
			if s, ok := first[key].(string); ok && strings.TrimSpace(s) != "" {
				found = strings.TrimSpace(s)
				return false
			}
		}
		return true
	})
	return found
}
