package services

import (
	"encoding/json"
	"sort"
	"strings"
)

// maxWalkDepth begrenzt die Rekursion über beliebig verschachtelte Records.
// Reale Linked-Art-Dokumente bleiben weit unter 100 Ebenen.
const maxWalkDepth = 100

// DecodeRecord dekodiert rohes JSON in einen generischen Baum (maps/slices).
// UseNumber, damit numerische Werte nicht als float64 verfälscht werden.
func DecodeRecord(raw []byte) (any, error) {
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// walkStrings besucht rekursiv alle String-Blätter eines JSON-Baums in
// stabiler Dokumentreihenfolge (Map-Keys sortiert, Listen in Ordnung) und
// ruft fn für jeden nicht-leeren String auf. fn gibt false zurück, um die
// Traversierung abzubrechen.
func walkStrings(v any, fn func(s string) bool) {
	var walk func(x any, depth int) bool
	walk = func(x any, depth int) bool {
		if depth > maxWalkDepth {
			return true
		}
		switch t := x.(type) {
		case string:
			s := strings.TrimSpace(t)
			if s != "" {
				return fn(s)
			}
		case []any:
			for _, it := range t {
				if !walk(it, depth+1) {
					return false
				}
			}
		case map[string]any:
			// stabile Reihenfolge der Keys für deterministische Ergebnisse
			keys := make([]string, 0, len(t))
			for k := range t {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if !walk(t[k], depth+1) {
					return false
				}
			}
		}
		return true
	}
	walk(v, 0)
}

// walkObjects besucht rekursiv alle Objekt-Knoten des Baums (stabile
// Reihenfolge wie walkStrings). fn gibt false zurück, um abzubrechen.
func walkObjects(v any, fn func(obj map[string]any) bool) {
	var walk func(x any, depth int) bool
	walk = func(x any, depth int) bool {
		if depth > maxWalkDepth {
			return true
		}
		switch t := x.(type) {
		case []any:
			for _, it := range t {
				if !walk(it, depth+1) {
					return false
				}
			}
		case map[string]any:
			if !fn(t) {
				return false
			}
			keys := make([]string, 0, len(t))
			for k := range t {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if !walk(t[k], depth+1) {
					return false
				}
			}
		}
		return true
	}
	walk(v, 0)
}

// CollectURLStrings sammelt jede String-Blatt-Wert, der mit einem
// URL-Schema beginnt. Es wird nicht in String-Inhalte hinein rekursiert.
func CollectURLStrings(raw any) []string {
	var urls []string
	walkStrings(raw, func(s string) bool {
		if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
			urls = append(urls, s)
		}
		return true
	})
	return urls
}

// rasterExtensions sind die bekannten Bild-Endungen für die erste Stufe der
// Kandidaten-Auswahl.
var rasterExtensions = []string{".jpg", ".jpeg", ".png", ".tif", ".tiff", ".webp"}

// FindBestImageCandidate wählt aus allen URL-Strings des Records den besten
// Bild-Kandidaten:
//  1. die erste URL, deren Pfad auf eine Bild-Endung endet
//  2. sonst die erste URL, die sowohl einen IIIF-Marker als auch die
//     Institutions-Domain enthält
//
// Die Zwei-Stufen-Reihenfolge ist bewusst: Endungs-Treffer sind billiger zu
// validieren und selten dekorative Assets.
func FindBestImageCandidate(raw any) string {
	urls := CollectURLStrings(raw)

	for _, u := range urls {
		path := u
		if i := strings.IndexAny(u, "?#"); i >= 0 {
			path = u[:i]
		}
		lower := strings.ToLower(path)
		for _, ext := range rasterExtensions {
			if strings.HasSuffix(lower, ext) {
				return u
			}
		}
	}

	for _, u := range urls {
		lower := strings.ToLower(u)
		if strings.Contains(lower, "iiif") && strings.Contains(lower, "rijksmuseum") {
			return u
		}
	}

	return ""
}
