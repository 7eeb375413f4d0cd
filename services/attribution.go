package services

import (
	"strings"

	"rijkslens/models"
)

// Phrasen-Familien der Zuschreibungs-Heuristik, in fester Prioritäts-
// Reihenfolge. Spezifischere Einschränkungen (workshop/circle/after) müssen
// vor dem generischen direct-Muster geprüft werden, sonst würde ein
// "workshop of X"-Record mit einer Rollen-Doppelpunkt-Erwähnung an anderer
// Stelle als direct durchgehen.
var attributionFamilies = []struct {
	tag     models.AttributionTag
	phrases []string
}{
	{models.AttributionAttributed, []string{"attributed to", "toegeschreven aan"}},
	{models.AttributionWorkshop, []string{"workshop of", "studio of", "atelier van", "werkplaats van"}},
	{models.AttributionCircle, []string{"circle of", "school of", "follower of", "omgeving van", "school van", "navolger van"}},
	{models.AttributionAfter, []string{"copy after", "after ", "naar "}},
	{models.AttributionDirect, []string{"painter:", "artist:", "schilder:", "maker:"}},
}

// collectReferredToBy sammelt alle Freitext-Annotationen ("referred_to_by")
// des Produktions-Events und seiner Teile in einen Lowercase-Haystack.
func collectReferredToBy(production any) string {
	var parts []string
	walkObjects(production, func(obj map[string]any) bool {
		refs, ok := obj["referred_to_by"].([]any)
		if !ok {
			return true
		}
		for _, r := range refs {
			ref, ok := r.(map[string]any)
			if !ok {
				continue
			}
			if content, ok := ref["content"].(string); ok && strings.TrimSpace(content) != "" {
				parts = append(parts, strings.TrimSpace(content))
			}
		}
		return true
	})
	return foldName(strings.Join(parts, " | "))
}

// ClassifyAttribution bestimmt den Zuschreibungs-Tag aus dem
// Produktions-Event und dem bereits aufgelösten Künstlernamen.
//
// Text, der den Künstler nicht einmal erwähnt, taugt nicht als Beleg für
// dessen Rolle, daher unknown. Trifft keine Familie, aber der Name kommt
// vor, ist der Default attributed: eine bewusst konservative Einstufung,
// keine belegte Direktzuschreibung.
func ClassifyAttribution(production any, maker string) models.AttributionTag {
	if maker == "" || maker == models.UnknownArtist {
		return models.AttributionUnknown
	}

	haystack := collectReferredToBy(production)
	if haystack == "" || !strings.Contains(haystack, foldName(maker)) {
		return models.AttributionUnknown
	}

	for _, fam := range attributionFamilies {
		for _, phrase := range fam.phrases {
			if strings.Contains(haystack, phrase) {
				return fam.tag
			}
		}
	}

	return models.AttributionAttributed
}
