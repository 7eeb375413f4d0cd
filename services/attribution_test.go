package services

import (
	"testing"

	"rijkslens/models"
)

func productionWith(texts ...string) map[string]any {
	refs := make([]any, 0, len(texts))
	for _, t := range texts {
		refs = append(refs, map[string]any{"content": t})
	}
	return map[string]any{"referred_to_by": refs}
}

func TestClassifyAttribution(t *testing.T) {
	cases := []struct {
		name       string
		production any
		maker      string
		want       models.AttributionTag
	}{
		{
			name:       "workshop gewinnt vor direct",
			production: productionWith("painter: workshop of Rembrandt van Rijn"),
			maker:      "Rembrandt van Rijn",
			want:       models.AttributionWorkshop,
		},
		{
			name:       "leerer Text ergibt unknown",
			production: productionWith(),
			maker:      "Johannes Vermeer",
			want:       models.AttributionUnknown,
		},
		{
			name:       "Text ohne den Künstler ergibt unknown",
			production: productionWith("painter: Frans Hals"),
			maker:      "Johannes Vermeer",
			want:       models.AttributionUnknown,
		},
		{
			name:       "unbekannter Künstler ergibt unknown",
			production: productionWith("painter: somebody"),
			maker:      models.UnknownArtist,
			want:       models.AttributionUnknown,
		},
		{
			name:       "attributed to",
			production: productionWith("attributed to Jan Steen"),
			maker:      "Jan Steen",
			want:       models.AttributionAttributed,
		},
		{
			name:       "circle of",
			production: productionWith("circle of Jan Steen"),
			maker:      "Jan Steen",
			want:       models.AttributionCircle,
		},
		{
			name:       "copy after",
			production: productionWith("copy after Jan Steen"),
			maker:      "Jan Steen",
			want:       models.AttributionAfter,
		},
		{
			name:       "Rollen-Doppelpunkt als direkter Beleg",
			production: productionWith("painter: Jan Steen"),
			maker:      "Jan Steen",
			want:       models.AttributionDirect,
		},
		{
			name:       "Name erwähnt ohne Familien-Treffer ergibt attributed",
			production: productionWith("made in the studio circles around Delft, Jan Steen mentioned"),
			maker:      "Jan Steen",
			want:       models.AttributionAttributed,
		},
		{
			name:       "niederländische Phrase",
			production: productionWith("werkplaats van Rembrandt van Rijn"),
			maker:      "Rembrandt van Rijn",
			want:       models.AttributionWorkshop,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyAttribution(tc.production, tc.maker); got != tc.want {
				t.Errorf("ClassifyAttribution = %q, want %q", got, tc.want)
			}
		})
	}
}
