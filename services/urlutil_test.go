package services

import "testing"

func TestNormalizeIIIFURL(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{
			name:  "info.json wird durch Image-Request ersetzt",
			in:    "https://x/y/info.json",
			width: 900,
			want:  "https://x/y/full/900,/0/default.jpg",
		},
		{
			name:  "bestehendes full-Segment wird umgeschrieben",
			in:    "https://iiif.micr.io/abc/full/200,/0/default.jpg",
			width: 800,
			want:  "https://iiif.micr.io/abc/full/800,/0/default.jpg",
		},
		{
			name:  "nackte Basis-URL bekommt den Suffix angehängt",
			in:    "https://iiif.micr.io/abc",
			width: 800,
			want:  "https://iiif.micr.io/abc/full/800,/0/default.jpg",
		},
		{
			name:  "leere Eingabe bleibt leer",
			in:    "",
			width: 800,
			want:  "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeIIIFURL(tc.in, tc.width)
			if got != tc.want {
				t.Errorf("NormalizeIIIFURL(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
			}
			// Idempotenz: zweite Anwendung ändert nichts mehr.
			if again := NormalizeIIIFURL(got, tc.width); again != got {
				t.Errorf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestExtractObjectCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.rijksmuseum.nl/en/collection/SK-C-5", "SK-C-5"},
		{"https://www.rijksmuseum.nl/en/collection/RP-T-1898-A-3689/catalogue", "RP-T-1898-A-3689"},
		{"https://www.rijksmuseum.nl/en/collection/SK-A-1505?lang=en", "SK-A-1505"},
		{"https://example.org/nothing/here", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := ExtractObjectCode(tc.in); got != tc.want {
			t.Errorf("ExtractObjectCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStripNegotiationSuffix(t *testing.T) {
	in := "https://www.rijksmuseum.nl/en/collection/SK-C-5-1a2b3c4d5e6f"
	want := "https://www.rijksmuseum.nl/en/collection/SK-C-5"
	if got := StripNegotiationSuffix(in); got != want {
		t.Errorf("StripNegotiationSuffix(%q) = %q, want %q", in, got, want)
	}
	// Ohne Suffix bleibt die URL unverändert.
	plain := "https://www.rijksmuseum.nl/en/collection/SK-C-5"
	if got := StripNegotiationSuffix(plain); got != plain {
		t.Errorf("StripNegotiationSuffix(%q) = %q, want unchanged", plain, got)
	}
}

func TestFindAccessPoint(t *testing.T) {
	raw := map[string]any{
		"subject_of": []any{
			map[string]any{
				"digitally_carried_by": []any{
					map[string]any{
						"access_point": []any{
							map[string]any{"id": "https://www.rijksmuseum.nl/en/collection/SK-C-5"},
						},
					},
				},
			},
		},
	}
	want := "https://www.rijksmuseum.nl/en/collection/SK-C-5"
	if got := FindAccessPoint(raw); got != want {
		t.Errorf("FindAccessPoint = %q, want %q", got, want)
	}

	if got := FindAccessPoint(map[string]any{"id": "x"}); got != "" {
		t.Errorf("FindAccessPoint without access_point = %q, want empty", got)
	}
}
