package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"rijkslens/models"
)

type stubFetcher struct {
	body string
	err  error
}

func (s stubFetcher) FetchPage(ctx context.Context, pageURL string) (string, error) {
	return s.body, s.err
}

func newTestScraper(body string, err error) *PageScraper {
	return NewPageScraper(stubFetcher{body: body, err: err}, zap.NewNop(), DefaultHeuristics())
}

func TestExtractArtistPatternPriority(t *testing.T) {
	ps := newTestScraper("", nil)

	cases := []struct {
		name string
		page string
		want string
	}{
		{
			name: "role-(artist)-Muster zuerst",
			page: "painter (artist): Rembrandt van Rijn\nJohannes Vermeer, 1632 - 1675",
			want: "Rembrandt van Rijn",
		},
		{
			name: "Rollen-Doppelpunkt als zweites",
			page: "some header\nengraver: Hendrick Goltzius\nmore text",
			want: "Hendrick Goltzius",
		},
		{
			name: "Lebensdaten-Muster als letztes",
			page: "some header\nJohannes Vermeer, 1632 - 1675\nmore text",
			want: "Johannes Vermeer",
		},
		{
			name: "nichts gefunden",
			page: "just some page text without artists",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ps.ExtractArtist(tc.page); got != tc.want {
				t.Errorf("ExtractArtist = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractArtistStripsLifespan(t *testing.T) {
	ps := newTestScraper("", nil)
	page := "painter (artist): Rembrandt van Rijn, 1606 - 1669"
	if got := ps.ExtractArtist(page); got != "Rembrandt van Rijn" {
		t.Errorf("ExtractArtist = %q, want name without lifespan", got)
	}
}

func TestExtractIIIFURLPrefersInfoJSON(t *testing.T) {
	ps := newTestScraper("", nil)
	page := `<img src="https://iiif.micr.io/abc/full/200,/0/default.jpg">
<script>const u = "https://iiif.micr.io/abc/info.json";</script>`
	want := "https://iiif.micr.io/abc/info.json"
	if got := ps.ExtractIIIFURL(page); got != want {
		t.Errorf("ExtractIIIFURL = %q, want %q", got, want)
	}
}

func TestClassifyUnavailabilityPriority(t *testing.T) {
	ps := newTestScraper("", nil)

	cases := []struct {
		name string
		page string
		want models.ImageStatus
	}{
		{
			name: "page_missing gewinnt vor copyright",
			page: "The page you are looking for does not exist. Hidden due to copyright.",
			want: models.ImagePageMissing,
		},
		{
			name: "copyright",
			page: "This image cannot be shown due to copyright restrictions.",
			want: models.ImageCopyright,
		},
		{
			name: "Default ohne Treffer",
			page: "a perfectly normal collection page",
			want: models.ImageNoPublicImage,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ps.ClassifyUnavailability(tc.page); got != tc.want {
				t.Errorf("ClassifyUnavailability = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFetchPageDegradesOnError(t *testing.T) {
	ps := newTestScraper("", errors.New("boom"))
	if got := ps.FetchPage(context.Background(), "https://example.org"); got != "" {
		t.Errorf("FetchPage on error = %q, want empty", got)
	}
}
