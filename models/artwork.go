package models

// AttributionTag beschreibt, wie sicher die Zuschreibung an den Künstler ist.
type AttributionTag string

const (
	AttributionDirect     AttributionTag = "direct"
	AttributionAttributed AttributionTag = "attributed"
	AttributionWorkshop   AttributionTag = "workshop"
	AttributionCircle     AttributionTag = "circle"
	AttributionAfter      AttributionTag = "after"
	AttributionUnknown    AttributionTag = "unknown"
)

// ImageStatus ist die Diagnose für die UI, wenn kein nutzbares Bild existiert.
type ImageStatus string

const (
	ImageOK            ImageStatus = "ok"
	ImageCopyright     ImageStatus = "copyright"
	ImagePageMissing   ImageStatus = "page_missing"
	ImageBroken        ImageStatus = "broken"
	ImageNoPublicImage ImageStatus = "no_public_image"
)

// WorkKind ist eine grobe Werk-Klassifikation, abgeleitet aus der Künstler-Rolle.
type WorkKind string

const (
	WorkOriginal     WorkKind = "original"
	WorkReproduction WorkKind = "reproduction"
	WorkPhotograph   WorkKind = "photograph"
	WorkUnknown      WorkKind = "unknown"
)

// Sentinels für normalisierte Künstlernamen.
const (
	UnknownArtist = "Unknown artist"
	Anonymous     = "anonymous"
	UntitledWork  = "Untitled"
)

// Dating enthält Anzeigedatum und normalisiertes Jahr (beides optional).
type Dating struct {
	PresentingDate string `json:"presentingDate,omitempty"`
	Year           *int   `json:"year,omitempty"`
}

// Links enthält die öffentlichen Links zu einem Objekt.
type Links struct {
	Web string `json:"web,omitempty"`
}

// WebImage enthält die normalisierte IIIF-Bild-URL (oder leer).
type WebImage struct {
	URL string `json:"url,omitempty"`
}

// Artwork ist der stabile Output-Vertrag des Record-Mappers.
// Die JSON-Feldnamen entsprechen dem Format der alten Rijksmuseum-API,
// damit Downstream-Konsumenten (UI, Exporte) unverändert weiterlaufen.
type Artwork struct {
	ObjectNumber     string         `json:"objectNumber"`
	Title            string         `json:"title"`
	LongTitle        string         `json:"longTitle,omitempty"`
	PrincipalMaker   string         `json:"principalOrFirstMaker"`
	CreatorRole      string         `json:"creatorRole,omitempty"`
	Dating           Dating         `json:"dating"`
	Materials        []string       `json:"materials"`
	Techniques       []string       `json:"techniques"`
	ProductionPlaces []string       `json:"productionPlaces"`
	Links            Links          `json:"links"`
	WebImage         WebImage       `json:"webImage"`
	Attribution      AttributionTag `json:"attribution"`
	ImageStatus      ImageStatus    `json:"imageStatus"`
	WorkKind         WorkKind       `json:"workKind"`
}

// Year gibt das normalisierte Jahr zurück, oder ok=false wenn keines ableitbar ist.
// Entspricht extract_year: erst das numerische Jahr, sonst die ersten vier
// Ziffern des Anzeigedatums.
func (d Dating) YearValue() (int, bool) {
	if d.Year != nil {
		return *d.Year, true
	}
	if len(d.PresentingDate) >= 4 {
		y := 0
		for _, r := range d.PresentingDate[:4] {
			if r < '0' || r > '9' {
				return 0, false
			}
			y = y*10 + int(r-'0')
		}
		return y, true
	}
	return 0, false
}
