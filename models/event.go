package models

// Event ist ein lokales Analytics-Ereignis (JSONL, verlässt das Gerät nie).
type Event struct {
	ID    string         `json:"id"`
	TS    string         `json:"ts"`
	Event string         `json:"event"`
	Page  string         `json:"page"`
	Props map[string]any `json:"props,omitempty"`
}

// PDFSettings steuern den PDF-Export der Auswahl (pdf_meta.json).
type PDFSettings struct {
	OpeningText        string `json:"opening_text"`
	IncludeCover       bool   `json:"include_cover"`
	IncludeOpeningText bool   `json:"include_opening_text"`
	IncludeNotes       bool   `json:"include_notes"`
}

// DefaultPDFSettings liefert die Defaults, wenn noch nichts gespeichert wurde.
func DefaultPDFSettings() PDFSettings {
	return PDFSettings{
		IncludeCover:       true,
		IncludeOpeningText: true,
		IncludeNotes:       true,
	}
}
