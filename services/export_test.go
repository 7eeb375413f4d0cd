package services

import (
	"bytes"
	"encoding/csv"
	"reflect"
	"testing"

	"rijkslens/models"
)

func sampleSelection() ([]models.Artwork, map[string]string) {
	selection := []models.Artwork{
		{
			ObjectNumber:   "SK-C-5",
			Title:          "The Night Watch",
			PrincipalMaker: "Rembrandt van Rijn",
			Dating:         models.Dating{PresentingDate: "1642-01-01"},
			Links:          models.Links{Web: "https://www.rijksmuseum.nl/en/collection/SK-C-5"},
		},
		{
			ObjectNumber:   "SK-A-1505",
			Title:          "Still Life",
			PrincipalMaker: "Unknown artist",
		},
	}
	notes := map[string]string{"SK-C-5": "check brushwork"}
	return selection, notes
}

func TestSelectionCSVColumns(t *testing.T) {
	selection, notes := sampleSelection()
	data, err := Exporter{}.SelectionCSV(selection, notes)
	if err != nil {
		t.Fatalf("SelectionCSV: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parsing csv: %v", err)
	}

	wantHeader := []string{"objectNumber", "title", "artist", "date", "web_link", "has_notes"}
	if !reflect.DeepEqual(rows[0], wantHeader) {
		t.Errorf("header = %v, want %v", rows[0], wantHeader)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[1][0] != "SK-C-5" || rows[1][5] != "yes" {
		t.Errorf("first row = %v", rows[1])
	}
	if rows[2][5] != "no" {
		t.Errorf("second row has_notes = %q, want no", rows[2][5])
	}
}

func TestShareCodeRoundTrip(t *testing.T) {
	selection, notes := sampleSelection()
	exporter := Exporter{}

	code, err := exporter.ShareCode(selection, notes)
	if err != nil {
		t.Fatalf("ShareCode: %v", err)
	}

	items, err := exporter.DecodeShareCode(code)
	if err != nil {
		t.Fatalf("DecodeShareCode: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ObjectNumber != "SK-C-5" || items[0].Note != "check brushwork" {
		t.Errorf("first item = %+v", items[0])
	}
	if items[1].Artist != "Unknown artist" || items[1].Note != "" {
		t.Errorf("second item = %+v", items[1])
	}
}

func TestDecodeShareCodeRejectsGarbage(t *testing.T) {
	if _, err := (Exporter{}).DecodeShareCode("not base64 at all!!"); err == nil {
		t.Error("garbage input must fail")
	}
	if _, err := (Exporter{}).DecodeShareCode("bm90IGpzb24="); err == nil {
		t.Error("valid base64 with non-JSON payload must fail")
	}
}

func TestNotesCSVSkipsEmptyNotes(t *testing.T) {
	selection, notes := sampleSelection()
	data, err := Exporter{}.NotesCSV(selection, notes)
	if err != nil {
		t.Fatalf("NotesCSV: %v", err)
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parsing csv: %v", err)
	}
	// Header plus nur das Werk mit Notiz.
	if len(rows) != 2 || rows[1][0] != "SK-C-5" {
		t.Errorf("rows = %v", rows)
	}
}

func TestPDFBuildProducesDocument(t *testing.T) {
	selection, notes := sampleSelection()
	settings := models.DefaultPDFSettings()
	settings.OpeningText = "A short research selection."

	data, err := PDFBuilder{Settings: settings}.Build(selection, notes)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output does not start with a PDF header")
	}
}
