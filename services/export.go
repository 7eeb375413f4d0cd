package services

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"fmt"

	"rijkslens/models"
)

// ShareItem ist die kompakte Export-Form eines Auswahl-Eintrags. Sie steckt
// im JSON-Export und, base64-kodiert, im Teilen-Code.
type ShareItem struct {
	ObjectNumber string `json:"objectNumber"`
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	Date         string `json:"date,omitempty"`
	WebLink      string `json:"web_link,omitempty"`
	Note         string `json:"note,omitempty"`
}

// Exporter rendert die persönliche Auswahl in die Austauschformate.
// Reine Funktionen über schon normalisierten Daten, kein I/O.
type Exporter struct{}

func shareItems(selection []models.Artwork, notes map[string]string) []ShareItem {
	items := make([]ShareItem, 0, len(selection))
	for _, art := range selection {
		items = append(items, ShareItem{
			ObjectNumber: art.ObjectNumber,
			Title:        art.Title,
			Artist:       art.PrincipalMaker,
			Date:         art.Dating.PresentingDate,
			WebLink:      art.Links.Web,
			Note:         notes[art.ObjectNumber],
		})
	}
	return items
}

// SelectionCSV rendert die Auswahl als CSV mit stabilen Spalten.
func (Exporter) SelectionCSV(selection []models.Artwork, notes map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"objectNumber", "title", "artist", "date", "web_link", "has_notes"}); err != nil {
		return nil, err
	}
	for _, art := range selection {
		hasNotes := "no"
		if notes[art.ObjectNumber] != "" {
			hasNotes = "yes"
		}
		row := []string{
			art.ObjectNumber,
			art.Title,
			art.PrincipalMaker,
			art.Dating.PresentingDate,
			art.Links.Web,
			hasNotes,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// SelectionJSON rendert die Auswahl als eingerücktes JSON.
func (Exporter) SelectionJSON(selection []models.Artwork, notes map[string]string) ([]byte, error) {
	return json.MarshalIndent(shareItems(selection, notes), "", "  ")
}

// NotesCSV rendert alle Notizen als CSV (Objektnummer, Titel, Notiz).
func (Exporter) NotesCSV(selection []models.Artwork, notes map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"objectNumber", "title", "note"}); err != nil {
		return nil, err
	}
	for _, art := range selection {
		note := notes[art.ObjectNumber]
		if note == "" {
			continue
		}
		if err := w.Write([]string{art.ObjectNumber, art.Title, note}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// NotesJSON rendert die Notizen als JSON-Objekt (Objektnummer → Text).
func (Exporter) NotesJSON(notes map[string]string) ([]byte, error) {
	return json.MarshalIndent(notes, "", "  ")
}

// ShareCode kodiert die kompakte Auswahl als base64-String zum Teilen.
func (Exporter) ShareCode(selection []models.Artwork, notes map[string]string) (string, error) {
	data, err := json.Marshal(shareItems(selection, notes))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeShareCode liest einen Teilen-Code zurück in die kompakte Auswahl.
func (Exporter) DecodeShareCode(code string) ([]ShareItem, error) {
	data, err := base64.StdEncoding.DecodeString(code)
	if err != nil {
		return nil, fmt.Errorf("invalid share code: %w", err)
	}
	var items []ShareItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("invalid share code payload: %w", err)
	}
	return items, nil
}
