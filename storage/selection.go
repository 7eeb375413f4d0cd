package storage

import (
	"fmt"
	"sort"
	"sync"

	"rijkslens/models"
)

const (
	favoritesFile   = "favorites.json"
	notesFile       = "notes.json"
	compareFile     = "compare.json"
	pdfSettingsFile = "pdf_meta.json"

	// MaxCompareCandidates begrenzt den Seite-an-Seite-Vergleich.
	MaxCompareCandidates = 4
)

// SelectionStore verwaltet die persönliche Auswahl: Favoriten, Notizen,
// Vergleichskandidaten und PDF-Einstellungen, alles als lokale JSON-Dateien
// über den JSONStore. Read-Modify-Write-Zyklen laufen unter einem eigenen
// Mutex, damit parallele Requests sich nicht gegenseitig überschreiben.
type SelectionStore struct {
	store *JSONStore
	mu    sync.Mutex
}

// NewSelectionStore erstellt den Store über dem gegebenen Datenverzeichnis.
func NewSelectionStore(store *JSONStore) *SelectionStore {
	return &SelectionStore{store: store}
}

func (s *SelectionStore) favorites() (map[string]models.Artwork, error) {
	favs := map[string]models.Artwork{}
	err := s.store.Load(favoritesFile, &favs)
	return favs, err
}

func (s *SelectionStore) notes() (map[string]string, error) {
	notes := map[string]string{}
	err := s.store.Load(notesFile, &notes)
	return notes, err
}

func (s *SelectionStore) compareCodes() ([]string, error) {
	codes := []string{}
	err := s.store.Load(compareFile, &codes)
	return codes, err
}

// List gibt alle Favoriten sortiert nach Objektnummer zurück.
func (s *SelectionStore) List() ([]models.Artwork, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favs, err := s.favorites()
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(favs))
	for code := range favs {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]models.Artwork, 0, len(codes))
	for _, code := range codes {
		out = append(out, favs[code])
	}
	return out, nil
}

// Get liefert einen einzelnen Favoriten.
func (s *SelectionStore) Get(code string) (models.Artwork, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favs, err := s.favorites()
	if err != nil {
		return models.Artwork{}, false, err
	}
	art, ok := favs[code]
	return art, ok, nil
}

// Put legt ein Artwork in die Auswahl (idempotent, überschreibt).
func (s *SelectionStore) Put(art models.Artwork) error {
	if art.ObjectNumber == "" {
		return fmt.Errorf("artwork without object number cannot be saved")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	favs, err := s.favorites()
	if err != nil {
		return err
	}
	favs[art.ObjectNumber] = art
	return s.store.Save(favoritesFile, favs)
}

// Remove entfernt einen Favoriten samt Notiz und Vergleichs-Flag.
func (s *SelectionStore) Remove(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	favs, err := s.favorites()
	if err != nil {
		return err
	}
	delete(favs, code)
	if err := s.store.Save(favoritesFile, favs); err != nil {
		return err
	}

	notes, err := s.notes()
	if err != nil {
		return err
	}
	if _, ok := notes[code]; ok {
		delete(notes, code)
		if err := s.store.Save(notesFile, notes); err != nil {
			return err
		}
	}

	codes, err := s.compareCodes()
	if err != nil {
		return err
	}
	kept := codes[:0]
	for _, c := range codes {
		if c != code {
			kept = append(kept, c)
		}
	}
	if len(kept) != len(codes) {
		return s.store.Save(compareFile, kept)
	}
	return nil
}

// SetCompare markiert einen Favoriten als Vergleichskandidaten (oder nimmt
// die Markierung zurück). Maximal MaxCompareCandidates gleichzeitig.
func (s *SelectionStore) SetCompare(code string, candidate bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	favs, err := s.favorites()
	if err != nil {
		return err
	}
	if _, ok := favs[code]; !ok {
		return fmt.Errorf("object %s is not in the selection", code)
	}

	codes, err := s.compareCodes()
	if err != nil {
		return err
	}

	idx := -1
	for i, c := range codes {
		if c == code {
			idx = i
			break
		}
	}
	switch {
	case candidate && idx >= 0:
		return nil
	case candidate:
		if len(codes) >= MaxCompareCandidates {
			return fmt.Errorf("at most %d compare candidates allowed", MaxCompareCandidates)
		}
		codes = append(codes, code)
	case idx >= 0:
		codes = append(codes[:idx], codes[idx+1:]...)
	default:
		return nil
	}
	return s.store.Save(compareFile, codes)
}

// CompareList gibt die Vergleichskandidaten in Markierungs-Reihenfolge zurück.
func (s *SelectionStore) CompareList() ([]models.Artwork, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favs, err := s.favorites()
	if err != nil {
		return nil, err
	}
	codes, err := s.compareCodes()
	if err != nil {
		return nil, err
	}
	out := make([]models.Artwork, 0, len(codes))
	for _, code := range codes {
		if art, ok := favs[code]; ok {
			out = append(out, art)
		}
	}
	return out, nil
}

// Notes gibt alle Notizen zurück (Objektnummer → Text).
func (s *SelectionStore) Notes() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes()
}

// Note liefert die Notiz zu einem Objekt.
func (s *SelectionStore) Note(code string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.notes()
	if err != nil {
		return "", false, err
	}
	text, ok := notes[code]
	return text, ok, nil
}

// SetNote speichert eine Notiz; leerer Text löscht sie.
func (s *SelectionStore) SetNote(code, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.notes()
	if err != nil {
		return err
	}
	if text == "" {
		delete(notes, code)
	} else {
		notes[code] = text
	}
	return s.store.Save(notesFile, notes)
}

// DeleteNote entfernt die Notiz zu einem Objekt.
func (s *SelectionStore) DeleteNote(code string) error {
	return s.SetNote(code, "")
}

// PDFSettings liest die gespeicherten PDF-Einstellungen, mit Defaults.
func (s *SelectionStore) PDFSettings() (models.PDFSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := models.DefaultPDFSettings()
	if err := s.store.Load(pdfSettingsFile, &settings); err != nil {
		return models.DefaultPDFSettings(), err
	}
	return settings, nil
}

// SetPDFSettings persistiert die PDF-Einstellungen.
func (s *SelectionStore) SetPDFSettings(settings models.PDFSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Save(pdfSettingsFile, settings)
}
