package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// JSONStore ist ein kleiner Key-zu-Datei-Store für die lokalen
// JSON-Dateien (Favoriten, Notizen, PDF-Einstellungen). Schreibzugriffe
// gehen atomar über eine Temp-Datei plus Rename.
type JSONStore struct {
	dir string
	mu  sync.Mutex
}

// NewJSONStore legt das Datenverzeichnis an und gibt den Store zurück.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
	}
	return &JSONStore{dir: dir}, nil
}

// Dir gibt das Datenverzeichnis zurück (für Backups).
func (s *JSONStore) Dir() string {
	return s.dir
}

// Load liest die Datei <name> in v. Eine fehlende Datei ist kein Fehler;
// v bleibt dann unverändert (Zero Value des Aufrufers).
func (s *JSONStore) Load(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

// Save schreibt v als eingerücktes JSON nach <name>, atomar.
func (s *JSONStore) Save(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}

	target := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file for %s: %w", name, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}
