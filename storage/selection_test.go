package storage

import (
	"fmt"
	"testing"

	"rijkslens/models"
)

func newTestSelectionStore(t *testing.T) *SelectionStore {
	t.Helper()
	store, err := NewJSONStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	return NewSelectionStore(store)
}

func artwork(code, title string) models.Artwork {
	return models.Artwork{ObjectNumber: code, Title: title, PrincipalMaker: "Rembrandt van Rijn"}
}

func TestSelectionPutListSorted(t *testing.T) {
	sel := newTestSelectionStore(t)

	for _, code := range []string{"SK-C-5", "SK-A-1505", "RP-P-OB-79.667"} {
		if err := sel.Put(artwork(code, "Werk "+code)); err != nil {
			t.Fatalf("Put %s: %v", code, err)
		}
	}

	list, err := sel.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 favorites, got %d", len(list))
	}
	want := []string{"RP-P-OB-79.667", "SK-A-1505", "SK-C-5"}
	for i, w := range want {
		if list[i].ObjectNumber != w {
			t.Errorf("position %d: got %s, want %s", i, list[i].ObjectNumber, w)
		}
	}
}

func TestSelectionPutRejectsEmptyCode(t *testing.T) {
	sel := newTestSelectionStore(t)
	if err := sel.Put(models.Artwork{Title: "ohne Nummer"}); err == nil {
		t.Error("Put without object number must fail")
	}
}

func TestSelectionPutIsIdempotent(t *testing.T) {
	sel := newTestSelectionStore(t)

	if err := sel.Put(artwork("SK-C-5", "alt")); err != nil {
		t.Fatal(err)
	}
	if err := sel.Put(artwork("SK-C-5", "neu")); err != nil {
		t.Fatal(err)
	}

	art, ok, err := sel.Get("SK-C-5")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if art.Title != "neu" {
		t.Errorf("second Put must overwrite, got title %q", art.Title)
	}
}

func TestSelectionRemoveCascades(t *testing.T) {
	sel := newTestSelectionStore(t)

	if err := sel.Put(artwork("SK-C-5", "De Nachtwacht")); err != nil {
		t.Fatal(err)
	}
	if err := sel.SetNote("SK-C-5", "Licht und Schatten"); err != nil {
		t.Fatal(err)
	}
	if err := sel.SetCompare("SK-C-5", true); err != nil {
		t.Fatal(err)
	}

	if err := sel.Remove("SK-C-5"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if _, ok, _ := sel.Get("SK-C-5"); ok {
		t.Error("favorite survived Remove")
	}
	if _, ok, _ := sel.Note("SK-C-5"); ok {
		t.Error("note survived Remove")
	}
	compare, err := sel.CompareList()
	if err != nil {
		t.Fatal(err)
	}
	if len(compare) != 0 {
		t.Error("compare flag survived Remove")
	}
}

func TestSetCompareLimitsCandidates(t *testing.T) {
	sel := newTestSelectionStore(t)

	for i := 0; i < MaxCompareCandidates+1; i++ {
		code := fmt.Sprintf("SK-A-%d", 1000+i)
		if err := sel.Put(artwork(code, "Werk")); err != nil {
			t.Fatal(err)
		}
	}

	for i := 0; i < MaxCompareCandidates; i++ {
		code := fmt.Sprintf("SK-A-%d", 1000+i)
		if err := sel.SetCompare(code, true); err != nil {
			t.Fatalf("candidate %d rejected: %v", i, err)
		}
	}
	if err := sel.SetCompare(fmt.Sprintf("SK-A-%d", 1000+MaxCompareCandidates), true); err == nil {
		t.Errorf("candidate %d must exceed the limit", MaxCompareCandidates+1)
	}

	// Zurücknehmen schafft wieder Platz.
	if err := sel.SetCompare("SK-A-1000", false); err != nil {
		t.Fatal(err)
	}
	if err := sel.SetCompare(fmt.Sprintf("SK-A-%d", 1000+MaxCompareCandidates), true); err != nil {
		t.Errorf("free slot not usable: %v", err)
	}
}

func TestSetCompareRequiresFavorite(t *testing.T) {
	sel := newTestSelectionStore(t)
	if err := sel.SetCompare("SK-C-5", true); err == nil {
		t.Error("SetCompare on a non-favorite must fail")
	}
}

func TestCompareListKeepsMarkOrder(t *testing.T) {
	sel := newTestSelectionStore(t)

	for _, code := range []string{"SK-C-5", "SK-A-1505", "SK-A-3262"} {
		if err := sel.Put(artwork(code, "Werk")); err != nil {
			t.Fatal(err)
		}
	}
	// Bewusst nicht alphabetisch markieren.
	for _, code := range []string{"SK-A-3262", "SK-C-5"} {
		if err := sel.SetCompare(code, true); err != nil {
			t.Fatal(err)
		}
	}

	compare, err := sel.CompareList()
	if err != nil {
		t.Fatal(err)
	}
	if len(compare) != 2 || compare[0].ObjectNumber != "SK-A-3262" || compare[1].ObjectNumber != "SK-C-5" {
		t.Errorf("compare order lost: %+v", compare)
	}
}

func TestSetNoteEmptyTextDeletes(t *testing.T) {
	sel := newTestSelectionStore(t)

	if err := sel.SetNote("SK-C-5", "erste Fassung"); err != nil {
		t.Fatal(err)
	}
	if err := sel.SetNote("SK-C-5", ""); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := sel.Note("SK-C-5"); ok {
		t.Error("empty text must delete the note")
	}
}

func TestPDFSettingsDefaults(t *testing.T) {
	sel := newTestSelectionStore(t)

	settings, err := sel.PDFSettings()
	if err != nil {
		t.Fatalf("PDFSettings: %v", err)
	}
	if !settings.IncludeCover || !settings.IncludeOpeningText || !settings.IncludeNotes {
		t.Errorf("defaults not applied: %+v", settings)
	}

	settings.IncludeCover = false
	settings.OpeningText = "Meine Auswahl"
	if err := sel.SetPDFSettings(settings); err != nil {
		t.Fatal(err)
	}

	loaded, err := sel.PDFSettings()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.IncludeCover || loaded.OpeningText != "Meine Auswahl" {
		t.Errorf("settings not persisted: %+v", loaded)
	}
}
