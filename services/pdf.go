package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"rijkslens/models"
)

// PDFBuilder rendert die Auswahl als PDF-Report: optionales Deckblatt,
// optionaler Einleitungstext, Inhaltsverzeichnis, dann eine Seite pro Werk.
type PDFBuilder struct {
	Settings models.PDFSettings
}

// Build rendert den kompletten Report in einen Byte-Puffer.
func (b PDFBuilder) Build(selection []models.Artwork, notes map[string]string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("RijksLens selection", true)
	pdf.SetAutoPageBreak(true, 20)

	if b.Settings.IncludeCover {
		b.coverPage(pdf, len(selection))
	}
	if b.Settings.IncludeOpeningText && b.Settings.OpeningText != "" {
		b.openingPage(pdf)
	}
	b.contentsPage(pdf, selection)
	for _, art := range selection {
		b.artworkPage(pdf, art, notes[art.ObjectNumber])
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (b PDFBuilder) coverPage(pdf *fpdf.Fpdf, count int) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 28)
	pdf.Ln(60)
	pdf.CellFormat(0, 14, "My Selection", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.Ln(8)
	pdf.CellFormat(0, 8, fmt.Sprintf("%d artworks", count), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 8, time.Now().Format("2 January 2006"), "", 1, "C", false, 0, "")
}

func (b PDFBuilder) openingPage(pdf *fpdf.Fpdf) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Introduction", "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, b.Settings.OpeningText, "", "L", false)
}

func (b PDFBuilder) contentsPage(pdf *fpdf.Fpdf, selection []models.Artwork) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Contents", "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 11)
	for i, art := range selection {
		line := fmt.Sprintf("%d. %s", i+1, art.Title)
		if art.PrincipalMaker != models.UnknownArtist {
			line += " - " + art.PrincipalMaker
		}
		pdf.MultiCell(0, 6, line, "", "L", false)
	}
}

func (b PDFBuilder) artworkPage(pdf *fpdf.Fpdf, art models.Artwork, note string) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 9, art.Title, "", "L", false)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Ln(2)
	rows := [][2]string{
		{"Artist", art.PrincipalMaker},
		{"Date", art.Dating.PresentingDate},
		{"Object number", art.ObjectNumber},
		{"Attribution", string(art.Attribution)},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(38, 7, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 7, row[1], "", "L", false)
	}
	if art.Links.Web != "" {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(38, 7, "Link", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "U", 11)
		pdf.SetTextColor(0, 0, 200)
		pdf.WriteLinkString(7, art.Links.Web, art.Links.Web)
		pdf.Ln(7)
		pdf.SetTextColor(0, 0, 0)
	}

	if b.Settings.IncludeNotes && note != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "I", 11)
		pdf.MultiCell(0, 6, note, "", "L", false)
	}
}
