// Package document renders printable ticket documents, one page per ticket.
package document

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/jung-kurt/gofpdf"

	"ticketing/entity"
)

const (
	pageMargin   = 72.0
	labelWidth   = 120.0
	lineSpacing  = 25.0
	qrSize       = 150.0
	dateLayout   = "Monday, January 2, 2006 at 3:04 PM"
	footerNotice = "Valid ID required for entry • No refunds or exchanges • Ticket valid only for purchased event"
)

type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// Build renders one page per ticket. A ticket whose stored artifact cannot
// be decoded gets a textual notice instead of the image; the remaining pages
// are unaffected.
func (b *Builder) Build(event entity.Event, tickets []entity.Ticket) ([]byte, error) {
	if len(tickets) == 0 {
		return nil, fmt.Errorf("no tickets to render")
	}

	pdf := newDocument()
	for _, ticket := range tickets {
		renderTicketPage(pdf, event, ticket)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("could not render ticket document: %w", err)
	}
	return buf.Bytes(), nil
}

func newDocument() *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	return pdf
}

func renderTicketPage(pdf *gofpdf.Fpdf, event entity.Event, ticket entity.Ticket) {
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageWidth, pageHeight := pdf.GetPageSize()

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetXY(pageMargin, pageMargin)
	pdf.CellFormat(0, 24, tr(event.OrganizerName), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetX(pageMargin)
	pdf.CellFormat(0, 16, "Present this entire page at the Venue", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(pageMargin, pageMargin+70)
	pdf.CellFormat(0, 20, tr(event.Title), "", 1, "L", false, 0, "")

	details := []struct {
		label string
		value string
	}{
		{"Ticket ID", ticket.TicketID},
		{"Event", event.Title},
		{"Date", event.StartsAt.Format(dateLayout)},
		{"Venue", event.VenueName},
		{"Location", event.VenueLocation},
		{"Attendee", ticket.UserName},
		{"Type", ticket.TicketType},
		{"Purchased", ticket.PurchasedAt.Format(dateLayout)},
	}

	detailsTop := pageMargin + 110
	pdf.SetFont("Helvetica", "", 12)
	for i, d := range details {
		y := detailsTop + float64(i)*lineSpacing
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Text(pageMargin, y, tr(d.label+":"))
		pdf.SetFont("Helvetica", "", 12)
		pdf.Text(pageMargin+labelWidth, y, tr(d.value))
	}

	qrX := pageWidth - pageMargin - qrSize
	renderArtifact(pdf, ticket, qrX, detailsTop)

	separatorY := pageHeight - pageMargin - 50
	pdf.SetDrawColor(0, 0, 0)
	pdf.Line(pageMargin, separatorY, pageWidth-pageMargin, separatorY)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.SetXY(pageMargin, separatorY+15)
	pdf.CellFormat(pageWidth-2*pageMargin, 14, tr(footerNotice), "", 0, "C", false, 0, "")
}

// renderArtifact places the ticket's QR image. The stored bytes are decoded
// first: gofpdf aborts the whole document on a bad image, so a corrupt
// artifact is replaced with a notice rather than handed to the renderer.
func renderArtifact(pdf *gofpdf.Fpdf, ticket entity.Ticket, x, y float64) {
	if _, err := png.Decode(bytes.NewReader(ticket.QRCode)); err != nil {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Text(x, y+qrSize/2, "Scannable code unavailable")
		return
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	name := "qr-" + ticket.TicketID
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(ticket.QRCode))
	pdf.ImageOptions(name, x, y, qrSize, qrSize, false, opts, 0, "")
}
