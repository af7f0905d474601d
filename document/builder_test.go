package document

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/require"

	"ticketing/entity"
	"ticketing/qr"
)

func testEvent() entity.Event {
	return entity.Event{
		EventID:       uuid.NewString(),
		OrganizerName: "Metro Concerts",
		Title:         "Jazz Night",
		StartsAt:      time.Date(2026, 9, 12, 19, 30, 0, 0, time.UTC),
		VenueName:     "City Hall",
		VenueLocation: "1 Main St",
	}
}

func testTicket(t *testing.T, event entity.Event) entity.Ticket {
	t.Helper()

	ticket := entity.Ticket{
		TicketID:   uuid.NewString(),
		EventID:    event.EventID,
		UserEmail:  "attendee@example.com",
		UserName:   "Pat Attendee",
		TicketType: entity.TicketTypeVIP,
	}

	code, err := qr.Encode(qr.Payload{
		TicketID:   ticket.TicketID,
		EventTitle: event.Title,
		UserEmail:  ticket.UserEmail,
		TicketType: ticket.TicketType,
	})
	require.NoError(t, err)
	ticket.QRCode = code

	return ticket
}

func countPages(t *testing.T, pdf []byte) int {
	t.Helper()
	// every page object carries /Type /Page, the page tree root /Type /Pages
	return bytes.Count(pdf, []byte("/Type /Page")) - bytes.Count(pdf, []byte("/Type /Pages"))
}

func TestBuilder_Build_onePagePerTicket(t *testing.T) {
	event := testEvent()
	tickets := []entity.Ticket{
		testTicket(t, event),
		testTicket(t, event),
		testTicket(t, event),
	}

	out, err := NewBuilder().Build(event, tickets)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	require.Equal(t, 3, countPages(t, out))
}

func TestBuilder_Build_emptyBatch(t *testing.T) {
	_, err := NewBuilder().Build(testEvent(), nil)
	require.Error(t, err)
}

func TestBuilder_Build_corruptArtifact(t *testing.T) {
	event := testEvent()
	good := testTicket(t, event)
	corrupt := testTicket(t, event)
	corrupt.QRCode = []byte("definitely not a png")

	out, err := NewBuilder().Build(event, []entity.Ticket{good, corrupt})
	require.NoError(t, err, "one bad artifact must not abort the whole document")
	require.Equal(t, 2, countPages(t, out))
}

func TestRenderTicketPage_content(t *testing.T) {
	event := testEvent()
	ticket := testTicket(t, event)

	pdf := newDocument()
	pdf.SetCompression(false)
	renderTicketPage(pdf, event, ticket)

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	content := buf.String()

	for _, want := range []string{
		"Metro Concerts",
		"Present this entire page at the Venue",
		"Jazz Night",
		ticket.TicketID,
		"Pat Attendee",
		"Valid ID required for entry",
	} {
		require.True(t, strings.Contains(content, want), "page should contain %q", want)
	}
}

func TestRenderTicketPage_fallbackNotice(t *testing.T) {
	event := testEvent()
	ticket := testTicket(t, event)
	ticket.QRCode = []byte{0x00}

	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetCompression(false)
	renderTicketPage(pdf, event, ticket)

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	require.Contains(t, buf.String(), "Scannable code unavailable")
}
