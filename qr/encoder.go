// Package qr renders the scannable artifact embedded in every ticket.
package qr

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

const imageSize = 256

// Payload is the human-readable identity block encoded into a ticket's QR
// image. Venue staff without a scanner can still read the decoded text.
type Payload struct {
	TicketID   string
	EventTitle string
	UserEmail  string
	TicketType string
}

func (p Payload) String() string {
	return fmt.Sprintf(
		"Ticket ID: %s\nEvent: %s\nUser: %s\nType: %s",
		p.TicketID, p.EventTitle, p.UserEmail, p.TicketType,
	)
}

// Encode renders the payload as a PNG image. Medium error correction keeps
// the code scannable when the printed page is creased or partly covered.
func Encode(p Payload) ([]byte, error) {
	png, err := qrcode.Encode(p.String(), qrcode.Medium, imageSize)
	if err != nil {
		return nil, fmt.Errorf("could not encode qr payload: %w", err)
	}
	return png, nil
}
