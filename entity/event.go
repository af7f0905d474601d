package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Event struct {
	EventID       string          `json:"event_id" db:"event_id"`
	OrganizerID   string          `json:"organizer_id" db:"organizer_id"`
	OrganizerName string          `json:"organizer_name" db:"organizer_name"`
	Title         string          `json:"title" db:"title"`
	Description   string          `json:"description" db:"description"`
	StartsAt      time.Time       `json:"starts_at" db:"starts_at"`
	VenueName     string          `json:"venue_name" db:"venue_name"`
	VenueLocation string          `json:"venue_location" db:"venue_location"`
	VenueCapacity int             `json:"venue_capacity" db:"venue_capacity"`
	VIPPrice      decimal.Decimal `json:"vip_price" db:"vip_price"`
	CommonPrice   decimal.Decimal `json:"common_price" db:"common_price"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}
