package domain

import "time"

type ClientEventKind string

const (
	EventSearch     ClientEventKind = "search"
	EventView       ClientEventKind = "view"
	EventCartAdd    ClientEventKind = "cart_add"
	EventCartRemove ClientEventKind = "cart_remove"
)

// A ClientEvent records storefront activity for analytics.
type ClientEvent struct {
	Kind       ClientEventKind
	Subject    string
	Search     string
	Sizes      []string
	MinPrice   string
	MaxPrice   string
	Quantity   int
	OccurredAt time.Time
}
