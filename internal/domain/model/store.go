package model

import "time"

// Store is a rated shop listed on the platform.
type Store struct {
	ID         int64
	Name       string
	Address    string
	Rating     float64
	UserRating float64
	CreatedAt  time.Time
}

// StoreDraft carries the fields of a store that is about to be created.
// Nil ratings mean the client omitted them.
type StoreDraft struct {
	Name       string
	Address    string
	Rating     *float64
	UserRating *float64
}
