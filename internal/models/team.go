package models

import "time"

// Team represents an NHL team. The abbreviation is the stable identity key
// across ingestion runs; the display name may be corrected in place.
type Team struct {
	ID           int       `db:"id"`
	Abbreviation string    `db:"abbreviation"`
	Name         string    `db:"name"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
