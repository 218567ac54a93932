package models

import (
	"database/sql"
	"time"
)

// Player represents a skater or goalie. Identity is scoped to (name, team_id):
// the upstream payloads carry no reliably stable global player id, so a traded
// player starts a fresh history under the new team. Position is filled once on
// first sighting and never overwritten afterwards.
type Player struct {
	ID       int            `db:"id"`
	Name     string         `db:"name"`
	TeamID   int            `db:"team_id"`
	Position sql.NullString `db:"position"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
