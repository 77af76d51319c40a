package models

import (
	"time"

	"github.com/google/uuid"
)

// SettingsID is the fixed id of the store settings singleton. Using a
// well-known id lets the first read upsert without racing a second create.
var SettingsID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// Settings is the store-wide configuration singleton.
type Settings struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Currency  string    `db:"currency" json:"currency"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
