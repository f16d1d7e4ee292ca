package model

import (
	"time"

	"github.com/uptrace/bun"
)

// Event is the only entity in the app: a calendar item with a title and
// a time range. IDs are assigned by the store, never by the client.
type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID    string `bun:"id,pk"`         // required
	Title string `bun:"title,notnull"` // required, <= 255 chars

	StartDate time.Time `bun:"start_date,notnull"` // required
	EndDate   time.Time `bun:"end_date,notnull"`   // required, >= StartDate

	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
