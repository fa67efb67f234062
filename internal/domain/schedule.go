package domain

import (
	"time"

	"github.com/google/uuid"
)

// Employee is one roster entry. The roster is read-only here; the
// validator cross-references it against vacation templates.
type Employee struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Schedule is a generated schedule result produced by the external
// worker. The orchestration core never creates these; it only needs them
// for the delete-by-title cascade that also removes the task records
// whose embedded request produced the result.
type Schedule struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Algorithm string     `json:"algorithm"`
	Data      [][]string `json:"data"`
	CreatedAt time.Time  `json:"createdAt"`
}
