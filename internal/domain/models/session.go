package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is the authenticated identity of a client between requests.
type Session struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
