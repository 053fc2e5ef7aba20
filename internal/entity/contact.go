package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Contact is a single inquiry submitted by a prospective client.
type Contact struct {
	ID            uuid.UUID `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	PhoneNumber   *string   `json:"phone_number"`
	Service       Service   `json:"service"`
	OtherService  *string   `json:"other_service"`
	Description   string    `json:"description"`
	ServingStatus Status    `json:"serving_status"`
	CreatedAt     time.Time `json:"created_at"`
}

// FullName joins first and last name.
func (c Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

func (c Contact) String() string {
	return fmt.Sprintf("%s %s - %s", c.FirstName, c.LastName, c.Service)
}
