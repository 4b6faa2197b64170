package protocol

import (
	"time"

	"github.com/google/uuid"
)

// SurgeryProtocol is the rehabilitation protocol for one surgery type. Its
// red flags are free-text phrases matched against patient symptoms in
// addition to the built-in taxonomy.
type SurgeryProtocol struct {
	ID            uuid.UUID `db:"id" json:"id"`
	SurgeryType   string    `db:"surgery_type" json:"surgery_type"`
	Name          string    `db:"name" json:"name"`
	Description   *string   `db:"description" json:"description,omitempty"`
	RedFlags      []string  `db:"red_flags" json:"red_flags"`
	ExpectedWeeks int       `db:"expected_weeks" json:"expected_weeks"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
