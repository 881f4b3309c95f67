package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidTag is returned when a tag violates its title/color constraints.
var ErrInvalidTag = errors.New("invalid tag")

var validate = validator.New()

// Tag is a shared label with a usage count. Count tracks how many live
// (non-archived) revisions currently reference the tag. The ledger deletes
// the row when the count reaches zero, so a stored tag always has Count >= 1.
type Tag struct {
	ID        string `gorm:"primaryKey;uuid;not null"`
	Title     string `gorm:"uniqueIndex;not null" validate:"required"`
	Color     string `gorm:"not null" validate:"hexadecimal,len=6"`
	Count     int64  `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the title and color constraints before the row is
// persisted. The color is a bare 6-hex-digit code without a leading '#'.
func (t *Tag) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTag, err)
	}
	return nil
}
