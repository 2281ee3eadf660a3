package validation

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrInvalidUUID  = fmt.Errorf("invalid UUID format")
	ErrInvalidSecID = fmt.Errorf("invalid SECID")
	ErrEmptySlice   = fmt.Errorf("slice cannot be empty")
)

// secIDPattern matches exchange security codes such as SU26238RMFS4 or RU000A105TJ2.
var secIDPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_-]{0,50}$`)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}

// ValidateSecID checks that id looks like an upper-case exchange security code.
func ValidateSecID(id string) error {
	if !secIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidSecID, id)
	}
	return nil
}

// ValidateSecIDs validates a slice of security codes
func ValidateSecIDs(ids []string) error {
	if len(ids) == 0 {
		return ErrEmptySlice
	}
	for _, id := range ids {
		if err := ValidateSecID(id); err != nil {
			return err
		}
	}
	return nil
}
