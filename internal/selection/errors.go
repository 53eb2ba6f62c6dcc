package selection

import (
	"errors"
	"fmt"

	"github.com/ppiankov/specmatrix/internal/model"
)

var (
	// ErrCapacityExceeded is matched by every *CapacityError
	ErrCapacityExceeded = errors.New("comparison set is full")

	// ErrInvalidSlug rejects ids that cannot be stored in the comma list
	ErrInvalidSlug = errors.New("invalid device slug")
)

// CapacityError reports an Add that would grow a set past its limit
type CapacityError struct {
	Category model.Category
	Slug     string
	Limit    int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("cannot add %q to %s: %d devices maximum", e.Slug, e.Category, e.Limit)
}

// Is makes errors.Is(err, ErrCapacityExceeded) hold
func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}
