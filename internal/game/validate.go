package game

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	ratingFloor = 1.0
	ratingCeil  = 7.0
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateParams checks everything about CreateParams that does not need
// database access: shape, capacity, rating range ordering and bounds, and
// the schedule window against the clock.
func (s *store) validateParams(params CreateParams) error {
	if err := validate.Struct(params); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if r := params.Rating; r != nil {
		if r.Min < ratingFloor || r.Max > ratingCeil {
			return fmt.Errorf("%w: rating range must stay within [%.1f, %.1f]", ErrValidation, ratingFloor, ratingCeil)
		}
		if r.Min > r.Max {
			return fmt.Errorf("%w: rating range min %.1f exceeds max %.1f", ErrValidation, r.Min, r.Max)
		}
	}

	start, err := time.Parse("2006-01-02 15:04", params.Date+" "+params.StartTime)
	if err != nil {
		return fmt.Errorf("%w: unparseable schedule: %v", ErrValidation, err)
	}
	now := s.clock.Now().UTC()
	if start.Before(now) {
		return fmt.Errorf("%w: game is scheduled in the past", ErrValidation)
	}
	if start.After(now.AddDate(0, 0, s.horizon)) {
		return fmt.Errorf("%w: game is scheduled more than %d days ahead", ErrValidation, s.horizon)
	}

	return nil
}
