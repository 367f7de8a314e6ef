// Package suggest asks an optional creative capability for a meal name and
// maps the answer onto one of the eligible recipes.
package suggest

import (
	"context"
	"errors"
	"fmt"

	"mealprep-planner/internal/recipe"
	"mealprep-planner/internal/shared"
)

var (
	// ErrUnavailable is returned by a capability that cannot be used in this run.
	ErrUnavailable = errors.New("suggestion capability unavailable")
	// ErrMalformed is returned when the capability answered with nothing usable.
	ErrMalformed = errors.New("malformed suggestion")
)

// Request describes the slot a meal is wanted for.
type Request struct {
	MealType            recipe.MealType
	Weeknight           bool
	NoCook              bool
	MaxPrepMinutes      int
	DietaryRestrictions []string
	Preferences         []string
	RecentlyUsed        []string
}

// Suggestion is a single meal name plus what it cost to obtain.
type Suggestion struct {
	Text  string
	Usage shared.TokenUsage
}

// Capability produces meal-name suggestions. Callers handle its errors by
// falling back to deterministic selection.
type Capability interface {
	Suggest(ctx context.Context, req Request) (Suggestion, error)
}

// Func adapts a function to a Capability.
type Func func(ctx context.Context, req Request) (Suggestion, error)

type available struct{ fn Func }

// Available wraps fn as a usable capability.
func Available(fn Func) Capability { return available{fn: fn} }

func (a available) Suggest(ctx context.Context, req Request) (Suggestion, error) {
	return a.fn(ctx, req)
}

type unavailable struct{ reason string }

// Unavailable returns a capability that always fails with ErrUnavailable.
func Unavailable(reason string) Capability { return unavailable{reason: reason} }

func (u unavailable) Suggest(context.Context, Request) (Suggestion, error) {
	return Suggestion{}, fmt.Errorf("%w: %s", ErrUnavailable, u.reason)
}

// IsAvailable reports whether c can produce suggestions at all.
func IsAvailable(c Capability) bool {
	if c == nil {
		return false
	}
	_, ok := c.(unavailable)
	return !ok
}
