package constraints

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// Report fields by their document key, not the Go field name.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
			_, ok := parseWeekday(fl.Field().String())
			return ok
		})
	})
	return validate
}

// Validate checks the structure of the document and resolves the date
// range. The first failure is returned as an *Error.
func (c *Config) Validate() error {
	if err := getValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return &Error{Field: "document", Reason: err.Error()}
	}

	start, err := time.Parse(dateLayout, c.Week.StartDate)
	if err != nil {
		return &Error{Field: "week.start_date", Reason: "must be a date in YYYY-MM-DD format"}
	}
	end, err := time.Parse(dateLayout, c.Week.EndDate)
	if err != nil {
		return &Error{Field: "week.end_date", Reason: "must be a date in YYYY-MM-DD format"}
	}
	if end.Before(start) {
		return &Error{Field: "week.end_date", Reason: "must not be before week.start_date"}
	}

	rules := []struct {
		field   string
		enabled bool
		max     int
	}{
		{"blocking.protein_blocking.max_consecutive_days", c.Blocking.Protein.Enabled, c.Blocking.Protein.MaxConsecutiveDays},
		{"blocking.cuisine_blocking.max_consecutive_days", c.Blocking.Cuisine.Enabled, c.Blocking.Cuisine.MaxConsecutiveDays},
		{"blocking.cooking_method_blocking.max_consecutive_days", c.Blocking.CookingMethod.Enabled, c.Blocking.CookingMethod.MaxConsecutiveDays},
	}
	for _, r := range rules {
		if r.enabled && r.max < 1 {
			return &Error{Field: r.field, Reason: "must be at least 1 when the rule is enabled"}
		}
	}
	if c.Time.NoCookNights.Enabled && len(c.Time.NoCookNights.Days) == 0 {
		return &Error{Field: "time.no_cook_nights.days", Reason: "must list at least one weekday when enabled"}
	}
	if c.Time.NoCookNights.Enabled && c.Time.NoCookNights.MaxPrepMinutes < 1 {
		return &Error{Field: "time.no_cook_nights.max_prep_minutes", Reason: "must be at least 1 when no-cook nights are enabled"}
	}
	if c.History.Enabled && c.History.TTLDays < 1 {
		return &Error{Field: "history.ttl_days", Reason: "must be at least 1 when history is enabled"}
	}

	c.start, c.end = start, end
	return nil
}

func fieldError(fe validator.FieldError) *Error {
	// Namespace is "Config.time.no_cook_nights.days[0]"; drop the root type.
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	var reason string
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "gte":
		reason = fmt.Sprintf("must be >= %s", fe.Param())
	case "gt":
		reason = fmt.Sprintf("must be > %s", fe.Param())
	case "datetime":
		reason = "must be a date in YYYY-MM-DD format"
	case "weekday":
		reason = fmt.Sprintf("has unknown weekday %q (use full names such as Monday)", fe.Value())
	default:
		reason = "failed " + fe.Tag() + " validation"
	}
	return &Error{Field: field, Reason: reason}
}
