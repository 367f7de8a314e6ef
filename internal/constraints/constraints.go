// Package constraints loads and validates the planning rules of one run:
// the date range, required meals, time budgets, variety and blocking rules,
// the history policy and the scoring policy.
package constraints

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"mealprep-planner/internal/recipe"
)

const dateLayout = "2006-01-02"

// Defaults applied before the document is decoded.
const (
	DefaultMinDaysBetweenRepeats = 3
	DefaultHistoryTTLDays        = 30
	DefaultHistoryDirectory      = "history"
)

// ErrInvalidConfig is matched by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Error names the offending document field.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidConfig) hold for every *Error.
func (e *Error) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Config is the validated rule set of one planning run. It is immutable
// once Validate has succeeded.
type Config struct {
	Week        Week          `mapstructure:"week"`
	MealsPerDay MealsPerDay   `mapstructure:"meals_per_day"`
	Time        TimeLimits    `mapstructure:"time"`
	Variety     Variety       `mapstructure:"variety"`
	Blocking    Blocking      `mapstructure:"blocking"`
	History     HistoryPolicy `mapstructure:"history"`
	Scoring     ScoringPolicy `mapstructure:"scoring"`

	start time.Time
	end   time.Time
}

type Week struct {
	StartDate string `mapstructure:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `mapstructure:"end_date" validate:"required,datetime=2006-01-02"`
}

type MealsPerDay struct {
	Breakfast *int `mapstructure:"breakfast" validate:"required,gte=0"`
	Lunch     *int `mapstructure:"lunch" validate:"required,gte=0"`
	Dinner    *int `mapstructure:"dinner" validate:"required,gte=0"`
}

type TimeLimits struct {
	MaxWeeknightPrepMinutes *int         `mapstructure:"max_weeknight_prep_minutes" validate:"required,gt=0"`
	MaxWeekendPrepMinutes   *int         `mapstructure:"max_weekend_prep_minutes" validate:"required,gt=0"`
	NoCookNights            NoCookNights `mapstructure:"no_cook_nights"`
}

// NoCookNights caps total recipe time on the listed weekdays.
type NoCookNights struct {
	Enabled        bool     `mapstructure:"enabled"`
	Days           []string `mapstructure:"days" validate:"dive,weekday"`
	MaxPrepMinutes int      `mapstructure:"max_prep_minutes" validate:"gte=0"`
}

type Variety struct {
	MinDaysBetweenRepeats int `mapstructure:"min_days_between_repeats" validate:"gte=0"`
	MinUniqueCuisines     int `mapstructure:"min_unique_cuisines" validate:"gte=0"`
}

type Blocking struct {
	Protein       ProteinRule `mapstructure:"protein_blocking"`
	Cuisine       CuisineRule `mapstructure:"cuisine_blocking"`
	CookingMethod MethodRule  `mapstructure:"cooking_method_blocking"`
}

// ProteinRule limits consecutive days sharing one of the tracked proteins.
type ProteinRule struct {
	Enabled            bool     `mapstructure:"enabled"`
	MaxConsecutiveDays int      `mapstructure:"max_consecutive_days" validate:"gte=0"`
	ProteinTypes       []string `mapstructure:"protein_types"`
}

// CuisineRule limits consecutive days sharing a cuisine. An empty list tracks every cuisine.
type CuisineRule struct {
	Enabled            bool     `mapstructure:"enabled"`
	MaxConsecutiveDays int      `mapstructure:"max_consecutive_days" validate:"gte=0"`
	Cuisines           []string `mapstructure:"cuisines"`
}

// MethodRule limits consecutive days sharing a cooking method. An empty list tracks every method.
type MethodRule struct {
	Enabled            bool     `mapstructure:"enabled"`
	MaxConsecutiveDays int      `mapstructure:"max_consecutive_days" validate:"gte=0"`
	Methods            []string `mapstructure:"methods"`
}

type HistoryPolicy struct {
	Enabled   bool   `mapstructure:"enabled"`
	TTLDays   int    `mapstructure:"ttl_days" validate:"gte=0"`
	Directory string `mapstructure:"directory"`
	AutoSave  bool   `mapstructure:"auto_save"`
}

type ScoringPolicy struct {
	Enabled           bool `mapstructure:"enabled"`
	MinUniqueCuisines int  `mapstructure:"min_unique_cuisines" validate:"gte=0"`
}

// Load reads a constraint document from disk. The format follows the file
// extension (yaml, yml, json, toml).
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read constraints %s: %w", path, err)
	}
	return decode(v)
}

// Parse reads a constraint document of the given format from r.
func Parse(r io.Reader, format string) (*Config, error) {
	v := newViper()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("failed to parse constraints: %w", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("variety.min_days_between_repeats", DefaultMinDaysBetweenRepeats)
	v.SetDefault("history.ttl_days", DefaultHistoryTTLDays)
	v.SetDefault("history.directory", DefaultHistoryDirectory)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		dateToString,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, &Error{Field: "document", Reason: "has the wrong shape: " + err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// dateToString turns unquoted YAML dates, which the parser reads as
// time.Time, back into YYYY-MM-DD strings.
func dateToString(from, to reflect.Type, data any) (any, error) {
	if t, ok := data.(time.Time); ok && to.Kind() == reflect.String {
		return t.Format(dateLayout), nil
	}
	return data, nil
}

// Start is the first planned day.
func (c *Config) Start() time.Time { return c.start }

// End is the last planned day, inclusive.
func (c *Config) End() time.Time { return c.end }

// Days lists every calendar day of the range in order.
func (c *Config) Days() []time.Time {
	var days []time.Time
	for d := c.start; !d.After(c.end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// RequiredMeals lists the meal types with a positive count, in slot order.
// Counts above one still yield a single slot per day and meal type.
func (c *Config) RequiredMeals() []recipe.MealType {
	counts := map[recipe.MealType]*int{
		recipe.Breakfast: c.MealsPerDay.Breakfast,
		recipe.Lunch:     c.MealsPerDay.Lunch,
		recipe.Dinner:    c.MealsPerDay.Dinner,
	}
	var meals []recipe.MealType
	for _, mt := range recipe.SlotOrder {
		if n := counts[mt]; n != nil && *n > 0 {
			meals = append(meals, mt)
		}
	}
	return meals
}

// IsWeeknight reports whether the date falls Monday through Friday.
func IsWeeknight(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// IsNoCookDay reports whether the no-cook rule applies on the date.
func (c *Config) IsNoCookDay(d time.Time) bool {
	if !c.Time.NoCookNights.Enabled {
		return false
	}
	for _, name := range c.Time.NoCookNights.Days {
		if wd, ok := parseWeekday(name); ok && wd == d.Weekday() {
			return true
		}
	}
	return false
}

// TimeCap is the maximum total recipe time for any slot on the date. The
// no-cook cap supersedes the weeknight and weekend caps.
func (c *Config) TimeCap(d time.Time) int {
	if c.IsNoCookDay(d) {
		return c.Time.NoCookNights.MaxPrepMinutes
	}
	if IsWeeknight(d) {
		return *c.Time.MaxWeeknightPrepMinutes
	}
	return *c.Time.MaxWeekendPrepMinutes
}

// MinDaysBetweenRepeats is the minimum gap, in days, between two uses of a recipe.
func (c *Config) MinDaysBetweenRepeats() int {
	return c.Variety.MinDaysBetweenRepeats
}

// MinUniqueCuisines is the cuisine floor used by the scorer; the scoring
// section wins over the variety section when both are set.
func (c *Config) MinUniqueCuisines() int {
	if c.Scoring.MinUniqueCuisines > 0 {
		return c.Scoring.MinUniqueCuisines
	}
	return c.Variety.MinUniqueCuisines
}

func parseWeekday(name string) (time.Weekday, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.ToLower(wd.String()) == name {
			return wd, true
		}
	}
	return 0, false
}
