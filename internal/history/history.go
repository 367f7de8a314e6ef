// Package history keeps time-boxed records of past plans so later runs can
// avoid repeating recipes. Records are append-only JSON files; an entry
// past its expiry is ignored on load and never deleted.
package history

import (
	"sort"
	"time"
)

// FileVersion is written into every entry for forward compatibility.
const FileVersion = "1.0"

const dateLayout = "2006-01-02"

// Usage is one placement of a recipe on a calendar day.
type Usage struct {
	RecipeID string `json:"recipe_id"`
	DateUsed string `json:"date_used"`
	MealType string `json:"meal_type,omitempty"`
	Title    string `json:"title,omitempty"`
	Cuisine  string `json:"cuisine,omitempty"`
}

// Date parses DateUsed.
func (u Usage) Date() (time.Time, bool) {
	d, err := time.Parse(dateLayout, u.DateUsed)
	return d, err == nil
}

// Entry is the saved record of one generated plan.
type Entry struct {
	Version     string    `json:"version"`
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	TTLDays     int       `json:"ttl_days"`
	WeekStart   string    `json:"week_start,omitempty"`
	WeekEnd     string    `json:"week_end,omitempty"`
	ProfileName string    `json:"profile_name,omitempty"`
	Usages      []Usage   `json:"usages"`
}

// Expired reports whether the entry's expiry lies before now.
func (e Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && e.ExpiresAt.Before(now)
}

// Record is what a finished plan contributes to history.
type Record struct {
	WeekStart   time.Time
	WeekEnd     time.Time
	ProfileName string
	Usages      []Usage
}

// RecentlyUsed returns the ids of recipes whose usage date lies within
// windowDays of now, i.e. with a calendar-day gap smaller than windowDays.
func RecentlyUsed(entries []Entry, windowDays int, now time.Time) map[string]struct{} {
	used := make(map[string]struct{})
	for _, e := range entries {
		if e.Expired(now) {
			continue
		}
		for _, u := range e.Usages {
			d, ok := u.Date()
			if !ok {
				continue
			}
			if DayGap(d, now) < windowDays {
				used[u.RecipeID] = struct{}{}
			}
		}
	}
	return used
}

// Live returns the entries that have not expired at now. Expiry is judged
// once, against the time of the run, never against a planned date.
func Live(entries []Entry, now time.Time) []Entry {
	var out []Entry
	for _, e := range entries {
		if !e.Expired(now) {
			out = append(out, e)
		}
	}
	return out
}

// DaysSinceLastUsed returns the smallest calendar-day gap between now and
// any usage of the recipe in an entry still live at now. The boolean is
// false when the recipe was never used.
func DaysSinceLastUsed(entries []Entry, recipeID string, now time.Time) (int, bool) {
	return GapFrom(Live(entries, now), recipeID, now)
}

// GapFrom returns the smallest calendar-day gap between date and any usage
// of the recipe. Entries are taken as given; callers drop expired ones first.
func GapFrom(entries []Entry, recipeID string, date time.Time) (int, bool) {
	best, found := 0, false
	for _, e := range entries {
		for _, u := range e.Usages {
			if u.RecipeID != recipeID {
				continue
			}
			d, ok := u.Date()
			if !ok {
				continue
			}
			gap := DayGap(d, date)
			if !found || gap < best {
				best, found = gap, true
			}
		}
	}
	return best, found
}

// DayGap is the absolute number of calendar days between a and b.
func DayGap(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := int(da.Sub(db).Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}

func sortNewestFirst(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}
