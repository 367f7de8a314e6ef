package suggest

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"
	"unicode"
	"unicode/utf8"

	"mealprep-planner/internal/config"
	"mealprep-planner/internal/llm"
)

//go:embed suggest_prompt.md
var suggestPrompt string

var promptTemplate = template.Must(template.New("Suggest").Parse(suggestPrompt))

const (
	maxInputLength      = 500
	maxSuggestionLength = 120
	allowedChars        = " .,;:!?-'\"()/&"
)

type promptData struct {
	MealType            string
	DayType             string
	MaxPrepMinutes      int
	DietaryRestrictions string
	Preferences         string
	RecentlyUsed        string
}

// NewLLM returns a capability backed by a text generator. Each call is
// bounded by timeout.
func NewLLM(textGen llm.TextGenerator, timeout time.Duration) Capability {
	return Available(func(ctx context.Context, req Request) (Suggestion, error) {
		prompt, err := BuildPrompt(req)
		if err != nil {
			return Suggestion{}, err
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		resp, err := textGen.GenerateContent(ctx, prompt)
		if err != nil {
			return Suggestion{}, fmt.Errorf("failed to get suggestion: %w", err)
		}

		text := Normalize(resp.Content)
		if text == "" {
			return Suggestion{Usage: resp.Usage}, fmt.Errorf("%w: %q", ErrMalformed, resp.Content)
		}
		return Suggestion{Text: text, Usage: resp.Usage}, nil
	})
}

// FromConfig selects the configured provider. Without a credential, or when
// the client cannot be created, the capability is Unavailable. The returned
// func releases provider resources.
func FromConfig(ctx context.Context, cfg *config.Config) (Capability, func() error) {
	noop := func() error { return nil }
	if cfg.SuggestionAPIKey() == "" {
		return Unavailable("no credential for " + cfg.SuggestionProvider), noop
	}

	switch cfg.SuggestionProvider {
	case config.ProviderGemini:
		client, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			return Unavailable(err.Error()), noop
		}
		return NewLLM(client, cfg.SuggestionTimeout), client.Close
	default:
		return NewLLM(llm.NewGroqClient(cfg), cfg.SuggestionTimeout), noop
	}
}

// BuildPrompt renders the request. Every user-provided value is sanitized.
func BuildPrompt(req Request) (string, error) {
	data := promptData{
		MealType:            Sanitize(string(req.MealType)),
		DayType:             "weekend",
		MaxPrepMinutes:      req.MaxPrepMinutes,
		DietaryRestrictions: Sanitize(strings.Join(req.DietaryRestrictions, ", ")),
		Preferences:         Sanitize(strings.Join(req.Preferences, ", ")),
	}
	if req.Weeknight {
		data.DayType = "weeknight"
	}
	if req.NoCook {
		data.DayType += " (no-cook night)"
	}
	if data.DietaryRestrictions == "" {
		data.DietaryRestrictions = "None"
	}

	var recent []string
	for _, name := range req.RecentlyUsed {
		if s := Sanitize(name); s != "" {
			recent = append(recent, s)
		}
	}
	data.RecentlyUsed = strings.Join(recent, ", ")

	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render suggestion prompt: %w", err)
	}
	return buf.String(), nil
}

// Sanitize keeps ASCII letters, digits and common punctuation, caps the
// length and collapses whitespace.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxInputLength {
		s = string([]rune(s)[:maxInputLength])
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case strings.ContainsRune(allowedChars, r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Normalize reduces a raw model answer to a bare meal name, or "" when
// nothing usable is left.
func Normalize(raw string) string {
	line := ""
	for _, l := range strings.Split(raw, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}

	line = strings.TrimLeft(line, "-*# ")
	line = strings.ReplaceAll(line, "**", "")
	for _, prefix := range []string{"meal suggestion:", "suggestion:", "meal:"} {
		if strings.HasPrefix(strings.ToLower(line), prefix) {
			line = line[len(prefix):]
			break
		}
	}
	line = strings.TrimSpace(line)
	line = strings.Trim(line, "\"'`“”")
	line = strings.TrimSuffix(line, ".")
	line = strings.Join(strings.Fields(line), " ")

	if utf8.RuneCountInString(line) > maxSuggestionLength {
		return ""
	}
	return line
}
