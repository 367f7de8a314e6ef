package recipe

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Loader reads recipe cards from a directory of markdown files.
type Loader struct {
	dir    string
	logger *zap.Logger
}

// NewLoader creates a Loader for dir.
func NewLoader(dir string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{dir: dir, logger: logger}
}

// LoadAll parses every *.md file in the directory, sorted by recipe ID.
// Cards without a recognizable category are skipped with a warning.
func (l *Loader) LoadAll() ([]Recipe, error) {
	paths, err := filepath.Glob(filepath.Join(l.dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe files: %w", err)
	}

	var recipes []Recipe
	for _, path := range paths {
		rec, err := l.LoadFile(path)
		if err != nil {
			l.logger.Warn("skipping recipe card", zap.String("path", path), zap.Error(err))
			continue
		}
		recipes = append(recipes, rec)
	}

	sort.Slice(recipes, func(i, j int) bool { return recipes[i].ID < recipes[j].ID })
	l.logger.Info("loaded recipes", zap.String("dir", l.dir), zap.Int("count", len(recipes)))
	return recipes, nil
}

// LoadFile parses a single recipe card. The recipe ID is the file name without extension.
func (l *Loader) LoadFile(path string) (Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return Recipe{}, fmt.Errorf("failed to open recipe file: %w", err)
	}
	defer f.Close()

	doc, err := ParseMarkdown(f)
	if err != nil {
		return Recipe{}, fmt.Errorf("failed to read recipe file: %w", err)
	}

	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return FromDocument(id, doc)
}

// FromDocument maps a parsed card onto a Recipe.
func FromDocument(id string, doc Document) (Recipe, error) {
	category, err := ParseMealType(doc.Field("category", "meal type"))
	if err != nil {
		return Recipe{}, err
	}

	title := doc.Title
	if title == "" {
		title = id
	}

	rec := Recipe{
		ID:          id,
		Title:       title,
		Category:    category,
		Cuisine:     doc.Field("cuisine"),
		Protein:     doc.Field("protein", "main protein"),
		Method:      doc.Field("cooking method", "method"),
		DietaryTags: doc.List("dietary tags", "tags", "diet"),
		Ingredients: doc.Sections["ingredients"],
	}
	rec.PrepMinutes, _ = ParseMinutes(doc.Field("prep time"))
	rec.CookMinutes, _ = ParseMinutes(doc.Field("cook time"))
	if total, ok := ParseMinutes(doc.Field("total time")); ok {
		rec.TotalMinutes = total
	} else {
		rec.TotalMinutes = rec.PrepMinutes + rec.CookMinutes
	}
	return rec, nil
}
