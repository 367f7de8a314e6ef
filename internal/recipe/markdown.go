package recipe

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var (
	fieldPattern    = regexp.MustCompile(`^[-*]\s+\*\*([^*]+)\*\*:?\s*:?\s*(.+)$`)
	durationPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(hours?|hrs?|h|minutes?|mins?|m)?\b`)
	rangePattern    = regexp.MustCompile(`(\d+)\s*(?:-|–|to)\s*(\d+)`)
)

// Document is the structured view of a markdown recipe or profile card:
// the first level-one heading, every "- **Key**: Value" bullet and the
// bullet items of each level-two section.
type Document struct {
	Title    string
	Fields   map[string]string
	Sections map[string][]string
}

// Field returns the value of a bold-key bullet, matching the key case-insensitively.
func (d Document) Field(keys ...string) string {
	for _, k := range keys {
		if v, ok := d.Fields[strings.ToLower(k)]; ok {
			return v
		}
	}
	return ""
}

// List splits a comma or semicolon separated field into trimmed values.
func (d Document) List(keys ...string) []string {
	return SplitList(d.Field(keys...))
}

// ParseMarkdown reads a markdown card.
func ParseMarkdown(r io.Reader) (Document, error) {
	doc := Document{
		Fields:   make(map[string]string),
		Sections: make(map[string][]string),
	}

	section := ""
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "# "):
			if doc.Title == "" {
				doc.Title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
			}
			section = ""
		case strings.HasPrefix(line, "## "):
			section = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "## ")))
		case strings.HasPrefix(line, "###"):
			// subsection headings ("For the sauce") stay in the parent section
		default:
			if m := fieldPattern.FindStringSubmatch(line); m != nil {
				key := strings.ToLower(strings.TrimSuffix(strings.TrimSpace(m[1]), ":"))
				if _, seen := doc.Fields[key]; !seen {
					doc.Fields[key] = strings.TrimSpace(m[2])
				}
				continue
			}
			if section != "" && (strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ")) {
				item := strings.TrimSpace(line[2:])
				item = strings.TrimPrefix(strings.TrimPrefix(item, "[ ] "), "[x] ")
				if item != "" {
					doc.Sections[section] = append(doc.Sections[section], item)
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// ParseMinutes extracts a duration in minutes from labels such as
// "35 minutes", "1 hour 15 minutes" or "1.5 hrs". A bare number is read as
// minutes and a range ("10-15 minutes") counts as its upper bound.
func ParseMinutes(s string) (int, bool) {
	s = rangePattern.ReplaceAllString(s, "$2")
	matches := durationPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0, false
	}

	total := 0.0
	for _, m := range matches {
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if strings.HasPrefix(strings.ToLower(m[2]), "h") {
			n *= 60
		}
		total += n
	}
	return int(total + 0.5), true
}

// SplitList splits on commas and semicolons, dropping blanks and "none".
func SplitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	var out []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" || strings.EqualFold(f, "none") {
			continue
		}
		out = append(out, f)
	}
	return out
}
