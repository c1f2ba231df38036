package frontmatter

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Meta is the typed front matter of a blog post.
type Meta struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Slug        string   `yaml:"slug,omitempty"`
	Layout      string   `yaml:"layout,omitempty"`
	Categories  []string `yaml:"categories,omitempty"`
	Draft       bool     `yaml:"draft,omitempty"`
	Description string   `yaml:"description,omitempty"`

	parsedDate time.Time
}

// Accepted date layouts, most specific first. Posts commonly carry a plain
// date; timestamps are tolerated for imports from other generators.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var (
	ErrMissingTitle = errors.New("front matter is missing required field: title")
	ErrMissingDate  = errors.New("front matter is missing required field: date")
)

// DecodeMeta parses raw YAML front matter into a validated Meta.
//
// Title and date are required; everything else is optional. The date must
// parse under one of the accepted layouts.
func DecodeMeta(raw []byte) (*Meta, error) {
	var m Meta
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, err
	}

	if strings.TrimSpace(m.Title) == "" {
		return nil, ErrMissingTitle
	}
	if strings.TrimSpace(m.Date) == "" {
		return nil, ErrMissingDate
	}

	t, err := parseDate(m.Date)
	if err != nil {
		return nil, err
	}
	m.parsedDate = t

	for i, c := range m.Categories {
		m.Categories[i] = strings.TrimSpace(c)
	}

	return &m, nil
}

// Time returns the parsed publication date.
func (m *Meta) Time() time.Time { return m.parsedDate }

// metaFields are the keys DecodeMeta understands.
var metaFields = map[string]bool{
	"title":       true,
	"date":        true,
	"slug":        true,
	"layout":      true,
	"categories":  true,
	"draft":       true,
	"description": true,
}

// UnknownFields returns the front matter keys DecodeMeta ignores, sorted,
// for diagnostics.
func UnknownFields(raw []byte) ([]string, error) {
	fields, err := ParseYAML(raw)
	if err != nil {
		return nil, err
	}

	var unknown []string
	for key := range fields {
		if !metaFields[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (want YYYY-MM-DD or RFC3339)", s)
}
