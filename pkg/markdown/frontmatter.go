// Package markdown implements the post codec: YAML front-matter handling
// and CommonMark body analysis.
package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrUnclosedFrontMatter is returned when a front-matter block is opened
// but its closing delimiter is missing.
var ErrUnclosedFrontMatter = errors.New("front-matter started but no closing delimiter found")

// DateLayouts are the accepted formats for the front-matter date field,
// tried in order.
var DateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04",
}

// FrontMatter is the typed schema of a post header.
// Unknown top-level fields are reported by ParseFrontMatter (use Extra for
// custom fields).
type FrontMatter struct {
	Title       string         `yaml:"title"`
	Date        string         `yaml:"date"`
	Tags        []string       `yaml:"tags"`
	Draft       bool           `yaml:"draft"`
	Description string         `yaml:"description"`
	Slug        string         `yaml:"slug"`
	Extra       map[string]any `yaml:"extra"` // Extension point for custom fields
}

var knownFields = map[string]bool{
	"title":       true,
	"date":        true,
	"tags":        true,
	"draft":       true,
	"description": true,
	"slug":        true,
	"extra":       true,
}

// SplitFrontMatter separates the YAML header from the Markdown body.
// The header is delimited by "---" lines at the very start of the file.
// hasFM reports whether a header was opened at all.
func SplitFrontMatter(data []byte) (fm, body []byte, hasFM bool, err error) {
	if !bytes.HasPrefix(data, []byte("---\n")) && !bytes.HasPrefix(data, []byte("---\r\n")) {
		return nil, data, false, nil
	}

	rest := data[3:]
	parts := bytes.SplitN(rest, []byte("---"), 2)
	if len(parts) == 1 {
		return nil, nil, true, ErrUnclosedFrontMatter
	}

	fm = parts[0]
	fm = bytes.TrimPrefix(fm, []byte("\n"))
	fm = bytes.TrimPrefix(fm, []byte("\r\n"))
	body = parts[1]
	body = bytes.TrimPrefix(body, []byte("\n"))
	body = bytes.TrimPrefix(body, []byte("\r\n"))

	return fm, body, true, nil
}

// ParseFrontMatter decodes a YAML header into the typed schema.
// It returns the sorted list of unknown top-level fields alongside the
// parsed struct; unknown fields are not an error.
func ParseFrontMatter(fm []byte) (*FrontMatter, []string, error) {
	// First pass: loose map, to detect unknown fields.
	var raw map[string]any
	if err := yaml.Unmarshal(fm, &raw); err != nil {
		return nil, nil, fmt.Errorf("invalid yaml: %w", err)
	}

	var unknown []string
	for field := range raw {
		if !knownFields[field] {
			unknown = append(unknown, field)
		}
	}
	sort.Strings(unknown)

	var parsed FrontMatter
	if err := yaml.Unmarshal(fm, &parsed); err != nil {
		return nil, nil, fmt.Errorf("failed to parse front-matter: %w", err)
	}

	return &parsed, unknown, nil
}

// Time parses the date field against DateLayouts.
func (f *FrontMatter) Time() (time.Time, error) {
	if f.Date == "" {
		return time.Time{}, errors.New("date is empty")
	}
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, f.Date); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q does not match any accepted layout", f.Date)
}
