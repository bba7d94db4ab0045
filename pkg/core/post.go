package core

import "time"

// Metadata represents the flexible key-value pairs parsed from a post's front-matter.
type Metadata map[string]any

// Post is the central entity of the domain.
// It represents a single blog post identified by its slug path
// (the path relative to the vault root, without the .md extension).
type Post struct {
	ID       string
	Content  string
	Metadata Metadata
}

// Title returns the front-matter title, or an empty string.
func (p Post) Title() string {
	if t, ok := p.Metadata["title"].(string); ok {
		return t
	}
	return ""
}

// Date returns the front-matter date as a string.
// Metadata built outside the codec may still carry a time.Time value;
// both forms are handled.
func (p Post) Date() string {
	switch d := p.Metadata["date"].(type) {
	case string:
		return d
	case time.Time:
		if d.Hour() == 0 && d.Minute() == 0 && d.Second() == 0 {
			return d.Format("2006-01-02")
		}
		return d.Format(time.RFC3339)
	}
	return ""
}

// Tags returns the front-matter tags.
// YAML decodes sequences as []interface{}; plain []string is accepted too.
func (p Post) Tags() []string {
	switch t := p.Metadata["tags"].(type) {
	case []string:
		return t
	case []interface{}:
		var tags []string
		for _, item := range t {
			if s, ok := item.(string); ok {
				tags = append(tags, s)
			}
		}
		return tags
	}
	return nil
}

// Draft reports whether the post is marked as a draft in its front-matter.
func (p Post) Draft() bool {
	d, ok := p.Metadata["draft"].(bool)
	return ok && d
}
