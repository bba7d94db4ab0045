package markdown

import (
	"bytes"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quillworks/quill/pkg/core"
)

// DecodePost parses raw file bytes into body content and loose metadata.
// Files without a front-matter block decode to empty metadata.
func DecodePost(data []byte) (string, core.Metadata, error) {
	fm, body, hasFM, err := SplitFrontMatter(data)
	if err != nil {
		return "", nil, err
	}

	meta := make(core.Metadata)
	if hasFM {
		if err := yaml.Unmarshal(fm, &meta); err != nil {
			return "", nil, fmt.Errorf("failed to parse front-matter: %w", err)
		}
		normalizeTimestamps(meta)
	}

	return string(body), meta, nil
}

// normalizeTimestamps folds yaml timestamp values back into their string
// form. yaml.v3 decodes an unquoted scalar like 2024-05-02 into time.Time,
// which would break string access and make an encode round-trip lossy.
func normalizeTimestamps(meta core.Metadata) {
	for k, v := range meta {
		if t, ok := v.(time.Time); ok {
			meta[k] = formatTimestamp(t)
		}
	}
}

func formatTimestamp(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}

// EncodePost serializes a post back to front-matter + body bytes.
func EncodePost(p core.Post) ([]byte, error) {
	var buf bytes.Buffer
	if len(p.Metadata) > 0 {
		buf.WriteString("---\n")
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(p.Metadata); err != nil {
			return nil, err
		}
		encoder.Close()
		buf.WriteString("---\n")
	}
	buf.WriteString(p.Content)
	return buf.Bytes(), nil
}
