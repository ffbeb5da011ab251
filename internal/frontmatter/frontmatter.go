// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package frontmatter reads and writes markdown documents that carry YAML
// frontmatter between --- delimiters.
package frontmatter

import (
	"bytes"
	"fmt"
	"strconv"

	"go.yaml.in/yaml/v3"
)

const delim = "---\n"

// Split separates a markdown document into raw frontmatter bytes and body.
// The document must begin with "---\n"; the closing "---" line ends the
// block. Returns an error when either delimiter is absent.
func Split(data []byte) (fm []byte, body []byte, err error) {
	if !bytes.HasPrefix(data, []byte(delim)) {
		return nil, nil, fmt.Errorf("frontmatter: missing opening --- delimiter")
	}
	rest := data[len(delim):]
	idx := bytes.Index(rest, []byte("\n---"))
	if idx < 0 {
		return nil, nil, fmt.Errorf("frontmatter: missing closing --- delimiter")
	}
	fm = rest[:idx]
	tail := rest[idx+len("\n---"):]
	if len(tail) > 0 && tail[0] == '\n' {
		tail = tail[1:]
	}
	return fm, tail, nil
}

// Decode parses a markdown document and returns its frontmatter as a map
// plus the body. A document with no frontmatter yields a nil map and the
// whole content as body; malformed YAML is an error.
func Decode(data []byte) (map[string]any, string, error) {
	fm, body, err := Split(data)
	if err != nil {
		return nil, string(data), nil
	}
	fields := map[string]any{}
	if err := yaml.Unmarshal(fm, &fields); err != nil {
		return nil, "", fmt.Errorf("frontmatter: %w", err)
	}
	return fields, string(body), nil
}

// String returns the scalar value for key as a string, or "" when the key
// is absent or not a scalar.
func String(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Int returns the value for key as an int. The second result is false when
// the key is absent or not numeric.
func Int(fields map[string]any, key string) (int, bool) {
	switch v := fields[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Write marshals v as YAML frontmatter and concatenates body, returning the
// complete markdown document.
func Write(v any, body string) ([]byte, error) {
	fm, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("frontmatter: marshal: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(delim)
	buf.Write(fm)
	buf.WriteString("---\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}

// SetField updates or inserts a single scalar field inside the frontmatter
// block without disturbing the rest of the document. Field order, comments,
// and the body are preserved byte-for-byte; only the target line changes.
// Returns an error when the document has no frontmatter block.
func SetField(data []byte, key, value string) ([]byte, error) {
	fm, body, err := Split(data)
	if err != nil {
		return nil, err
	}

	lines := bytes.Split(fm, []byte("\n"))
	prefix := []byte(key + ":")
	replaced := false
	for i, line := range lines {
		if bytes.HasPrefix(bytes.TrimLeft(line, " "), prefix) && !bytes.HasPrefix(line, []byte(" ")) {
			lines[i] = []byte(fmt.Sprintf("%s: %s", key, value))
			replaced = true
			break
		}
	}
	if !replaced {
		lines = append(lines, []byte(fmt.Sprintf("%s: %s", key, value)))
	}

	var buf bytes.Buffer
	buf.WriteString(delim)
	buf.Write(bytes.Join(lines, []byte("\n")))
	buf.WriteString("\n---\n")
	buf.Write(body)
	return buf.Bytes(), nil
}
