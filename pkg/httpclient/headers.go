package httpclient

import (
	"net/textproto"
	"strings"
)

const defaultPostContentType = "application/x-www-form-urlencoded"

// headerLine is one parsed "Name: value" entry.
type headerLine struct {
	name  string
	value string
	// suppress drops the header entirely ("Name:" with nothing after the colon).
	suppress bool
}

// parseHeaderLines turns raw header lines into name/value pairs, keeping their
// order. "Name: value" sets a header, "Name:" suppresses a default header and
// "Name;" sends the header with an empty value. Lines without a name are
// returned in rejected.
func parseHeaderLines(lines []string) (parsed []headerLine, rejected []string) {
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if name, ok := strings.CutSuffix(line, ";"); ok && !strings.Contains(name, ":") {
			name = strings.TrimSpace(name)
			if name == "" {
				rejected = append(rejected, raw)
				continue
			}
			parsed = append(parsed, headerLine{name: textproto.CanonicalMIMEHeaderKey(name)})
			continue
		}

		name, value, ok := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" || strings.ContainsAny(name, " \t") {
			rejected = append(rejected, raw)
			continue
		}
		value = strings.TrimSpace(value)
		parsed = append(parsed, headerLine{
			name:     textproto.CanonicalMIMEHeaderKey(name),
			value:    value,
			suppress: value == "",
		})
	}
	return parsed, rejected
}
