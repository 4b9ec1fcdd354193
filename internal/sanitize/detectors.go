package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

type Detector struct {
	Name    string
	Pattern *regexp.Regexp
}

var defaultDetectors = []Detector{
	{Name: "email", Pattern: regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)},
	{Name: "home-path", Pattern: regexp.MustCompile(`(?:/home/|/Users/)[A-Za-z0-9._-]+`)},
	{Name: "aws-key-id", Pattern: regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)},
	{Name: "bearer-token", Pattern: regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._~+/-]{16,}=*`)},
	{Name: "private-key", Pattern: regexp.MustCompile(`-----BEGIN (?:RSA |EC |OPENSSH )?PRIVATE KEY-----`)},
}

type Detection struct {
	Detector string `json:"detector"`
	Line     int    `json:"line"`
	Excerpt  string `json:"excerpt"`
}

// Detect scans text for PII and secret-shaped strings. Matches are redacted
// in the excerpt so a findings report is itself safe to publish.
func Detect(text string) []Detection {
	var detections []Detection

	for i, line := range strings.Split(text, "\n") {
		for _, d := range defaultDetectors {
			for _, loc := range d.Pattern.FindAllStringIndex(line, -1) {
				detections = append(detections, Detection{
					Detector: d.Name,
					Line:     i + 1,
					Excerpt:  redactAround(line, loc[0], loc[1]),
				})
			}
		}
	}

	return detections
}

func redactAround(line string, start, end int) string {
	const context = 20

	from := start - context
	if from < 0 {
		from = 0
	}
	to := end + context
	if to > len(line) {
		to = len(line)
	}

	// The context window is counted in bytes; back off to rune boundaries
	// so the excerpt never starts or ends mid-rune.
	for from > 0 && !utf8.RuneStart(line[from]) {
		from--
	}
	for to < len(line) && !utf8.RuneStart(line[to]) {
		to++
	}

	redacted := redact(line[start:end])
	return line[from:start] + redacted + line[end:to]
}

// redact keeps the first and last two characters so a reviewer can place
// the hit without the report leaking the matched value.
func redact(s string) string {
	if len(s) <= 6 {
		return strings.Repeat("*", len(s))
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}

func DetectorNames() []string {
	names := make([]string, 0, len(defaultDetectors))
	for _, d := range defaultDetectors {
		names = append(names, d.Name)
	}
	return names
}
