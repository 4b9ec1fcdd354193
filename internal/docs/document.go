// Package docs parses the Markdown documents the validators inspect. It
// deliberately understands only what the conventions talk about: ATX
// headings, fenced code blocks (so headings inside them are not counted),
// and [[name]] wiki-style links between memory documents.
package docs

import (
	"regexp"
	"strings"
)

type Section struct {
	Heading string
	Level   int
	Line    int
}

type Link struct {
	Target string
	Line   int
}

type Document struct {
	Path     string
	Content  string
	Hash     string
	Encoding string
	Title    string
	Sections []Section
	Links    []Link
}

var (
	headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*\s*$`)
	linkPattern    = regexp.MustCompile(`\[\[([^\[\]]+)\]\]`)
)

func Parse(path, content string) *Document {
	doc := &Document{
		Path:    path,
		Content: content,
	}

	inFence := false
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		if m := headingPattern.FindStringSubmatch(line); m != nil {
			section := Section{
				Heading: strings.TrimSpace(m[2]),
				Level:   len(m[1]),
				Line:    i + 1,
			}
			doc.Sections = append(doc.Sections, section)

			if section.Level == 1 && doc.Title == "" {
				doc.Title = section.Heading
			}
		}

		for _, m := range linkPattern.FindAllStringSubmatch(line, -1) {
			doc.Links = append(doc.Links, Link{
				Target: strings.TrimSpace(m[1]),
				Line:   i + 1,
			})
		}
	}

	return doc
}

func (d *Document) HasSection(heading string) bool {
	for _, s := range d.Sections {
		if strings.EqualFold(s.Heading, heading) {
			return true
		}
	}
	return false
}

// MissingSections returns the required headings the document lacks, in the
// order they were required.
func (d *Document) MissingSections(required []string) []string {
	var missing []string
	for _, r := range required {
		if !d.HasSection(r) {
			missing = append(missing, r)
		}
	}
	return missing
}

func (d *Document) Lines() []string {
	return strings.Split(d.Content, "\n")
}
