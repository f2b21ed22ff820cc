package cv

import "strings"

// Line is one non-empty line of a section body
type Line struct {
	Text   string
	Bullet bool
}

// Section is a "## " block of a generated CV
type Section struct {
	Title string
	Lines []Line
}

// ParseSections splits generated Markdown into its "## " sections.
// Text before the first section heading (the name and contact header) is skipped,
// as are sections that have a title but no body.
func ParseSections(markdown string) []Section {
	markdown = strings.ReplaceAll(markdown, "\r\n", "\n")
	chunks := strings.Split("\n"+markdown, "\n## ")

	var sections []Section
	for _, chunk := range chunks[1:] {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		title, body, ok := strings.Cut(chunk, "\n")
		if !ok {
			continue
		}
		section := Section{Title: strings.TrimSpace(strings.ReplaceAll(title, "#", ""))}
		for _, raw := range strings.Split(body, "\n") {
			if line, ok := parseLine(raw); ok {
				section.Lines = append(section.Lines, line)
			}
		}
		if len(section.Lines) > 0 {
			sections = append(sections, section)
		}
	}
	return sections
}

func parseLine(raw string) (Line, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Line{}, false
	}
	for _, marker := range []string{"- ", "• "} {
		if strings.HasPrefix(text, marker) {
			return Line{Text: strings.TrimSpace(text[len(marker):]), Bullet: true}, true
		}
	}
	return Line{Text: text}, true
}
