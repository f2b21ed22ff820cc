package cv

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func completeProfile() Profile {
	return Profile{
		Name:       "Jane Doe",
		Email:      "jane@example.com",
		Phone:      "+44 1234 567890",
		Position:   "Backend Engineer",
		Experience: "Acme Corp 2019-2024, Go services",
		Education:  "BSc Computer Science 2018",
		Skills:     "Go, SQL, Kubernetes",
	}
}

func TestValidate(t *testing.T) {
	if err := completeProfile().Validate(); err != nil {
		t.Fatalf("Expected complete profile to validate, got %v", err)
	}

	p := completeProfile()
	p.Email = "   "
	p.Skills = ""
	err := p.Validate()
	if !errors.Is(err, ErrIncompleteProfile) {
		t.Fatalf("Expected ErrIncompleteProfile, got %v", err)
	}
	if !strings.Contains(err.Error(), "email, skills") {
		t.Errorf("Expected missing fields in message, got '%s'", err.Error())
	}
}

func TestNormalize(t *testing.T) {
	p := Profile{Name: "  Jane Doe \n", Skills: "\tGo "}
	n := p.Normalize()
	if n.Name != "Jane Doe" {
		t.Errorf("Expected trimmed name, got '%s'", n.Name)
	}
	if n.Skills != "Go" {
		t.Errorf("Expected trimmed skills, got '%s'", n.Skills)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name     string
		ext      string
		expected string
	}{
		{"Jane Doe", "pdf", "cv_jane_doe.pdf"},
		{"Jane Mary Doe", ".md", "cv_jane_mary_doe.md"},
		{"  ", "pdf", "cv_document.pdf"},
		{`Jane "Doe"; x=1`, "pdf", "cv_jane_doe_x1.pdf"},
		{"../../etc/passwd", "md", "cv_etcpasswd.md"},
		{"Anne-Marie O'Neil", "md", "cv_anne-marie_oneil.md"},
		{"日本", "pdf", "cv_document.pdf"},
	}

	for _, test := range tests {
		got := Profile{Name: test.name}.FileName(test.ext)
		if got != test.expected {
			t.Errorf("FileName(%q, %q) = '%s', expected '%s'", test.name, test.ext, got, test.expected)
		}
		if strings.ContainsAny(got, `/\"; `) {
			t.Errorf("FileName(%q) contains unsafe characters: '%s'", test.name, got)
		}
	}
}

func TestContactLine(t *testing.T) {
	if got := completeProfile().ContactLine(); got != "jane@example.com | +44 1234 567890" {
		t.Errorf("Unexpected contact line '%s'", got)
	}
}

func TestDocumentExpired(t *testing.T) {
	now := time.Now()
	d := Document{ExpiresAt: now.Add(time.Minute)}
	if d.Expired(now) {
		t.Error("Expected document to be live")
	}
	if !d.Expired(now.Add(2 * time.Minute)) {
		t.Error("Expected document to be expired")
	}
	if (&Document{}).Expired(now) {
		t.Error("Expected document without expiry to never expire")
	}
}

const sampleMarkdown = `# Jane Doe
jane@example.com | +44 1234 567890

## Professional Summary
Backend engineer with five years of Go.

## Professional Experience
- Acme Corp (2019 - 2024)
  Senior Engineer
  • Built the billing pipeline

## Empty Section

## Skills
* Technical Skills: Go, SQL
`

func TestParseSections(t *testing.T) {
	sections := ParseSections(sampleMarkdown)

	if len(sections) != 3 {
		t.Fatalf("Expected 3 sections, got %d: %+v", len(sections), sections)
	}

	titles := []string{"Professional Summary", "Professional Experience", "Skills"}
	for i, title := range titles {
		if sections[i].Title != title {
			t.Errorf("Expected section %d title '%s', got '%s'", i, title, sections[i].Title)
		}
	}

	exp := sections[1].Lines
	if len(exp) != 3 {
		t.Fatalf("Expected 3 experience lines, got %d", len(exp))
	}
	if !exp[0].Bullet || exp[0].Text != "Acme Corp (2019 - 2024)" {
		t.Errorf("Unexpected first line %+v", exp[0])
	}
	if exp[1].Bullet || exp[1].Text != "Senior Engineer" {
		t.Errorf("Unexpected second line %+v", exp[1])
	}
	if !exp[2].Bullet || exp[2].Text != "Built the billing pipeline" {
		t.Errorf("Unexpected third line %+v", exp[2])
	}

	skills := sections[2].Lines[0]
	if skills.Bullet || skills.Text != "* Technical Skills: Go, SQL" {
		t.Errorf("Expected only '- ' and '• ' to mark bullets, got %+v", skills)
	}
}

func TestParseSectionsNoHeadings(t *testing.T) {
	if sections := ParseSections("just some text\nwithout headings"); len(sections) != 0 {
		t.Errorf("Expected no sections, got %d", len(sections))
	}
}

func TestParseSectionsHeadingAtStart(t *testing.T) {
	sections := ParseSections("## Skills\r\n- Go\r\n")
	if len(sections) != 1 || sections[0].Title != "Skills" {
		t.Fatalf("Expected a single Skills section, got %+v", sections)
	}
	if sections[0].Lines[0].Text != "Go" {
		t.Errorf("Expected CRLF to be normalized, got %q", sections[0].Lines[0].Text)
	}
}
