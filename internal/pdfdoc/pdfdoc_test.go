package pdfdoc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pep299/cv-generator/internal/cv"
)

var testProfile = cv.Profile{
	Name:     "Jane Doe",
	Email:    "jane@example.com",
	Phone:    "0123 456789",
	Position: "Backend Engineer",
}

const testMarkdown = `# Jane Doe
jane@example.com | 0123 456789

## Professional Summary
Backend engineer with **five years** of Go.

## Professional Experience
- Acme Corp (2019 – 2024)
  • Built the billing pipeline

## Skills
- Technical Skills: Go, SQL
`

func TestCleanText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain text", "plain text"},
		{"• bullet", "- bullet"},
		{"2019 – 2024 — now", "2019 - 2024 - now"},
		{"“quoted” ‘single’", `"quoted" 'single'`},
		{"wait…", "wait..."},
		{"**bold** and __under__", "bold and under"},
		{"café 日本", "caf "},
	}

	for _, test := range tests {
		if got := CleanText(test.input); got != test.expected {
			t.Errorf("CleanText(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}

func TestRenderProducesPDF(t *testing.T) {
	data, err := RenderBytes(testProfile, testMarkdown)
	if err != nil {
		t.Fatalf("RenderBytes failed: %v", err)
	}

	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("Expected PDF header, got %q", data[:min(len(data), 8)])
	}

	info, err := Inspect(data)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if info.Pages != 1 {
		t.Errorf("Expected 1 page, got %d", info.Pages)
	}
	if info.Size != len(data) {
		t.Errorf("Expected size %d, got %d", len(data), info.Size)
	}

	for _, expected := range []string{"Jane Doe", "Professional Summary", "Professional Experience", "Skills"} {
		if !strings.Contains(info.Text, expected) {
			t.Errorf("Expected PDF text to contain %q", expected)
		}
	}
}

func TestRenderLongDocumentPaginates(t *testing.T) {
	var md strings.Builder
	md.WriteString("## Professional Experience\n")
	for i := 0; i < 200; i++ {
		md.WriteString("- Delivered a significant project with measurable impact\n")
	}

	data, err := RenderBytes(testProfile, md.String())
	if err != nil {
		t.Fatalf("RenderBytes failed: %v", err)
	}
	info, err := Inspect(data)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if info.Pages < 2 {
		t.Errorf("Expected multiple pages, got %d", info.Pages)
	}
}

func TestInspectRejectsGarbage(t *testing.T) {
	if _, err := Inspect([]byte("not a pdf")); err == nil {
		t.Error("Expected error for non-PDF input")
	}
}
