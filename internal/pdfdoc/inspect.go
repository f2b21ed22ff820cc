package pdfdoc

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// Info describes a rendered PDF
type Info struct {
	Pages int    `json:"pages"`
	Size  int    `json:"size_bytes"`
	Text  string `json:"-"`
}

// Inspect parses a PDF and returns its page count and plain text.
func Inspect(data []byte) (*Info, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}

	textReader, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extracting text: %w", err)
	}
	text, err := io.ReadAll(textReader)
	if err != nil {
		return nil, fmt.Errorf("reading text: %w", err)
	}

	return &Info{
		Pages: r.NumPage(),
		Size:  len(data),
		Text:  string(text),
	}, nil
}
