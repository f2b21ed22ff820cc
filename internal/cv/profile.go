package cv

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrIncompleteProfile is returned when one or more profile fields are empty.
var ErrIncompleteProfile = errors.New("please fill in all fields")

// Profile holds the raw details a user enters for their CV
type Profile struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Position   string `json:"job_position"`
	Experience string `json:"experience"`
	Education  string `json:"education"`
	Skills     string `json:"skills"`
}

// Document is a generated CV
type Document struct {
	ID        string    `json:"id"`
	Profile   Profile   `json:"profile"`
	Markdown  string    `json:"markdown"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the document is past its expiry time.
func (d *Document) Expired(now time.Time) bool {
	return !d.ExpiresAt.IsZero() && now.After(d.ExpiresAt)
}

// Normalize trims surrounding whitespace from every field.
func (p Profile) Normalize() Profile {
	return Profile{
		Name:       strings.TrimSpace(p.Name),
		Email:      strings.TrimSpace(p.Email),
		Phone:      strings.TrimSpace(p.Phone),
		Position:   strings.TrimSpace(p.Position),
		Experience: strings.TrimSpace(p.Experience),
		Education:  strings.TrimSpace(p.Education),
		Skills:     strings.TrimSpace(p.Skills),
	}
}

// MissingFields lists the form names of empty fields in display order.
func (p Profile) MissingFields() []string {
	fields := []struct {
		name  string
		value string
	}{
		{"name", p.Name},
		{"email", p.Email},
		{"phone", p.Phone},
		{"job_position", p.Position},
		{"experience", p.Experience},
		{"education", p.Education},
		{"skills", p.Skills},
	}
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Validate returns ErrIncompleteProfile wrapped with the missing field names.
func (p Profile) Validate() error {
	if missing := p.MissingFields(); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteProfile, strings.Join(missing, ", "))
	}
	return nil
}

// ContactLine is the "email | phone" line shown under the name.
func (p Profile) ContactLine() string {
	return p.Email + " | " + p.Phone
}

// FileName returns the download name for the given extension, e.g. cv_jane_doe.pdf.
// Only a-z, 0-9, '_' and '-' survive from the name.
func (p Profile) FileName(ext string) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, strings.ToLower(strings.TrimSpace(p.Name)))
	if strings.Trim(base, "_-") == "" {
		base = "document"
	}
	return "cv_" + base + "." + strings.TrimPrefix(ext, ".")
}
