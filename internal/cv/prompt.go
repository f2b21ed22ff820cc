package cv

import "fmt"

// VerificationPrompt is sent to check that an API key works.
const VerificationPrompt = "Test connection"

// BuildPrompt creates the generation prompt for a profile.
// The user's experience, education and skills are passed through verbatim;
// the model writes the professional summary itself.
func BuildPrompt(p Profile) string {
	return fmt.Sprintf(`Create a professional CV in the following format:

# %s
%s

## Professional Summary
Create a brief professional summary highlighting key strengths and relevance for the %s position.

## Professional Experience
%s

## Education
%s

## Skills
%s

Please ensure:
1. Use clear markdown formatting
2. Use bullet points (- ) for listing items
3. Highlight key achievements and responsibilities
4. Make content relevant to %s position
5. Use professional language
6. Include dates for experience and education
7. Organize skills in categories if applicable
`, p.Name, p.ContactLine(), p.Position, p.Experience, p.Education, p.Skills, p.Position)
}
