// Package validation checks a resume submission against the intake policy.
package validation

import (
	"strings"
	"unicode/utf8"
)

// MinJobDescriptionLength is measured in code points.
const MinJobDescriptionLength = 100

var allowedExtensions = []string{".txt", ".pdf", ".docx"}

// AllowedExtensions returns the accepted resume file suffixes.
func AllowedExtensions() []string {
	return append([]string(nil), allowedExtensions...)
}

// Reason names the check a submission failed.
type Reason string

const (
	BadExtension        Reason = "bad_extension"
	BadEmail            Reason = "bad_email"
	ShortJobDescription Reason = "short_job_description"
)

// Outcome is either a pass (zero Reason) or the first rejection found.
type Outcome struct {
	Reason Reason
}

// OK reports whether every check passed.
func (o Outcome) OK() bool {
	return o.Reason == ""
}

// Message is the text shown to the submitter for a rejection.
func (o Outcome) Message() string {
	switch o.Reason {
	case BadExtension:
		return "❌ Invalid file type. Please upload a .txt, .pdf, or .docx file."
	case BadEmail:
		return "❌ Invalid email format. Please provide a valid email address."
	case ShortJobDescription:
		return "❌ Job description is too short. Please provide at least 100 characters."
	default:
		return ""
	}
}

// Validate runs the extension, email and job description checks in that
// order and reports only the first one that fails.
func Validate(filename, email, jobDescription string) Outcome {
	switch {
	case !HasAllowedExtension(filename):
		return Outcome{Reason: BadExtension}
	case !LooksLikeEmail(email):
		return Outcome{Reason: BadEmail}
	case utf8.RuneCountInString(jobDescription) < MinJobDescriptionLength:
		return Outcome{Reason: ShortJobDescription}
	}
	return Outcome{}
}

// HasAllowedExtension matches the filename suffix case-insensitively.
func HasAllowedExtension(filename string) bool {
	name := strings.ToLower(filename)
	for _, ext := range allowedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// LooksLikeEmail is a coarse syntactic check, not address validation: there
// must be an '@' and the segment following the first '@' (up to any second
// '@') must contain a '.'. Addresses such as "a@.b" pass; the downstream
// mailer is the real check.
func LooksLikeEmail(email string) bool {
	_, rest, found := strings.Cut(email, "@")
	if !found {
		return false
	}
	domain, _, _ := strings.Cut(rest, "@")
	return strings.Contains(domain, ".")
}
