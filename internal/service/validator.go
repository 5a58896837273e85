// Package service contains the business logic layer: input validation,
// registration and login orchestration, session issuance, and best-effort
// audit logging. Handlers call into this package; this package calls into
// the repository interfaces. Nothing here knows about HTTP.
package service

import "regexp"

// RegistrationInput is the registration form as submitted by the client.
type RegistrationInput struct {
	RollNumber      string `json:"rollNumber"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Year            int    `json:"year"`
	Semester        int    `json:"semester"`
	Department      string `json:"department"`
	College         string `json:"college"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginInput is the login form as submitted by the client.
type LoginInput struct {
	RollNumber string `json:"rollNumber"`
	Password   string `json:"password"`
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// institutional addresses only, for deployments that restrict
	// registration to official college email
	strictEmailPattern = regexp.MustCompile(`^[^\s@]+@(?:svr|govpoly)\.(?:edu|ac)\.in$`)
	phonePattern       = regexp.MustCompile(`^\+?\d{10,15}$`)
)

// Validator checks registration and login submissions. Pure: no store
// access, no side effects.
type Validator struct {
	strictEmail bool
}

// NewValidator creates a Validator. With strictEmail set, only
// institutional email addresses pass.
func NewValidator(strictEmail bool) *Validator {
	return &Validator{strictEmail: strictEmail}
}

// ValidateRegistration evaluates every rule independently and returns ALL
// violations, not just the first. The caller joins them into a single
// message so the user gets complete feedback in one round trip.
// An empty slice means the input passed.
func (v *Validator) ValidateRegistration(in RegistrationInput) []string {
	var errs []string

	if in.RollNumber == "" {
		errs = append(errs, "Roll Number is required.")
	}
	if in.Name == "" {
		errs = append(errs, "Full Name is required.")
	}
	if v.strictEmail {
		if !strictEmailPattern.MatchString(in.Email) {
			errs = append(errs, "Official email (@svr.ac.in or @govpoly.ac.in) required.")
		}
	} else if !emailPattern.MatchString(in.Email) {
		errs = append(errs, "Valid Email is required.")
	}
	if !phonePattern.MatchString(in.Phone) {
		errs = append(errs, "Valid Phone (10-15 digits) is required.")
	}
	if in.Year < 1 || in.Year > 3 {
		errs = append(errs, "Year of Study must be between 1 and 3.")
	}
	if in.Semester < 1 || in.Semester > 6 {
		errs = append(errs, "Semester must be between 1 and 6.")
	}
	if in.College == "" {
		errs = append(errs, "College is required.")
	}
	if in.Password != in.ConfirmPassword {
		errs = append(errs, "Passwords do not match.")
	}
	if len(in.Password) < 6 {
		errs = append(errs, "Password must be at least 6 characters.")
	}

	return errs
}

// ValidateLogin checks that both credential fields are present.
func (v *Validator) ValidateLogin(in LoginInput) []string {
	if in.RollNumber == "" || in.Password == "" {
		return []string{"Roll number and password required"}
	}
	return nil
}
