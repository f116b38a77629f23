package validate

import (
	"regexp"

	"spacebook/internal/model"
	"spacebook/internal/util"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// MinPasswordLength matches the signup form's minimum.
const MinPasswordLength = 6

// Email checks the address format.
func Email(email string) error {
	if email == "" {
		return &model.ValidationError{Field: "email", Message: "must not be empty"}
	}
	if !emailPattern.MatchString(email) {
		return &model.ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	return nil
}

// Password checks the minimum length.
func Password(password string) error {
	if len(password) < MinPasswordLength {
		return &model.ValidationError{Field: "password", Message: "must be at least 6 characters"}
	}
	return nil
}

// DraftText rejects drafts that are empty after whitespace
// normalization. Runs before any store write.
func DraftText(text string) error {
	if util.NormalizeWhitespace(text) == "" {
		return &model.ValidationError{Field: "text", Message: "must not be empty"}
	}
	return nil
}

// Name checks a first/last name field.
func Name(field, value string) error {
	if util.NormalizeWhitespace(value) == "" {
		return &model.ValidationError{Field: field, Message: "must not be empty"}
	}
	return nil
}

// Signup validates every signup field and returns the first failure.
// The network call only happens when all checks pass.
func Signup(firstName, lastName, email, password string) error {
	if err := Name("first_name", firstName); err != nil {
		return err
	}
	if err := Name("last_name", lastName); err != nil {
		return err
	}
	if err := Email(email); err != nil {
		return err
	}
	return Password(password)
}

// Login validates the login fields.
func Login(email, password string) error {
	if err := Email(email); err != nil {
		return err
	}
	return Password(password)
}
