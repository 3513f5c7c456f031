package validator

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func ValidateRegister(email, username, password string) ValidationErrors {
	errs := make(ValidationErrors)

	validateEmail(email, errs)
	validateUsername(username, errs)
	validatePassword(password, errs)

	return errs
}

func ValidateLogin(email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	validateEmail(email, errs)
	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

func ValidatePassword(password string) ValidationErrors {
	errs := make(ValidationErrors)
	validatePassword(password, errs)
	return errs
}

func ValidateUpload(title, privacy string) ValidationErrors {
	errs := make(ValidationErrors)

	title = strings.TrimSpace(title)
	if title == "" {
		errs.Add("title", "Title is required")
	} else if utf8.RuneCountInString(title) > 150 {
		errs.Add("title", "Title is too long")
	}

	if privacy != "public" && privacy != "private" && privacy != "unlisted" {
		errs.Add("privacy", "Privacy must be public, private, or unlisted")
	}

	return errs
}

func ValidateComment(content string) ValidationErrors {
	errs := make(ValidationErrors)

	content = strings.TrimSpace(content)
	if content == "" {
		errs.Add("content", "Comment content is required")
	} else if utf8.RuneCountInString(content) > 2000 {
		errs.Add("content", "Comment is too long")
	}

	return errs
}

func ValidateProfileUpdate(username, fullName, bio *string) ValidationErrors {
	errs := make(ValidationErrors)

	if username != nil {
		validateUsername(*username, errs)
	}
	if fullName != nil && utf8.RuneCountInString(*fullName) > 100 {
		errs.Add("full_name", "Full name is too long")
	}
	if bio != nil && utf8.RuneCountInString(*bio) > 500 {
		errs.Add("bio", "Bio is too long")
	}

	return errs
}

func validateEmail(email string, errs ValidationErrors) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}
}

func validateUsername(username string, errs ValidationErrors) {
	username = strings.TrimSpace(username)
	if username == "" {
		errs.Add("username", "Username is required")
	} else if len(username) < 3 {
		errs.Add("username", "Username must be at least 3 characters")
	} else if len(username) > 50 {
		errs.Add("username", "Username is too long")
	} else if !usernameRegex.MatchString(username) {
		errs.Add("username", "Username can only contain letters, numbers, _ and -")
	}
}

func validatePassword(password string, errs ValidationErrors) {
	if len(password) < 8 {
		errs.Add("password", "Password must be at least 8 characters")
		return
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	missing := []string{}
	if !hasUpper {
		missing = append(missing, "one uppercase letter")
	}
	if !hasLower {
		missing = append(missing, "one lowercase letter")
	}
	if !hasDigit {
		missing = append(missing, "one number")
	}

	if len(missing) > 0 {
		errs.Add("password", fmt.Sprintf("Password must contain at least %s", strings.Join(missing, ", ")))
	}
}
