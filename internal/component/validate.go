package component

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// ValidationResult is the outcome of running a validator. A failed
// validation is a first-class value surfaced to the user, never an error.
type ValidationResult struct {
	Valid   bool
	Message string
}

// Valid is the result every validator returns on success.
func valid() ValidationResult {
	return ValidationResult{Valid: true}
}

func invalid(format string, args ...any) ValidationResult {
	return ValidationResult{Valid: false, Message: fmt.Sprintf(format, args...)}
}

// Validator checks a field value. Validators other than Required treat an
// empty value as valid, so optional fields only fail once something is typed.
type Validator func(value string) ValidationResult

// Required fails on empty or whitespace-only values.
func Required(label string) Validator {
	return func(value string) ValidationResult {
		if strings.TrimSpace(value) == "" {
			return invalid("%s is required", label)
		}
		return valid()
	}
}

// Email checks the value parses as an address (RFC 5322 shape).
func Email() Validator {
	return func(value string) ValidationResult {
		if value == "" {
			return valid()
		}
		if _, err := mail.ParseAddress(value); err != nil {
			return invalid("not a valid email address")
		}
		return valid()
	}
}

// NumericRange checks the value is a number between min and max inclusive.
func NumericRange(min, max float64) Validator {
	return func(value string) ValidationResult {
		if value == "" {
			return valid()
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return invalid("must be a number")
		}
		if n < min || n > max {
			return invalid("must be between %g and %g", min, max)
		}
		return valid()
	}
}

// URL checks the value is an absolute http or https URL.
func URL() Validator {
	return func(value string) ValidationResult {
		if value == "" {
			return valid()
		}
		u, err := url.Parse(value)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return invalid("must be an http(s) URL")
		}
		return valid()
	}
}

// PasswordStrength requires at least 8 characters with a letter and a digit.
func PasswordStrength() Validator {
	return func(value string) ValidationResult {
		if value == "" {
			return valid()
		}
		if len(value) < 8 {
			return invalid("password too short (min 8 chars): %d chars", len(value))
		}
		var hasLetter, hasDigit bool
		for _, r := range value {
			switch {
			case unicode.IsLetter(r):
				hasLetter = true
			case unicode.IsDigit(r):
				hasDigit = true
			}
		}
		if !hasLetter || !hasDigit {
			return invalid("password must contain a letter and a digit")
		}
		return valid()
	}
}

// MinLen fails on values shorter than n characters.
func MinLen(n int) Validator {
	return func(value string) ValidationResult {
		if value == "" {
			return valid()
		}
		if len([]rune(value)) < n {
			return invalid("must be at least %d characters", n)
		}
		return valid()
	}
}

// MaxLen fails on values longer than n characters.
func MaxLen(n int) Validator {
	return func(value string) ValidationResult {
		if len([]rune(value)) > n {
			return invalid("must be at most %d characters", n)
		}
		return valid()
	}
}

// Pattern checks the value against a compiled regular expression.
func Pattern(re *regexp.Regexp, message string) Validator {
	return func(value string) ValidationResult {
		if value == "" {
			return valid()
		}
		if !re.MatchString(value) {
			return invalid("%s", message)
		}
		return valid()
	}
}

// RunValidators runs a chain in order; the first failure wins.
func RunValidators(value string, validators []Validator) ValidationResult {
	for _, v := range validators {
		if v == nil {
			continue
		}
		if result := v(value); !result.Valid {
			return result
		}
	}
	return valid()
}
