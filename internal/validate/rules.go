package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Required fails blank (empty or whitespace-only) values.
func Required() Rule {
	return Rule{Required: true}
}

// MinLength fails values shorter than n characters.
func MinLength(n int) Rule {
	return Rule{Min: n}
}

// MaxLength fails values longer than n characters.
func MaxLength(n int) Rule {
	return Rule{Max: n}
}

// Pattern compiles expr into a rule that fails values it does not match.
// The match is unanchored; use ^ and $ to match the whole value.
func Pattern(expr string) (Rule, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Rule{}, fmt.Errorf("compile pattern %q: %w", expr, err)
	}
	return Rule{Pattern: re}, nil
}

// MustPattern is like Pattern but panics on an invalid expression. It is
// meant for package-level rules built from literals.
func MustPattern(expr string) Rule {
	r, err := Pattern(expr)
	if err != nil {
		panic(err)
	}
	return r
}

// Custom wraps fn in a rule.
func Custom(fn ValidatorFunc) Rule {
	return Rule{Validator: fn}
}

// WithMessage returns a copy of r whose checks all fail with msg.
func (r Rule) WithMessage(msg string) Rule {
	r.Message = msg
	return r
}

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9][0-9 ()\-.]{5,}[0-9]$`)
)

// Email fails values that do not look like an e-mail address.
func Email() Rule {
	return Rule{Pattern: emailRe, Message: "Invalid email address"}
}

// Phone fails values that do not look like a phone number.
func Phone() Rule {
	return Rule{Pattern: phoneRe, Message: "Invalid phone number"}
}

// URL fails values that are not absolute http(s) URLs.
func URL() Rule {
	return Rule{
		Message: "Invalid URL",
		Validator: func(v string) (bool, string) {
			u, err := url.Parse(strings.TrimSpace(v))
			if err != nil {
				return false, ""
			}
			return (u.Scheme == "http" || u.Scheme == "https") && u.Host != "", ""
		},
	}
}

// Builtin returns the named built-in rule: "email", "phone" or "url".
func Builtin(name string) (Rule, bool) {
	switch strings.ToLower(name) {
	case "email":
		return Email(), true
	case "phone":
		return Phone(), true
	case "url":
		return URL(), true
	}
	return Rule{}, false
}
