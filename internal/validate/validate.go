// Package validate checks a single text value against an ordered list of
// rules and reports the first failure as a user-facing message.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ValidatorFunc is a custom check. A non-empty message fails the value with
// that message; ok == false with no message fails it with the rule's
// fallback message; anything else passes.
type ValidatorFunc func(value string) (ok bool, message string)

// Rule is one validation rule. Within a rule the checks run in the order
// Required, Min, Max, Pattern, Validator and the first failing check wins.
// Message, when set, replaces the default text of every check in the rule.
type Rule struct {
	Required  bool
	Min       int
	Max       int
	Pattern   *regexp.Regexp
	Message   string
	Validator ValidatorFunc
}

type options struct {
	label string
}

// Option configures Validate.
type Option func(*options)

// WithLabel names the field in the default "is required" message.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

// Validate returns the message of the first failing check across rules, or
// "" when the value passes them all. Lengths are measured in characters
// (runes), not bytes. A panicking Validator propagates to the caller.
func Validate(value string, rules []Rule, opts ...Option) string {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	for _, rule := range rules {
		if msg := rule.check(value, o.label); msg != "" {
			return msg
		}
	}
	return ""
}

// Evaluate is Validate gated on interaction: a field that was never touched
// and is still empty reports no error.
func Evaluate(value string, touched bool, rules []Rule, label string) string {
	if !touched && value == "" {
		return ""
	}
	return Validate(value, rules, WithLabel(label))
}

func (r Rule) check(value, label string) string {
	if r.Required && strings.TrimSpace(value) == "" {
		if label == "" {
			label = "This field"
		}
		return r.message(label + " is required")
	}

	n := utf8.RuneCountInString(value)
	if r.Min > 0 && n < r.Min {
		return r.message(fmt.Sprintf("Must be at least %d characters", r.Min))
	}
	if r.Max > 0 && n > r.Max {
		return r.message(fmt.Sprintf("Must be no more than %d characters", r.Max))
	}

	if r.Pattern != nil && !r.Pattern.MatchString(value) {
		return r.message("Invalid format")
	}

	if r.Validator != nil {
		ok, msg := r.Validator(value)
		if msg != "" {
			return msg
		}
		if !ok {
			return r.message("Invalid value")
		}
	}
	return ""
}

func (r Rule) message(fallback string) string {
	if r.Message != "" {
		return r.Message
	}
	return fallback
}
