package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imgajeed76/gridview/internal/validate"
)

func TestRequired(t *testing.T) {
	rules := []validate.Rule{validate.Required()}

	assert.Equal(t, "This field is required", validate.Validate("", rules))
	assert.Equal(t, "Email is required", validate.Validate("   ", rules, validate.WithLabel("Email")))
	assert.Empty(t, validate.Validate("x", rules))

	custom := []validate.Rule{validate.Required().WithMessage("Fill me in")}
	assert.Equal(t, "Fill me in", validate.Validate("", custom))
}

func TestLengthRules(t *testing.T) {
	rules := []validate.Rule{validate.MinLength(3), validate.MaxLength(5)}

	assert.Equal(t, "Must be at least 3 characters", validate.Validate("ab", rules))
	assert.Equal(t, "Must be no more than 5 characters", validate.Validate("abcdef", rules))
	assert.Empty(t, validate.Validate("abcd", rules))

	t.Run("lengths count characters", func(t *testing.T) {
		assert.Empty(t, validate.Validate("héé", rules))
		assert.Empty(t, validate.Validate("日本語日本", rules))
	})

	t.Run("zero bounds are ignored", func(t *testing.T) {
		assert.Empty(t, validate.Validate("", []validate.Rule{{Min: 0, Max: 0}}))
	})
}

func TestPattern(t *testing.T) {
	rule, err := validate.Pattern(`^\d+$`)
	require.NoError(t, err)

	assert.Equal(t, "Invalid format", validate.Validate("12a", []validate.Rule{rule}))
	assert.Empty(t, validate.Validate("123", []validate.Rule{rule}))

	_, err = validate.Pattern(`(`)
	assert.Error(t, err)
	assert.Panics(t, func() { validate.MustPattern(`(`) })
}

func TestCustomValidator(t *testing.T) {
	t.Run("message wins", func(t *testing.T) {
		rule := validate.Custom(func(string) (bool, string) { return false, "taken" })
		assert.Equal(t, "taken", validate.Validate("bob", []validate.Rule{rule}))
	})

	t.Run("false falls back", func(t *testing.T) {
		rule := validate.Custom(func(string) (bool, string) { return false, "" })
		assert.Equal(t, "Invalid value", validate.Validate("bob", []validate.Rule{rule}))
		assert.Equal(t, "Nope", validate.Validate("bob", []validate.Rule{rule.WithMessage("Nope")}))
	})

	t.Run("true passes to the next rule", func(t *testing.T) {
		pass := validate.Custom(func(string) (bool, string) { return true, "" })
		rules := []validate.Rule{pass, validate.MinLength(10)}
		assert.Equal(t, "Must be at least 10 characters", validate.Validate("bob", rules))
	})

	t.Run("panics propagate", func(t *testing.T) {
		rule := validate.Custom(func(string) (bool, string) { panic("boom") })
		assert.Panics(t, func() { validate.Validate("x", []validate.Rule{rule}) })
	})
}

func TestFirstFailureWins(t *testing.T) {
	rules := []validate.Rule{
		validate.Required(),
		validate.MinLength(8),
		validate.MustPattern(`\d`),
	}
	assert.Equal(t, "Password is required", validate.Validate("", rules, validate.WithLabel("Password")))
	assert.Equal(t, "Must be at least 8 characters", validate.Validate("abc", rules))
	assert.Equal(t, "Invalid format", validate.Validate("abcdefgh", rules))
	assert.Empty(t, validate.Validate("abcdefg1", rules))

	t.Run("checks within one rule run in order", func(t *testing.T) {
		combined := []validate.Rule{{Required: true, Min: 3, Pattern: validate.MustPattern(`^z`).Pattern}}
		assert.Equal(t, "This field is required", validate.Validate(" ", combined))
		assert.Equal(t, "Must be at least 3 characters", validate.Validate("ab", combined))
		assert.Equal(t, "Invalid format", validate.Validate("abc", combined))
	})
}

func TestEvaluate(t *testing.T) {
	rules := []validate.Rule{validate.Required()}
	assert.Empty(t, validate.Evaluate("", false, rules, "Name"), "untouched empty field shows no error")
	assert.Equal(t, "Name is required", validate.Evaluate("", true, rules, "Name"))
	assert.Equal(t, "Must be at least 3 characters",
		validate.Evaluate("ab", false, []validate.Rule{validate.MinLength(3)}, ""),
		"non-empty values are checked before the first blur")
}

func TestBuiltins(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"email", "john@example.com", ""},
		{"email", "john@", "Invalid email address"},
		{"phone", "+1 (555) 123-4567", ""},
		{"phone", "call me", "Invalid phone number"},
		{"url", "https://example.com/x", ""},
		{"url", "example.com", "Invalid URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name+" "+tt.value, func(t *testing.T) {
			rule, ok := validate.Builtin(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.want, validate.Validate(tt.value, []validate.Rule{rule}))
		})
	}

	_, ok := validate.Builtin("iban")
	assert.False(t, ok)
}
