package field_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imgajeed76/gridview/internal/field"
	"github.com/imgajeed76/gridview/internal/validate"
)

func nameField(cfg field.Config) *field.Field {
	cfg.Label = "Name"
	cfg.Rules = []validate.Rule{validate.Required(), validate.MinLength(3)}
	return field.New(cfg)
}

func TestValidationWaitsForBlur(t *testing.T) {
	f := nameField(field.Config{})

	f.Change("ab")
	assert.Empty(t, f.DisplayError(), "no error before the first blur")
	assert.False(t, f.IsValid())

	f.Blur()
	assert.True(t, f.Touched())
	assert.Equal(t, "Must be at least 3 characters", f.DisplayError())

	f.Change("abc")
	assert.Empty(t, f.DisplayError(), "touched fields re-validate on change")
	assert.True(t, f.IsValid())

	f.Change("")
	assert.Equal(t, "Name is required", f.DisplayError())
}

func TestBlurOnEmptyUntouchedField(t *testing.T) {
	f := nameField(field.Config{})
	f.Focus()
	assert.True(t, f.Focused())
	f.Blur()
	assert.False(t, f.Focused())
	assert.Equal(t, "Name is required", f.DisplayError())
}

func TestExternalErrorOverrides(t *testing.T) {
	f := nameField(field.Config{})
	f.Blur()
	f.SetError("Server says no")
	assert.Equal(t, "Server says no", f.DisplayError())
	f.SetError("")
	assert.Equal(t, "Name is required", f.DisplayError())
}

func TestControlledValue(t *testing.T) {
	var changes []string
	f := nameField(field.Config{OnChange: func(v string) { changes = append(changes, v) }})
	f.SetControlledValue("owner")

	f.Change("typed")
	assert.Equal(t, "owner", f.Value(), "controlled value only moves when the owner sets it")
	assert.Equal(t, []string{"typed"}, changes)

	f.Blur()
	assert.True(t, f.IsValid())
	f.SetControlledValue("x")
	assert.Equal(t, "Must be at least 3 characters", f.DisplayError())
}

func TestUncontrolledDefault(t *testing.T) {
	f := field.New(field.Config{DefaultValue: "seed"})
	assert.Equal(t, "seed", f.Value())
	assert.False(t, f.Controlled())
	f.Change("next")
	assert.Equal(t, "next", f.Value())
}

func TestCallbacks(t *testing.T) {
	var events []string
	f := field.New(field.Config{
		OnFocus: func() { events = append(events, "focus") },
		OnBlur:  func() { events = append(events, "blur") },
		OnEnter: func(v string) { events = append(events, "enter:"+v) },
	})
	f.Focus()
	f.Change("hi")
	f.Enter()
	f.Blur()
	assert.Equal(t, []string{"focus", "enter:hi", "blur"}, events)
}

func TestDisabledIgnoresInput(t *testing.T) {
	f := field.New(field.Config{Disabled: true, DefaultValue: "fixed"})
	f.Change("new")
	f.Focus()
	assert.Equal(t, "fixed", f.Value())
	assert.False(t, f.Focused())
}

func TestPasswordToggle(t *testing.T) {
	f := field.New(field.Config{Type: field.Password})
	assert.Equal(t, field.Password, f.InputType())
	f.TogglePassword()
	assert.Equal(t, field.Text, f.InputType())
	f.TogglePassword()
	assert.Equal(t, field.Password, f.InputType())

	plain := field.New(field.Config{Type: field.Email})
	plain.TogglePassword()
	assert.Equal(t, field.Email, plain.InputType())
}

func TestGeneratedID(t *testing.T) {
	a := field.New(field.Config{})
	b := field.New(field.Config{})
	require.True(t, strings.HasPrefix(a.ID(), "input-"))
	assert.NotEqual(t, a.ID(), b.ID())

	named := field.New(field.Config{ID: "email"})
	assert.Equal(t, "email", named.ID())
}

func TestParseType(t *testing.T) {
	assert.Equal(t, field.Password, field.ParseType("Password"))
	assert.Equal(t, field.Text, field.ParseType("color"))
}
