// Package field holds the state of a single validated text input: its value,
// whether the user has interacted with it and the error it currently shows.
// It has no rendering of its own; the terminal form drives it.
package field

import (
	"strings"

	"github.com/imgajeed76/gridview/internal/util"
	"github.com/imgajeed76/gridview/internal/validate"
)

// Type is the kind of input.
type Type string

const (
	Text     Type = "text"
	Password Type = "password"
	Email    Type = "email"
	Number   Type = "number"
	Tel      Type = "tel"
	URL      Type = "url"
	Search   Type = "search"
)

// ParseType maps a config string to a Type, defaulting to Text.
func ParseType(s string) Type {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case Password, Email, Number, Tel, URL, Search:
		return t
	}
	return Text
}

// Config describes a field.
type Config struct {
	ID          string
	Name        string
	Label       string
	Type        Type
	Placeholder string
	HelperText  string
	// DefaultValue seeds an uncontrolled field.
	DefaultValue string
	// Required marks the label; enforcement comes from Rules.
	Required bool
	Disabled bool
	ReadOnly bool
	Rules    []validate.Rule

	OnChange func(value string)
	OnBlur   func()
	OnFocus  func()
	OnEnter  func(value string)
}

// Field is the live state of one input.
//
// A field is uncontrolled until SetControlledValue is called: its value then
// belongs to the owner, and Change only reports the new text through
// OnChange.
type Field struct {
	cfg Config
	id  string

	value      string
	controlled bool

	touched       bool
	focused       bool
	showPassword  bool
	internalError string
	externalError string
}

// New creates a field. An empty Config.ID gets a generated one.
func New(cfg Config) *Field {
	if cfg.Type == "" {
		cfg.Type = Text
	}
	id := cfg.ID
	if id == "" {
		id = util.NewID("input")
	}
	return &Field{cfg: cfg, id: id, value: cfg.DefaultValue}
}

func (f *Field) ID() string { return f.id }
func (f *Field) Name() string { return f.cfg.Name }
func (f *Field) Label() string { return f.cfg.Label }
func (f *Field) Type() Type { return f.cfg.Type }
func (f *Field) Placeholder() string { return f.cfg.Placeholder }
func (f *Field) HelperText() string { return f.cfg.HelperText }
func (f *Field) Required() bool { return f.cfg.Required }
func (f *Field) Disabled() bool { return f.cfg.Disabled }
func (f *Field) ReadOnly() bool { return f.cfg.ReadOnly }
func (f *Field) Value() string { return f.value }
func (f *Field) Touched() bool { return f.touched }
func (f *Field) Focused() bool { return f.focused }
func (f *Field) Controlled() bool { return f.controlled }

// SetControlledValue hands the value over to the owner. A touched field is
// re-validated against the new value.
func (f *Field) SetControlledValue(v string) {
	f.controlled = true
	f.value = v
	if f.touched {
		f.internalError = f.validate(v)
	}
}

// SetError sets the owner-supplied error, which takes precedence over rule
// failures. An empty string clears it.
func (f *Field) SetError(msg string) {
	f.externalError = msg
}

// Change records user input. Rules run only once the field has been
// touched.
func (f *Field) Change(v string) {
	if f.cfg.Disabled || f.cfg.ReadOnly {
		return
	}
	if !f.controlled {
		f.value = v
	}
	if f.touched {
		f.internalError = f.validate(v)
	}
	if f.cfg.OnChange != nil {
		f.cfg.OnChange(v)
	}
}

// Focus marks the field focused.
func (f *Field) Focus() {
	if f.cfg.Disabled {
		return
	}
	f.focused = true
	if f.cfg.OnFocus != nil {
		f.cfg.OnFocus()
	}
}

// Blur marks the field touched and validates the current value.
func (f *Field) Blur() {
	f.focused = false
	f.touched = true
	f.internalError = f.validate(f.value)
	if f.cfg.OnBlur != nil {
		f.cfg.OnBlur()
	}
}

// Enter fires OnEnter with the current value.
func (f *Field) Enter() {
	if f.cfg.OnEnter != nil {
		f.cfg.OnEnter(f.value)
	}
}

// TogglePassword flips password visibility.
func (f *Field) TogglePassword() {
	f.showPassword = !f.showPassword
}

func (f *Field) PasswordVisible() bool {
	return f.showPassword
}

// InputType is the type to render: a password field shows as text while its
// password is visible.
func (f *Field) InputType() Type {
	if f.cfg.Type == Password && f.showPassword {
		return Text
	}
	return f.cfg.Type
}

// DisplayError is the error to show, if any.
func (f *Field) DisplayError() string {
	if f.externalError != "" {
		return f.externalError
	}
	return f.internalError
}

func (f *Field) HasError() bool {
	return f.DisplayError() != ""
}

// IsValid reports the success state: touched, error-free and not blank.
func (f *Field) IsValid() bool {
	return f.touched && !f.HasError() && strings.TrimSpace(f.value) != ""
}

// Validate runs the rules as if the field had been blurred and returns the
// resulting error without changing the field.
func (f *Field) Validate() string {
	return validate.Validate(f.value, f.cfg.Rules, validate.WithLabel(f.cfg.Label))
}

func (f *Field) validate(v string) string {
	return validate.Evaluate(v, f.touched, f.cfg.Rules, f.cfg.Label)
}
