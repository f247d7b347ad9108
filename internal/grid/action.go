package grid

// Action is a command offered on each row, such as "Edit" or "Delete".
type Action[R any] struct {
	Label string
	Run   func(row R)
	// Disabled, when set, reports the rows the action cannot run on.
	Disabled func(row R) bool
}

// Enabled reports whether the action can run on row.
func (a Action[R]) Enabled(row R) bool {
	return a.Run != nil && (a.Disabled == nil || !a.Disabled(row))
}
