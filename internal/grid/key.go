package grid

import (
	"encoding/json"
	"math"
	"strconv"
)

// Key identifies a row for selection and rendering. It holds either a string
// or an integer and is comparable, so it can be used as a map key. A string
// key "1" and an integer key 1 are different keys.
type Key struct {
	str   string
	num   int64
	isInt bool
}

// StringKey returns a string key.
func StringKey(s string) Key {
	return Key{str: s}
}

// IntKey returns an integer key.
func IntKey(n int64) Key {
	return Key{num: n, isInt: true}
}

// IsInt reports whether k holds an integer.
func (k Key) IsInt() bool {
	return k.isInt
}

// Int returns the integer held by k (0 for string keys).
func (k Key) Int() int64 {
	return k.num
}

func (k Key) String() string {
	if k.isInt {
		return strconv.FormatInt(k.num, 10)
	}
	return k.str
}

// Value returns the key as int64 or string.
func (k Key) Value() any {
	if k.isInt {
		return k.num
	}
	return k.str
}

func (k Key) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.Value())
}

// KeyOf converts a raw field value into a Key. Strings become string keys,
// integral numbers become integer keys and anything else is keyed by its
// stringified form. Null values report false.
func KeyOf(v any) (Key, bool) {
	if IsNull(v) {
		return Key{}, false
	}
	if s, ok := v.(string); ok {
		return StringKey(s), true
	}
	if n, ok := toNumber(v); ok {
		if n.isInt {
			return IntKey(n.i), true
		}
		if n.f == math.Trunc(n.f) && n.f >= math.MinInt64 && n.f < math.MaxInt64 {
			return IntKey(int64(n.f)), true
		}
	}
	return StringKey(Stringify(v)), true
}

// KeyFunc derives a row's key directly from the row.
type KeyFunc[R any] func(row R) Key

// Resolver derives the identity of a row.
//
// When Func is set it is called for every lookup and its result used as is.
// Otherwise the value of Field is read through Get. A row whose key field is
// null falls back to its positional index, which only identifies the row for
// as long as the collection it was indexed in stays unchanged.
type Resolver[R any] struct {
	Field string
	Func  KeyFunc[R]
	Get   FieldFunc[R]
}

// Resolve returns the key of row, using index as the positional fallback.
func (r Resolver[R]) Resolve(row R, index int) Key {
	if r.Func != nil {
		return r.Func(row)
	}
	if r.Get != nil && r.Field != "" {
		if k, ok := KeyOf(r.Get(row, r.Field)); ok {
			return k
		}
	}
	return IntKey(int64(index))
}
