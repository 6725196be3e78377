// Package secret holds values that must never show up in logs, errors or
// test output unless the caller explicitly asks for the plain text.
package secret

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/carved4/go-kpscript/internal/crypto"
)

// Mask is the display text used when none is given.
const Mask = "XXXXX"

// erasedSize is the length of the null filler left behind by Erase.
const erasedSize = 6

// Value wraps a secret string. Every formatting path (fmt verbs, text and JSON
// marshalling, zap fields) renders the display text; Reveal is the only way to
// get the real content back.
//
// Always handle a Value through the pointer returned by New or NewWithDisplay.
type Value struct {
	real    []byte
	display string
	erased  bool
}

func New(real string) *Value {
	return NewWithDisplay(real, Mask)
}

func NewWithDisplay(real, display string) *Value {
	b := []byte(real)
	crypto.SecureBytes(b)
	return &Value{real: b, display: display}
}

// Protect hands a new Value to fn and erases it once fn returns, panics included.
func Protect(real, display string, fn func(*Value) error) error {
	v := NewWithDisplay(real, display)
	defer v.Erase()
	return fn(v)
}

func (v *Value) Reveal() string {
	if v == nil {
		return ""
	}
	return string(v.real)
}

// Bytes returns a copy of the real content. The caller owns the copy and
// should zero it with crypto.CleanupBytes.
func (v *Value) Bytes() []byte {
	if v == nil {
		return nil
	}
	b := make([]byte, len(v.real))
	copy(b, v.real)
	return b
}

func (v *Value) Redacted() string {
	if v == nil {
		return ""
	}
	return v.display
}

// Erase zeroes the real content in place and replaces it with a fixed null
// filler. Calling it again is a no-op.
func (v *Value) Erase() {
	if v == nil || v.erased {
		return
	}
	crypto.CleanupBytes(v.real)
	v.real = make([]byte, erasedSize)
	v.erased = true
}

func (v *Value) IsErased() bool {
	return v != nil && v.erased
}

// Equal compares the display texts, like every other operator on a Value.
func (v *Value) Equal(other *Value) bool {
	return v.Redacted() == other.Redacted()
}

// The methods below use value receivers so that a dereferenced copy can't be
// printed field by field.

func (v Value) String() string {
	return v.display
}

func (v Value) GoString() string {
	return strconv.Quote(v.display)
}

func (v Value) Format(f fmt.State, verb rune) {
	switch verb {
	case 'q':
		fmt.Fprint(f, strconv.Quote(v.display))
	default:
		fmt.Fprint(f, v.display)
	}
}

func (v Value) MarshalText() ([]byte, error) {
	return []byte(v.display), nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.display)
}

// Enclose returns a new Value holding prefix + real content + suffix, built
// without an intermediate plain string.
func (v *Value) Enclose(prefix, suffix, display string) *Value {
	return v.EncloseEscaped(prefix, suffix, display, nil)
}

// EncloseEscaped is Enclose with the real content passed through escape,
// which appends its escaped src to dst. escape must not more than double the
// length of src: the buffer is sized for that so no partial copy of the
// secret is left behind by a reallocation.
func (v *Value) EncloseEscaped(prefix, suffix, display string, escape func(dst, src []byte) []byte) *Value {
	b := make([]byte, 0, len(prefix)+2*len(v.real)+len(suffix))
	b = append(b, prefix...)
	if escape != nil {
		b = escape(b, v.real)
	} else {
		b = append(b, v.real...)
	}
	b = append(b, suffix...)
	crypto.SecureBytes(b)
	return &Value{real: b, display: display}
}

// EraseAll erases every value of the list.
func EraseAll(values []*Value) {
	for _, v := range values {
		v.Erase()
	}
}

// Wrap turns each string into a Value with the default mask.
func Wrap(values []string) []*Value {
	wrapped := make([]*Value, 0, len(values))
	for _, s := range values {
		wrapped = append(wrapped, New(s))
	}
	return wrapped
}
