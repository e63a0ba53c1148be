package validation

import (
	"sort"
	"strings"
)

// FieldErrors maps a form field to the messages of every rule it failed,
// in rule order. A nil or empty FieldErrors means the form is valid.
//
// FieldErrors implements error so it can travel through error-returning
// APIs, but the flow controller never branches on its content.
type FieldErrors map[string][]string

// Add appends msg to field, skipping duplicates.
func (fe FieldErrors) Add(field, msg string) {
	for _, m := range fe[field] {
		if m == msg {
			return
		}
	}
	fe[field] = append(fe[field], msg)
}

// Has reports whether field has at least one message.
func (fe FieldErrors) Has(field string) bool {
	return len(fe[field]) > 0
}

// First returns the first message for field, or "".
func (fe FieldErrors) First(field string) string {
	if msgs := fe[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Fields returns the names of failing fields in sorted order.
func (fe FieldErrors) Fields() []string {
	names := make([]string, 0, len(fe))
	for k := range fe {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy; nil stays nil.
func (fe FieldErrors) Clone() FieldErrors {
	if fe == nil {
		return nil
	}
	out := make(FieldErrors, len(fe))
	for k, v := range fe {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func (fe FieldErrors) Error() string {
	var b strings.Builder
	for i, f := range fe.Fields() {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(f)
		b.WriteString(": ")
		b.WriteString(strings.Join(fe[f], ", "))
	}
	return b.String()
}

// orNil turns an empty set into nil so callers can test with == nil.
func (fe FieldErrors) orNil() FieldErrors {
	if len(fe) == 0 {
		return nil
	}
	return fe
}
