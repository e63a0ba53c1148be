// Package validation holds the client-side form schemas of the auth flow:
// login, signup and OTP. Each schema normalises its input and reports
// failures as human-readable messages keyed by field name. Nothing here
// panics or performs I/O.
package validation

import "github.com/go-playground/validator/v10"

// Custom validator tags used by the password policies.
const (
	tagHasUpper  = "hasupper"
	tagHasDigit  = "hasdigit"
	tagHasSymbol = "hassymbol"
)

// Rule is one independent check: a validator tag and the message shown when
// the value fails it.
type Rule struct {
	Tag     string
	Message string
}

var engine = newEngine()

func newEngine() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, tagHasUpper, func(fl validator.FieldLevel) bool {
		return containsFunc(fl.Field().String(), isUpper)
	})
	mustRegister(v, tagHasDigit, func(fl validator.FieldLevel) bool {
		return containsFunc(fl.Field().String(), isDigit)
	})
	mustRegister(v, tagHasSymbol, func(fl validator.FieldLevel) bool {
		return containsFunc(fl.Field().String(), isSymbol)
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// check runs every rule against value and records the message of each
// failing one under field. Rules never short-circuit each other.
func check(errs FieldErrors, field string, value any, rules []Rule) {
	for _, r := range rules {
		if err := engine.Var(value, r.Tag); err != nil {
			errs.Add(field, r.Message)
		}
	}
}

func containsFunc(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if pred(r) {
			return true
		}
	}
	return false
}

// The character classes below are ASCII on purpose: a symbol is anything
// outside [a-zA-Z0-9], including spaces and non-Latin letters.

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isSymbol(r rune) bool {
	return !(isUpper(r) || isDigit(r) || (r >= 'a' && r <= 'z'))
}
