package validation

import (
	"strings"
)

// Field names, matching the JSON keys of the forms.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldUsername = "username"
	FieldRole     = "role"
	FieldOTP      = "otp"
)

// OTPLength is the number of single-character slots in a verification code.
const OTPLength = 6

// RoleOptions are the roles offered by the signup screen. The schema itself
// only requires a non-empty role and does not enforce this list.
var RoleOptions = []string{"Seeker", "Teacher", "Center"}

var emailRules = []Rule{
	{Tag: "email", Message: "Invalid email address"},
}

// SignupPasswordPolicy is the password strength policy for new accounts.
var SignupPasswordPolicy = []Rule{
	{Tag: "min=6", Message: "Password must be at least 6 characters long"},
	{Tag: tagHasUpper, Message: "Password must include at least one uppercase letter"},
	{Tag: tagHasDigit, Message: "Password must include at least one number"},
	{Tag: tagHasSymbol, Message: "Password must include at least one special character"},
}

// LoginPasswordPolicy is applied to passwords on the login form. It is the
// signup policy, so an account whose password predates the policy cannot
// pass client-side validation.
var LoginPasswordPolicy = SignupPasswordPolicy

var usernameRules = []Rule{
	{Tag: "required", Message: "Full name is required"},
	{Tag: "max=50", Message: "Full name must be at most 50 characters"},
}

var roleRules = []Rule{
	{Tag: "required", Message: "Please select a role."},
}

var otpRules = []Rule{
	{Tag: "len=6", Message: "OTP must be 6 digits"},
}

var otpDigitRules = []Rule{
	{Tag: "len=1", Message: "Each digit must be a single character"},
}

// LoginInput is the raw login form.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginData is a validated, normalised login form.
type LoginData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupInput is the raw signup form. TermsAccepted is carried for the
// flow controller; the schema does not look at it.
type SignupInput struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Role          string `json:"role"`
	TermsAccepted bool   `json:"terms_accepted"`
}

// SignupData is a validated signup form with the full name split into
// first and last name.
type SignupData struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SplitFullName splits a full name on whitespace: the first token is the
// first name, the remaining tokens joined by one space the last name.
func SplitFullName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// ValidateLogin checks a login form.
func ValidateLogin(in LoginInput) (LoginData, FieldErrors) {
	errs := FieldErrors{}

	email := NormalizeEmail(in.Email)
	check(errs, FieldEmail, email, emailRules)
	check(errs, FieldPassword, in.Password, LoginPasswordPolicy)

	if errs = errs.orNil(); errs != nil {
		return LoginData{}, errs
	}
	return LoginData{Email: email, Password: in.Password}, nil
}

// ValidateSignup checks a signup form.
func ValidateSignup(in SignupInput) (SignupData, FieldErrors) {
	errs := FieldErrors{}

	username := strings.TrimSpace(in.Username)
	email := NormalizeEmail(in.Email)

	check(errs, FieldUsername, username, usernameRules)
	check(errs, FieldEmail, email, emailRules)
	check(errs, FieldPassword, in.Password, SignupPasswordPolicy)
	check(errs, FieldRole, in.Role, roleRules)

	if errs = errs.orNil(); errs != nil {
		return SignupData{}, errs
	}

	first, last := SplitFullName(username)
	return SignupData{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Password:  in.Password,
		Role:      in.Role,
	}, nil
}

// ValidateOTP checks that digits has exactly OTPLength single-character
// entries and returns them joined.
func ValidateOTP(digits []string) (string, FieldErrors) {
	errs := FieldErrors{}

	check(errs, FieldOTP, digits, otpRules)
	for _, d := range digits {
		check(errs, FieldOTP, d, otpDigitRules)
	}

	if errs = errs.orNil(); errs != nil {
		return "", errs
	}
	return strings.Join(digits, ""), nil
}
