package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/yogayukt/internal/client/flow"
	"github.com/dmitrijs2005/yogayukt/internal/client/session"
	"github.com/dmitrijs2005/yogayukt/internal/client/validation"
)

// getSimpleText, getPassword, getConfirmation and getChoice are
// indirections used to facilitate testing.
var (
	getSimpleText   = GetSimpleText
	getPassword     = GetPassword
	getConfirmation = GetConfirmation
	getChoice       = GetChoice
)

// Login opens the login screen if needed, reads the credentials and
// submits them.
func (a *App) Login(ctx context.Context) error {
	if a.state() != flow.StateLogin && !a.flow.SelectLogin() {
		fmt.Fprintln(a.out, "Login is not available from here.")
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	out := a.flow.SubmitLogin(ctx, validation.LoginInput{Email: email, Password: password})
	a.report(out)
	return nil
}

// Signup opens the signup screen if needed, reads the form and submits it.
// Declining the terms leaves the form unsent.
func (a *App) Signup(ctx context.Context) error {
	if a.state() != flow.StateSignup && !a.flow.SelectSignup() {
		fmt.Fprintln(a.out, "Signup is not available from here.")
		return nil
	}

	name, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	role, err := getChoice(a.reader, "Select role", validation.RoleOptions, a.out)
	if err != nil {
		return err
	}
	terms, err := getConfirmation(a.reader, "Accept the terms and conditions?", a.out)
	if err != nil {
		return err
	}

	out := a.flow.SubmitSignup(ctx, validation.SignupInput{
		Username:      name,
		Email:         email,
		Password:      password,
		Role:          role,
		TermsAccepted: terms,
	})
	if out == flow.OutcomeIgnored && !terms {
		fmt.Fprintln(a.out, "Please accept the terms and conditions to continue.")
		return nil
	}
	a.report(out)
	return nil
}

// OTP reads the verification code and submits it.
func (a *App) OTP(ctx context.Context) error {
	if a.state() != flow.StateOTPVerify {
		fmt.Fprintln(a.out, "No verification code is expected right now.")
		return nil
	}

	code, err := getSimpleText(a.reader, fmt.Sprintf("Enter the %d-digit code", validation.OTPLength), a.out)
	if err != nil {
		return err
	}
	a.flow.SetOTP(code)

	a.report(a.flow.SubmitOTP(ctx))
	return nil
}

// Back returns to the previous screen.
func (a *App) Back(ctx context.Context) error {
	if !a.flow.Back() {
		fmt.Fprintln(a.out, "Nowhere to go back to.")
		return nil
	}
	fmt.Fprintf(a.out, "Now at %s.\n", a.state())
	return nil
}

// Session prints the stored signup and login results.
func (a *App) Session(ctx context.Context) error {
	rec := a.store.State()
	printResult(a, "signup", rec.Signup)
	printResult(a, "login", rec.Login)
	return nil
}

// Dismiss clears the current error notification.
func (a *App) Dismiss(ctx context.Context) error {
	a.flow.DismissError()
	return nil
}

func printResult(a *App, name string, r *session.Result) {
	if r == nil {
		fmt.Fprintf(a.out, "%s: none\n", name)
		return
	}
	fmt.Fprintf(a.out, "%s: status %d %s\n", name, r.StatusCode, string(r.Body))
}

// report prints what a submit did: field errors under each field. The
// flow error is printed by onView when it appears.
func (a *App) report(out flow.Outcome) {
	v := a.flow.View()

	switch out {
	case flow.OutcomeAdvanced:
		fmt.Fprintf(a.out, "Success! Now at %s.\n", v.State)
	case flow.OutcomeInvalid:
		for _, field := range v.FieldErrors.Fields() {
			fmt.Fprintf(a.out, "%s:\n", field)
			for _, msg := range v.FieldErrors[field] {
				fmt.Fprintf(a.out, "  * %s\n", msg)
			}
		}
	case flow.OutcomeStale:
		fmt.Fprintln(a.out, "The response arrived too late and was ignored.")
	case flow.OutcomeIgnored:
		fmt.Fprintln(a.out, "Nothing to do right now.")
	}
}
