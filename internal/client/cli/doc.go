// Package cli provides the interactive Yogayukt command-line client.
//
// It wires configuration, session storage, the HTTP gateway and the auth
// flow controller, and drives the flow from a REPL: pick login or signup,
// fill in the form, enter the verification code and land on the seeker
// home screen. Field errors are printed under the field they belong to;
// backend errors are printed once as a notification until dismissed.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and the input helpers for details.
package cli
