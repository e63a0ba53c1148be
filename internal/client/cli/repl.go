package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/yogayukt/internal/client/flow"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	state() flow.State
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	OTP(ctx context.Context) error
	Back(ctx context.Context) error
	Session(ctx context.Context) error
	Dismiss(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a
// until input ends or the user types "exit" or "quit".
//
// Commands:
//
//	help          show the commands available on the current screen
//	login         open the login screen and sign in
//	signup        open the signup screen and create an account
//	otp           enter the verification code
//	back          return to the previous screen
//	session       show the stored signup and login results
//	dismiss       clear the error notification
//	exit | quit   leave the program
//
// Handlers only fail when input cannot be read, which ends the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("yy %s > ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpText(a.state()))

		case "login":
			cmdErr = a.Login(ctx)

		case "signup":
			cmdErr = a.Signup(ctx)

		case "otp":
			cmdErr = a.OTP(ctx)

		case "back":
			cmdErr = a.Back(ctx)

		case "session":
			cmdErr = a.Session(ctx)

		case "dismiss":
			cmdErr = a.Dismiss(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Input closed:", cmdErr)
			return
		}
	}
}

func helpText(s flow.State) string {
	switch s {
	case flow.StateLanding:
		return "Available commands: login, signup, session, exit"
	case flow.StateLogin:
		return "Available commands: login, signup, back, dismiss, session, exit"
	case flow.StateSignup:
		return "Available commands: signup, login, back, dismiss, session, exit"
	case flow.StateOTPVerify:
		return "Available commands: otp, back, dismiss, session, exit"
	default:
		return "Available commands: session, exit"
	}
}
