// Package flow drives the auth screens: landing, login, signup, code
// verification and the seeker home screen.
//
// A Controller owns the current state and everything a screen renders
// (field errors, the pending flag, the flow error and the code slots). It
// validates forms locally, calls the backend through AuthAPI and records
// successful results in the session store.
//
// At most one backend call is in flight per controller. A second submit
// while one is pending is ignored, not queued. Navigating while a call is
// in flight makes its result stale: it is dropped and the store is left
// untouched.
package flow

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/yogayukt/internal/client/authapi"
	"github.com/dmitrijs2005/yogayukt/internal/client/session"
	"github.com/dmitrijs2005/yogayukt/internal/client/validation"
	"github.com/dmitrijs2005/yogayukt/internal/logging"
)

// AuthAPI is the backend the controller talks to. *authapi.Client
// satisfies it.
type AuthAPI interface {
	Signup(ctx context.Context, data validation.SignupData) (authapi.Result, error)
	Login(ctx context.Context, data validation.LoginData) (authapi.Result, error)
}

// OTPVerifier checks a verification code with the backend. Without one
// the controller accepts any well-formed code.
type OTPVerifier interface {
	VerifyOTP(ctx context.Context, email, code string) (authapi.Result, error)
}

// SessionStore receives successful results. *session.Store satisfies it.
type SessionStore interface {
	SetSignupResult(ctx context.Context, r session.Result) error
	SetLoginResult(ctx context.Context, r session.Result) error
}

// Option configures a Controller at construction.
type Option func(*Controller)

// WithOTPVerifier makes SubmitOTP check the code with v.
func WithOTPVerifier(v OTPVerifier) Option {
	return func(c *Controller) { c.verifier = v }
}

type subscriber struct {
	id uint64
	fn func(View)
}

// Controller is the auth flow state machine. It is safe for concurrent use.
type Controller struct {
	mu        sync.Mutex
	state     State
	fieldErrs validation.FieldErrors
	pending   bool
	flowErr   string
	otp       otpBox
	email     string
	gen       uint64

	api      AuthAPI
	store    SessionStore
	verifier OTPVerifier
	log      logging.Logger

	subs   []subscriber
	nextID uint64
}

// New returns a controller on the landing screen.
func New(api AuthAPI, store SessionStore, log logging.Logger, opts ...Option) *Controller {
	c := &Controller{
		state: StateLanding,
		api:   api,
		store: store,
		log:   log.With("component", "flow"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// View returns a snapshot of the flow.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) viewLocked() View {
	return View{
		State:       c.state,
		FieldErrors: c.fieldErrs.Clone(),
		Pending:     c.pending,
		Error:       c.flowErr,
		OTP:         c.otp.slice(),
		OTPComplete: c.otp.complete(),
	}
}

// Subscribe registers fn to receive a View after every change. The
// returned function removes the subscription.
func (c *Controller) Subscribe(fn func(View)) (unsubscribe func()) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, sub := range c.subs {
			if sub.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

func (c *Controller) notify() {
	c.mu.Lock()
	v := c.viewLocked()
	subs := make([]subscriber, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, sub := range subs {
		sub.fn(v)
	}
}

// DismissError clears the flow error.
func (c *Controller) DismissError() {
	c.mu.Lock()
	if c.flowErr == "" {
		c.mu.Unlock()
		return
	}
	c.flowErr = ""
	c.mu.Unlock()
	c.notify()
}

// SelectLogin opens the login screen from the landing or signup screen.
func (c *Controller) SelectLogin() bool {
	return c.navigate(StateLogin, StateLanding, StateSignup)
}

// SelectSignup opens the signup screen from the landing or login screen.
func (c *Controller) SelectSignup() bool {
	return c.navigate(StateSignup, StateLanding, StateLogin)
}

// Back returns to the previous screen: login and signup go to landing,
// code verification goes to signup. Landing and home have no way back.
func (c *Controller) Back() bool {
	c.mu.Lock()
	var to State
	switch c.state {
	case StateLogin, StateSignup:
		to = StateLanding
	case StateOTPVerify:
		to = StateSignup
	default:
		c.mu.Unlock()
		return false
	}
	c.mu.Unlock()

	return c.navigate(to, StateLogin, StateSignup, StateOTPVerify)
}

func (c *Controller) navigate(to State, from ...State) bool {
	c.mu.Lock()
	allowed := false
	for _, s := range from {
		if c.state == s {
			allowed = true
			break
		}
	}
	if !allowed {
		c.mu.Unlock()
		return false
	}

	prev := c.state
	c.state = to
	c.fieldErrs = nil
	c.flowErr = ""
	c.gen++
	if prev == StateOTPVerify {
		c.otp.reset()
	}
	c.mu.Unlock()

	c.log.Debug(context.Background(), "navigate", "from", prev.String(), "to", to.String())
	c.notify()
	return true
}

// SubmitLogin validates the login form and, if it is valid, logs in.
// On success the result is stored and the flow moves to the home screen.
func (c *Controller) SubmitLogin(ctx context.Context, in validation.LoginInput) Outcome {
	data, errs := validation.ValidateLogin(in)

	gen, out := c.begin(StateLogin, errs)
	if out != 0 {
		return out
	}

	res, err := c.api.Login(ctx, data)

	return c.finish(ctx, gen, "login", err, func() {
		c.state = StateSeekerHome
	}, func() error {
		return c.store.SetLoginResult(ctx, toSession(res))
	})
}

// SubmitSignup validates the signup form and, if it is valid, creates the
// account. Nothing happens until the terms are accepted. On success the
// result is stored and the flow moves to code verification.
func (c *Controller) SubmitSignup(ctx context.Context, in validation.SignupInput) Outcome {
	if !in.TermsAccepted {
		return OutcomeIgnored
	}

	data, errs := validation.ValidateSignup(in)

	gen, out := c.begin(StateSignup, errs)
	if out != 0 {
		return out
	}

	res, err := c.api.Signup(ctx, data)

	return c.finish(ctx, gen, "signup", err, func() {
		c.email = data.Email
		c.otp.reset()
		c.state = StateOTPVerify
	}, func() error {
		return c.store.SetSignupResult(ctx, toSession(res))
	})
}

// SubmitOTP checks the entered code and moves to the home screen. With an
// OTPVerifier the code is sent to the backend first.
func (c *Controller) SubmitOTP(ctx context.Context) Outcome {
	c.mu.Lock()
	digits := c.otp.slice()
	email := c.email
	c.mu.Unlock()

	code, errs := validation.ValidateOTP(digits)

	gen, out := c.begin(StateOTPVerify, errs)
	if out != 0 {
		return out
	}

	var err error
	if c.verifier != nil {
		_, err = c.verifier.VerifyOTP(ctx, email, code)
	}

	return c.finish(ctx, gen, "otp", err, func() { c.state = StateSeekerHome }, nil)
}

// begin checks the guards for a submit from state want. A non-zero
// Outcome means the submit stops there: Ignored for the wrong state or a
// pending call, Invalid when errs is set (the errors are recorded).
// Otherwise the controller is marked pending and the current generation
// returned.
func (c *Controller) begin(want State, errs validation.FieldErrors) (uint64, Outcome) {
	c.mu.Lock()
	if c.state != want || c.pending {
		c.mu.Unlock()
		return 0, OutcomeIgnored
	}
	if errs != nil {
		c.fieldErrs = errs
		c.flowErr = ""
		c.mu.Unlock()
		c.notify()
		return 0, OutcomeInvalid
	}
	c.fieldErrs = nil
	c.flowErr = ""
	c.pending = true
	gen := c.gen
	c.mu.Unlock()

	c.notify()
	return gen, 0
}

// finish clears the pending flag and applies the call's result, unless
// the user navigated since begin. advance runs under the lock and only
// touches controller state. save, if set, runs after the lock is released
// so store subscribers may read the controller; its failure is logged and
// does not undo the advance.
func (c *Controller) finish(ctx context.Context, gen uint64, op string, err error, advance func(), save func() error) Outcome {
	c.mu.Lock()
	c.pending = false

	var out Outcome
	switch {
	case gen != c.gen:
		out = OutcomeStale
		c.log.Debug(ctx, "stale result dropped", "op", op)
	case err != nil:
		c.flowErr = authapi.UserMessage(err)
		out = OutcomeFailed
		c.log.Info(ctx, "auth step failed", "op", op, "error", err)
	default:
		advance()
		out = OutcomeAdvanced
		c.log.Info(ctx, "auth step succeeded", "op", op, "state", c.state.String())
	}
	c.mu.Unlock()

	if out == OutcomeAdvanced && save != nil {
		if err := save(); err != nil {
			c.log.Warn(ctx, "result not saved", "op", op, "error", err)
		}
	}

	c.notify()
	return out
}

func toSession(res authapi.Result) session.Result {
	return session.Result{StatusCode: res.StatusCode, Body: res.Body}
}
