package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/yogayukt/internal/client/authapi"
	"github.com/dmitrijs2005/yogayukt/internal/client/config"
	"github.com/dmitrijs2005/yogayukt/internal/client/flow"
	"github.com/dmitrijs2005/yogayukt/internal/client/gateway"
	"github.com/dmitrijs2005/yogayukt/internal/client/session"
	"github.com/dmitrijs2005/yogayukt/internal/client/storage"
	"github.com/dmitrijs2005/yogayukt/internal/common"
	"github.com/dmitrijs2005/yogayukt/internal/logging"
)

// App is the terminal client: the auth flow and its dependencies plus the
// REPL input and output.
type App struct {
	config  *config.Config
	log     logging.Logger
	backend storage.Backend
	store   *session.Store
	flow    *flow.Controller
	reader  *bufio.Reader
	out     io.Writer

	shownErr    string
	unsubscribe []func()
}

// NewApp opens the configured storage backend, restores the saved session
// and builds the auth flow on top of the HTTP gateway. Logs go to stderr.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	log := logging.New(os.Stderr, c.LogLevel, "text")

	backend, err := storage.Open(ctx, storage.Options{
		Engine:    c.StoreBackend,
		Path:      c.StorePath,
		RedisAddr: c.RedisAddr,
		Namespace: common.StoreNamespace,
	})
	if err != nil {
		log.Error(ctx, "error opening session storage", "backend", c.StoreBackend, "error", err)
		return nil, err
	}

	api := authapi.NewClient(gateway.New(nil, log), c.BaseAuthURL(), log)

	app := newApp(ctx, c, log, backend, api, bufio.NewReader(os.Stdin), os.Stdout)
	return app, nil
}

// newApp wires an App from already constructed parts.
func newApp(ctx context.Context, c *config.Config, log logging.Logger, backend storage.Backend, api *authapi.Client, reader *bufio.Reader, out io.Writer) *App {
	store := session.New(backend, log)
	if err := store.Hydrate(ctx); err != nil {
		log.Warn(ctx, "saved session ignored", "error", err)
	}

	var opts []flow.Option
	if c.VerifyOTPRemotely {
		opts = append(opts, flow.WithOTPVerifier(api))
	}

	a := &App{
		config:  c,
		log:     log,
		backend: backend,
		store:   store,
		flow:    flow.New(api, store, log, opts...),
		reader:  reader,
		out:     out,
	}
	a.unsubscribe = append(a.unsubscribe,
		a.flow.Subscribe(a.onView),
		a.store.Subscribe(a.onSession),
	)
	return a
}

// onView prints a flow error once, when it first appears.
func (a *App) onView(v flow.View) {
	if v.Error == a.shownErr {
		return
	}
	a.shownErr = v.Error
	if v.Error != "" {
		fmt.Fprintf(a.out, "! %s (type 'dismiss' to clear)\n", v.Error)
	}
}

func (a *App) onSession(rec session.Record) {
	a.log.Debug(context.Background(), "session changed", "signup", rec.Signup != nil, "login", rec.Login != nil)
}

// Run starts the REPL and blocks until the user exits or input ends. The
// storage backend is closed on return.
func (a *App) Run(ctx context.Context) {
	defer a.Close(ctx)
	a.Root(ctx)
}

// Close drops the app's subscriptions and closes the storage backend.
func (a *App) Close(ctx context.Context) {
	for _, unsubscribe := range a.unsubscribe {
		unsubscribe()
	}
	a.unsubscribe = nil

	if a.backend == nil {
		return
	}
	if err := a.backend.Close(); err != nil {
		a.log.Warn(ctx, "error closing session storage", "error", err)
	}
}

// Root prints the greeting and runs the REPL on the app's reader.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to Yogayukt (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) getStatus() string {
	v := a.flow.View()
	s := v.State.String()
	if v.Pending {
		s += " pending"
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) state() flow.State {
	return a.flow.View().State
}
