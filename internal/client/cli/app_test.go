package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/yogayukt/internal/client/authapi"
	"github.com/dmitrijs2005/yogayukt/internal/client/config"
	"github.com/dmitrijs2005/yogayukt/internal/client/flow"
	"github.com/dmitrijs2005/yogayukt/internal/client/gateway"
	"github.com/dmitrijs2005/yogayukt/internal/client/storage"
	"github.com/dmitrijs2005/yogayukt/internal/common"
	"github.com/dmitrijs2005/yogayukt/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	app     *App
	backend *storage.MemoryBackend
	out     *bytes.Buffer

	mu    sync.Mutex
	paths []string
}

func (e *testEnv) calledPaths() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.paths...)
}

func newTestEnv(t *testing.T, input string, handler http.HandlerFunc, mutate ...func(*config.Config)) *testEnv {
	t.Helper()
	stubTerminal(t, false, nil, nil)

	env := &testEnv{backend: storage.NewMemoryBackend(), out: &bytes.Buffer{}}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.mu.Lock()
		env.paths = append(env.paths, r.URL.Path)
		env.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	orig := printlnFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(env.out, a...) }
	t.Cleanup(func() { printlnFn = orig })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ServerBaseURL = srv.URL
	for _, m := range mutate {
		m(cfg)
	}

	api := authapi.NewClient(gateway.New(srv.Client(), logging.Nop()), cfg.BaseAuthURL(), logging.Nop())
	env.app = newApp(context.Background(), cfg, logging.Nop(), env.backend, api, rdr(input), env.out)
	return env
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/auth/signup":
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":1}`)
	case "/auth/login":
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"token":"abc"}`)
	case "/auth/verify_user":
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"verified":true}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestApp_SignupAndVerify(t *testing.T) {
	input := "signup\nJane Doe\nJANE@X.com\nAbcd1!\n1\ny\notp\n123456\nsession\nexit\n"
	env := newTestEnv(t, input, okHandler)

	env.app.Root(context.Background())

	assert.Equal(t, flow.StateSeekerHome, env.app.state())
	assert.Equal(t, []string{"/auth/signup"}, env.calledPaths())
	assert.Contains(t, env.out.String(), "Success! Now at otp_verify.")
	assert.Contains(t, env.out.String(), "Success! Now at seeker_home.")
	assert.Contains(t, env.out.String(), `signup: status 201 {"id":1}`)
	assert.Contains(t, env.out.String(), "login: none")

	data, err := env.backend.Get(context.Background(), common.StoreNamespace)
	require.NoError(t, err)
	assert.JSONEq(t, `{"signup":{"status_code":201,"body":{"id":1}}}`, string(data))
}

func TestApp_RemoteVerification(t *testing.T) {
	input := "signup\nJane Doe\njane@x.com\nAbcd1!\nSeeker\nyes\notp\n123456\nexit\n"
	env := newTestEnv(t, input, okHandler, func(c *config.Config) { c.VerifyOTPRemotely = true })

	env.app.Root(context.Background())

	assert.Equal(t, flow.StateSeekerHome, env.app.state())
	assert.Equal(t, []string{"/auth/signup", "/auth/verify_user"}, env.calledPaths())
}

func TestApp_LoginFieldErrors(t *testing.T) {
	env := newTestEnv(t, "login\nnope\nabc\nexit\n", okHandler)

	env.app.Root(context.Background())

	out := env.out.String()
	assert.Empty(t, env.calledPaths())
	assert.Contains(t, out, "email:\n  * Invalid email address\n")
	assert.Contains(t, out, "  * Password must include at least one number\n")
	assert.Equal(t, flow.StateLogin, env.app.state())
}

func TestApp_LoginFailureNotification(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Wrong password"})
	}
	env := newTestEnv(t, "login\njane@x.com\nAbcd1!\ndismiss\nlogin\njane@x.com\nAbcd1!\nexit\n", handler)

	env.app.Root(context.Background())

	assert.Equal(t, 2, strings.Count(env.out.String(), "! Wrong password (type 'dismiss' to clear)\n"))
	assert.Equal(t, flow.StateLogin, env.app.state())

	env.app.flow.DismissError()
	env.app.Close(context.Background())
	assert.Nil(t, env.app.unsubscribe)
}

func TestApp_SignupTermsDeclined(t *testing.T) {
	env := newTestEnv(t, "signup\nJane Doe\njane@x.com\nAbcd1!\n1\nn\nexit\n", okHandler)

	env.app.Root(context.Background())

	assert.Empty(t, env.calledPaths())
	assert.Contains(t, env.out.String(), "Please accept the terms and conditions to continue.")
	assert.Equal(t, flow.StateSignup, env.app.state())
}

func TestApp_NavigationMessages(t *testing.T) {
	env := newTestEnv(t, "otp\nback\nsignup\nJane\nbad\nx\n\nn\nback\nexit\n", okHandler)

	env.app.Root(context.Background())

	out := env.out.String()
	assert.Contains(t, out, "No verification code is expected right now.")
	assert.Contains(t, out, "Nowhere to go back to.")
	assert.Contains(t, out, "Now at landing.")
}

func TestApp_HydratesSavedSession(t *testing.T) {
	backend := storage.NewMemoryBackend()
	require.NoError(t, backend.Set(context.Background(), common.StoreNamespace, []byte(`{"login":{"status_code":200,"body":{"token":"abc"}}}`)))

	cfg := &config.Config{}
	cfg.LoadDefaults()
	api := authapi.NewClient(gateway.New(nil, logging.Nop()), cfg.BaseAuthURL(), logging.Nop())
	var out bytes.Buffer

	app := newApp(context.Background(), cfg, logging.Nop(), backend, api, rdr(""), &out)

	rec := app.store.State()
	require.NotNil(t, rec.Login)
	assert.Equal(t, 200, rec.Login.StatusCode)

	app.Close(context.Background())
	_, err := backend.Get(context.Background(), common.StoreNamespace)
	assert.ErrorIs(t, err, storage.ErrClosed)
}

func TestNewApp(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StoreBackend = storage.EngineMemory

	app, err := NewApp(cfg)
	require.NoError(t, err)
	assert.Equal(t, flow.StateLanding, app.state())
	assert.Equal(t, "(landing)", app.getStatus())
	app.Close(context.Background())

	cfg.StoreBackend = "floppy"
	_, err = NewApp(cfg)
	assert.ErrorIs(t, err, storage.ErrUnknownBackend)
}
