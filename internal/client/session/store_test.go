package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/yogayukt/internal/client/storage"
	"github.com/dmitrijs2005/yogayukt/internal/common"
	"github.com/dmitrijs2005/yogayukt/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingBackend rejects every write.
type failingBackend struct {
	storage.Backend
	err error
}

func (f *failingBackend) Set(ctx context.Context, key string, value []byte) error { return f.err }

// slowBackend holds writes of a record containing the body "A" until
// release is closed.
type slowBackend struct {
	*storage.MemoryBackend
	started chan struct{}
	release chan struct{}
}

func (b *slowBackend) Set(ctx context.Context, key string, value []byte) error {
	if bytes.Contains(value, []byte(`"A"`)) {
		close(b.started)
		<-b.release
	}
	return b.MemoryBackend.Set(ctx, key, value)
}

func newStore(t *testing.T) (*Store, *storage.MemoryBackend) {
	t.Helper()
	b := storage.NewMemoryBackend()
	return New(b, logging.Nop()), b
}

func loginResult() Result {
	return Result{StatusCode: 200, Body: json.RawMessage(`{"token":"abc"}`)}
}

func TestStore_StartsEmpty(t *testing.T) {
	s, _ := newStore(t)
	assert.Equal(t, Record{}, s.State())
}

func TestStore_SetResults_LastWriteWins(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetSignupResult(ctx, Result{StatusCode: 201, Body: json.RawMessage(`{"id":1}`)}))
	require.NoError(t, s.SetSignupResult(ctx, Result{StatusCode: 201, Body: json.RawMessage(`{"id":2}`)}))
	require.NoError(t, s.SetLoginResult(ctx, loginResult()))

	st := s.State()
	require.NotNil(t, st.Signup)
	assert.JSONEq(t, `{"id":2}`, string(st.Signup.Body))
	require.NotNil(t, st.Login)
	assert.Equal(t, 200, st.Login.StatusCode)
}

func TestStore_SetLoginResult_Idempotent(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	var notified int
	s.Subscribe(func(Record) { notified++ })

	require.NoError(t, s.SetLoginResult(ctx, loginResult()))
	once := s.State()
	require.NoError(t, s.SetLoginResult(ctx, loginResult()))

	assert.Equal(t, once, s.State())
	assert.Equal(t, 1, notified)
}

func TestStore_StateIsACopy(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.SetLoginResult(context.Background(), loginResult()))

	st := s.State()
	st.Login.Body[2] = 'X'
	st.Login.StatusCode = 500

	again := s.State()
	assert.Equal(t, 200, again.Login.StatusCode)
	assert.JSONEq(t, `{"token":"abc"}`, string(again.Login.Body))
}

func TestStore_Clear_OnlySignup(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetSignupResult(ctx, Result{StatusCode: 201}))
	require.NoError(t, s.SetLoginResult(ctx, loginResult()))

	require.NoError(t, s.Clear(ctx))

	st := s.State()
	assert.Nil(t, st.Signup)
	assert.NotNil(t, st.Login, "Clear keeps the login slot")

	require.NoError(t, s.ClearAll(ctx))
	assert.Equal(t, Record{}, s.State())
}

func TestStore_PersistsAndHydrates(t *testing.T) {
	s, b := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetSignupResult(ctx, Result{StatusCode: 201, Body: json.RawMessage(`{"id":7}`)}))

	raw, err := b.Get(ctx, common.StoreNamespace)
	require.NoError(t, err)
	require.NotNil(t, raw)

	restored := New(b, logging.Nop())
	require.NoError(t, restored.Hydrate(ctx))

	st := restored.State()
	require.NotNil(t, st.Signup)
	assert.Equal(t, 201, st.Signup.StatusCode)
	assert.JSONEq(t, `{"id":7}`, string(st.Signup.Body))
	assert.Nil(t, st.Login)
}

func TestStore_Hydrate(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing persisted", func(t *testing.T) {
		s, _ := newStore(t)
		require.NoError(t, s.Hydrate(ctx))
		assert.Equal(t, Record{}, s.State())
	})

	t.Run("corrupt document", func(t *testing.T) {
		s, b := newStore(t)
		require.NoError(t, b.Set(ctx, common.StoreNamespace, []byte("{not json")))
		err := s.Hydrate(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode session")
	})

	t.Run("no backend", func(t *testing.T) {
		s := New(nil, logging.Nop())
		require.NoError(t, s.Hydrate(ctx))
		require.NoError(t, s.SetLoginResult(ctx, loginResult()))
		assert.NotNil(t, s.State().Login)
	})
}

func TestStore_PersistFailureKeepsMemoryState(t *testing.T) {
	boom := errors.New("disk full")
	s := New(&failingBackend{Backend: storage.NewMemoryBackend(), err: boom}, logging.Nop())

	err := s.SetLoginResult(context.Background(), loginResult())
	require.ErrorIs(t, err, boom)
	assert.NotNil(t, s.State().Login)
}

func TestStore_Subscribe_Unsubscribe(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	var got []Record
	unsubscribe := s.Subscribe(func(r Record) { got = append(got, r) })

	require.NoError(t, s.SetSignupResult(ctx, Result{StatusCode: 201}))
	unsubscribe()
	require.NoError(t, s.SetLoginResult(ctx, loginResult()))

	require.Len(t, got, 1)
	assert.Equal(t, 201, got[0].Signup.StatusCode)
	assert.Nil(t, got[0].Login)
}

func TestStore_ConcurrentWritesPersistInOrder(t *testing.T) {
	mem := storage.NewMemoryBackend()
	b := &slowBackend{MemoryBackend: mem, started: make(chan struct{}), release: make(chan struct{})}
	s := New(b, logging.Nop())
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = s.SetLoginResult(ctx, Result{StatusCode: 200, Body: json.RawMessage(`"A"`)})
	}()
	<-b.started

	go func() {
		defer wg.Done()
		_ = s.SetLoginResult(ctx, Result{StatusCode: 200, Body: json.RawMessage(`"B"`)})
	}()
	time.Sleep(20 * time.Millisecond)
	close(b.release)
	wg.Wait()

	require.NotNil(t, s.State().Login)
	assert.Equal(t, `"B"`, string(s.State().Login.Body))

	restored := New(mem, logging.Nop())
	require.NoError(t, restored.Hydrate(ctx))
	require.NotNil(t, restored.State().Login)
	assert.Equal(t, `"B"`, string(restored.State().Login.Body))
}

func TestStore_SubscriberMayWrite(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	s.Subscribe(func(r Record) {
		if r.Signup != nil && r.Login == nil {
			_ = s.SetLoginResult(ctx, loginResult())
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.SetSignupResult(ctx, Result{StatusCode: 201})
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("SetSignupResult did not return")
	}
	assert.NotNil(t, s.State().Login)
}
