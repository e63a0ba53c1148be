// Package gateway performs outbound JSON HTTP calls for the auth client and
// normalises every outcome into an Envelope.
//
// No gateway method returns an error or panics: failures are reported in
// Envelope.Err as a *TransportError, so callers branch on the envelope
// alone. There are no retries and no timeout beyond what the Doer and the
// context impose.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/yogayukt/internal/common"
	"github.com/dmitrijs2005/yogayukt/internal/logging"
	"github.com/google/uuid"
)

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Envelope is the uniform result of a gateway call.
//
// On success StatusCode is the 2xx status and Body the response body. On
// failure Err is set; StatusCode is the real HTTP status when one was
// received, StatusUnknown otherwise, and Body holds the error payload.
// Body is always valid JSON or nil: a non-JSON payload is wrapped as a
// JSON string.
type Envelope struct {
	StatusCode int
	Body       json.RawMessage
	Err        error
}

// OK reports whether the call succeeded.
func (e Envelope) OK() bool { return e.Err == nil }

// Gateway sends JSON requests through a Doer and wraps every outcome in an
// Envelope.
type Gateway struct {
	client Doer
	log    logging.Logger
	newID  func() string
}

// New returns a gateway sending through client. A nil client means a plain
// *http.Client with no timeout.
func New(client Doer, log logging.Logger) *Gateway {
	if client == nil {
		client = &http.Client{}
	}
	return &Gateway{client: client, log: log.With("component", "gateway"), newID: uuid.NewString}
}

func (g *Gateway) Get(ctx context.Context, url string) Envelope {
	return g.do(ctx, http.MethodGet, url, nil)
}

func (g *Gateway) Post(ctx context.Context, url string, body any) Envelope {
	return g.do(ctx, http.MethodPost, url, body)
}

func (g *Gateway) Put(ctx context.Context, url string, body any) Envelope {
	return g.do(ctx, http.MethodPut, url, body)
}

// Delete is not supported. It performs no I/O and always returns an
// envelope whose Err wraps ErrNotImplemented.
func (g *Gateway) Delete(ctx context.Context, url string) Envelope {
	g.log.Warn(ctx, "delete requested", "url", url)
	return Envelope{
		StatusCode: StatusUnknown,
		Err: &TransportError{
			Kind:   KindUnimplemented,
			Method: http.MethodDelete,
			URL:    url,
			Cause:  ErrNotImplemented,
		},
	}
}

func (g *Gateway) do(ctx context.Context, method, url string, body any) Envelope {
	fail := func(kind Kind, status int, payload []byte, cause error) Envelope {
		return Envelope{
			StatusCode: status,
			Body:       normalizeBody(payload),
			Err: &TransportError{
				Kind:       kind,
				Method:     method,
				URL:        url,
				StatusCode: status,
				Body:       payload,
				Cause:      cause,
			},
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fail(KindRequest, StatusUnknown, nil, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fail(KindRequest, StatusUnknown, nil, err)
	}

	requestID := g.newID()
	req.Header.Set("Content-Type", common.ContentTypeJSON)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)

	log := g.log.With("method", method, "url", url, "request_id", requestID)
	start := time.Now()

	resp, err := g.client.Do(req)
	if err != nil {
		kind := classify(ctx, err)
		log.Warn(ctx, "http call failed", "kind", kind.String(), "error", err, "duration", time.Since(start))
		return fail(kind, statusFromError(err), bodyFromError(err), err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn(ctx, "http body read failed", "status", resp.StatusCode, "error", err)
		return fail(classify(ctx, err), resp.StatusCode, nil, err)
	}

	log.Debug(ctx, "http call", "status", resp.StatusCode, "bytes", len(payload), "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(KindStatus, resp.StatusCode, payload, nil)
	}

	return Envelope{StatusCode: resp.StatusCode, Body: normalizeBody(payload)}
}

func classify(ctx context.Context, err error) Kind {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return KindCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}
	return KindNetwork
}

// normalizeBody keeps valid JSON as is and wraps anything else as a JSON
// string. Empty payloads become nil.
func normalizeBody(payload []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil
	}
	if json.Valid(trimmed) {
		return json.RawMessage(bytes.Clone(trimmed))
	}
	quoted, _ := json.Marshal(string(payload))
	return json.RawMessage(quoted)
}
