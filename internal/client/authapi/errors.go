package authapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/yogayukt/internal/client/gateway"
)

// ErrMalformedResponse is returned when a 2xx body is not a JSON object.
var ErrMalformedResponse = errors.New("malformed response body")

const (
	msgInvalidCredentials = "Invalid email or password."
	msgConflict           = "An account with this email already exists."
	msgBadRequest         = "Please check your details and try again."
	msgTimeout            = "The request timed out. Please try again."
	msgNetwork            = "Unable to reach the server. Check your connection."
	msgServer             = "Something went wrong on our side. Please try again later."
	msgGeneric            = "Something went wrong. Please try again."
)

// UserMessage turns an error from this package into the one line shown to
// the user. A "message" or "error" string in the server's error body is
// preferred over the built-in text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var te *gateway.TransportError
	if !errors.As(err, &te) {
		return msgGeneric
	}

	if msg := serverMessage(te.Body); msg != "" {
		return msg
	}

	switch te.Kind {
	case gateway.KindTimeout:
		return msgTimeout
	case gateway.KindNetwork:
		if te.StatusCode == gateway.StatusUnknown {
			return msgNetwork
		}
	case gateway.KindCanceled, gateway.KindRequest, gateway.KindUnimplemented:
		return msgGeneric
	}

	switch {
	case te.StatusCode == http.StatusUnauthorized, te.StatusCode == http.StatusForbidden:
		return msgInvalidCredentials
	case te.StatusCode == http.StatusConflict:
		return msgConflict
	case te.StatusCode == http.StatusRequestTimeout:
		return msgTimeout
	case te.StatusCode == http.StatusBadRequest, te.StatusCode == http.StatusUnprocessableEntity:
		return msgBadRequest
	case te.StatusCode >= 500:
		return msgServer
	default:
		return msgGeneric
	}
}

func serverMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"message", "error"} {
		if s, ok := payload[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
