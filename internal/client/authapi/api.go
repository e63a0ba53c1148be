// Package authapi exposes the auth backend's endpoints as typed calls on
// top of the gateway.
package authapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/yogayukt/internal/client/gateway"
	"github.com/dmitrijs2005/yogayukt/internal/client/validation"
	"github.com/dmitrijs2005/yogayukt/internal/common"
	"github.com/dmitrijs2005/yogayukt/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// Poster is the part of the gateway the API needs.
type Poster interface {
	Post(ctx context.Context, url string, body any) gateway.Envelope
}

// TokenInfo holds the claims read from a JWT in a login or signup
// response. The signature is not checked; the client only displays these.
type TokenInfo struct {
	Raw       string
	Subject   string
	ExpiresAt time.Time
}

// Result is a successful call.
type Result struct {
	StatusCode int
	Body       json.RawMessage
	Token      *TokenInfo
}

type signupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Admin     bool   `json:"admin"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// Client calls the auth endpoints through a gateway.
type Client struct {
	gw      Poster
	baseURL string
	log     logging.Logger
}

// NewClient returns a client for the auth endpoints under baseURL, e.g.
// "http://host:8080/auth".
func NewClient(gw Poster, baseURL string, log logging.Logger) *Client {
	return &Client{
		gw:      gw,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log.With("component", "authapi"),
	}
}

// Signup registers a new, non-admin account.
func (c *Client) Signup(ctx context.Context, data validation.SignupData) (Result, error) {
	return c.post(ctx, common.AuthPathSignup, signupRequest{
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Email:     data.Email,
		Password:  data.Password,
		Role:      data.Role,
		Admin:     false,
	})
}

// Login authenticates an existing account.
func (c *Client) Login(ctx context.Context, data validation.LoginData) (Result, error) {
	return c.post(ctx, common.AuthPathLogin, loginRequest{Email: data.Email, Password: data.Password})
}

// VerifyOTP submits a verification code for email.
func (c *Client) VerifyOTP(ctx context.Context, email, code string) (Result, error) {
	return c.post(ctx, common.AuthPathVerifyUser, verifyRequest{Email: email, OTP: code})
}

func (c *Client) post(ctx context.Context, path string, body any) (Result, error) {
	env := c.gw.Post(ctx, c.baseURL+path, body)
	if env.Err != nil {
		c.log.Info(ctx, "auth call failed", "path", path, "status", env.StatusCode, "error", env.Err)
		return Result{StatusCode: env.StatusCode, Body: env.Body}, env.Err
	}

	res, err := decode(env)
	if err != nil {
		c.log.Warn(ctx, "auth response rejected", "path", path, "status", env.StatusCode, "error", err)
		return res, err
	}

	c.log.Debug(ctx, "auth call succeeded", "path", path, "status", env.StatusCode, "token", res.Token != nil)
	return res, nil
}

// decode checks that a success body is a JSON object (or empty) and picks
// up the token claims if there are any.
func decode(env gateway.Envelope) (Result, error) {
	res := Result{StatusCode: env.StatusCode, Body: env.Body}
	if len(env.Body) == 0 {
		return res, nil
	}

	var payload map[string]any
	if err := json.Unmarshal(env.Body, &payload); err != nil {
		return res, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if payload == nil {
		return res, fmt.Errorf("%w: null body", ErrMalformedResponse)
	}

	for _, key := range []string{"token", "access_token"} {
		if raw, ok := payload[key].(string); ok && raw != "" {
			res.Token = parseToken(raw)
			break
		}
	}
	return res, nil
}

// parseToken reads the claims of a JWT without verifying it. A token that
// is not a JWT is kept as an opaque string.
func parseToken(raw string) *TokenInfo {
	info := &TokenInfo{Raw: raw}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return info
	}

	info.Subject = claims.Subject
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info
}
