// Package common contains constants shared by the Yogayukt client packages.
package common

// APITypeAuth is the path segment under which the backend exposes the
// authentication endpoints.
const APITypeAuth = "auth"

// Authentication endpoint paths, relative to the auth base URL.
const (
	AuthPathLogin      = "/login"
	AuthPathSignup     = "/signup"
	AuthPathVerifyUser = "/verify_user"
)

// StoreNamespace identifies the persisted session state in every storage
// backend.
const StoreNamespace = "yogayukt_store"

// RequestIDHeaderName carries the per-request correlation id on outbound
// HTTP calls.
const RequestIDHeaderName = "X-Request-ID"

// ContentTypeJSON is the only request content type the gateway sends.
const ContentTypeJSON = "application/json; charset=UTF-8"
