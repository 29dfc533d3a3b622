package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrServerOffline indicates the API server is unreachable
	ErrServerOffline = errors.New("server is unreachable")

	// ErrAuthFailed indicates the access token was rejected
	ErrAuthFailed = errors.New("access token is invalid")

	// ErrUnexpectedStatus indicates a non-success HTTP status
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrMalformedResponse indicates the response envelope could not be read
	ErrMalformedResponse = errors.New("malformed response")

	// ErrRejected indicates the server answered but did not accept the request
	ErrRejected = errors.New("request rejected by server")

	// ErrInvalidInput indicates a local value could not be parsed
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured indicates the server URL or token is missing
	ErrNotConfigured = errors.New("client is not configured")
)
