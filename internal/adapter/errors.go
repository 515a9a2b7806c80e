package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrBadGateway          = errors.New("bad gateway")
	ErrInternalServerError = errors.New("internal server error")

	// ErrTransport means the request never produced an HTTP response
	// (connection refused, timeout, TLS failure).
	ErrTransport = errors.New("transport error")

	// ErrIntegrity means the response body signature did not match.
	ErrIntegrity = errors.New("response integrity check failed")
)
