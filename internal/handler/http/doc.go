// Package http implements the HTTP transport layer of the application.
//
// It exposes route wiring, request handlers, and middleware of the key
// material REST API. Cross-cutting concerns such as bearer authentication,
// request tracing, access logging and body signatures are handled in this
// package before requests are delegated to the service layer. Handlers only
// ever see ciphertext.
package http
