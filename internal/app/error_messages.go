// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// key material server handlers and the client adapter.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies or log entries to describe the outcome of an operation.
// The client maps them back to service errors, so the wording is part of the
// API and must stay in sync on both sides.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails basic validation (e.g. missing required fields).
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpired is returned when a JWT bearer token is syntactically
	// valid but its expiry time has passed.
	MsgTokenIsExpired = "token is expired"

	// MsgTokenIsExpiredOrInvalid is returned when a JWT bearer token is
	// either expired or cannot be verified (e.g. wrong signature).
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgNoAccountIDProvided is returned when a handler requires the account
	// ID from the JWT subject but none is present in the request context.
	MsgNoAccountIDProvided = "no account ID provided"

	// MsgInvalidSignature is returned when the HashSHA256 header does not
	// match the request body.
	MsgInvalidSignature = "invalid body signature"

	// MsgInvalidUnlockMethod is returned when the {method} path parameter is
	// not a registrable unlock method.
	MsgInvalidUnlockMethod = "invalid unlock method"

	// MsgKeyMaterialNotFound is returned when the account has no key
	// material yet. The client starts the setup flow on it.
	MsgKeyMaterialNotFound = "key material not found"

	// MsgKeyMaterialExists is returned when an account is initialized twice.
	// Regenerating the phrase would orphan every wrapped key, so the server
	// refuses.
	MsgKeyMaterialExists = "key material already exists"

	// MsgWrappedKeyNotFound is returned when a method that is not registered
	// is deleted.
	MsgWrappedKeyNotFound = "wrapped key not found"

	// MsgRecoveryEscrowNotFound is returned when the account never escrowed
	// its recovery phrase.
	MsgRecoveryEscrowNotFound = "recovery escrow not found"
)
