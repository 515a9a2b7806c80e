// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/MKhiriev/go-e2ee-keeper/models"
)

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run starts the client application and blocks until exit.
	Run() error
}

type statusSource interface {
	Status(ctx context.Context) (models.E2EEStatus, error)
}

type userInterface interface {
	Run(ctx context.Context, initialized bool) error
}

type backgroundWorkers interface {
	Run(ctx context.Context)
	Stop()
}
