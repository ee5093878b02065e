//go:build integration

// Package containers starts throwaway backing services for integration tests.
// Every container is terminated through t.Cleanup.
package containers

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go"
)

func terminateOnCleanup(t *testing.T, c testcontainers.Container) {
	t.Helper()
	t.Cleanup(func() {
		_ = c.Terminate(context.Background())
	})
}
