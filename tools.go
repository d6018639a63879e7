//go:build tools

package tools

// Mocks in pkg/i2c/mocks are generated from .mockery.yaml.
// Run: go run github.com/vektra/mockery/v2 (from the module root).
import (
	_ "github.com/vektra/mockery/v2"
)
