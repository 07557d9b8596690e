package combat_test

import (
	"testing"

	"combatsim/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return config.Default()
}
