// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolved_PrefersLdflags(t *testing.T) {
	prev := Version
	t.Cleanup(func() { Version = prev })

	Version = "v1.4.0"
	assert.Equal(t, "v1.4.0", Resolved())
	assert.Contains(t, String(), "v1.4.0 (commit: ")
}
