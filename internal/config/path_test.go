package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("CASHCOUNT_TEST_DIR", "/srv/backups")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty path", "", ""},
		{"plain path untouched", "/var/lib/cashcount.db", "/var/lib/cashcount.db"},
		{"tilde prefix", "~/data/cashcount.db", filepath.Join(home, "data/cashcount.db")},
		{"bare tilde", "~", home},
		{"environment variable", "$CASHCOUNT_TEST_DIR/out", "/srv/backups/out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}
