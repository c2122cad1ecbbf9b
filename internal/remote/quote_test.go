package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShellQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/srv/dataset", `'/srv/dataset'`},
		{"/srv/my dataset/a b", `'/srv/my dataset/a b'`},
		{"it's", `'it'\''s'`},
		{"$(rm -rf /); `x`", "'$(rm -rf /); `x`'"},
		{"", `''`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, shellQuote(tt.in))
		})
	}
}
