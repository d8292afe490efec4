package server

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		check   bool
		allow   string
	}{
		{"any origin when unconfigured", nil, "https://evil.example", true, "*"},
		{"configured origin", []string{"https://menu.example/"}, "https://menu.example", true, "https://menu.example"},
		{"case insensitive", []string{"https://Menu.Example"}, "https://menu.example", true, "https://menu.example"},
		{"other origin", []string{"https://menu.example"}, "https://evil.example", false, ""},
		{"no origin header", []string{"https://menu.example"}, "", true, ""},
		{"malformed origin", []string{"https://menu.example"}, "::", false, ""},
		{"blank entries ignored", []string{" ", ""}, "https://evil.example", true, "*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewOriginChecker(tt.allowed)
			r := httptest.NewRequest("GET", "/api/menu/alice", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}

			assert.Equal(t, tt.check, checker.Check(r))
			assert.Equal(t, tt.allow, checker.AllowOrigin(r))
		})
	}
}
