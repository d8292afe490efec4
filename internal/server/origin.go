package server

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// OriginChecker allows any origin when no origin is configured.
type OriginChecker struct {
	allowedOrigins []string
}

func NewOriginChecker(allowedOrigins []string) *OriginChecker {
	normalized := make([]string, 0, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origin = strings.TrimSuffix(strings.TrimSpace(origin), "/")
		if origin != "" {
			normalized = append(normalized, strings.ToLower(origin))
		}
	}

	return &OriginChecker{
		normalized,
	}
}

func (c *OriginChecker) Check(r *http.Request) bool {
	if len(c.allowedOrigins) == 0 {
		return true
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	return slices.Contains(c.allowedOrigins, strings.ToLower(parsed.Scheme+"://"+parsed.Host))
}

// AllowOrigin is the value for Access-Control-Allow-Origin.
func (c *OriginChecker) AllowOrigin(r *http.Request) string {
	if len(c.allowedOrigins) == 0 {
		return "*"
	}

	if c.Check(r) {
		return r.Header.Get("Origin")
	}

	return ""
}
