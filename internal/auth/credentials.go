package auth

import (
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Scheme selects how requests to the camera are authenticated.
type Scheme string

const (
	Digest Scheme = "digest"
	Basic  Scheme = "basic"
)

// ParseScheme accepts "digest" or "basic" in any case. An empty string means Digest.
func ParseScheme(s string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Digest):
		return Digest, nil
	case string(Basic):
		return Basic, nil
	default:
		return "", fmt.Errorf("unknown authentication scheme '%s'", s)
	}
}

// Credentials are the camera account used for every request.
type Credentials struct {
	Username string
	Password string
	Scheme   Scheme
}

// Apply configures the resty client to authenticate with these credentials.
func (c Credentials) Apply(r *resty.Client) {
	if c.Username == "" {
		return
	}

	switch c.Scheme {
	case Basic:
		r.SetBasicAuth(c.Username, c.Password)
	default:
		// Camera firmware only answers digest challenges on the cgi-bin and VCA paths.
		r.SetDigestAuth(c.Username, c.Password)
	}
}
