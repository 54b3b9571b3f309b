package backend_test

import (
	"testing"

	"github.com/fondazionealfieri/clinicalfolders/pkg/backend"

	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	cases := map[string]string{
		"":                          backend.DefaultURL,
		"   ":                       backend.DefaultURL,
		"example.com":               "https://example.com",
		"example.com/":              "https://example.com",
		"http://localhost:5050":     "http://localhost:5050",
		"http://localhost:5050/":    "http://localhost:5050",
		"https://api.example.com//": "https://api.example.com",
	}

	for input, expected := range cases {
		require.Equal(t, expected, backend.NormalizeURL(input), "input %q", input)
	}
}
