package provider

import (
	"time"

	"github.com/Genesy-AI/backend-technical-task-joe/internal/httpx"
)

// newTestHTTPClient builds a real httpx.Client for wire-format tests.
// None of the cases here exercise retry exhaustion, so the real backoff
// is never actually slept through.
func newTestHTTPClient() *httpx.Client {
	return httpx.New(2 * time.Second)
}
