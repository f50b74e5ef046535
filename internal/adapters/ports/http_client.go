package ports

import (
	"net/http"
)

// HTTPClient defines the interface for making HTTP requests.
// This allows us to mock the processor round trip in tests and swap
// implementations without touching the transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
