package dispatch

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ErrUnsupportedMethod is returned for HTTP methods other than GET, POST, PUT and DELETE
var ErrUnsupportedMethod = errors.New("unsupported HTTP method")

// APICallError is a non-success response from either API surface.
// Body is the raw response text; it is not assumed to be JSON.
type APICallError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APICallError) Error() string {
	return strings.TrimSpace(fmt.Sprintf("error making cord API call: %d %s %s", e.StatusCode, e.Status, e.Body))
}

func newAPICallError(resp *http.Response, body []byte) *APICallError {
	status := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if status == "" {
		status = http.StatusText(resp.StatusCode)
	}
	return &APICallError{
		StatusCode: resp.StatusCode,
		Status:     status,
		Body:       string(body),
	}
}
