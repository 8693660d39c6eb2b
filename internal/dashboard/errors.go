package dashboard

import (
	"fmt"
)

// FailureMessage is the single notification shown when a refresh cycle fails.
const FailureMessage = "Failed to load data. Is the API running and the database loaded?"

// FetchError is the one failure kind of a refresh cycle. It covers non-2xx
// responses (Status and Body set), transport errors and malformed JSON (Err set).
type FetchError struct {
	Endpoint string
	Status   int
	Body     string
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d: %s", e.Endpoint, e.Status, e.Body)
	}
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
