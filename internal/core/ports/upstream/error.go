package upstream

import "fmt"

// Error carries the collaborator's own failure message so it can be surfaced
// verbatim. Adapters wrap it with the matching apperrors sentinel.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream call failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream call failed with status %d: %s", e.StatusCode, e.Message)
}
