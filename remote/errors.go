package remote

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrRemoteCallFailed matches every CallError via errors.Is.
var ErrRemoteCallFailed = errors.New("remote call failed")

// CallError describes a failed remote call. StatusCode is 0 when no
// response was received.
type CallError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *CallError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, truncate(e.Body, 200))
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": " + ErrRemoteCallFailed.Error()
	}
}

func (e *CallError) Unwrap() error { return e.Err }

// Is reports ErrRemoteCallFailed for every CallError.
func (e *CallError) Is(target error) bool { return target == ErrRemoteCallFailed }

// truncate cuts s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
