// Package generation orchestrates the remote generative backend: model
// discovery, warm-up binding, per-message generation with bounded retries,
// and silent degradation to the rule-based engine.
package generation

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/googleapi"
)

// ErrClass classifies a remote generation failure.
type ErrClass int

// Failure classes. Overloaded failures are worth retrying on an alternate
// model; anything else degrades straight to the rule-based engine.
const (
	ClassNone ErrClass = iota
	ClassOverloaded
	ClassOther
)

func (c ErrClass) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassOverloaded:
		return "overloaded"
	default:
		return "other"
	}
}

// Classify maps a provider error to its failure class. Capacity signals
// (503, 429, resource exhaustion) and timeouts count as overloaded: an
// unresponsive model is treated the same as a busy one.
func Classify(err error) ErrClass {
	if err == nil {
		return ClassNone
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ClassOverloaded
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == 503 || apiErr.Code == 429 {
			return ClassOverloaded
		}
		return ClassOther
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"503", "overloaded", "resource has been exhausted", "rate limit", "quota exceeded", "deadline exceeded"} {
		if strings.Contains(msg, marker) {
			return ClassOverloaded
		}
	}
	return ClassOther
}
