// Package cmderrors carries user-facing CLI errors with actionable
// suggestions. Engine-level failures stay typed sentinels; this package is
// the presentation layer on top of them.
package cmderrors

import (
	"strings"
)

// UserError is an error meant to be shown to the user with helpful context.
type UserError struct {
	Message    string
	Suggestion string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}
