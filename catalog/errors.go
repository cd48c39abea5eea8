// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateContext = errors.New("duplicate context")
	ErrDuplicateMessage = errors.New("duplicate message")
	ErrEmptyFinished    = errors.New("finished message without translation")
	ErrUnknownPolicy    = errors.New("unknown duplicate policy")
)

// DuplicateError reports a message whose key already exists in its context.
// It matches ErrDuplicateMessage with errors.Is.
type DuplicateError struct {
	Context string
	Key     Key
}

func (e *DuplicateError) Error() string {
	if e.Key.Comment != "" {
		return fmt.Sprintf("%s: context %q, source %q, comment %q", ErrDuplicateMessage, e.Context, e.Key.Source, e.Key.Comment)
	}

	return fmt.Sprintf("%s: context %q, source %q", ErrDuplicateMessage, e.Context, e.Key.Source)
}

func (e *DuplicateError) Unwrap() error {
	return ErrDuplicateMessage
}
