// Copyright 2025, the tscat contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"fmt"
	"strings"
)

// State is the lifecycle state of a message translation.
type State int

// Possible message states. The zero value is Unfinished.
const (
	Unfinished State = iota
	Finished
	Obsolete
)

func (s State) String() string {
	switch s {
	case Unfinished:
		return "unfinished"
	case Finished:
		return "finished"
	case Obsolete:
		return "obsolete"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Attr returns the value of the on-disk type attribute for s.
// Finished messages carry no attribute, so Attr returns "".
func (s State) Attr() string {
	switch s {
	case Unfinished:
		return "unfinished"
	case Obsolete:
		return "obsolete"
	default:
		return ""
	}
}

// ParseState maps an on-disk type attribute to a State.
//
// An empty attribute means Finished. "vanished" is accepted as a synonym of
// "obsolete". For any other value ParseState returns Unfinished and false.
func ParseState(attr string) (State, bool) {
	switch attr {
	case "":
		return Finished, true
	case "unfinished":
		return Unfinished, true
	case "obsolete", "vanished":
		return Obsolete, true
	default:
		return Unfinished, false
	}
}

// DuplicatePolicy decides what happens when a message is added under a key
// that already exists in its context.
type DuplicatePolicy int

// Duplicate policies. The zero value is Reject.
const (
	// Reject fails the addition with a *DuplicateError and keeps the existing entry.
	Reject DuplicatePolicy = iota
	// Overwrite replaces the existing entry in place, keeping its position.
	Overwrite
	// KeepFirst silently keeps the existing entry.
	KeepFirst
)

func (p DuplicatePolicy) String() string {
	switch p {
	case Reject:
		return "reject"
	case Overwrite:
		return "overwrite"
	case KeepFirst:
		return "keep-first"
	default:
		return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
	}
}

// ParseDuplicatePolicy parses the textual form of a DuplicatePolicy, as used in
// configuration files. Matching is case-insensitive and "keep_first" is
// accepted as well as "keep-first".
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return Reject, nil
	case "overwrite":
		return Overwrite, nil
	case "keep-first", "keep_first", "keepfirst":
		return KeepFirst, nil
	default:
		return Reject, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}
