// Copyright (c) 2026 ToeiRei
// Sigpath - PGP web of trust pathfinder
// This source code is licensed under the MIT license found in the LICENSE file.

package wot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/toeirei/sigpath/internal/model"
)

// ErrUnreachable means both endpoints exist in the graph but no signature
// chain connects them. This is a normal outcome, not a failure.
var ErrUnreachable = errors.New("no signature path exists")

// UnknownKeyError means an identifier matched no key in the graph.
type UnknownKeyError struct {
	Identifier string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("no key matches %q", e.Identifier)
}

// AmbiguousKeyError means an identifier matched more than one key. The
// candidate list is part of the message so the user can pick one.
type AmbiguousKeyError struct {
	Identifier string
	Candidates []model.KeyRecord
}

func (e *AmbiguousKeyError) Error() string {
	names := make([]string, 0, len(e.Candidates))
	for _, k := range e.Candidates {
		names = append(names, k.String())
	}
	return fmt.Sprintf("%q matches %d keys: %s", e.Identifier, len(e.Candidates), strings.Join(names, ", "))
}

// UnreachableSourceError means the requested source fingerprint is not a
// node in the graph at all, as opposed to present but disconnected.
type UnreachableSourceError struct {
	Fingerprint string
}

func (e *UnreachableSourceError) Error() string {
	return fmt.Sprintf("source key %s is not in the trust graph", e.Fingerprint)
}
