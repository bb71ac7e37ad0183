// Copyright (c) 2026 ToeiRei
// Sigpath - PGP web of trust pathfinder
// This source code is licensed under the MIT license found in the LICENSE file.

package wot

import (
	"sort"
	"strings"

	"github.com/toeirei/sigpath/internal/model"
)

// ResolutionStatus classifies the outcome of resolving an identifier.
type ResolutionStatus int

const (
	ResolutionFound ResolutionStatus = iota
	ResolutionNotFound
	ResolutionAmbiguous
)

// Resolution is the result of matching an identifier against the graph.
// On ResolutionFound, Fingerprint names the single match. On
// ResolutionAmbiguous, Candidates lists every match ordered by fingerprint.
type Resolution struct {
	Status      ResolutionStatus
	Identifier  string
	Fingerprint string
	Candidates  []model.KeyRecord
}

// Err converts a non-Found resolution into its error form; Found returns nil.
func (r Resolution) Err() error {
	switch r.Status {
	case ResolutionNotFound:
		return &UnknownKeyError{Identifier: r.Identifier}
	case ResolutionAmbiguous:
		return &AmbiguousKeyError{Identifier: r.Identifier, Candidates: r.Candidates}
	default:
		return nil
	}
}

// Resolve matches a human-supplied identifier against the graph's keys.
// A full fingerprint or key ID suffix matches case-insensitively on the
// fingerprint; anything else matches as a case-insensitive substring of
// the primary UID. A unique match resolves; zero or multiple matches are
// reported as such, with ambiguous candidates in stable order.
func (g *Graph) Resolve(identifier string) Resolution {
	res := Resolution{Identifier: identifier}
	ident := strings.TrimSpace(identifier)
	if ident == "" {
		res.Status = ResolutionNotFound
		return res
	}

	upper := strings.ToUpper(ident)
	lower := strings.ToLower(ident)
	var matches []model.KeyRecord
	for _, k := range g.nodes {
		fpr := strings.ToUpper(k.Fingerprint)
		if fpr == upper || strings.HasSuffix(fpr, upper) ||
			strings.Contains(strings.ToLower(k.PrimaryUID), lower) {
			matches = append(matches, k)
		}
	}

	switch len(matches) {
	case 0:
		res.Status = ResolutionNotFound
	case 1:
		res.Status = ResolutionFound
		res.Fingerprint = matches[0].Fingerprint
	default:
		sort.Slice(matches, func(i, j int) bool {
			return matches[i].Fingerprint < matches[j].Fingerprint
		})
		res.Status = ResolutionAmbiguous
		res.Candidates = matches
	}
	return res
}
