// Copyright (c) 2026 ToeiRei
// Sigpath - PGP web of trust pathfinder
// This source code is licensed under the MIT license found in the LICENSE file.

// Package wot holds the in-memory trust graph and the path search over it.
// A graph is built fresh from the store per invocation and never written
// back; all mutation happens at ingestion time in the keyring package.
package wot

import (
	"fmt"

	"github.com/toeirei/sigpath/internal/db"
	"github.com/toeirei/sigpath/internal/logging"
	"github.com/toeirei/sigpath/internal/model"
)

// Graph is a directed graph over key fingerprints. Nodes live in a flat
// arena indexed by position; adjacency lists hold arena indexes. Edges point
// from signer to signee. Adjacency order follows store order, which makes
// BFS tie-breaks reproducible for a given database.
type Graph struct {
	nodes   []model.KeyRecord
	index   map[string]int32
	adj     [][]int32 // signer -> signees
	radj    [][]int32 // signee -> signers
	hasEdge []bool    // arena index participates in at least one edge
}

// Build loads all keys and signatures from the store and assembles the
// graph in one linear pass. Self-loops and edges touching fingerprints
// without a key record are dropped with a warning.
func Build(st db.Store) (*Graph, error) {
	keys, err := st.GetAllKeys()
	if err != nil {
		return nil, fmt.Errorf("wot: failed to load keys: %w", err)
	}
	sigs, err := st.GetAllSignatures()
	if err != nil {
		return nil, fmt.Errorf("wot: failed to load signatures: %w", err)
	}

	g := &Graph{
		nodes:   keys,
		index:   make(map[string]int32, len(keys)),
		adj:     make([][]int32, len(keys)),
		radj:    make([][]int32, len(keys)),
		hasEdge: make([]bool, len(keys)),
	}
	for i, k := range keys {
		g.index[k.Fingerprint] = int32(i)
	}

	// duplicate assertions for a pair (differing timestamps) collapse to
	// one edge, keeping the first occurrence's position
	type pair struct{ from, to int32 }
	seen := make(map[pair]bool, len(sigs))
	dropped := 0
	for _, s := range sigs {
		if s.SignerFingerprint == s.SigneeFingerprint {
			dropped++
			continue
		}
		from, okFrom := g.index[s.SignerFingerprint]
		to, okTo := g.index[s.SigneeFingerprint]
		if !okFrom || !okTo {
			dropped++
			continue
		}
		p := pair{from, to}
		if seen[p] {
			continue
		}
		seen[p] = true
		g.adj[from] = append(g.adj[from], to)
		g.radj[to] = append(g.radj[to], from)
		g.hasEdge[from] = true
		g.hasEdge[to] = true
	}
	if dropped > 0 {
		logging.Warnf("dropped %d self-loop or dangling signatures while building the trust graph", dropped)
	}
	logging.Debugf("trust graph: %d keys, %d edges", len(g.nodes), len(seen))
	return g, nil
}

// NodeCount returns the number of keys in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct signer->signee edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, out := range g.adj {
		n += len(out)
	}
	return n
}

// Key returns the key record for a fingerprint, or nil when the
// fingerprint is not a node.
func (g *Graph) Key(fingerprint string) *model.KeyRecord {
	i, ok := g.index[fingerprint]
	if !ok {
		return nil
	}
	return &g.nodes[i]
}

// Contains reports whether the fingerprint is a node in the graph proper,
// meaning it participates in at least one signature edge. Keys stored
// without any signatures are still resolvable through Key and Resolve but
// cannot anchor a path search.
func (g *Graph) Contains(fingerprint string) bool {
	i, ok := g.index[fingerprint]
	return ok && g.hasEdge[i]
}

// FullyTrusted returns the fingerprints of all keys with full or ultimate
// ownertrust, in node order.
func (g *Graph) FullyTrusted() []string {
	var out []string
	for _, k := range g.nodes {
		if k.Ownertrust.IsFull() {
			out = append(out, k.Fingerprint)
		}
	}
	return out
}

// UltimateKey returns the first key with ultimate ownertrust, or nil.
func (g *Graph) UltimateKey() *model.KeyRecord {
	for i := range g.nodes {
		if g.nodes[i].Ownertrust == model.TrustUltimate {
			return &g.nodes[i]
		}
	}
	return nil
}
