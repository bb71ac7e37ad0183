// Copyright (c) 2026 ToeiRei
// Sigpath - PGP web of trust pathfinder
// This source code is licensed under the MIT license found in the LICENSE file.

package wot

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/toeirei/sigpath/internal/db"
	"github.com/toeirei/sigpath/internal/model"
)

// fpr expands a short label to a fingerprint-sized identifier so graph
// tests stay readable.
func fpr(label string) string {
	out := label
	for len(out) < 40 {
		out += "0"
	}
	return out
}

func newTestStore(t *testing.T) db.Store {
	t.Helper()
	dsn := "file:test_wot_" + t.Name() + "?mode=memory&cache=shared"
	s, err := db.NewStoreFromDSN("sqlite", dsn)
	if err != nil {
		t.Fatalf("NewStoreFromDSN: %v", err)
	}
	return s
}

// buildGraph stores the given keys and directed edges and builds a graph.
// Keys are written as "label:trustletter"; edges as [2]string{from, to}
// using the same labels.
func buildGraph(t *testing.T, keys []string, edges [][2]string) *Graph {
	t.Helper()
	st := newTestStore(t)
	for _, entry := range keys {
		label, trust := entry, "-"
		if i := strings.IndexByte(entry, ':'); i >= 0 {
			label, trust = entry[:i], entry[i+1:]
		}
		rec := model.KeyRecord{
			Fingerprint: fpr(label),
			PrimaryUID:  label + " <" + label + "@example.org>",
			Ownertrust:  model.ParseOwnertrust(trust),
		}
		if err := st.UpsertKey(rec); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range edges {
		sig := model.SignatureEdge{
			SignerFingerprint: fpr(e[0]),
			SigneeFingerprint: fpr(e[1]),
		}
		if err := st.AddSignature(sig); err != nil {
			t.Fatal(err)
		}
	}
	g, err := Build(st)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func labels(p model.Path) []string {
	out := make([]string, len(p))
	for i, f := range p {
		out[i] = f[:1]
	}
	return out
}

func TestBuildDropsSelfLoopsAndDanglingEdges(t *testing.T) {
	g := buildGraph(t,
		[]string{"A", "B"},
		[][2]string{{"A", "A"}, {"A", "B"}, {"A", "Z"}, {"Z", "B"}},
	)
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", g.NodeCount())
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount = %d, want 1 (self-loop and dangling edges dropped)", g.EdgeCount())
	}
}

func TestShortestPathTrivial(t *testing.T) {
	g := buildGraph(t, []string{"A", "B"}, [][2]string{{"A", "B"}})
	p, err := g.ShortestPath(fpr("A"), fpr("A"))
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if p.Len() != 0 || p.Source() != fpr("A") {
		t.Errorf("trivial path = %v, want zero-edge path at A", p)
	}
}

func TestShortestPathPrefersDirectEdge(t *testing.T) {
	// A->B, B->C, A->C: the direct edge wins
	g := buildGraph(t,
		[]string{"A", "B", "C"},
		[][2]string{{"A", "B"}, {"B", "C"}, {"A", "C"}},
	)
	p, err := g.ShortestPath(fpr("A"), fpr("C"))
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if want := []string{"A", "C"}; !reflect.DeepEqual(labels(p), want) {
		t.Errorf("path = %v, want %v", labels(p), want)
	}
}

func TestShortestPathMatchesBFSDistance(t *testing.T) {
	// chain with a shortcut partway: A->B->C->D->E plus B->D
	g := buildGraph(t,
		[]string{"A", "B", "C", "D", "E"},
		[][2]string{{"A", "B"}, {"B", "C"}, {"C", "D"}, {"D", "E"}, {"B", "D"}},
	)
	tests := []struct {
		target string
		dist   int
	}{
		{"B", 1}, {"C", 2}, {"D", 2}, {"E", 3},
	}
	for _, tt := range tests {
		p, err := g.ShortestPath(fpr("A"), fpr(tt.target))
		if err != nil {
			t.Fatalf("ShortestPath(A, %s): %v", tt.target, err)
		}
		if p.Len() != tt.dist {
			t.Errorf("distance A->%s = %d, want %d", tt.target, p.Len(), tt.dist)
		}
	}
}

func TestShortestPathUnreachable(t *testing.T) {
	// A->C gives A edges; B is stored but signs and is signed by nobody
	g := buildGraph(t, []string{"A", "B", "C"}, [][2]string{{"A", "C"}})

	_, err := g.ShortestPath(fpr("A"), fpr("B"))
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("disconnected target: got %v, want ErrUnreachable", err)
	}

	_, err = g.ShortestPath(fpr("A"), fpr("Z"))
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("absent target: got %v, want ErrUnreachable", err)
	}

	var srcErr *UnreachableSourceError
	_, err = g.ShortestPath(fpr("Z"), fpr("A"))
	if !errors.As(err, &srcErr) {
		t.Errorf("absent source: got %v, want UnreachableSourceError", err)
	}
}

func TestShortestPathEdgelessSource(t *testing.T) {
	// a key in the store without a single signature is not a graph node,
	// so querying from it is a source error rather than a missing path
	g := buildGraph(t, []string{"S", "A", "B"}, [][2]string{{"A", "B"}})

	var srcErr *UnreachableSourceError
	_, err := g.ShortestPath(fpr("S"), fpr("B"))
	if !errors.As(err, &srcErr) {
		t.Fatalf("edge-less source: got %v, want UnreachableSourceError", err)
	}
	if srcErr.Fingerprint != fpr("S") {
		t.Errorf("error names %s, want %s", srcErr.Fingerprint, fpr("S"))
	}

	_, err = g.ShortestPath(fpr("S"), fpr("S"))
	if !errors.As(err, &srcErr) {
		t.Errorf("edge-less source, self target: got %v, want UnreachableSourceError", err)
	}

	_, err = g.ShortestPathsToFullyTrusted(fpr("S"))
	if !errors.As(err, &srcErr) {
		t.Errorf("edge-less source, to-full: got %v, want UnreachableSourceError", err)
	}
}

func TestShortestPathDeterministicTieBreak(t *testing.T) {
	// diamond: A->B->D and A->C->D, both length 2
	keys := []string{"A", "B", "C", "D:f"}
	edges := [][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}}

	var first []string
	for run := 0; run < 3; run++ {
		g := buildGraph(t, keys, edges)
		p, err := g.ShortestPath(fpr("A"), fpr("D"))
		if err != nil {
			t.Fatalf("ShortestPath run %d: %v", run, err)
		}
		if p.Len() != 2 {
			t.Fatalf("path length = %d, want 2", p.Len())
		}
		if first == nil {
			first = labels(p)
			continue
		}
		if !reflect.DeepEqual(labels(p), first) {
			t.Errorf("run %d path %v differs from first run %v", run, labels(p), first)
		}
	}
	// insertion order has A->B before A->C, so B is on the winning path
	if want := []string{"A", "B", "D"}; !reflect.DeepEqual(first, want) {
		t.Errorf("tie-break path = %v, want %v", first, want)
	}
}

func TestShortestPathsToFullyTrusted(t *testing.T) {
	g := buildGraph(t,
		[]string{"A", "B", "C:f", "D:u", "E:f"},
		[][2]string{{"A", "B"}, {"B", "C"}, {"B", "D"}},
	)
	paths, err := g.ShortestPathsToFullyTrusted(fpr("A"))
	if err != nil {
		t.Fatalf("ShortestPathsToFullyTrusted: %v", err)
	}
	// C and D reachable, E not
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2: %v", len(paths), paths)
	}
	if _, ok := paths[fpr("E")]; ok {
		t.Error("unreachable trusted key E has a path")
	}

	// each entry must agree with a direct ShortestPath query
	for target, p := range paths {
		direct, err := g.ShortestPath(fpr("A"), target)
		if err != nil {
			t.Fatalf("ShortestPath(A, %s): %v", target, err)
		}
		if p.Len() != direct.Len() {
			t.Errorf("path to %s has length %d, direct query says %d", target, p.Len(), direct.Len())
		}
	}
}

func TestShortestPathsToFullyTrustedExcludesSource(t *testing.T) {
	g := buildGraph(t, []string{"A:u", "B:f"}, [][2]string{{"A", "B"}})
	paths, err := g.ShortestPathsToFullyTrusted(fpr("A"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := paths[fpr("A")]; ok {
		t.Error("source appears in its own path set")
	}
	if len(paths) != 1 {
		t.Errorf("got %d paths, want 1", len(paths))
	}
}

func TestIngestTwiceSameGraph(t *testing.T) {
	st := newTestStore(t)
	keys := []model.KeyRecord{
		{Fingerprint: fpr("A"), PrimaryUID: "a", Ownertrust: model.TrustUltimate},
		{Fingerprint: fpr("B"), PrimaryUID: "b", Ownertrust: model.TrustFull},
	}
	edge := model.SignatureEdge{SignerFingerprint: fpr("A"), SigneeFingerprint: fpr("B")}

	for round := 0; round < 2; round++ {
		for _, k := range keys {
			if err := st.UpsertKey(k); err != nil {
				t.Fatal(err)
			}
		}
		if err := st.AddSignature(edge); err != nil {
			t.Fatal(err)
		}
	}

	g, err := Build(st)
	if err != nil {
		t.Fatal(err)
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("graph after double ingest: %d nodes, %d edges, want 2/1",
			g.NodeCount(), g.EdgeCount())
	}
}

func TestGraphAccessors(t *testing.T) {
	g := buildGraph(t, []string{"A:u", "B:f", "C:m"}, [][2]string{{"A", "B"}})

	if k := g.Key(fpr("A")); k == nil || k.Ownertrust != model.TrustUltimate {
		t.Errorf("Key(A) = %+v", k)
	}
	if g.Key(fpr("Z")) != nil {
		t.Error("Key(Z) should be nil")
	}
	if g.Key(fpr("C")) == nil {
		t.Error("Key(C) should resolve even without signatures")
	}
	if !g.Contains(fpr("B")) || g.Contains(fpr("Z")) {
		t.Error("Contains misreports membership")
	}
	if g.Contains(fpr("C")) {
		t.Error("Contains(C) should be false for an edge-less key")
	}
	if got := g.FullyTrusted(); len(got) != 2 {
		t.Errorf("FullyTrusted = %v, want A and B", got)
	}
	if u := g.UltimateKey(); u == nil || u.Fingerprint != fpr("A") {
		t.Errorf("UltimateKey = %+v", u)
	}
}
