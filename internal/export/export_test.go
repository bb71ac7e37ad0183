// Copyright (c) 2026 ToeiRei
// Sigpath - PGP web of trust pathfinder
// This source code is licensed under the MIT license found in the LICENSE file.

package export

import (
	"strings"
	"testing"

	"github.com/toeirei/sigpath/internal/db"
	"github.com/toeirei/sigpath/internal/model"
	"github.com/toeirei/sigpath/internal/wot"
)

func pad(label string) string {
	out := label
	for len(out) < 40 {
		out += "0"
	}
	return out
}

func testGraph(t *testing.T) *wot.Graph {
	t.Helper()
	dsn := "file:test_export_" + t.Name() + "?mode=memory&cache=shared"
	st, err := db.NewStoreFromDSN("sqlite", dsn)
	if err != nil {
		t.Fatalf("NewStoreFromDSN: %v", err)
	}
	keys := []model.KeyRecord{
		{Fingerprint: pad("A"), PrimaryUID: "Alice <alice@example.org>", Ownertrust: model.TrustUltimate, Algorithm: "1", BitLength: 4096},
		{Fingerprint: pad("B"), PrimaryUID: "Bob (work) <bob@corp.example>", Ownertrust: model.TrustFull, Algorithm: "22", BitLength: 256},
		{Fingerprint: pad("C"), PrimaryUID: "", Ownertrust: model.TrustMarginal},
		{Fingerprint: pad("D"), PrimaryUID: "Dan <dan@example.org>"},
	}
	for _, k := range keys {
		if err := st.UpsertKey(k); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range [][2]string{{"A", "B"}, {"B", "C"}, {"B", "D"}} {
		sig := model.SignatureEdge{SignerFingerprint: pad(e[0]), SigneeFingerprint: pad(e[1])}
		if err := st.AddSignature(sig); err != nil {
			t.Fatal(err)
		}
	}
	g, err := wot.Build(st)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestFromPathsDeduplicates(t *testing.T) {
	g := testGraph(t)
	paths := []model.Path{
		{pad("A"), pad("B"), pad("C")},
		{pad("A"), pad("B"), pad("D")},
	}
	es := FromPaths(g, paths)

	if len(es.Nodes) != 4 {
		t.Errorf("got %d nodes, want 4 (A and B shared)", len(es.Nodes))
	}
	if len(es.Edges) != 3 {
		t.Errorf("got %d edges, want 3 (A->B shared)", len(es.Edges))
	}

	var sources int
	for _, n := range es.Nodes {
		if n.Toplevel {
			sources++
			if n.Fingerprint != pad("A") {
				t.Errorf("toplevel node is %s, want A", n.Fingerprint)
			}
		}
	}
	if sources != 1 {
		t.Errorf("%d toplevel nodes, want 1", sources)
	}
}

func TestFromPathsTrustColors(t *testing.T) {
	g := testGraph(t)
	es := FromPaths(g, []model.Path{{pad("A"), pad("B"), pad("C")}, {pad("B"), pad("D")}})

	want := map[string]string{
		pad("A"): "purple",
		pad("B"): "red",
		pad("C"): "blue",
		pad("D"): "gray",
	}
	for _, n := range es.Nodes {
		if n.Color != want[n.Fingerprint] {
			t.Errorf("node %s color = %s, want %s", n.Fingerprint[:1], n.Color, want[n.Fingerprint])
		}
	}
}

func TestNodeLabels(t *testing.T) {
	g := testGraph(t)
	es := FromPaths(g, []model.Path{{pad("A"), pad("B")}, {pad("B"), pad("C")}})

	byFpr := map[string]Node{}
	for _, n := range es.Nodes {
		byFpr[n.Fingerprint] = n
	}

	a := byFpr[pad("A")]
	if !strings.Contains(a.Label, "Alice") || !strings.Contains(a.Label, "example.org") {
		t.Errorf("label %q missing name or domain", a.Label)
	}
	if !strings.Contains(a.Label, "RSA 4096") {
		t.Errorf("label %q missing algorithm/size", a.Label)
	}

	b := byFpr[pad("B")]
	if strings.Contains(b.Label, "(work)") {
		t.Errorf("label %q should drop the uid comment", b.Label)
	}
	if !strings.Contains(b.Label, "EdDSA") {
		t.Errorf("label %q missing algorithm name", b.Label)
	}

	// a key without a uid keeps an identifying label
	c := byFpr[pad("C")]
	if !strings.Contains(c.Label, pad("C")[24:]) {
		t.Errorf("label %q for uid-less key lacks key id", c.Label)
	}
}

func TestDOTOutput(t *testing.T) {
	g := testGraph(t)
	es := FromPaths(g, []model.Path{{pad("A"), pad("B"), pad("C")}})
	out := es.DOT()

	for _, want := range []string{"digraph", "cluster", "purple", "->", "record"} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q:\n%s", want, out)
		}
	}
	// every node appears
	for _, n := range es.Nodes {
		if !strings.Contains(out, n.Fingerprint) {
			t.Errorf("DOT output missing node %s", n.Fingerprint)
		}
	}
}

func TestSplitUID(t *testing.T) {
	tests := []struct {
		uid    string
		name   string
		domain string
	}{
		{"Alice <alice@example.org>", "Alice", "example.org"},
		{"Bob (work) <bob@corp.example>", "Bob", "corp.example"},
		{"nomail", "nomail", ""},
		{`Quo "Ted" <ted@x.y>`, "Quo Ted", "x.y"},
		{"Local <postmaster>", "Local", "postmaster"},
	}
	for _, tt := range tests {
		name, domain := splitUID(tt.uid)
		if name != tt.name || domain != tt.domain {
			t.Errorf("splitUID(%q) = (%q, %q), want (%q, %q)", tt.uid, name, domain, tt.name, tt.domain)
		}
	}
}
