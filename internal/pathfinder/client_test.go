// Copyright (c) 2026 ToeiRei
// Sigpath - PGP web of trust pathfinder
// This source code is licensed under the MIT license found in the LICENSE file.

package pathfinder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPaths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/paths/AAAA111111111111/to/BBBB222222222222.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{
			"error": "",
			"xpaths": [
				[{"kid": "aaaa111111111111", "uid": "Top <top@example.org>"},
				 {"kid": "cccc333333333333", "uid": "Mid <mid@example.org>"},
				 {"kid": "bbbb222222222222", "uid": "Bottom <bot@example.org>"}]
			]
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	paths, err := c.Paths(context.Background(), "AAAA111111111111", "BBBB222222222222")
	if err != nil {
		t.Fatalf("Paths: %v", err)
	}
	if len(paths) != 1 || len(paths[0]) != 3 {
		t.Fatalf("got %v", paths)
	}
	if paths[0][1].UID != "Mid <mid@example.org>" {
		t.Errorf("actor uid = %q", paths[0][1].UID)
	}
}

func TestPathsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "no such key", "xpaths": []}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Paths(context.Background(), "A", "B")
	if err == nil || !strings.Contains(err.Error(), "no such key") {
		t.Errorf("got %v, want server error message", err)
	}
}

func TestPathsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := New(srv.URL).Paths(context.Background(), "A", "B"); err == nil {
		t.Error("expected error on 500 response")
	}
}

func TestToEdgeSet(t *testing.T) {
	paths := [][]Actor{
		{{KID: "aaaa", UID: "Top <t@x.y>"}, {KID: "cccc", UID: "Mid <m@x.y>"}, {KID: "bbbb", UID: "Bot <b@x.y>"}},
		{{KID: "aaaa", UID: "Top <t@x.y>"}, {KID: "dddd", UID: "Mid2 <m2@x.y>"}, {KID: "eeee", UID: ""}, {KID: "bbbb", UID: "Bot <b@x.y>"}},
	}

	es := ToEdgeSet(paths, 0)
	if len(es.Nodes) != 5 {
		t.Errorf("got %d nodes, want 5", len(es.Nodes))
	}

	colors := map[string]string{}
	for _, n := range es.Nodes {
		colors[n.Fingerprint] = n.Color
	}
	if colors["AAAA"] != "purple" || colors["BBBB"] != "orange" || colors["CCCC"] != "blue" {
		t.Errorf("colors = %v", colors)
	}

	// depth cap drops the 3-edge path
	es = ToEdgeSet(paths, 2)
	if len(es.Nodes) != 3 {
		t.Errorf("with maxDepth 2: got %d nodes, want 3", len(es.Nodes))
	}
}

func TestToEdgeSetEmpty(t *testing.T) {
	es := ToEdgeSet(nil, 0)
	if len(es.Nodes) != 0 || len(es.Edges) != 0 {
		t.Errorf("empty input produced %d nodes, %d edges", len(es.Nodes), len(es.Edges))
	}
}

func TestNewDefaultsBaseURL(t *testing.T) {
	c := New("")
	if c.baseURL != DefaultURL {
		t.Errorf("baseURL = %q", c.baseURL)
	}
}
