// Copyright (c) 2026 ToeiRei
// Sigpath - PGP web of trust pathfinder
// This source code is licensed under the MIT license found in the LICENSE file.

// Package export turns discovered trust paths into a DOT graph for an
// external renderer. It owns presentation only; path semantics stay in wot.
package export

import (
	"strconv"
	"strings"

	"github.com/emicklei/dot"
	"github.com/toeirei/sigpath/internal/model"
	"github.com/toeirei/sigpath/internal/wot"
)

// algoNames maps OpenPGP public key algorithm IDs to display names.
var algoNames = map[string]string{
	"1":  "RSA",
	"17": "DSA",
	"18": "ECDH",
	"19": "ECDSA",
	"22": "EdDSA",
}

// Node is one key in the rendered graph.
type Node struct {
	Fingerprint string
	Label       string
	Color       string
	Toplevel    bool // path sources, grouped in their own cluster
}

// Edge is one rendered signature arrow, signer to signee.
type Edge struct {
	From string
	To   string
}

// EdgeSet is the deduplicated union of nodes and edges from a set of paths,
// in first-seen order so output is stable.
type EdgeSet struct {
	Nodes []Node
	Edges []Edge

	nodeSeen map[string]bool
	edgeSeen map[Edge]bool
}

// trustColor picks the node outline color by ownertrust, matching the
// classic web-of-trust rendering.
func trustColor(t model.Ownertrust) string {
	switch t {
	case model.TrustUltimate:
		return "purple"
	case model.TrustFull:
		return "red"
	case model.TrustMarginal:
		return "blue"
	default:
		return "gray"
	}
}

// NewEdgeSet returns an empty set ready for AddNode/AddEdge.
func NewEdgeSet() *EdgeSet {
	return &EdgeSet{
		nodeSeen: make(map[string]bool),
		edgeSeen: make(map[Edge]bool),
	}
}

// FromPaths builds an EdgeSet from the given paths. Node labels come from
// the graph's key records, preferring the primary UID over the bare
// fingerprint. The first node of each path is marked toplevel.
func FromPaths(g *wot.Graph, paths []model.Path) *EdgeSet {
	es := NewEdgeSet()
	for _, path := range paths {
		for i, fpr := range path {
			n := Node{Fingerprint: fpr, Label: fpr, Color: "gray", Toplevel: i == 0}
			if key := g.Key(fpr); key != nil {
				n.Label = nodeLabel(*key)
				n.Color = trustColor(key.Ownertrust)
			}
			es.AddNode(n)
			if i > 0 {
				es.AddEdge(path[i-1], fpr)
			}
		}
	}
	return es
}

// AddNode records a node once; later additions of the same fingerprint are
// ignored, so the first path to mention a key decides its presentation.
func (es *EdgeSet) AddNode(n Node) {
	if es.nodeSeen[n.Fingerprint] {
		return
	}
	es.nodeSeen[n.Fingerprint] = true
	es.Nodes = append(es.Nodes, n)
}

// AddEdge records a directed edge once.
func (es *EdgeSet) AddEdge(from, to string) {
	e := Edge{From: from, To: to}
	if es.edgeSeen[e] {
		return
	}
	es.edgeSeen[e] = true
	es.Edges = append(es.Edges, e)
}

// nodeLabel renders a record-shaped label: display name and mail domain on
// top, algorithm/size and key ID below.
func nodeLabel(k model.KeyRecord) string {
	name, domain := splitUID(k.PrimaryUID)
	if name == "" {
		name = k.KeyID()
	}

	algo := k.Algorithm
	if pretty, ok := algoNames[algo]; ok {
		algo = pretty
	} else if algo == "" {
		algo = "ALGO?"
	}

	return "{" + name + "\n" + domain + "|{" + algo + " " + itoa(k.BitLength) + "|" + k.KeyID() + "}}"
}

// splitUID extracts the display name and the mail domain from a uid like
// "Jane Doe (work) <jane@example.org>".
func splitUID(uid string) (name, domain string) {
	uid = strings.ReplaceAll(uid, `"`, "")
	name = uid
	if i := strings.IndexByte(uid, '<'); i >= 0 {
		name = uid[:i]
		email := strings.TrimSuffix(strings.TrimSpace(uid[i+1:]), ">")
		if j := strings.IndexByte(email, '@'); j >= 0 {
			domain = email[j+1:]
		} else {
			domain = email
		}
	}
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name), domain
}

// ActorLabel renders a label for a key known only by key ID and uid, the
// shape remote pathfinder results come in.
func ActorLabel(kid, uid string) string {
	name, domain := splitUID(uid)
	kid = strings.ToUpper(kid)
	if name == "" {
		name = kid
	}
	return "{" + name + "\n" + domain + "|{" + kid + "}}"
}

func itoa(n int) string {
	if n == 0 {
		return "?"
	}
	return strconv.Itoa(n)
}

// DOT serializes the set as a directed graph. Toplevel nodes live in a
// white cluster so sources line up together in the rendered output.
func (es *EdgeSet) DOT() string {
	g := dot.NewGraph(dot.Directed)

	toplevel := g.Subgraph("toplevel", dot.ClusterOption{})
	toplevel.Attr("color", "white")

	nodes := make(map[string]dot.Node, len(es.Nodes))
	for _, n := range es.Nodes {
		target := g
		if n.Toplevel {
			target = toplevel
		}
		dn := target.Node(n.Fingerprint).
			Attr("shape", "record").
			Attr("style", "rounded").
			Attr("color", n.Color).
			Attr("label", n.Label)
		nodes[n.Fingerprint] = dn
	}
	for _, e := range es.Edges {
		g.Edge(nodes[e.From], nodes[e.To])
	}
	return g.String()
}
