// Copyright (c) 2026 ToeiRei
// Sigpath - PGP web of trust pathfinder
// This source code is licensed under the MIT license found in the LICENSE file.

package wot

import (
	"github.com/toeirei/sigpath/internal/model"
)

// ShortestPath returns the shortest signature chain from source to target,
// both given as full fingerprints. The search is an unweighted BFS over
// signer->signee edges, so the result length is the signature distance.
// Ties between equal-length paths break on adjacency order, which follows
// ingestion order; the same database always yields the same path.
//
// source == target yields a single-node, zero-edge path. A source that is
// not a graph node, either missing from the store or stored without a
// single signature edge, is an UnreachableSourceError for any target; a
// target missing from the graph or present but disconnected is
// ErrUnreachable.
func (g *Graph) ShortestPath(source, target string) (model.Path, error) {
	src, ok := g.index[source]
	if !ok || !g.hasEdge[src] {
		return nil, &UnreachableSourceError{Fingerprint: source}
	}
	if source == target {
		return model.Path{source}, nil
	}
	dst, ok := g.index[target]
	if !ok {
		return nil, ErrUnreachable
	}

	parent := g.bfs(src)
	if parent[dst] < 0 {
		return nil, ErrUnreachable
	}
	return g.extractPath(parent, dst), nil
}

// ShortestPathsToFullyTrusted finds, in a single traversal, the shortest
// chain from source to every reachable key with full or ultimate
// ownertrust. Unreachable trusted keys are simply absent from the result;
// an empty result is a valid outcome. The source itself is excluded even
// when it is fully trusted.
func (g *Graph) ShortestPathsToFullyTrusted(source string) (model.PathSet, error) {
	src, ok := g.index[source]
	if !ok || !g.hasEdge[src] {
		return nil, &UnreachableSourceError{Fingerprint: source}
	}

	parent := g.bfs(src)
	paths := make(model.PathSet)
	for _, fpr := range g.FullyTrusted() {
		if fpr == source {
			continue
		}
		i := g.index[fpr]
		if parent[i] < 0 {
			continue
		}
		paths[fpr] = g.extractPath(parent, i)
	}
	return paths, nil
}

// AlternatePaths discovers distinct signature chains from source to target,
// one per key the source signed directly. Each first-hop key is tried in
// adjacency order with a depth-limited search that avoids the other first
// hops and the second hop of every path already found, so the alternatives
// diverge early instead of sharing a trunk. maxDepth bounds the signature
// hops of a full path, zero meaning no bound; the surviving set is culled
// of redundant tails and capped at maxPaths.
//
// A target the source signed directly short-circuits to that single
// two-node path. Source classification matches ShortestPath.
func (g *Graph) AlternatePaths(source, target string, maxDepth, maxPaths int) ([]model.Path, error) {
	src, ok := g.index[source]
	if !ok || !g.hasEdge[src] {
		return nil, &UnreachableSourceError{Fingerprint: source}
	}
	dst, ok := g.index[target]
	if !ok {
		return nil, ErrUnreachable
	}
	if src == dst {
		return []model.Path{{source}}, nil
	}

	firstHops := g.adj[src]
	if len(firstHops) == 0 {
		return nil, ErrUnreachable
	}

	ignore := make(map[int32]bool, len(firstHops)+1)
	ignore[src] = true
	for _, hop := range firstHops {
		ignore[hop] = true
	}
	if ignore[dst] {
		return []model.Path{{source, target}}, nil
	}

	subEdges := maxDepth - 1
	if maxDepth <= 0 {
		subEdges = len(g.nodes)
	}

	var paths []model.Path
	for _, hop := range firstHops {
		sub := g.boundedPath(hop, dst, subEdges, ignore)
		if sub == nil {
			continue
		}
		path := make(model.Path, 0, len(sub)+1)
		path = append(path, source)
		path = append(path, sub...)
		paths = append(paths, path)
		if len(sub) > 1 {
			ignore[g.index[sub[1]]] = true
		}
	}
	if len(paths) == 0 {
		return nil, ErrUnreachable
	}
	return CullRedundantPaths(paths, maxPaths), nil
}

// boundedPath runs a depth-limited BFS from start to dst, expanding at most
// maxEdges levels and never through ignored nodes. The target itself is
// exempt from the ignore set so a found node can always close the path.
func (g *Graph) boundedPath(start, dst int32, maxEdges int, ignore map[int32]bool) model.Path {
	if maxEdges < 1 {
		return nil
	}
	parent := make([]int32, len(g.nodes))
	for i := range parent {
		parent[i] = -1
	}
	parent[start] = -2

	frontier := []int32{start}
	for d := 0; d < maxEdges && len(frontier) > 0; d++ {
		var next []int32
		for _, cur := range frontier {
			for _, n := range g.adj[cur] {
				if parent[n] != -1 {
					continue
				}
				if n == dst {
					parent[n] = cur
					return g.extractPath(parent, dst)
				}
				if ignore[n] {
					continue
				}
				parent[n] = cur
				next = append(next, n)
			}
		}
		frontier = next
	}
	return nil
}

// bfs runs a breadth-first traversal from src and returns the parent array:
// parent[i] is the predecessor of node i on its shortest path, -1 for
// unvisited nodes and -2 for the source itself.
func (g *Graph) bfs(src int32) []int32 {
	parent := make([]int32, len(g.nodes))
	for i := range parent {
		parent[i] = -1
	}
	parent[src] = -2

	queue := make([]int32, 0, len(g.nodes))
	queue = append(queue, src)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.adj[cur] {
			if parent[next] != -1 {
				continue
			}
			parent[next] = cur
			queue = append(queue, next)
		}
	}
	return parent
}

// extractPath walks the parent array from dst back to the source and
// returns the fingerprint sequence in forward order. dst must be a visited
// node other than the source.
func (g *Graph) extractPath(parent []int32, dst int32) model.Path {
	var rev []int32
	for cur := dst; ; cur = parent[cur] {
		rev = append(rev, cur)
		if parent[cur] == -2 {
			break
		}
	}
	path := make(model.Path, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, g.nodes[rev[i]].Fingerprint)
	}
	return path
}
