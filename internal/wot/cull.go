// Copyright (c) 2026 ToeiRei
// Sigpath - PGP web of trust pathfinder
// This source code is licensed under the MIT license found in the LICENSE file.

package wot

import (
	"sort"
	"strings"

	"github.com/toeirei/sigpath/internal/model"
)

// CullRedundantPaths drops paths whose tail is already covered by a
// shorter path, which keeps a multi-path graph readable. Paths are
// processed shortest first; a path is redundant when any of its proper
// suffixes (two or more nodes) has been seen on an earlier path. maxPaths
// caps the surviving set; zero means no cap.
func CullRedundantPaths(paths []model.Path, maxPaths int) []model.Path {
	sorted := make([]model.Path, len(paths))
	copy(sorted, paths)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) < len(sorted[j])
	})

	chunks := make(map[string]bool)
	var culled []model.Path
	for _, path := range sorted {
		redundant := false
		for n := 2; n < len(path); n++ {
			suffix := strings.Join(path[len(path)-n:], "|")
			if chunks[suffix] {
				redundant = true
				break
			}
			chunks[suffix] = true
		}
		if redundant {
			continue
		}
		culled = append(culled, path)
		if maxPaths > 0 && len(culled) >= maxPaths {
			break
		}
	}
	return culled
}
