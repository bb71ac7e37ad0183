// Copyright (c) 2026 ToeiRei
// Sigpath - PGP web of trust pathfinder
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/toeirei/sigpath/internal/db"
	"github.com/toeirei/sigpath/internal/export"
	"github.com/toeirei/sigpath/internal/i18n"
	"github.com/toeirei/sigpath/internal/logging"
	"github.com/toeirei/sigpath/internal/model"
	"github.com/toeirei/sigpath/internal/wot"
)

var (
	graphFrom     string
	graphOut      string
	graphMaxPaths int
	pathMaxDepth  int
	pathMaxPaths  int
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Search the trust graph and export results as DOT",
}

// pathCmd finds signature chains from a source key to a target key and
// writes them as one DOT graph, one alternative per key the source signed.
var pathCmd = &cobra.Command{
	Use:   "path TARGET",
	Short: "Graph signature paths to a key",
	Long: `Finds chains of certification signatures from the source key to TARGET,
shortest first, trying one alternative per key the source signed directly.
The source defaults to the ultimately trusted key in the store; use --from
to pick another one. Keys can be given as a fingerprint, a 16-character
key ID, or a uid substring.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := wot.Build(db.DefaultStore())
		if err != nil {
			return err
		}

		source, err := resolveSource(g, graphFrom)
		if err != nil {
			return err
		}
		target := g.Resolve(args[0])
		if err := target.Err(); err != nil {
			return err
		}

		maxDepth := pathMaxDepth
		if !cmd.Flags().Changed("maxdepth") && appConfig.Search.MaxDepth > 0 {
			maxDepth = appConfig.Search.MaxDepth
		}

		paths, err := g.AlternatePaths(source, target.Fingerprint, maxDepth, pathMaxPaths)
		if errors.Is(err, wot.ErrUnreachable) {
			fmt.Println(i18n.T("graph.no_path", source, target.Fingerprint))
			return nil
		}
		if err != nil {
			return err
		}

		es := export.FromPaths(g, paths)
		return writeDOT(es, graphOut)
	},
}

// toFullCmd graphs the shortest chains from one key to every reachable
// fully trusted key.
var toFullCmd = &cobra.Command{
	Use:   "to-full SOURCE",
	Short: "Graph paths from a key to all reachable fully trusted keys",
	Long: `Finds, in a single traversal, the shortest signature chain from SOURCE to
every key carrying full or ultimate ownertrust. Redundant paths that only
repeat an already-drawn tail are culled before export.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := wot.Build(db.DefaultStore())
		if err != nil {
			return err
		}

		source := g.Resolve(args[0])
		if err := source.Err(); err != nil {
			return err
		}

		pathSet, err := g.ShortestPathsToFullyTrusted(source.Fingerprint)
		if err != nil {
			return err
		}
		if len(pathSet) == 0 {
			fmt.Println(i18n.T("graph.no_trusted", source.Fingerprint))
			return nil
		}

		// stable flattening: shortest first, fingerprint as tie-break
		targets := make([]string, 0, len(pathSet))
		for fpr := range pathSet {
			targets = append(targets, fpr)
		}
		sort.Slice(targets, func(i, j int) bool {
			pi, pj := pathSet[targets[i]], pathSet[targets[j]]
			if len(pi) != len(pj) {
				return len(pi) < len(pj)
			}
			return targets[i] < targets[j]
		})
		paths := make([]model.Path, 0, len(targets))
		for _, fpr := range targets {
			paths = append(paths, pathSet[fpr])
		}

		culled := wot.CullRedundantPaths(paths, graphMaxPaths)
		logging.Infof("%s", i18n.T("graph.paths_found", len(paths), len(culled)))

		es := export.FromPaths(g, culled)
		return writeDOT(es, graphOut)
	},
}

// resolveSource picks the path source: an explicit identifier when given,
// otherwise the ultimately trusted key.
func resolveSource(g *wot.Graph, from string) (string, error) {
	if from != "" {
		res := g.Resolve(from)
		if err := res.Err(); err != nil {
			return "", err
		}
		return res.Fingerprint, nil
	}
	ult := g.UltimateKey()
	if ult == nil {
		return "", errors.New(i18n.T("graph.no_ultimate"))
	}
	logging.Infof("%s", i18n.T("graph.default_source", ult.String()))
	return ult.Fingerprint, nil
}

// writeDOT serializes the set to the --out file, or stdout for "-".
func writeDOT(es *export.EdgeSet, out string) error {
	dot := es.DOT()
	if out == "" || out == "-" {
		fmt.Print(dot)
		return nil
	}
	if err := os.WriteFile(out, []byte(dot), 0644); err != nil {
		return fmt.Errorf("could not write %s: %w", out, err)
	}
	logging.Infof("%s", i18n.T("graph.wrote", out))
	return nil
}

func init() {
	pathCmd.Flags().StringVar(&graphFrom, "from", "", "source key (defaults to the ultimately trusted key)")
	pathCmd.Flags().StringVarP(&graphOut, "out", "o", "", "write DOT output to this file ('-' or empty for stdout)")
	pathCmd.Flags().IntVar(&pathMaxDepth, "maxdepth", 4, "try paths up to this many signature hops (0 for no limit)")
	pathCmd.Flags().IntVar(&pathMaxPaths, "maxpaths", 4, "stop after finding this many paths (0 for all)")
	toFullCmd.Flags().StringVarP(&graphOut, "out", "o", "", "write DOT output to this file ('-' or empty for stdout)")
	toFullCmd.Flags().IntVar(&graphMaxPaths, "maxpaths", 0, "keep at most this many paths (0 for all)")

	graphCmd.AddCommand(pathCmd, toFullCmd)
}
