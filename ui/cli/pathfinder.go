// Copyright (c) 2026 ToeiRei
// Sigpath - PGP web of trust pathfinder
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toeirei/sigpath/internal/i18n"
	"github.com/toeirei/sigpath/internal/logging"
	"github.com/toeirei/sigpath/internal/pathfinder"
)

var (
	pathfinderOut      string
	pathfinderMaxDepth int
)

// pathfinderCmd asks a remote pathfinder service instead of the local
// store. Useful when the local keyring only holds a corner of the web.
var pathfinderCmd = &cobra.Command{
	Use:   "pathfinder TOP_KEY BOTTOM_KEY",
	Short: "Graph paths between two keys using a remote pathfinder",
	Long: `Queries a web-of-trust pathfinder service for signature paths from
TOP_KEY to BOTTOM_KEY (both 16-character key IDs) and renders the result
as a DOT graph. The service URL comes from pathfinder.url in the config,
falling back to the classic public instance.`,
	Args:    cobra.ExactArgs(2),
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		top, bottom := args[0], args[1]
		logging.Infof("%s", i18n.T("pathfinder.querying", top, bottom))

		client := pathfinder.New(appConfig.Pathfinder.URL)
		paths, err := client.Paths(cmd.Context(), top, bottom)
		if err != nil {
			return err
		}
		logging.Infof("%s", i18n.T("pathfinder.paths", len(paths)))

		if len(paths) == 0 {
			fmt.Println(i18n.T("graph.no_path", top, bottom))
			return nil
		}
		es := pathfinder.ToEdgeSet(paths, pathfinderMaxDepth)
		return writeDOT(es, pathfinderOut)
	},
}

func init() {
	pathfinderCmd.Flags().StringVarP(&pathfinderOut, "out", "o", "", "write DOT output to this file ('-' or empty for stdout)")
	pathfinderCmd.Flags().IntVar(&pathfinderMaxDepth, "maxdepth", 4, "skip paths longer than this many hops (0 for no limit)")
}
