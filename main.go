// Copyright (c) 2026 ToeiRei
// Sigpath - PGP web of trust pathfinder
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for sigpath.
//
// Usage:
//
//	go run . [flags]
//	./sigpath [flags]
//
// This launches the sigpath CLI. See --help for options.
//
// Exit codes: 0 on success (including "no path found"), 2 when a key
// identifier does not resolve to exactly one key, 1 for everything else.
package main

import (
	"errors"
	"os"

	"github.com/toeirei/sigpath/internal/logging"
	"github.com/toeirei/sigpath/internal/wot"
	"github.com/toeirei/sigpath/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		logging.Errorf("%v", err)

		var unknown *wot.UnknownKeyError
		var ambiguous *wot.AmbiguousKeyError
		if errors.As(err, &unknown) || errors.As(err, &ambiguous) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
