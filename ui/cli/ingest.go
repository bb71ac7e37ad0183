// Copyright (c) 2026 ToeiRei
// Sigpath - PGP web of trust pathfinder
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/toeirei/sigpath/internal/db"
	"github.com/toeirei/sigpath/internal/i18n"
	"github.com/toeirei/sigpath/internal/keyring"
	"github.com/toeirei/sigpath/internal/logging"
)

var (
	ingestColonsFile  string
	ingestKeyringFile string
	ingestReset       bool
	ingestUseWeakKeys bool
)

// ingestCmd loads a keyring dump into the signature store. Exactly one
// input format must be given; "-" reads a colon listing from stdin.
var ingestCmd = &cobra.Command{
	Use:   "ingest (--colons FILE | --keyring FILE)",
	Short: "Load keys and signatures from a keyring dump",
	Long: `Parses a keyring dump and stores keys and certification signatures.

--colons expects the output of 'gpg --list-sigs --with-colons'; --keyring
expects a binary or armored OpenPGP keyring. Files ending in .zst are
decompressed transparently. Re-running ingest over the same data is safe;
keys are upserted by fingerprint and duplicate signatures are ignored.`,
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (ingestColonsFile == "") == (ingestKeyringFile == "") {
			return fmt.Errorf("exactly one of --colons or --keyring is required")
		}

		if ingestReset {
			if err := db.Reset(); err != nil {
				return fmt.Errorf("could not reset the store: %w", err)
			}
		}

		opts := keyring.Options{UseWeakKeys: ingestUseWeakKeys || appConfig.Keyring.UseWeakKeys}

		var (
			stats keyring.Stats
			err   error
		)
		if ingestColonsFile != "" {
			var r io.ReadCloser
			if ingestColonsFile == "-" {
				r = os.Stdin
			} else {
				logging.Infof("%s", i18n.T("ingest.reading", ingestColonsFile))
				r, err = keyring.Open(ingestColonsFile)
				if err != nil {
					return err
				}
				defer r.Close()
			}
			stats, err = keyring.IngestColons(r, db.DefaultStore(), opts)
		} else {
			logging.Infof("%s", i18n.T("ingest.reading", ingestKeyringFile))
			var r io.ReadCloser
			r, err = keyring.Open(ingestKeyringFile)
			if err != nil {
				return err
			}
			defer r.Close()
			stats, err = keyring.IngestKeyring(r, db.DefaultStore(), opts)
		}
		if err != nil {
			return err
		}

		fmt.Println(i18n.T("ingest.done", stats.Keys, stats.UIDs, stats.Signatures))
		if stats.WeakSkipped > 0 {
			fmt.Println(i18n.T("ingest.weak_skipped", stats.WeakSkipped))
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestColonsFile, "colons", "", "GnuPG --with-colons listing ('-' for stdin)")
	ingestCmd.Flags().StringVar(&ingestKeyringFile, "keyring", "", "binary or armored OpenPGP keyring file")
	ingestCmd.Flags().BoolVar(&ingestReset, "reset", false, "wipe the store before ingesting")
	ingestCmd.Flags().BoolVar(&ingestUseWeakKeys, "use-weak-keys", false, "do not discard keys considered too weak")
}
