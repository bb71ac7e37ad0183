// Copyright (c) 2026 ToeiRei
// Sigpath - PGP web of trust pathfinder
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"os"
	"strings"
	"testing"

	"github.com/toeirei/sigpath/internal/db"
)

const colonsDump = `pub:f:4096:1:1111111111111111:1577836800:::u:::scESC::::::23::0:
fpr:::::::::AAAA000000000000000000001111111111111111:
uid:f::::1577836800::HASH::Alice <alice@example.org>::::::::::0:
sig:::1:2222222222222222:1600000000::::Bob <bob@example.org>:13x:::::2:
pub:f:4096:1:2222222222222222:1577836800:::f:::scESC::::::23::0:
fpr:::::::::BBBB000000000000000000002222222222222222:
uid:f::::1577836800::HASH::Bob <bob@example.org>::::::::::0:
`

func writeTempDump(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "sigpath_dump_*.txt")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })
	if _, err := tmpfile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpfile.Name()
}

func TestIngestCmd(t *testing.T) {
	setupTestDB(t)
	dump := writeTempDump(t, colonsDump)

	output := executeCommand(t, "ingest", "--colons", dump)

	if !strings.Contains(output, "Loaded 2 keys") {
		t.Errorf("unexpected ingest summary:\n%s", output)
	}

	nk, err := db.CountKeys()
	if err != nil {
		t.Fatal(err)
	}
	if nk != 2 {
		t.Errorf("stored %d keys, want 2", nk)
	}
	ns, _ := db.CountSignatures()
	if ns != 1 {
		t.Errorf("stored %d signatures, want 1", ns)
	}
}

func TestIngestCmdRequiresExactlyOneInput(t *testing.T) {
	setupTestDB(t)

	if _, err := executeCommandErr(t, "ingest"); err == nil {
		t.Error("expected error without input flags")
	}
	if _, err := executeCommandErr(t, "ingest", "--colons", "a", "--keyring", "b"); err == nil {
		t.Error("expected error with both input flags")
	}
}

func TestIngestCmdReset(t *testing.T) {
	setupTestDB(t)
	dump := writeTempDump(t, colonsDump)

	executeCommand(t, "ingest", "--colons", dump)

	// second run with --reset must not duplicate anything either
	executeCommand(t, "ingest", "--colons", dump, "--reset")

	nk, _ := db.CountKeys()
	ns, _ := db.CountSignatures()
	if nk != 2 || ns != 1 {
		t.Errorf("after reset+reingest: %d keys, %d signatures, want 2/1", nk, ns)
	}
}

func TestIngestCmdMissingFile(t *testing.T) {
	setupTestDB(t)
	if _, err := executeCommandErr(t, "ingest", "--colons", "/nonexistent/dump.txt"); err == nil {
		t.Error("expected error for missing input file")
	}
}
