//go:build unix

package align

import (
	"os"
	"path/filepath"
	"testing"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-align")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestCommandEngineParsesCommandOutput(t *testing.T) {
	// The fake engine ignores its token-file arguments and emits a fixed
	// script, which is all the contract requires for the parse path.
	cmd := writeScript(t, `printf '41 41\n42 | 58\n'`)
	recs, err := CommandEngine{Command: cmd}.Align([]string{"41", "42"}, []string{"41", "58"})
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	want := []Record{
		{Kind: Unchanged, Old: "41", New: "41"},
		{Kind: Modified, Old: "42", New: "58"},
	}
	if len(recs) != len(want) {
		t.Fatalf("records = %+v, want %+v", recs, want)
	}
	for i, rec := range recs {
		if rec != want[i] {
			t.Fatalf("record %d = %+v, want %+v", i, rec, want[i])
		}
	}
}

func TestCommandEngineReceivesTokenFiles(t *testing.T) {
	// Replay the first token file as an all-unchanged script, proving the
	// command received the encoded stream on its argument list.
	cmd := writeScript(t, `for tok in $(cat "$1"); do printf '%s %s\n' "$tok" "$tok"; done`)
	recs, err := CommandEngine{Command: cmd}.Align([]string{"0A", "0B"}, []string{"0A", "0B"})
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if len(recs) != 2 || recs[0].Old != "0A" || recs[1].Old != "0B" {
		t.Fatalf("records = %+v", recs)
	}
}

func TestCommandEngineAcceptsDiffConventionExitOne(t *testing.T) {
	cmd := writeScript(t, `printf '41 <\n'; exit 1`)
	recs, err := CommandEngine{Command: cmd}.Align([]string{"41"}, nil)
	if err != nil {
		t.Fatalf("Align: %v", err)
	}
	if len(recs) != 1 || recs[0].Kind != Deleted {
		t.Fatalf("records = %+v", recs)
	}
}

func TestCommandEngineFailsOnHardExit(t *testing.T) {
	cmd := writeScript(t, `echo boom >&2; exit 2`)
	if _, err := (CommandEngine{Command: cmd}).Align(nil, nil); err == nil {
		t.Fatal("expected error for exit code 2")
	}
}

func TestCommandEngineRejectsEmptyCommand(t *testing.T) {
	if _, err := (CommandEngine{}).Align(nil, nil); err == nil {
		t.Fatal("expected error for empty command")
	}
}
