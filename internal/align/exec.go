package align

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jjazzboss/colorbindiff/internal/hexstream"
)

// CommandEngine delegates alignment to an external command. Both token
// streams are written to temporary files, the command is invoked with the
// two paths appended to its arguments, and its stdout is parsed as a
// script. Exit code 1 follows the diff convention (differences found) and
// is not an error; anything else nonzero is fatal.
type CommandEngine struct {
	Command string
}

func (e CommandEngine) Align(old, new []hexstream.Token) ([]Record, error) {
	args := strings.Fields(e.Command)
	if len(args) == 0 {
		return nil, errors.New("empty alignment command")
	}

	dir, err := os.MkdirTemp("", "colorbindiff-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	oldPath := filepath.Join(dir, "old.tokens")
	newPath := filepath.Join(dir, "new.tokens")
	if err := writeTokenFile(oldPath, old); err != nil {
		return nil, err
	}
	if err := writeTokenFile(newPath, new); err != nil {
		return nil, err
	}

	cmd := exec.Command(args[0], append(args[1:], oldPath, newPath)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
			msg := strings.TrimSpace(stderr.String())
			if msg != "" {
				return nil, fmt.Errorf("alignment command %q: %v: %s", e.Command, err, msg)
			}
			return nil, fmt.Errorf("alignment command %q: %w", e.Command, err)
		}
	}
	return ReadScript(&stdout)
}

func writeTokenFile(path string, toks []hexstream.Token) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create token file: %w", err)
	}
	if err := hexstream.WriteTokens(f, toks); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close token file: %w", err)
	}
	return nil
}
