// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/emupack/emupack/internal/issue"
)

type staged struct {
	tmp  string
	dest string
}

// Write stages every file beside its destination, then renames them into
// place. If staging fails, no destination is touched and the staged files
// are removed.
func (p *Pipeline) Write(ctx context.Context, files []File) error {
	stagedFiles := make([]staged, 0, len(files))
	cleanup := func() {
		for _, s := range stagedFiles {
			_ = p.fs.Remove(s.tmp)
		}
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			cleanup()
			return err
		}
		tmp, err := p.stage(f)
		if err != nil {
			cleanup()
			return writeError(f.Path, fmt.Errorf("no artifact was replaced: %w", err))
		}
		stagedFiles = append(stagedFiles, staged{tmp: tmp, dest: f.Path})
	}

	for i, s := range stagedFiles {
		if err := p.fs.Rename(s.tmp, s.dest); err != nil {
			stagedFiles = stagedFiles[i:]
			cleanup()
			return writeError(s.dest, fmt.Errorf("%d of %d artifact(s) were replaced: %w", i, i+len(stagedFiles), err))
		}
		p.logger.Info("Wrote artifact", "path", s.dest)
	}
	return nil
}

func (p *Pipeline) stage(f File) (string, error) {
	dir := filepath.Dir(f.Path)
	if err := p.fs.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	tmp, err := afero.TempFile(p.fs, dir, "."+filepath.Base(f.Path)+".tmp-*")
	if err != nil {
		return "", err
	}

	_, werr := tmp.Write(f.Data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = p.fs.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func writeError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("write artifact").
		WithResource(path).
		WithIssue(issue.WriteFailedId).
		Wrap(err).
		BuildError()
}
