// SPDX-License-Identifier: MPL-2.0

// Package readme assembles the README from static Markdown sections and the
// rendered table.
package readme

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/emupack/emupack/internal/config"
	"github.com/emupack/emupack/internal/issue"
)

// Assemble concatenates sections in order, separated by one blank line.
// The entry config.TableMarker is replaced by table; every other entry is a
// file read from fs. The result ends with exactly one newline.
func Assemble(fs afero.Fs, sections []string, table string) ([]byte, error) {
	parts := make([]string, 0, len(sections))
	for _, section := range sections {
		if section == config.TableMarker {
			parts = append(parts, strings.TrimRight(table, "\n"))
			continue
		}

		data, err := afero.ReadFile(fs, section)
		if err != nil {
			ctx := issue.NewErrorContext().
				WithOperation("read README section").
				WithResource(section).
				Wrap(err)
			if errors.Is(err, os.ErrNotExist) {
				ctx.WithIssue(issue.ReadmeSectionMissingId)
			}
			return nil, ctx.BuildError()
		}
		parts = append(parts, strings.TrimRight(normalize(string(data)), "\n"))
	}

	out := strings.Join(parts, "\n\n")
	if out == "" {
		ae := issue.NewActionableError("assemble README")
		ae.Cause = fmt.Errorf("%d section(s) were empty", len(sections))
		ae.Suggestions = []string{"Add content to the files listed in readme.sections"}
		return nil, ae
	}
	return []byte(out + "\n"), nil
}

func normalize(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
