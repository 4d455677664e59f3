// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/emupack/emupack/internal/build"
	"github.com/emupack/emupack/internal/issue"
	"github.com/emupack/emupack/pkg/catalog"
	"github.com/emupack/emupack/pkg/deeplink"
	"github.com/emupack/emupack/pkg/export"
)

// linkEntry is one line of `emupack links --json`.
type linkEntry struct {
	ID   string `json:"id"`
	Link string `json:"link"`
}

func newValidateCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the catalog",
		Long: `Load the catalog and check every rule: required fields, unique ids,
the category vocabulary, apk indexes and additionalSettings shape.

Categories missing from settings.categories are reported as warnings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}

			c, err := s.pipeline.LoadCatalog(cmd.Context())
			if err != nil {
				return app.fail(err, s.verbose)
			}

			res, err := s.pipeline.Renderer().Render(c.Apps, c.Settings)
			if err != nil {
				return app.fail(err, s.verbose)
			}
			for _, d := range res.Dangling {
				fmt.Fprintln(app.stderr, WarningStyle.Render("warning: ")+d.Error())
			}

			listed := 0
			for _, a := range c.Apps {
				if !a.ExcludedFromTable() {
					listed++
				}
			}
			fmt.Fprintf(app.stdout, "%s %s: %d apps, %d exported, %d listed\n",
				SuccessStyle.Render("✓"),
				PathStyle.Render(s.cfg.Catalog),
				len(c.Apps),
				len(export.Filter(c.Apps)),
				listed,
			)
			return nil
		},
	}
}

func newLinksCommand(app *App, flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "links [id...]",
		Short: "Print install links",
		Long: `Print the Obtainium install link of every app, or of the apps whose
ids are given. Links always carry the canonical name and url.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}

			c, err := s.pipeline.LoadCatalog(cmd.Context())
			if err != nil {
				return app.fail(err, s.verbose)
			}

			apps, err := selectApps(c, args)
			if err != nil {
				return app.fail(err, s.verbose)
			}

			entries := make([]linkEntry, 0, len(apps))
			for _, a := range apps {
				link, err := s.pipeline.Encoder().Encode(a)
				if err != nil {
					return app.fail(err, s.verbose)
				}
				entries = append(entries, linkEntry{ID: a.ID, Link: link})
			}

			if asJSON {
				enc := json.NewEncoder(app.stdout)
				enc.SetEscapeHTML(false)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			for _, e := range entries {
				fmt.Fprintf(app.stdout, "%s\t%s\n", e.ID, e.Link)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON array of {id, link}")
	return cmd
}

// selectApps returns the apps with the given ids in argument order, or all
// apps when ids is empty.
func selectApps(c *catalog.Catalog, ids []string) ([]catalog.App, error) {
	if len(ids) == 0 {
		return c.Apps, nil
	}

	out := make([]catalog.App, 0, len(ids))
	for _, id := range ids {
		i := slices.IndexFunc(c.Apps, func(a catalog.App) bool { return a.ID == id })
		if i < 0 {
			return nil, issue.NewErrorContext().
				WithOperation("find app").
				WithResource(id).
				WithSuggestion("Run 'emupack links' to list every id").
				Wrap(fmt.Errorf("no app with id %q in the catalog", id)).
				BuildError()
		}
		out = append(out, c.Apps[i])
	}
	return out, nil
}

func newInspectCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <link>",
		Short: "Decode an install link",
		Long:  `Decode an install link built for the configured base and print its payload.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}

			p, err := s.pipeline.Encoder().Decode(args[0])
			if err != nil {
				return app.fail(issue.NewErrorContext().
					WithOperation("decode link").
					WithIssue(issue.ForeignLinkId).
					Wrap(err).
					Build(), s.verbose)
			}

			data, err := deeplink.Marshal(p)
			if err != nil {
				return err
			}
			var out bytes.Buffer
			if err := json.Indent(&out, data, "", "  "); err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, out.String())
			return nil
		},
	}
}

func newTableCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the Markdown table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}

			c, err := s.pipeline.LoadCatalog(cmd.Context())
			if err != nil {
				return app.fail(err, s.verbose)
			}
			a, err := s.pipeline.Generate(cmd.Context(), c, build.TargetTable)
			if err != nil {
				return app.fail(err, s.verbose)
			}
			fmt.Fprint(app.stdout, a.Table.Markdown)
			return nil
		},
	}
}
