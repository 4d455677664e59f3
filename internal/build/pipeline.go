// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/emupack/emupack/internal/config"
	"github.com/emupack/emupack/internal/issue"
	"github.com/emupack/emupack/internal/readme"
	"github.com/emupack/emupack/pkg/catalog"
	"github.com/emupack/emupack/pkg/deeplink"
	"github.com/emupack/emupack/pkg/export"
	"github.com/emupack/emupack/pkg/table"
)

const (
	// TargetExport writes the export document and, if enabled, its checksum.
	TargetExport Target = 1 << iota
	// TargetReadme writes the assembled README.
	TargetReadme
	// TargetTable writes the bare table fragment.
	TargetTable

	// TargetAll writes every configured artifact.
	TargetAll = TargetExport | TargetReadme | TargetTable

	// ChecksumSuffix is appended to the export path for its checksum file.
	ChecksumSuffix = ".sha256"
)

type (
	// Target selects the artifacts a run writes.
	Target uint8

	// Pipeline derives and writes the artifacts for one catalog.
	Pipeline struct {
		fs     afero.Fs
		cfg    *config.Config
		logger *log.Logger
		enc    *deeplink.Encoder
	}

	// Artifacts holds everything derived from a catalog, in memory.
	Artifacts struct {
		Catalog  *catalog.Catalog
		Export   []byte
		Checksum string
		Table    *table.Result
		// Readme is nil when the configuration writes no README.
		Readme []byte
	}

	// File is one artifact ready to be written.
	File struct {
		Path string
		Data []byte
	}
)

// New returns a Pipeline reading and writing through fs. A nil logger
// discards log output.
func New(fs afero.Fs, cfg *config.Config, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Pipeline{
		fs:     fs,
		cfg:    cfg,
		logger: logger,
		enc:    deeplink.New(cfg.Link.BaseURL),
	}
}

// Encoder returns the deep link encoder built from the configuration.
func (p *Pipeline) Encoder() *deeplink.Encoder {
	return p.enc
}

// Renderer returns the table renderer built from the configuration.
func (p *Pipeline) Renderer() *table.Renderer {
	return table.New(p.enc,
		table.WithHeadingLevel(int(p.cfg.Table.HeadingLevel)),
		table.WithFallbackGroup(p.cfg.Table.FallbackGroup),
	)
}

// LoadCatalog reads and validates the configured catalog.
func (p *Pipeline) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := p.cfg.Catalog
	format, err := catalog.FormatFromPath(path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load catalog").
			WithResource(path).
			WithIssue(issue.UnknownCatalogFormatId).
			Wrap(err).
			BuildError()
	}

	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		id := issue.PermissionDeniedId
		if errors.Is(err, os.ErrNotExist) {
			id = issue.CatalogNotFoundId
		}
		return nil, issue.NewErrorContext().
			WithOperation("load catalog").
			WithResource(path).
			WithIssue(id).
			Wrap(err).
			BuildError()
	}

	c, err := catalog.Parse(data, catalog.WithFilename(path), catalog.WithFormat(format))
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load catalog").
			WithResource(path).
			WithSuggestion("Fix every path listed above; the catalog is rejected as a whole").
			WithIssue(issue.MalformedCatalogId).
			Wrap(err).
			BuildError()
	}

	p.logger.Debug("Loaded catalog", "path", path, "format", format, "apps", len(c.Apps))
	return c, nil
}

// Generate derives every artifact for c without touching the filesystem
// beyond reading the README sections.
func (p *Pipeline) Generate(ctx context.Context, c *catalog.Catalog, targets Target) (*Artifacts, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := export.Build(c)
	data, err := export.Marshal(doc)
	if err != nil {
		return nil, issue.WrapWithContext(err, "encode export", p.cfg.Output.Export.String())
	}
	p.logger.Debug("Built export", "apps", len(doc.Apps), "excluded", len(c.Apps)-len(doc.Apps))

	res, err := p.Renderer().Render(c.Apps, c.Settings)
	if err != nil {
		return nil, issue.WrapWithOperation(err, "render table")
	}
	for _, d := range res.Dangling {
		p.logger.Warn("Category missing from settings", "app", d.AppID, "path", d.Path, "category", d.Reference)
	}

	a := &Artifacts{
		Catalog:  c,
		Export:   data,
		Checksum: export.Checksum(data),
		Table:    res,
	}

	if targets&TargetReadme != 0 && p.cfg.Output.Readme.Enabled() {
		a.Readme, err = readme.Assemble(p.fs, p.cfg.Readme.Sections, res.Markdown)
		if err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Files lists the artifacts selected by targets that the configuration
// enables, in write order.
func (p *Pipeline) Files(a *Artifacts, targets Target) []File {
	out := p.cfg.Output
	var files []File

	if targets&TargetExport != 0 && out.Export.Enabled() {
		files = append(files, File{Path: out.Export.String(), Data: a.Export})
		if out.Checksum {
			line := a.Checksum + "  " + filepath.Base(out.Export.String()) + "\n"
			files = append(files, File{Path: out.Export.String() + ChecksumSuffix, Data: []byte(line)})
		}
	}
	if targets&TargetTable != 0 && out.Table.Enabled() {
		files = append(files, File{Path: out.Table.String(), Data: []byte(a.Table.Markdown)})
	}
	if targets&TargetReadme != 0 && out.Readme.Enabled() && a.Readme != nil {
		files = append(files, File{Path: out.Readme.String(), Data: a.Readme})
	}
	return files
}

// Run loads the catalog, derives the artifacts and writes those selected by
// targets. Nothing is written unless every step succeeds.
func (p *Pipeline) Run(ctx context.Context, targets Target) (*Artifacts, []File, error) {
	c, err := p.LoadCatalog(ctx)
	if err != nil {
		return nil, nil, err
	}

	a, err := p.Generate(ctx, c, targets)
	if err != nil {
		return nil, nil, err
	}

	files := p.Files(a, targets)
	if err := p.Write(ctx, files); err != nil {
		return nil, nil, err
	}
	return a, files, nil
}
