package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/vegasq/readinglist/internal/archive"
	"github.com/vegasq/readinglist/internal/catalog"
	"github.com/vegasq/readinglist/internal/config"
	"github.com/vegasq/readinglist/internal/output"
	"github.com/vegasq/readinglist/internal/prompt"
	"github.com/vegasq/readinglist/internal/query"
)

type app struct {
	config    config.Config
	backend   catalog.Backend
	formatter output.Formatter
	prompter  *prompt.Prompter
	out       io.Writer
}

func newApp(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer) (*app, error) {
	formatter, err := output.New(cfg.Format, out)
	if err != nil {
		return nil, err
	}
	backend, err := catalog.OpenSQLite(ctx, cfg.DBFile)
	if err != nil {
		return nil, err
	}
	return &app{
		config:    cfg,
		backend:   backend,
		formatter: formatter,
		prompter:  prompt.New(in, out),
		out:       out,
	}, nil
}

func (a *app) Close() error {
	return a.backend.Close()
}

func (a *app) run(ctx context.Context, opts *options) error {
	switch {
	case opts.Add:
		return a.add(ctx)
	case opts.Update:
		return a.update(ctx, opts.ID)
	case opts.Rm:
		return a.remove(ctx, opts.ID)
	case opts.Export:
		return a.exportTo(ctx, opts.Filename, opts.Query)
	case opts.Import:
		return a.importFrom(ctx, opts.Filename)
	case opts.Columns:
		return a.formatter.Format(output.Columns(catalog.Columns()))
	default:
		return a.list(ctx, opts.Query)
	}
}

// parseQuery compiles a -q string. An empty string means no filter.
func parseQuery(raw string) (*query.Query, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	q, err := query.Parse(raw, catalog.Columns(), query.WithLogger(log.StandardLogger()))
	if err != nil {
		if errors.Is(err, query.ErrUnknownColumn) {
			return nil, fmt.Errorf("invalid query: %w\navailable columns: %s",
				err, strings.Join(catalog.Columns(), ", "))
		}
		return nil, fmt.Errorf("invalid query: %w", err)
	}
	return q, nil
}

// selectEntries loads the catalog and applies raw as a filter.
func (a *app) selectEntries(ctx context.Context, raw string) ([]catalog.Entry, error) {
	q, err := parseQuery(raw)
	if err != nil {
		return nil, err
	}
	entries, err := a.backend.All(ctx)
	if err != nil {
		return nil, err
	}
	filtered, err := catalog.Filter(entries, q)
	if err != nil {
		return nil, fmt.Errorf("failed to apply query: %w", err)
	}
	log.WithFields(log.Fields{
		"total":   len(entries),
		"matched": len(filtered),
	}).Debug("Filtered catalog")
	return filtered, nil
}

func (a *app) list(ctx context.Context, raw string) error {
	entries, err := a.selectEntries(ctx, raw)
	if err != nil {
		return err
	}
	return a.formatter.Format(output.Entries(entries, a.config.WithID))
}

func (a *app) add(ctx context.Context) error {
	e, err := a.prompter.Entry(catalog.Entry{})
	if err != nil {
		return err
	}
	if err := a.backend.Add(ctx, &e); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %q with ID %d\n", e.Title, e.ID)
	return nil
}

func (a *app) update(ctx context.Context, id int64) error {
	current, err := a.backend.Get(ctx, id)
	if err != nil {
		return err
	}
	updated, err := a.prompter.Entry(current)
	if err != nil {
		return err
	}
	if err := a.backend.Update(ctx, updated); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %q\n", updated.Title)
	return nil
}

func (a *app) remove(ctx context.Context, id int64) error {
	if err := a.backend.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Removed entry %d\n", id)
	return nil
}

func (a *app) exportTo(ctx context.Context, path, raw string) error {
	entries, err := a.selectEntries(ctx, raw)
	if err != nil {
		return err
	}
	if err := archive.Write(path, entries); err != nil {
		return fmt.Errorf("failed to export to %s: %w", path, err)
	}
	fmt.Fprintf(a.out, "Exported %d entries to %s\n", len(entries), path)
	return nil
}

// importFrom adds the entries of a parquet file. Entries whose UID is
// already in the catalog are overwritten instead of duplicated.
func (a *app) importFrom(ctx context.Context, path string) error {
	entries, err := archive.Read(path)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", path, err)
	}

	var added, updated int
	for _, e := range entries {
		if e.UID != "" {
			existing, err := a.backend.GetByUID(ctx, e.UID)
			switch {
			case err == nil:
				e.ID = existing.ID
				if err := a.backend.Update(ctx, e); err != nil {
					return err
				}
				updated++
				continue
			case !errors.Is(err, catalog.ErrNotFound):
				return err
			}
		}
		if err := a.backend.Add(ctx, &e); err != nil {
			return err
		}
		added++
	}
	fmt.Fprintf(a.out, "Imported %s: %d added, %d updated\n", path, added, updated)
	return nil
}
