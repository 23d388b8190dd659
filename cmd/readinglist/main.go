// Command readinglist keeps a personal reading list and filters it with a
// small query language.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	docopt "github.com/docopt/docopt-go"
	log "github.com/sirupsen/logrus"
	"github.com/vegasq/readinglist/internal/config"
	"github.com/vegasq/readinglist/internal/debuglog"
)

const usage = `readinglist keeps a personal reading list.

Usage:
  readinglist [options] [list]
  readinglist [options] add
  readinglist [options] update --id=ID
  readinglist [options] rm --id=ID
  readinglist [options] export FILE
  readinglist [options] import FILE
  readinglist [options] columns
  readinglist -h | --help

Options:
  -q QUERY, --query=QUERY     Only show entries matching QUERY.
  -i, --with-id               Show the ID column.
  -f FORMAT, --format=FORMAT  Output format: table, csv, json.
  -x, --debug                 Print debug logging to stderr.
  --db-file=PATH              Catalog file (~/.config/readinglist/readinglist.db
                              unless set in the config file).
  --config=PATH               Config file (~/.config/readinglist/config.yaml
                              is read when present).
  --id=ID                     Entry ID, as shown by --with-id.
  -h, --help                  Show this screen.

Query language:
  <column> is <value>           exact match
  <column> has <word>           whole-word match, e.g. "tags has classic"
  ... and <value>               same column, another value
  ... and <column> is <value>   another column
  Quote values with spaces: title is "The Great Gatsby"
  Keywords (is, has, and, or) are lower case.

Editing:
  add and update ask for each field in turn. During update an empty answer
  keeps the current value and a single "-" clears it.

Examples:
  readinglist -q "genre is fiction and status is read"
  readinglist -i -f csv -q "tags has classic"
  readinglist update --id 4
  readinglist -q "status is unread" export unread.parquet
`

type options struct {
	// Options
	Query      string `docopt:"--query"`
	WithID     bool   `docopt:"--with-id"`
	Format     string `docopt:"--format"`
	Debug      bool   `docopt:"--debug"`
	DBFile     string `docopt:"--db-file"`
	ConfigFile string `docopt:"--config"`
	IDString   string `docopt:"--id"`
	ID         int64
	Filename   string `docopt:"FILE"`

	// Commands
	List    bool `docopt:"list"`
	Add     bool `docopt:"add"`
	Update  bool `docopt:"update"`
	Rm      bool `docopt:"rm"`
	Export  bool `docopt:"export"`
	Import  bool `docopt:"import"`
	Columns bool `docopt:"columns"`
	Help    bool `docopt:"--help"`
}

func parseArgs(argv []string) (*options, error) {
	parser := &docopt.Parser{HelpHandler: docopt.PrintHelpAndExit, OptionsFirst: false}
	opts, err := parser.ParseArgs(usage, argv, "")
	if err != nil {
		return nil, fmt.Errorf("error parsing command-line arguments: %w", err)
	}
	var options options
	if err := opts.Bind(&options); err != nil {
		return nil, fmt.Errorf("error binding command-line arguments: %w", err)
	}
	if options.IDString != "" {
		options.ID, err = strconv.ParseInt(options.IDString, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("unable to parse --id value %q: %w", options.IDString, err)
		}
	}
	return &options, nil
}

func main() {
	options, err := parseArgs(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load(config.Overrides{
		ConfigFile: options.ConfigFile,
		DBFile:     options.DBFile,
		Format:     options.Format,
		WithID:     options.WithID,
		Debug:      options.Debug,
	})
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	debuglog.Configure(debuglog.Options{Debug: cfg.Debug})
	log.WithFields(log.Fields{
		"db":     cfg.DBFile,
		"format": cfg.Format,
	}).Debug("Configuration loaded")

	ctx := context.Background()
	a, err := newApp(ctx, cfg, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("Error opening catalog: %v", err)
	}
	defer a.Close()

	if err := a.run(ctx, options); err != nil {
		a.Close()
		log.Fatalf("Error: %v", err)
	}
}
