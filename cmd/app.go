// Package cmd implements the CLI application to manage a set of books.
package cmd

import (
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/cheezecat/jgnash"
	"github.com/cheezecat/jgnash/storage/memfile"
	"github.com/cheezecat/jgnash/storage/sqlstore"
)

// Commands lists every subcommand a main package should register.
var Commands = []subcommands.Command{
	&accountsCmd{},
	&addAccountCmd{},
	&balanceCmd{},
	&budgetsCmd{},
	&periodsCmd{},
	&rateCmd{},
	&topicCmd{},
	&txCmd{},
	&addTxCmd{},
	&versionCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var bookFile = flag.String("file", "book.jdb", "Path to the book file (.jdb flat file, or .db SQLite database)")
var defaultCurrency = flag.String("currency", "EUR", "Default currency of the book")

// openStore picks the backend from the file extension.
func openStore(path string) (jgnash.DataStore, error) {
	if strings.HasSuffix(path, ".db") || strings.HasSuffix(path, ".sqlite") {
		return sqlstore.Open(path)
	}
	return memfile.Open(path)
}

// OpenEngine is the central function commands use to boot the engine on the
// selected book.
func OpenEngine() (*jgnash.Engine, error) {
	ds, err := openStore(*bookFile)
	if err != nil {
		return nil, fmt.Errorf("open book %q: %w", *bookFile, err)
	}
	registry, err := jgnash.NewCurrencyRegistry(*defaultCurrency)
	if err != nil {
		ds.Close()
		return nil, err
	}
	e, err := jgnash.New(ds, registry)
	if err != nil {
		ds.Close()
		return nil, fmt.Errorf("load book %q: %w", *bookFile, err)
	}
	return e, nil
}
