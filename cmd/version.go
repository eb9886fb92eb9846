package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/cheezecat/jgnash/storage/memfile"
	"github.com/cheezecat/jgnash/storage/sqlstore"
)

type versionCmd struct{}

func (*versionCmd) Name() string     { return "version" }
func (*versionCmd) Synopsis() string { return "show the file format version of a book" }
func (*versionCmd) Usage() string {
	return `jgnash version

  Reads the file format version of the selected book without loading it.
`
}

func (c *versionCmd) SetFlags(f *flag.FlagSet) {}

func (c *versionCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var (
		v   float64
		err error
	)
	if strings.HasSuffix(*bookFile, ".db") || strings.HasSuffix(*bookFile, ".sqlite") {
		v, err = sqlstore.GetFileVersion(*bookFile, "")
	} else {
		v, err = memfile.GetFileVersion(*bookFile, "")
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", *bookFile, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s: file format %.1f\n", *bookFile, v)
	return subcommands.ExitSuccess
}
