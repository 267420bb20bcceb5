package config

import (
	"flag"
	"os"

	"github.com/ddanilov/daybook/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-s string   server base URL
//	-p int      page size for listings
//
// os.Args is filtered with flagx.FilterArgs first so cobra's own flags do
// not trip this flag set.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerURL, "s", config.ServerURL, "server base URL")
	fs.IntVar(&config.PageSize, "p", config.PageSize, "page size")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
