package config

import (
	"flag"
	"os"

	"github.com/todoapp/userapi/internal/flagx"
)

// parseFlags populates client Config fields from command-line flags.
//
//	-e string   base URL of the backend HTTP API
//
// os.Args is filtered to the flags this package owns, so the CLI can be
// started with flags belonging to other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-e"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&config.ServerEndpointAddr, "e", config.ServerEndpointAddr, "server endpoint base URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
