package config

import (
	"flag"
	"io"
	"strings"

	"github.com/dmitrijs2005/anniv/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g. ":6655")
//	-g string   gRPC health bind address
//	-t string   database driver: postgres, mysql or sqlite
//	-d string   database DSN
//	-m int      database pool size
//	-f string   comma-separated feature list (e.g. "invite,2fa")
//	-b int      bcrypt cost
//	-s string   session signing secret
//	-l string   log level
//
// Only the flags above are picked out of args, so sub-command flags and the
// -c config flag do not collide.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-t", "-d", "-m", "-f", "-b", "-s", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run the HTTP API")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "address and port to run the gRPC health endpoint")
	fs.StringVar(&config.DatabaseDriver, "t", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.IntVar(&config.DatabaseMaxConnections, "m", config.DatabaseMaxConnections, "database pool size")
	features := fs.String("f", strings.Join(config.Features, ","), "enabled features")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session secret")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config.Features = splitFeatures(*features)
	return nil
}

func splitFeatures(list string) []string {
	out := []string{}
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
