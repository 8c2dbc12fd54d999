package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wesleyorama2/courier/http"
	"github.com/wesleyorama2/courier/reachability"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = NewRootCmd()

// NewRootCmd builds the command tree with its own settings store, so
// tests can run commands side by side.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:     "courier",
		Short:   "Send HTTP requests and classify their outcome",
		Version: version,
		Long: `Courier sends GET and POST requests, checks network reachability
before every request, and classifies each result as raw data, a JSON map,
a JSON list, or a failure (offline, transport, HTTP status, decode).`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			// If no subcommand is provided, print help
			_ = cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Config file (YAML, JSON or TOML)")
	flags.DurationP("timeout", "t", http.DefaultTimeout, "Request timeout")
	flags.String("transport", "net", "HTTP transport: net or resty")
	flags.StringP("output", "o", "text", "Output format: text, json or yaml")
	flags.Bool("no-color", false, "Disable colored output")
	flags.BoolP("verbose", "v", false, "Enable verbose output")
	flags.String("log-level", "warn", "Log level: debug, info, warn or error")
	flags.String("log-format", "console", "Log format: console or json")
	flags.Bool("offline", false, "Treat the network as unreachable")
	flags.String("probe-address", reachability.DefaultProbeAddress, "Address used to test the default route")

	for key, name := range map[string]string{
		"timeout":       "timeout",
		"transport":     "transport",
		"output":        "output",
		"no_color":      "no-color",
		"verbose":       "verbose",
		"log_level":     "log-level",
		"log_format":    "log-format",
		"offline":       "offline",
		"probe_address": "probe-address",
	} {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}

	root.AddCommand(newGetCmd(v))
	root.AddCommand(newPostCmd(v))
	root.AddCommand(newUploadCmd(v))
	root.AddCommand(newReachCmd(v))

	return root
}

// Execute runs RootCmd. An interrupt cancels any request in flight.
// This is called by main.main().
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return RootCmd.ExecuteContext(ctx)
}
