package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vango-dev/shadow/internal/config"
	"github.com/vango-dev/shadow/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "shadow",
		Short: "Drive and inspect a shadow UI tree",
		Long: `shadow keeps an in-memory tree mirroring a UI description.

It applies batches of create, update and delete operations, lays the tree
out and hands one ordered set of render operations to a backend per batch.

  shadow replay script.yaml   apply a batch script and print the commits
  shadow serve                run the HTTP inspector`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to "+config.ConfigFileName+" (default: search the working directory)")

	load := func() (*config.Config, error) {
		if configPath != "" {
			return config.LoadFile(configPath)
		}
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		return config.LoadOrDefault(wd)
	}

	rootCmd.AddCommand(
		replayCmd(load),
		serveCmd(load),
		versionCmd(),
	)
	return rootCmd
}

// loadFunc resolves the configuration for a subcommand.
type loadFunc func() (*config.Config, error)

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

func displayPath(path string) string {
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, path); err == nil {
			return rel
		}
	}
	return path
}
