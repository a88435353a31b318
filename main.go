package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func printFatalError(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}

func main() {
	// Settings may come from a .env file in the working directory.
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		printFatalError(err)
		os.Exit(1)
	}

	cmd := newRootCmd(func(cmd *cobra.Command, cfg *Config) error {
		if cfg.Verbose {
			log.SetLevel(log.DebugLevel)
		}
		return run(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
	})

	err = cmd.ExecuteContext(context.Background())
	if err != nil {
		printFatalError(err)
		os.Exit(2)
	}
}
