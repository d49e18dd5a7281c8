// cmd/tastematch/main.go
//
// Entry point for the tastematch CLI. With no subcommand it runs the quiz in
// the terminal; the other subcommands expose the resolver and the local score
// sink for scripting and development.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagDir   string
	flagDebug bool
)

func main() {
	root := newRootCmd()
	root.SilenceUsage = true
	root.SilenceErrors = true
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tastematch",
		Short: "Find your perfect venue match",
		Long:  "tastematch runs a short taste quiz and recommends a venue based on your answers.",
		RunE:  runPlay,
	}
	cmd.PersistentFlags().StringVar(&flagDir, "dir", "", "project directory holding .tastematch (defaults to the working directory)")
	cmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	cmd.AddCommand(playCmd())
	cmd.AddCommand(resolveCmd())
	cmd.AddCommand(serveCmd())
	cmd.AddCommand(initCmd())
	return cmd
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create .tastematch with a default config",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := projectDir()
			if err != nil {
				return err
			}
			if err := initProject(dir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", dir)
			return nil
		},
	}
}

// projectDir resolves --dir, falling back to the working directory.
func projectDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return cwd, nil
}
