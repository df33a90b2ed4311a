package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/skel/pkg/style"
)

func newPathsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Manage content probing paths",
	}
	cmd.AddCommand(newPathsListCmd())
	cmd.AddCommand(newPathsAddCmd())
	return cmd
}

func newPathsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the probing paths scanned for templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, cleanup, err := newEnvironment()
			if err != nil {
				printError(err)
				return err
			}
			defer cleanup()

			probing, err := env.ProbingPaths()
			if err != nil {
				printError(err)
				return err
			}
			for _, p := range probing {
				fmt.Println(render(style.PathStyle, p))
			}
			return nil
		},
	}
}

func newPathsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <directory>",
		Short: "Add a probing path to the settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			abs, err := filepath.Abs(args[0])
			if err != nil {
				printError(err)
				return err
			}

			env, cleanup, err := newEnvironment()
			if err != nil {
				printError(err)
				return err
			}
			defer cleanup()

			if err := env.AddProbingPath(abs); err != nil {
				printError(err)
				return err
			}
			fmt.Println(render(style.SuccessStyle, "Added "+abs))
			return nil
		},
	}
}
