package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/skel/pkg/style"
)

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan probing paths and rebuild the template cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, cleanup, err := newEnvironment()
			if err != nil {
				printError(err)
				return err
			}
			defer cleanup()

			templates, err := env.ScanProbingPaths()
			if err != nil {
				printError(err)
				return err
			}

			fmt.Println(render(style.SuccessStyle, fmt.Sprintf("Cached %d template(s).", len(templates))))
			for _, t := range templates {
				fmt.Println(render(style.ListItemStyle, t.Name))
			}
			return nil
		},
	}
}
