package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/skel/pkg/style"
)

func newMountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mounts",
		Short: "Inspect persisted mount points",
	}
	cmd.AddCommand(newMountsListCmd())
	return cmd
}

func newMountsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the persisted mount point records",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, cleanup, err := newEnvironment()
			if err != nil {
				printError(err)
				return err
			}
			defer cleanup()

			infos, err := env.MountPointInfos()
			if err != nil {
				printError(err)
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), render(style.MutedStyle, "No mount points recorded."))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, render(style.TitleStyle, "ID")+"\t"+render(style.TitleStyle, "FACTORY")+"\t"+render(style.TitleStyle, "PLACE")+"\t"+render(style.TitleStyle, "PARENT"))
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					render(style.NameStyle, info.ID),
					info.FactoryID,
					render(style.PathStyle, info.Place),
					render(style.MutedStyle, info.ParentID),
				)
			}
			return w.Flush()
		},
	}
}
