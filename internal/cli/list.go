package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/skel/pkg/style"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached templates for the current locale",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, cleanup, err := newEnvironment()
			if err != nil {
				printError(err)
				return err
			}
			defer cleanup()

			templates, err := env.Templates()
			if err != nil {
				printError(err)
				return err
			}
			if len(templates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), render(style.MutedStyle, "No templates cached. Run 'skel scan' first."))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, render(style.TitleStyle, "SHORT NAME")+"\t"+render(style.TitleStyle, "NAME")+"\t"+render(style.TitleStyle, "DESCRIPTION"))
			for _, t := range templates {
				short := t.ShortName
				if short == "" {
					short = t.ID
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", render(style.NameStyle, short), t.Name, render(style.MutedStyle, t.Description))
			}
			return w.Flush()
		},
	}
}
