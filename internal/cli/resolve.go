package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/skel/pkg/resolver"
	"github.com/arthur-debert/skel/pkg/style"
	"github.com/arthur-debert/skel/pkg/types"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <template>",
		Short: "Resolve a cached template and show its parameters",
		Args:  cobra.ExactArgs(1),
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

			info, found := findTemplate(templates, args[0])
			if !found {
				err := fmt.Errorf("no cached template named %q", args[0])
				printError(err)
				return err
			}

			components, err := env.Components()
			if err != nil {
				printError(err)
				return err
			}
			mounts, err := env.Mounts()
			if err != nil {
				printError(err)
				return err
			}

			tmpl := resolver.New(components, mounts, env.HostIdentifier()).Load(info)
			if tmpl == nil {
				err := fmt.Errorf("template %q cannot be resolved; its content may have moved", args[0])
				printError(err)
				return err
			}

			fmt.Println(render(style.TitleStyle, tmpl.Name))
			if tmpl.Description != "" {
				fmt.Println(render(style.MutedStyle, tmpl.Description))
			}
			if tmpl.Author != "" {
				fmt.Printf("Author: %s\n", tmpl.Author)
			}
			if len(tmpl.Parameters) > 0 {
				fmt.Println()
				fmt.Println(render(style.TitleStyle, "Parameters"))
				for _, p := range tmpl.Parameters {
					line := render(style.NameStyle, p.Name)
					if p.Type != "" {
						line += " (" + p.Type + ")"
					}
					if p.Required {
						line += " " + render(style.ErrorStyle, "required")
					}
					if p.Description != "" {
						line += "  " + render(style.MutedStyle, p.Description)
					}
					fmt.Println(render(style.ListItemStyle, line))
				}
			}
			return nil
		},
	}
}

// findTemplate matches by short name first, then by id.
func findTemplate(templates []types.TemplateInfo, name string) (types.TemplateInfo, bool) {
	for _, t := range templates {
		if t.ShortName == name {
			return t, true
		}
	}
	for _, t := range templates {
		if t.ID == name {
			return t, true
		}
	}
	return types.TemplateInfo{}, false
}
