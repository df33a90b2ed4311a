package cli

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/skel/pkg/config"
	"github.com/arthur-debert/skel/pkg/paths"
	"github.com/arthur-debert/skel/pkg/style"
)

func newGenConfigCmd() *cobra.Command {
	var write bool
	var current bool

	cmd := &cobra.Command{
		Use:   "gen-config",
		Short: "Print the default configuration",
		Long: `Print the built-in default configuration in TOML format. With --write
the content is placed at the user configuration path instead, unless a
configuration file already exists there. With --current the effective
configuration after all layers (defaults, file, environment) is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if current {
				cfg, err := config.Load(paths.New())
				if err != nil {
					printError(err)
					return err
				}
				data, err := toml.Marshal(cfg)
				if err != nil {
					printError(err)
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), string(data))
				return nil
			}

			content := config.DefaultConfigContent()
			if !write {
				fmt.Fprint(cmd.OutOrStdout(), content)
				return nil
			}

			target := paths.New().ConfigFile()
			if _, err := os.Stat(target); err == nil {
				err := fmt.Errorf("configuration already exists at %s", target)
				printError(err)
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				printError(err)
				return err
			}
			if err := os.WriteFile(target, []byte(content), 0644); err != nil {
				printError(err)
				return err
			}
			fmt.Println(render(style.SuccessStyle, "Wrote "+target))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write to the user configuration path instead of stdout")
	cmd.Flags().BoolVar(&current, "current", false, "Print the effective merged configuration")
	return cmd
}
