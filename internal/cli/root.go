package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/skel/internal/version"
	"github.com/arthur-debert/skel/pkg/config"
	"github.com/arthur-debert/skel/pkg/generators"
	"github.com/arthur-debert/skel/pkg/logging"
	"github.com/arthur-debert/skel/pkg/paths"
	"github.com/arthur-debert/skel/pkg/settings"
	"github.com/arthur-debert/skel/pkg/style"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:   "skel",
		Short: "A template-driven project scaffolder",
		Long: `skel discovers project templates under configured content locations,
caches their metadata per locale and instantiates them on demand.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newPathsCmd())
	rootCmd.AddCommand(newMountsCmd())
	rootCmd.AddCommand(newGenConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newEnvironment wires the engine for a command invocation. The returned
// cleanup releases live mounts and must run before the command exits.
func newEnvironment() (*settings.Environment, func(), error) {
	p := paths.New()
	cfg, err := config.Load(p)
	if err != nil {
		return nil, nil, err
	}

	env := settings.NewEnvironment(p, cfg,
		settings.WithGenerators(generators.NewRunnable()),
	)
	cleanup := func() {
		if err := env.Close(); err != nil {
			log.Warn().Err(err).Msg("closing environment")
		}
	}
	return env, cleanup, nil
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, style.ErrorStyle.Render("error:"), err)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("skel version %s\n", version.Version)
			fmt.Printf("  commit: %s\n", version.Commit)
			fmt.Printf("  built:  %s\n", version.Date)
		},
	}
}
