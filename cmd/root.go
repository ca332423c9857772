package cmd

import (
	"os"

	"abilityctl/internal/cli"
	"abilityctl/internal/color"
	"abilityctl/internal/config"
	"abilityctl/pkg/logging"

	"github.com/spf13/cobra"
)

var (
	configPath   string
	logLevel     string
	outputFormat string
	remoteURL    string

	// loadedConfig is filled by the root command's PersistentPreRunE.
	loadedConfig config.AbilityctlConfig
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "abilityctl",
	Short: "Resolve, build and invoke AI abilities against their executors",
	Long: `abilityctl turns catalog abilities into provider calls. It resolves
which executors may serve an ability, interprets the ability's input schema,
builds the provider request, invokes it and normalizes the response.

Commands run against the local catalog by default. With --remote they call
the MCP tools of a running 'abilityctl mcp --transport sse' server instead.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. invalid arguments, failed provider calls)
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "abilityctl version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") || cfg.Logging.Level == "" {
		cfg.Logging.Level = logLevel
	}
	loadedConfig = cfg

	// Keep stdout clean for command output and the MCP stdio transport.
	logging.Init(logging.ParseLevel(cfg.Logging.Level), logging.Format(cfg.Logging.Format), os.Stderr)
	color.InitializeFromEnv()

	if _, err := cli.ParseFormat(outputFormat); err != nil {
		return err
	}
	return nil
}

// printer returns the printer selected by --output.
func printer(cmd *cobra.Command) *cli.Printer {
	format, err := cli.ParseFormat(outputFormat)
	if err != nil {
		format = cli.OutputFormatTable
	}
	return &cli.Printer{Format: format, Out: cmd.OutOrStdout()}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default layers ~/.config/abilityctl/config.yaml and .abilityctl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json or yaml")
	rootCmd.PersistentFlags().StringVar(&remoteURL, "remote", "", "SSE endpoint of a running abilityctl MCP server, e.g. http://localhost:8091/sse")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
	rootCmd.AddCommand(newAbilityCmd())
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newSchemaCmd())
	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newInvokeCmd())
	rootCmd.AddCommand(newWorkflowCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMCPCmd())
}
