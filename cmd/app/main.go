package main

import (
	"fmt"
	"os"
	"time"

	"github.com/maloquacious/freshstart/internal/config"
	"github.com/maloquacious/semver"
	"github.com/spf13/cobra"
)

var (
	version       = semver.Version{Minor: 1, PreRelease: "alpha", Build: semver.Commit()}
	schemaVersion = "0.1"
	buildDate     = ""
)

var (
	cfgFile    string
	verbose    bool
	port       int
	adminPort  int
	shutdownTO time.Duration
	exitAfter  time.Duration
	publicDir  string
	detect     bool

	cfg *config.Config
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "app",
		Short:        "Fresh-install detection and base schema management",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cmd.Flags().Changed("verbose") {
				cfg.Verbose = verbose
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./freshstart.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "emit diagnostic (debug) log lines")
	rootCmd.PersistentFlags().DurationVar(&shutdownTO, "shutdown-timeout", 15*time.Second, "graceful shutdown timeout")
	rootCmd.PersistentFlags().StringVar(&publicDir, "public", "public", "directory for static public assets")

	// serve command
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Classify the install, initialize it if fresh, and start the servers",
		RunE:  runServe,
	}
	serveCmd.Flags().IntVar(&port, "port", 0, "public HTTP port (default from config)")
	serveCmd.Flags().IntVar(&adminPort, "admin-port", 0, "admin HTTP port, loopback only (default from config)")
	serveCmd.Flags().DurationVar(&exitAfter, "exit-after", 0, "optional runtime; if set, server exits after this duration (testing)")

	// db command group
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}
	dbCmd.AddCommand(
		&cobra.Command{
			Use:   "create",
			Short: "Create and initialize the datastore",
			RunE:  runDBCreate,
		},
		&cobra.Command{
			Use:   "upgrade",
			Short: "Apply migrations, or initialize the base tables on a fresh install",
			RunE:  runDBUpgrade,
		},
		&cobra.Command{
			Use:   "verify",
			Short: "Verify schema integrity and version",
			RunE:  runDBVerify,
		},
	)

	// install command group
	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Fresh-install state commands",
	}
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stored install state",
		RunE:  runInstallStatus,
	}
	statusCmd.Flags().BoolVar(&detect, "detect", false, "classify the install if no state is stored yet")
	installCmd.AddCommand(
		statusCmd,
		&cobra.Command{
			Use:   "init",
			Short: "Run the one-time fresh-install initialization",
			RunE:  runInstallInit,
		},
	)

	rootCmd.AddCommand(serveCmd, dbCmd, installCmd)
	return rootCmd
}
