// Package cmd implements the garrison CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/garrisonhq/garrison"
	"github.com/garrisonhq/garrison/pkg/logging"
)

var (
	configFile string
	verbose    bool
	quiet      bool

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "garrison",
	Short: "Installation resource sync CLI",
	Long: `Garrison keeps a local catalog of military installation resources in
sync with the canonical installation directory.

It matches locally owned installation names against the directory's naming
scheme, scrapes each matched installation's page, extracts typed resource
records (housing, medical, MWR, and so on), and replaces that
installation's stored record set as a single unit.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		cfg := logging.DefaultConfig()
		if verbose {
			cfg.Level = "debug"
		}
		if quiet {
			cfg.Level = "warn"
		}
		logging.Configure(cfg)
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.garrison.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")

	rootCmd.PersistentFlags().String("catalog", "data/catalog.yaml", "canonical catalog file (name -> identifier)")
	rootCmd.PersistentFlags().String("installations", "data/installations.yaml", "local installation list file")
	rootCmd.PersistentFlags().String("rules", "", "optional rules file (aliases, substitutions, category keywords)")
	rootCmd.PersistentFlags().String("db", "garrison.db", "sqlite database path")
	rootCmd.PersistentFlags().String("base-url", garrison.DefaultBaseURL, "canonical directory page URL root")
	rootCmd.PersistentFlags().Duration("interval", garrison.DefaultFetchInterval, "minimum spacing between page fetches")

	for _, key := range []string{"catalog", "installations", "rules", "db", "base-url", "interval"} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key)); err != nil {
			panic(fmt.Sprintf("Failed to bind %s flag: %v", key, err))
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".garrison")
	}

	// Load .env files before Viper env binding
	loadEnvFiles()

	viper.SetEnvPrefix("GARRISON")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := viper.ReadInConfig(); err == nil {
		logging.Debug().Str("config", viper.ConfigFileUsed()).Msg("Loaded config file")
	}
}

// loadEnvFiles loads .env files in precedence order. Missing files are fine.
func loadEnvFiles() {
	for _, file := range []string{".env.local", ".env"} {
		if _, err := os.Stat(file); err == nil {
			_ = godotenv.Load(file)
		}
	}
}
