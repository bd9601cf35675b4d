package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	flagVaultPath string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "passvault",
	Short: "PassVault CLI",
	Long:  "An encrypted local password manager.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loadConfig()
		level := zerolog.WarnLevel
		if flagVerbose {
			level = zerolog.DebugLevel
		} else if l, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && cfg.LogLevel != "" {
			level = l
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagVaultPath, "vault", "", "Path to the vault file (default from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(addCmd())
	rootCmd.AddCommand(getCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(updateCmd())
	rootCmd.AddCommand(removeCmd())
	rootCmd.AddCommand(tagCmd())
	rootCmd.AddCommand(favoriteCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(healthCmd())
	rootCmd.AddCommand(auditCmd())
	rootCmd.AddCommand(totpCmd())
	rootCmd.AddCommand(inspectCmd())
}
