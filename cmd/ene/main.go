package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ene-project/ene/config"
	"github.com/ene-project/ene/internal/logger"
)

var (
	profilePath string
	quiet       bool
	verbose     bool

	cfg = &config.Config{}
	log = logger.New(os.Stderr, logger.WarnLevel)
)

var rootCmd = &cobra.Command{
	Use:   "ene",
	Short: "ene - end-to-end encrypted messaging and file encryption",
	Long: `ene maintains a password-sealed profile of long-term keys and exchanges
self-describing encrypted envelopes with known contacts.

Supported protocols:
  - sonly: detached signature, no confidentiality
  - ooake: one-pass implicitly authenticated key exchange
  - sigae: one-pass signed key exchange (sigae+ binds the associated data)`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(logger.DebugLevel)
		}
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		return nil
	},
}

func main() {
	// A .env in the working directory may supply ENE_ASKPASS.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		printErrorChain(err)
		os.Exit(1)
	}
}

func printErrorChain(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	for err = errors.Unwrap(err); err != nil; err = errors.Unwrap(err) {
		fmt.Fprintf(os.Stderr, "  caused by: %v\n", err)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "Path to the sealed profile")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress informational output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
