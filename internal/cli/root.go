package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/tagharmony/internal/model"
)

// Version is the release version, overridden at build time with -ldflags
var Version = "0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tagharmony",
	Short: "Tagharmony - harmonized part-of-speech annotation across taggers",
	Long: `Tagharmony runs one or more part-of-speech taggers over the same text and
maps every engine's own tag vocabulary onto one universal tag set.

For each engine it corrects sentence boundaries, re-joins tokens the engine's
tokenizer split apart (hyphenated words, multi-part numerals), normalizes the
tags and, optionally, checks every sentence against a small context-free
grammar of statement shapes.

Results stay separate per engine; nothing is merged across taggers.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Tagharmony.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tagharmony v%s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.tagharmony/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.tagharmony")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	setupEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// envKeys are the nested settings most often supplied through the environment
var envKeys = []string{
	"engines",
	"grammar.enabled",
	"grammar.file",
	"output.format",
	"services.spacy.url",
	"services.stanza.url",
	"openai.api_key",
	"openai.base_url",
	"openai.model",
	"proxy.http",
	"proxy.https",
	"proxy.no_proxy",
}

// setupEnv maps TAGHARMONY_* variables onto config keys, e.g.
// TAGHARMONY_SERVICES_SPACY_URL for services.spacy.url
func setupEnv(v *viper.Viper) {
	v.SetEnvPrefix("TAGHARMONY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
}

// loadConfig layers the config file and environment over the defaults
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	// A comma-separated TAGHARMONY_ENGINES arrives as one element
	if len(cfg.Engines) == 1 && strings.Contains(string(cfg.Engines[0]), ",") {
		cfg.Engines = parseEngines([]string{string(cfg.Engines[0])})
	}
	return cfg, nil
}

// parseEngines accepts repeated and comma-separated engine names
func parseEngines(values []string) []model.EngineID {
	var ids []model.EngineID
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(strings.ToLower(name)); name != "" {
				ids = append(ids, model.EngineID(name))
			}
		}
	}
	return ids
}
