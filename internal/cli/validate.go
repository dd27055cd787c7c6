package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/tagharmony/internal/grammar"
	"github.com/ppiankov/tagharmony/internal/logging"
)

// errNoDerivation makes the command exit non-zero on a mismatch
var errNoDerivation = errors.New("no derivation")

var (
	validateGrammarFile string
	validateTrees       bool
	printGrammar        bool
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate TAG...",
	Short: "Check a coarse tag sequence against the grammar",
	Long: `Validate parses a sequence of coarse tag symbols (the grammar's terminal
alphabet, e.g. DT NN VB) and reports whether it has a derivation.

Example:
  tagharmony validate DT NN VB DT NN .
  tagharmony validate --trees VB DT NN IN CD .
  tagharmony validate --grammar-file my.cfg --print-grammar`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateGrammarFile, "grammar-file", "", "grammar file replacing the built-in one")
	validateCmd.Flags().BoolVar(&validateTrees, "trees", false, "print every derivation tree")
	validateCmd.Flags().BoolVar(&printGrammar, "print-grammar", false, "print the grammar in use and exit")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("grammar-file") {
		cfg.Grammar.File = validateGrammarFile
	}

	logger, err := logging.New(cfg.Output.Verbose || verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	v, err := grammar.FromConfig(cfg.Grammar, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if printGrammar {
		fmt.Fprint(out, v.Grammar().String())
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("no tags given")
	}

	// Accept "DT NN VB" as one quoted argument too
	symbols := strings.Fields(strings.Join(args, " "))
	result, err := v.ValidateSymbols(symbols)
	if err != nil {
		return err
	}

	if !result.Succeeded {
		fmt.Fprintf(out, "✗ %s\n", strings.Join(result.Symbols, " "))
		return fmt.Errorf("%w for %s", errNoDerivation, strings.Join(result.Symbols, " "))
	}

	fmt.Fprintf(out, "✓ %s: %d derivation(s)\n", strings.Join(result.Symbols, " "), len(result.Trees))
	for _, t := range result.Trees {
		if validateTrees {
			fmt.Fprint(out, t.Pretty())
		} else {
			fmt.Fprintln(out, t.String())
		}
	}
	return nil
}
