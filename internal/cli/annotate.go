package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/tagharmony/internal/logging"
	"github.com/ppiankov/tagharmony/internal/model"
	"github.com/ppiankov/tagharmony/internal/pipeline"
	"github.com/ppiankov/tagharmony/internal/worker"
)

var (
	engineNames []string
	grammarOn   bool
	grammarFile string
	printTrees  bool
	outFormat   string
	htmlInput   bool
	perLine     bool
	inputDir    string
	dirPattern  string
	useSamples  bool
	noCache     bool
	concurrency int
	runTimeout  time.Duration
)

// annotateCmd represents the annotate command
var annotateCmd = &cobra.Command{
	Use:   "annotate [file...]",
	Short: "Tag text with every configured engine and normalize the tags",
	Long: `Annotate runs the configured taggers over each input and prints one
harmonized document per engine:
- Correct sentence boundaries after ':', ';', ');' and '***'
- Re-join tokens the engine split apart (hyphenated words, numerals)
- Map every engine tag onto the universal tag set
- Optionally check each sentence against the statement grammar

Input is read from the named files, from every matching file under --dir,
from the built-in samples with --sample, or from stdin.

Example:
  tagharmony annotate program.txt
  tagharmony annotate --dir ./programs --lines --grammar
  tagharmony annotate -e rule,spacy --format json notes.txt
  echo "multiply a value by 42." | tagharmony annotate --grammar --trees`,
	RunE: runAnnotate,
}

func init() {
	rootCmd.AddCommand(annotateCmd)

	// Engine flags
	annotateCmd.Flags().StringSliceVarP(&engineNames, "engine", "e", nil, "engines to run (rule, spacy, stanza, kagome, openai)")
	annotateCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the in-process tagger cache")

	// Grammar flags
	annotateCmd.Flags().BoolVarP(&grammarOn, "grammar", "g", false, "check every sentence against the grammar")
	annotateCmd.Flags().StringVar(&grammarFile, "grammar-file", "", "grammar file replacing the built-in one")
	annotateCmd.Flags().BoolVar(&printTrees, "trees", false, "print derivation trees (text format)")

	// Output flags
	annotateCmd.Flags().StringVarP(&outFormat, "format", "f", "", "output format (text, json, yaml)")

	// Input flags
	annotateCmd.Flags().BoolVar(&htmlInput, "html", false, "extract visible text from HTML input")
	annotateCmd.Flags().BoolVar(&perLine, "lines", false, "treat every line as its own document")
	annotateCmd.Flags().StringVar(&inputDir, "dir", "", "annotate every matching file under a directory")
	annotateCmd.Flags().StringVar(&dirPattern, "pattern", "*.lines", "file name pattern for --dir")
	annotateCmd.Flags().BoolVar(&useSamples, "sample", false, "annotate the built-in sample programs")

	// Run flags
	annotateCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "documents annotated in parallel")
	annotateCmd.Flags().DurationVar(&runTimeout, "timeout", 10*time.Minute, "total timeout")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	applyAnnotateFlags(cmd, cfg)

	logger, err := logging.New(cfg.Output.Verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	inputs, err := collectInputs(cmd.InOrStdin(), args, cfg.Input.Lines)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no input to annotate")
	}

	annotator, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Engines:  %v\n", annotator.Engines())
		fmt.Fprintf(os.Stderr, "Inputs:   %d\n", len(inputs))
		fmt.Fprintf(os.Stderr, "Grammar:  %v\n", cfg.Grammar.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	processor := worker.NewBatchProcessor[*pipeline.Result](annotator, concurrency)
	results := processor.Process(ctx, inputs)

	renderer := pipeline.NewRenderer(cfg.Output)
	out := cmd.OutOrStdout()
	failures := 0
	for _, r := range results {
		if r.Error != nil {
			failures++
			logger.Warn("annotation failed", zap.String("input", r.Name), zap.Error(r.Error))
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", displayName(r.Name), r.Error)
			continue
		}
		if err := renderer.Render(out, r.Name, r.Value); err != nil {
			return fmt.Errorf("render %s: %w", displayName(r.Name), err)
		}
	}

	if len(results) < len(inputs) {
		return fmt.Errorf("annotate: %w", ctx.Err())
	}
	if failures == len(results) {
		return fmt.Errorf("all %d inputs failed", failures)
	}
	if failures > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d inputs failed\n", failures, len(results))
	}
	return nil
}

// applyAnnotateFlags overrides config values with the flags the user set
func applyAnnotateFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("engine") {
		cfg.Engines = parseEngines(engineNames)
	}
	if flags.Changed("grammar") {
		cfg.Grammar.Enabled = grammarOn
	}
	if flags.Changed("grammar-file") {
		cfg.Grammar.File = grammarFile
		cfg.Grammar.Enabled = true
	}
	if flags.Changed("trees") {
		cfg.Output.Trees = printTrees
	}
	if flags.Changed("format") {
		cfg.Output.Format = outFormat
	}
	if flags.Changed("html") {
		cfg.Input.HTML = htmlInput
	}
	if flags.Changed("lines") {
		cfg.Input.Lines = perLine
	}
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if verbose {
		cfg.Output.Verbose = true
	}
}

// collectInputs gathers the documents to annotate from the samples, --dir,
// the file arguments or stdin, in that order of precedence
func collectInputs(stdin io.Reader, args []string, lines bool) ([]worker.Input, error) {
	if useSamples {
		var inputs []worker.Input
		for i, text := range pipeline.Samples() {
			inputs = append(inputs, worker.Input{Name: fmt.Sprintf("sample %d", i+1), Text: text})
		}
		return inputs, nil
	}

	paths := args
	if inputDir != "" {
		found, err := worker.FindFiles(inputDir, dirPattern)
		if err != nil {
			return nil, fmt.Errorf("scan directory: %w", err)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no %s files under %s", dirPattern, inputDir)
		}
		paths = append(paths, found...)
	}
	if len(paths) > 0 {
		return worker.ReadInputs(paths, lines)
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if !lines {
		return []worker.Input{{Text: string(data)}}, nil
	}

	var inputs []worker.Input
	for i, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		inputs = append(inputs, worker.Input{Name: fmt.Sprintf("<stdin>:%d", i+1), Text: line})
	}
	return inputs, nil
}

func displayName(name string) string {
	if name == "" {
		return "<stdin>"
	}
	return name
}
