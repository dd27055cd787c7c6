package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/tagharmony/internal/engine"
	"github.com/ppiankov/tagharmony/internal/logging"
	"github.com/ppiankov/tagharmony/internal/model"
	"github.com/ppiankov/tagharmony/internal/pipeline"
	"github.com/ppiankov/tagharmony/internal/segment"
)

var (
	sentencizeOut    string
	sentencizeEngine string
)

// sentencizeCmd represents the sentencize command
var sentencizeCmd = &cobra.Command{
	Use:   "sentencize <file>",
	Short: "Split a file into one sentence per line",
	Long: `Sentencize tags a file with one engine, applies the boundary corrections
and writes every sentence on its own line, tokens separated by spaces.

The output goes to <file>.sentence unless -o is given; "-" writes to stdout.

Example:
  tagharmony sentencize program.txt
  tagharmony sentencize -e spacy -o - program.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runSentencize,
}

func init() {
	rootCmd.AddCommand(sentencizeCmd)

	sentencizeCmd.Flags().StringVarP(&sentencizeOut, "output", "o", "", "output path (default: <file>.sentence)")
	sentencizeCmd.Flags().StringVarP(&sentencizeEngine, "engine", "e", "", "engine used for segmentation (default: first configured)")
}

func runSentencize(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if sentencizeEngine != "" {
		cfg.Engines = []model.EngineID{model.EngineID(strings.ToLower(sentencizeEngine))}
	} else if len(cfg.Engines) > 1 {
		cfg.Engines = cfg.Engines[:1]
	}

	logger, err := logging.New(cfg.Output.Verbose || verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	text, err := pipeline.Prepare(string(data), cfg.Input.HTML)
	if err != nil {
		return fmt.Errorf("prepare input: %w", err)
	}

	adapters, err := engine.NewRegistry(logger).Build(cfg)
	if err != nil {
		return err
	}

	sentences, err := adapters[0].SegmentAndTag(context.Background(), text)
	if err != nil {
		return err
	}
	lines := segment.Sentencize(sentences)

	output := strings.Join(lines, "\n")
	if len(lines) > 0 {
		output += "\n"
	}

	target := sentencizeOut
	if target == "" {
		target = path + ".sentence"
	}
	if target == "-" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), output)
		return err
	}

	if err := os.WriteFile(target, []byte(output), 0644); err != nil {
		return fmt.Errorf("write sentences: %w", err)
	}
	fmt.Fprintf(os.Stderr, "✓ Wrote %d sentences: %s\n", len(lines), target)
	return nil
}
