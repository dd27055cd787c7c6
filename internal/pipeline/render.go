package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/tagharmony/internal/model"
)

// Output is one rendered annotation run
type Output struct {
	Input  string `json:"input,omitempty" yaml:"input,omitempty"` // File, path:line or sample name
	Result `yaml:",inline"`
}

// Renderer writes annotation results as text, JSON or YAML
type Renderer struct {
	format string
	trees  bool
}

// NewRenderer creates a renderer for the output settings
func NewRenderer(cfg model.OutputConfig) *Renderer {
	format := cfg.Format
	if format == "" {
		format = "text"
	}
	return &Renderer{format: format, trees: cfg.Trees}
}

// Render writes one result under the given input name
func (r *Renderer) Render(w io.Writer, name string, res *Result) error {
	out := Output{Input: name}
	if res != nil {
		out.Result = *res
	}

	switch r.format {
	case "json":
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("marshal YAML: %w", err)
		}
		return enc.Close()
	case "text":
		return r.renderText(w, out)
	default:
		return fmt.Errorf("unknown output format %q", r.format)
	}
}

func (r *Renderer) renderText(w io.Writer, out Output) (err error) {
	printf := func(format string, a ...interface{}) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format, a...)
	}

	if out.Input != "" {
		printf("# %s\n", out.Input)
	}

	for _, doc := range out.Documents {
		printf("[%s] %s\n", doc.Engine, doc.ID)
		for _, s := range doc.Sentences {
			printf("  %3d  %s\n", s.Index+1, taggedText(s))
			printf("       %s\n", strings.Join(s.Symbols(), " "))
			if s.Parse == nil {
				continue
			}
			if !s.Parse.Succeeded {
				printf("       grammar: no derivation\n")
				continue
			}
			printf("       grammar: %d derivation(s)\n", len(s.Parse.Trees))
			if r.trees {
				for _, t := range s.Parse.Trees {
					printf("%s", indent(t.Pretty(), "         "))
				}
			}
		}
		for _, d := range doc.Diagnostics {
			printf("  ! %s\n", d)
		}
	}

	for _, d := range out.Diagnostics {
		printf("! %s\n", d)
	}
	printf("\n")
	return err
}

// taggedText renders a sentence as text/TAG pairs, whitespace tokens skipped
func taggedText(s model.Sentence) string {
	parts := make([]string, 0, len(s.Tokens))
	for _, tok := range s.Tokens {
		if tok.Tag == model.TagSpace {
			continue
		}
		parts = append(parts, tok.Text+"/"+string(tok.Tag))
	}
	return strings.Join(parts, " ")
}

func indent(text, prefix string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n") + "\n"
}
