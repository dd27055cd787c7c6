package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/tagharmony/internal/engine"
	"github.com/ppiankov/tagharmony/internal/model"
)

func annotateForRender(t *testing.T, grammarOn bool) *Result {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Grammar.Enabled = grammarOn
	tagger := &fakeTagger{id: model.EngineRule, tokens: raw("multiply", "VB", "a", "DT", "value", "NN", "by", "IN", "42", "CD", ".", ".")}
	a, err := NewAnnotator(cfg, []*engine.Adapter{engine.NewAdapter(tagger)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	res, err := a.Annotate(context.Background(), "multiply a value by 42.")
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestRenderer_Text(t *testing.T) {
	res := annotateForRender(t, true)

	var buf bytes.Buffer
	if err := NewRenderer(model.OutputConfig{}).Render(&buf, "sample", res); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"# sample",
		"[rule] ",
		"multiply/VERB a/DET value/NOUN by/ADP 42/NUM ./PUNCT",
		"VB DT NN IN CD .",
		"derivation(s)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "TERM") {
		t.Error("trees should not print unless enabled")
	}
}

func TestRenderer_TextTrees(t *testing.T) {
	res := annotateForRender(t, true)

	var buf bytes.Buffer
	if err := NewRenderer(model.OutputConfig{Format: "text", Trees: true}).Render(&buf, "", res); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "TERM") {
		t.Errorf("expected derivation trees:\n%s", buf.String())
	}
}

func TestRenderer_TextDiagnostics(t *testing.T) {
	res := &Result{Diagnostics: []model.Diagnostic{{
		Kind:     model.DiagEngineUnavailable,
		Engine:   model.EngineSpacy,
		Sentence: -1,
		Token:    -1,
		Detail:   "connection refused",
	}}}

	var buf bytes.Buffer
	if err := NewRenderer(model.OutputConfig{}).Render(&buf, "", res); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "! [spacy] engine_unavailable: connection refused") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestRenderer_JSON(t *testing.T) {
	res := annotateForRender(t, false)

	var buf bytes.Buffer
	if err := NewRenderer(model.OutputConfig{Format: "json"}).Render(&buf, "in.txt", res); err != nil {
		t.Fatal(err)
	}

	var decoded Output
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if decoded.Input != "in.txt" || len(decoded.Documents) != 1 {
		t.Fatalf("unexpected decoded output: %+v", decoded)
	}
	if tok := decoded.Documents[0].Sentences[0].Tokens[0]; tok.Tag != model.TagVerb || tok.EngineTag != "VB" {
		t.Errorf("unexpected first token: %+v", tok)
	}
}

func TestRenderer_YAML(t *testing.T) {
	res := annotateForRender(t, false)

	var buf bytes.Buffer
	if err := NewRenderer(model.OutputConfig{Format: "yaml"}).Render(&buf, "in.txt", res); err != nil {
		t.Fatal(err)
	}

	var decoded Output
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
	}
	if decoded.Input != "in.txt" || len(decoded.Documents) != 1 || decoded.Documents[0].Engine != model.EngineRule {
		t.Errorf("unexpected decoded output: %+v", decoded)
	}
	if !strings.Contains(buf.String(), "engine: rule") {
		t.Errorf("expected engine key:\n%s", buf.String())
	}
}

func TestRenderer_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := NewRenderer(model.OutputConfig{Format: "xml"}).Render(&buf, "", &Result{}); err == nil {
		t.Error("expected error for unknown format")
	}
}
