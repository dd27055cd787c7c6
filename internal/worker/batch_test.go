package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// mockAnnotator upper-cases its input after a delay that shrinks with input length
type mockAnnotator struct {
	failOn string
}

func (m *mockAnnotator) Annotate(ctx context.Context, text string) (string, error) {
	time.Sleep(time.Duration(10-len(text)%10) * time.Millisecond)
	if m.failOn != "" && text == m.failOn {
		return "", errors.New("annotate error")
	}
	return strings.ToUpper(text), nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchProcessor_Process(t *testing.T) {
	processor := NewBatchProcessor[string](&mockAnnotator{}, 3)

	inputs := []Input{
		{Name: "a", Text: "let a value equals 10."},
		{Name: "b", Text: "add 20 to a value."},
		{Name: "c", Text: "x."},
		{Name: "d", Text: "multiply a value by 42."},
	}

	results := processor.Process(context.Background(), inputs)
	if len(results) != len(inputs) {
		t.Fatalf("expected %d results, got %d", len(inputs), len(results))
	}
	for i, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Name, res.Error)
		}
		if res.Name != inputs[i].Name || res.Index != i {
			t.Errorf("result %d is %s/%d, want input order", i, res.Name, res.Index)
		}
		if res.Value != strings.ToUpper(inputs[i].Text) {
			t.Errorf("result %d value = %q", i, res.Value)
		}
	}
}

func TestBatchProcessor_ManyInputs(t *testing.T) {
	processor := NewBatchProcessor[string](&mockAnnotator{}, 2)

	inputs := make([]Input, 40)
	for i := range inputs {
		inputs[i] = Input{Name: strings.Repeat("n", i+1), Text: strings.Repeat("t", i)}
	}

	done := make(chan []*AnnotateResult[string])
	go func() { done <- processor.Process(context.Background(), inputs) }()

	select {
	case results := <-done:
		if len(results) != len(inputs) {
			t.Fatalf("expected %d results, got %d", len(inputs), len(results))
		}
		for i, res := range results {
			if res.Index != i {
				t.Fatalf("result %d has index %d", i, res.Index)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("batch with more inputs than pool buffers did not finish")
	}
}

func TestBatchProcessor_Error(t *testing.T) {
	processor := NewBatchProcessor[string](&mockAnnotator{failOn: "bad."}, 2)

	results := processor.Process(context.Background(), []Input{{Name: "ok", Text: "ok."}, {Name: "bad", Text: "bad."}})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].GetError() != nil {
		t.Errorf("unexpected error: %v", results[0].GetError())
	}
	if results[1].GetError() == nil {
		t.Error("expected error for failing input")
	}
}

func TestBatchProcessor_Empty(t *testing.T) {
	processor := NewBatchProcessor[string](&mockAnnotator{}, 2)
	if results := processor.Process(context.Background(), nil); len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestReadLines(t *testing.T) {
	content := "let a value equals 10.\n# comment\n\n   \n  add 20 to a value.  \n"
	path := writeFile(t, t.TempDir(), "sample.lines", content)

	lines, err := ReadLines(path)
	if err != nil {
		t.Fatalf("ReadLines failed: %v", err)
	}

	expected := []Line{{Number: 1, Text: "let a value equals 10."}, {Number: 5, Text: "add 20 to a value."}}
	if len(lines) != len(expected) {
		t.Fatalf("expected %d lines, got %d", len(expected), len(lines))
	}
	for i, l := range lines {
		if l != expected[i] {
			t.Errorf("line %d = %+v, want %+v", i, l, expected[i])
		}
	}

	if _, err := ReadLines("non_existent_file.lines"); err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestReadInputs(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.lines", "one.\ntwo.\n")
	b := writeFile(t, dir, "b.lines", "three.\n")

	whole, err := ReadInputs([]string{a, b}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(whole) != 2 || whole[0].Text != "one.\ntwo.\n" {
		t.Errorf("whole-file inputs = %+v", whole)
	}

	lines, err := ReadInputs([]string{a, b}, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 per-line inputs, got %d", len(lines))
	}
	if lines[1].Name != a+":2" || lines[1].Text != "two." {
		t.Errorf("second input = %+v", lines[1])
	}

	if _, err := ReadInputs([]string{filepath.Join(dir, "missing")}, false); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBatchProcessor_ProcessFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "prog.lines", "one.\n# skip\ntwo.\n")

	processor := NewBatchProcessor[string](&mockAnnotator{}, 2)
	results, err := processor.ProcessFiles(context.Background(), []string{path}, true)
	if err != nil {
		t.Fatalf("ProcessFiles failed: %v", err)
	}
	if len(results) != 2 || results[1].Value != "TWO." {
		t.Errorf("unexpected results: %+v", results)
	}

	if _, err := processor.ProcessFiles(context.Background(), []string{"no_such_file"}, true); err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.lines", "x")
	writeFile(t, dir, "a.lines", "x")
	writeFile(t, dir, "notes.txt", "x")
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "sub"), "c.lines", "x")

	files, err := FindFiles(dir, "*.lines")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.lines"),
		filepath.Join(dir, "b.lines"),
		filepath.Join(dir, "sub", "c.lines"),
	}
	if len(files) != len(want) {
		t.Fatalf("got %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("file %d = %s, want %s", i, files[i], want[i])
		}
	}

	if _, err := FindFiles(filepath.Join(dir, "missing"), "*.lines"); err == nil {
		t.Error("expected error for missing directory")
	}
}
