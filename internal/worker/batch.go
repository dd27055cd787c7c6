package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Annotator annotates one text
type Annotator[T any] interface {
	Annotate(ctx context.Context, text string) (T, error)
}

// Input is one named document of a batch
type Input struct {
	Name string // File path, or path:line in per-line mode
	Text string
}

// AnnotateJob annotates one input of a batch
type AnnotateJob[T any] struct {
	seq       int
	input     Input
	annotator Annotator[T]
}

// Seq returns the job's position in the batch
func (j *AnnotateJob[T]) Seq() int { return j.seq }

// Execute runs the annotator on the job's input
func (j *AnnotateJob[T]) Execute(ctx context.Context) Result {
	value, err := j.annotator.Annotate(ctx, j.input.Text)
	return &AnnotateResult[T]{
		Index: j.seq,
		Name:  j.input.Name,
		Value: value,
		Error: err,
	}
}

// AnnotateResult is the outcome of one batch input
type AnnotateResult[T any] struct {
	Index int
	Name  string
	Value T
	Error error
}

// Seq returns the input's position in the batch
func (r *AnnotateResult[T]) Seq() int { return r.Index }

// GetError returns the annotation error, if any
func (r *AnnotateResult[T]) GetError() error { return r.Error }

// BatchProcessor annotates many inputs concurrently
type BatchProcessor[T any] struct {
	annotator   Annotator[T]
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor[T any](annotator Annotator[T], concurrency int) *BatchProcessor[T] {
	return &BatchProcessor[T]{
		annotator:   annotator,
		concurrency: concurrency,
	}
}

// Process annotates inputs concurrently; results come back in input order
func (b *BatchProcessor[T]) Process(ctx context.Context, inputs []Input) []*AnnotateResult[T] {
	if len(inputs) == 0 {
		return []*AnnotateResult[T]{}
	}

	jobs := make([]Job, len(inputs))
	for i, input := range inputs {
		jobs[i] = &AnnotateJob[T]{
			seq:       i,
			input:     input,
			annotator: b.annotator,
		}
	}

	results := Run(ctx, b.concurrency, jobs)

	out := make([]*AnnotateResult[T], len(results))
	for i, result := range results {
		out[i] = result.(*AnnotateResult[T])
	}
	return out
}

// ProcessFiles reads every path and annotates the resulting inputs
func (b *BatchProcessor[T]) ProcessFiles(ctx context.Context, paths []string, perLine bool) ([]*AnnotateResult[T], error) {
	inputs, err := ReadInputs(paths, perLine)
	if err != nil {
		return nil, err
	}
	return b.Process(ctx, inputs), nil
}

// ReadInputs loads files as documents. In per-line mode every non-blank,
// non-comment line becomes its own input named path:line.
func ReadInputs(paths []string, perLine bool) ([]Input, error) {
	var inputs []Input
	for _, path := range paths {
		if !perLine {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read input: %w", err)
			}
			inputs = append(inputs, Input{Name: path, Text: string(data)})
			continue
		}

		lines, err := ReadLines(path)
		if err != nil {
			return nil, err
		}
		for _, l := range lines {
			inputs = append(inputs, Input{Name: fmt.Sprintf("%s:%d", path, l.Number), Text: l.Text})
		}
	}
	return inputs, nil
}

// Line is one meaningful line of an input file
type Line struct {
	Number int
	Text   string
}

// ReadLines reads a file line by line, skipping blank lines and # comments
func ReadLines(path string) ([]Line, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []Line
	scanner := bufio.NewScanner(file)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, Line{Number: n, Text: line})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return lines, nil
}

// FindFiles walks dir and returns the files matching pattern (e.g. "*.lines"), sorted
func FindFiles(dir, pattern string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ok, err := filepath.Match(pattern, d.Name())
		if err != nil {
			return err
		}
		if ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
