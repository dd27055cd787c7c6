package segment

import (
	"reflect"
	"testing"

	"github.com/ppiankov/tagharmony/internal/model"
)

func raw(pairs ...string) []model.RawToken {
	tokens := make([]model.RawToken, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		tokens = append(tokens, model.RawToken{Text: pairs[i], Tag: pairs[i+1], Engine: model.EngineSpacy})
	}
	return tokens
}

func TestApply_ColonForcesBreak(t *testing.T) {
	tokens := raw("state", "NN", ":", ":", "of", "IN", "the", "DT", " ", "_SP")
	NewSegmenter().Apply(tokens)

	if !tokens[2].SentStart {
		t.Error("token after ':' should start a new sentence")
	}
	for _, i := range []int{0, 1, 3, 4} {
		if tokens[i].SentStart {
			t.Errorf("token %d (%q) should not be a sentence start", i, tokens[i].Text)
		}
	}
}

func TestApply_ForcingPunctuation(t *testing.T) {
	tests := []struct {
		name  string
		punct string
		force bool
	}{
		{"colon", ":", true},
		{"semicolon", ";", true},
		{"paren semicolon", ");", true},
		{"asterisks", "***", true},
		{"comma", ",", false},
		{"dash", "-", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := raw("a", "DT", tt.punct, ":", "b", "NN")
			NewSegmenter().Apply(tokens)
			if tokens[2].SentStart != tt.force {
				t.Errorf("after %q SentStart = %v, want %v", tt.punct, tokens[2].SentStart, tt.force)
			}
		})
	}
}

func TestApply_LastTokenGuarded(t *testing.T) {
	tokens := raw("end", "NN", ":", ":")
	NewSegmenter().Apply(tokens)
	if tokens[1].SentStart || tokens[0].SentStart {
		t.Error("no flag should change when ':' is the last token")
	}
}

func TestApply_PeriodBeforeSentinel(t *testing.T) {
	tokens := WithSentinel(raw("add", "VB", "1.", "CD", ".", "."))
	NewSegmenter().Apply(tokens)

	if !tokens[2].SentEnd {
		t.Error("'.' before sentinel should be sentence-final")
	}
	if tokens[1].SentEnd {
		t.Error("'1.' should not be marked sentence-final")
	}
}

func TestApply_PeriodMidStreamUntouched(t *testing.T) {
	tokens := raw("a", "DT", ".", ".", "b", "NN")
	NewSegmenter().Apply(tokens)
	if tokens[1].SentEnd {
		t.Error("'.' not followed by the sentinel must keep the engine's decision")
	}
}

func TestApply_Idempotent(t *testing.T) {
	seg := NewSegmenter()
	tokens := WithSentinel(raw("To", "TO", "get", "VB", "answer", "NN", ":", ":",
		"result", "NN", "is", "VBZ", "42", "CD", ";", ":", "x", "NN", ".", "."))
	seg.Apply(tokens)

	once := make([]model.RawToken, len(tokens))
	copy(once, tokens)
	seg.Apply(tokens)

	if !reflect.DeepEqual(once, tokens) {
		t.Errorf("second Apply changed flags:\nonce:  %+v\ntwice: %+v", once, tokens)
	}
}

func TestApply_KeepsTextAndCount(t *testing.T) {
	tokens := raw("a", "DT", ":", ":", "b", "NN")
	before := len(tokens)
	NewSegmenter().Apply(tokens)
	if len(tokens) != before {
		t.Fatalf("token count changed: %d -> %d", before, len(tokens))
	}
	for i, want := range []string{"a", ":", "b"} {
		if tokens[i].Text != want {
			t.Errorf("token %d text = %q, want %q", i, tokens[i].Text, want)
		}
	}
}

func TestSegmentAndSplit(t *testing.T) {
	tokens := raw("To", "TO", "get", "VB", "answer", "NN", ":", ":", "result", "NN", "is", "VBZ", "42", "CD", ".", ".")
	sentences := NewSegmenter().SegmentAndSplit(tokens)

	if len(sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(sentences))
	}
	if got := len(sentences[0]); got != 4 {
		t.Errorf("first sentence length = %d, want 4 (ends with ':')", got)
	}
	if sentences[1][0].Text != "result" {
		t.Errorf("second sentence starts with %q, want %q", sentences[1][0].Text, "result")
	}
	for _, sent := range sentences {
		for _, tok := range sent {
			if tok.Text == Sentinel {
				t.Error("sentinel leaked into output")
			}
		}
	}
	if tokens[4].SentStart {
		t.Error("SegmentAndSplit must not mutate the caller's tokens")
	}
}

func TestSplit_EngineBoundariesKept(t *testing.T) {
	tokens := raw("a", "DT", "b", "NN", ".", ".", "c", "NN", ".", ".")
	tokens[2].SentEnd = true
	tokens[3].SentStart = true

	sentences := Split(tokens)
	if len(sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(sentences))
	}
}

func TestSplit_Empty(t *testing.T) {
	if got := Split(nil); len(got) != 0 {
		t.Errorf("expected no sentences, got %d", len(got))
	}
	if got := Split(WithSentinel(nil)); len(got) != 0 {
		t.Errorf("expected no sentences for sentinel-only stream, got %d", len(got))
	}
}

func TestSentencize(t *testing.T) {
	sentences := [][]model.RawToken{
		raw("add", "VB", "20", "CD", " ", "_SP", "to", "TO"),
		raw(" ", "_SP"),
		raw("done", "VBN", ".", "."),
	}
	got := Sentencize(sentences)
	want := []string{"add 20 to", "done ."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sentencize = %v, want %v", got, want)
	}
}

func TestBreakOffsets(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []int
	}{
		{"colon and semicolon", "Define: add 20; stop.", []int{7, 15}},
		{"paren semicolon counted once", "call f(x); next", []int{10}},
		{"asterisks", "*** end", []int{3}},
		{"time of day is not a break", "at 12:30 stop", []int{}},
		{"marker at end of text", "result:", []int{}},
		{"none", "add 20 to a value.", []int{}},
	}

	s := NewSegmenter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.BreakOffsets(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BreakOffsets(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
