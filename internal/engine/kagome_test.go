package engine

import (
	"context"
	"strings"
	"testing"
)

func TestKagomeTagger_Tag(t *testing.T) {
	tagger, err := NewKagomeTagger()
	if err != nil {
		t.Fatalf("NewKagomeTagger failed: %v", err)
	}

	text := "猫が好きです。犬も好きです。"
	tokens, err := tagger.Tag(context.Background(), text)
	if err != nil {
		t.Fatal(err)
	}

	var surface strings.Builder
	var ends int
	for _, tok := range tokens {
		surface.WriteString(tok.Text)
		if tok.SentEnd {
			ends++
		}
	}
	if surface.String() != text {
		t.Errorf("surfaces do not rebuild the input: %q", surface.String())
	}
	if ends != 2 {
		t.Errorf("expected 2 sentence ends, got %d", ends)
	}
	if !strings.HasPrefix(tokens[0].Tag, "名詞") {
		t.Errorf("expected a noun first, got %q", tokens[0].Tag)
	}
	if !tokens[0].SentStart {
		t.Error("first token should start a sentence")
	}
}

func TestIPATag(t *testing.T) {
	tests := []struct {
		pos  []string
		want string
	}{
		{[]string{"名詞", "一般", "*", "*"}, "名詞,一般"},
		{[]string{"助動詞", "*", "*", "*"}, "助動詞"},
		{[]string{"記号"}, "記号"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := ipaTag(tt.pos); got != tt.want {
			t.Errorf("ipaTag(%v) = %q, want %q", tt.pos, got, tt.want)
		}
	}
}
