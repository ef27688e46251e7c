package linefold

import (
	"strings"
	"testing"
)

func TestSegmentWordsAndSeparators(t *testing.T) {
	tokens := Segment("The quick  brown fox")
	texts := make([]string, len(tokens))
	for i, tok := range tokens {
		texts[i] = tok.Text
	}
	want := []string{"The", "quick", "brown", "fox"}
	if len(texts) != len(want) {
		t.Fatalf("tokens: got %v want %v", texts, want)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Fatalf("token %d: got %q want %q", i, texts[i], want[i])
		}
	}
	if tokens[1].Separator != "  " {
		t.Fatalf("double space separator lost: %q", tokens[1].Separator)
	}
	if tokens[len(tokens)-1].Separator != "" {
		t.Fatal("last token must have no separator")
	}
}

func TestSegmentReconstructsSource(t *testing.T) {
	src := "Écoutez 100 % sur Apple Music, c'est bien !"
	tokens := Segment(src)
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Text)
		b.WriteString(tok.Separator)
	}
	if got := b.String(); got != src {
		t.Fatalf("reconstruction mismatch:\n got %q\nwant %q", got, src)
	}
	for _, tok := range tokens {
		if got := src[tok.Boundary.Start:tok.Boundary.End]; got != tok.Text {
			t.Fatalf("boundary %v: source slice %q, token %q", tok.Boundary, got, tok.Text)
		}
	}
}

func TestSegmentBoundariesOrdered(t *testing.T) {
	tokens := Segment("one two three four five")
	prevEnd := 0
	for i, tok := range tokens {
		if tok.Boundary.Start < prevEnd {
			t.Fatalf("token %d overlaps previous: %v", i, tok.Boundary)
		}
		if tok.Boundary.End <= tok.Boundary.Start {
			t.Fatalf("token %d has empty boundary: %v", i, tok.Boundary)
		}
		prevEnd = tok.Boundary.End
	}
}

func TestSegmentPunctuationTokens(t *testing.T) {
	tokens := Segment("wait, really?")
	var texts []string
	for _, tok := range tokens {
		texts = append(texts, tok.Text)
	}
	// punctuation segments stand alone so punctuation rules can see them
	if joined := strings.Join(texts, "|"); joined != "wait|,|really|?" {
		t.Fatalf("punctuation not separated: %q", joined)
	}
}

func TestSegmentEmpty(t *testing.T) {
	if got := Segment(""); got != nil {
		t.Fatalf("empty input: got %v want nil", got)
	}
	if got := Segment("   "); len(got) != 0 {
		t.Fatalf("whitespace-only input: got %v", got)
	}
}
