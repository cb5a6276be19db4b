package vimotion

import "testing"

func TestTokenizeSplitsGraphemes(t *testing.T) {
	toks := tokenize("dw")
	if len(toks) != 2 || toks[0].text != "d" || toks[1].text != "w" {
		t.Fatalf("got %+v, want [d w]", toks)
	}
}

func TestTokenizeRecognizesEscCaseInsensitively(t *testing.T) {
	toks := tokenize("cwfoo<Esc>")
	last := toks[len(toks)-1]
	if !last.special || last.text != "<esc>" {
		t.Errorf("got %+v, want a normalized special <esc> token", last)
	}
}

func TestTokenizeRecognizesCR(t *testing.T) {
	toks := tokenize("/pat<CR>")
	var sawCR bool
	for _, tk := range toks {
		if tk.special && tk.text == "<cr>" {
			sawCR = true
		}
	}
	if !sawCR {
		t.Errorf("expected a <cr> special token, got %+v", toks)
	}
}

func TestTokenizeMultibyteGrapheme(t *testing.T) {
	toks := tokenize("café")
	if len(toks) != 4 {
		t.Fatalf("got %d tokens %+v, want 4 graphemes", len(toks), toks)
	}
	if toks[3].text != "é" {
		t.Errorf("got %q, want %q", toks[3].text, "é")
	}
}

func TestTokenizeEmptyInput(t *testing.T) {
	toks := tokenize("")
	if len(toks) != 0 {
		t.Errorf("got %d tokens, want 0", len(toks))
	}
}
