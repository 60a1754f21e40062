package cluster

import "testing"

func TestTitleKeyNormalizationEquivalence(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"case", "Markets Rally on Tech Earnings", "markets rally ON tech earnings"},
		{"punctuation", "Markets rally, on tech earnings!", "Markets rally on tech earnings"},
		{"stopwords", "The markets rally on the tech earnings", "Markets rally tech earnings"},
		{"whitespace", "Markets   rally \t on tech\nearnings", "Markets rally on tech earnings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if TitleKey(tt.a) != TitleKey(tt.b) {
				t.Errorf("expected equal keys for %q and %q", tt.a, tt.b)
			}
		})
	}
}

func TestTitleKeyDistinguishesStories(t *testing.T) {
	a := TitleKey("Markets rally on tech earnings")
	b := TitleKey("Leaders meet to discuss climate goals")
	if a == b {
		t.Error("different stories should have different keys")
	}
}

func TestTitleKeyAllStopwordsFallsBack(t *testing.T) {
	// A title of nothing but stopwords must still produce a stable key.
	if TitleKey("The Of And") != TitleKey("the of and") {
		t.Error("expected stable key for stopword-only titles")
	}
	if TitleKey("The Of And") == TitleKey("By From At") {
		t.Error("distinct stopword-only titles should not collide")
	}
}

func TestTitleKeyLength(t *testing.T) {
	key := TitleKey("Some headline")
	if len(key) != 12 {
		t.Errorf("expected 12-char key, got %d (%q)", len(key), key)
	}
}
