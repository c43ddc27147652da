package reflow

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// runeWidth charges one unit per rune, spaces included.
func runeWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s))
}

func TestWrap_FillsGreedily(t *testing.T) {
	// maxWidth equals the width of "alpha beta" exactly.
	lines := Wrap("alpha beta gamma delta", runeWidth, runeWidth("alpha beta"))

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "alpha beta" {
		t.Errorf("Expected first line 'alpha beta', got %q", lines[0])
	}
	if lines[1] != "gamma delta" {
		t.Errorf("Expected second line 'gamma delta', got %q", lines[1])
	}
}

func TestWrap_PreservesWordSequence(t *testing.T) {
	texts := []string{
		"one",
		"one two three four five six seven eight nine ten",
		"  spaced\tout   tokens  ",
		"a bb ccc dddd eeeee ffffff ggggggg",
	}
	widths := []float64{3, 8, 15, 80}

	for _, text := range texts {
		for _, max := range widths {
			lines := Wrap(text, runeWidth, max)

			var got []string
			for _, line := range lines {
				got = append(got, strings.Fields(line)...)
			}
			want := strings.Fields(text)

			if len(got) != len(want) {
				t.Fatalf("Word count changed for %q at width %g: got %v", text, max, lines)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("Word %d changed for %q at width %g: got %q, want %q", i, text, max, got[i], want[i])
				}
			}
		}
	}
}

func TestWrap_WidthBound(t *testing.T) {
	lines := Wrap("one two three four five six seven", runeWidth, 10)

	for _, line := range lines {
		if runeWidth(line) > 10 && len(strings.Fields(line)) > 1 {
			t.Errorf("Multi-word line %q exceeds max width", line)
		}
	}
}

func TestWrap_OversizedWordKeptWhole(t *testing.T) {
	lines := Wrap("tiny supercalifragilisticexpialidocious end", runeWidth, 8)

	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %v", len(lines), lines)
	}
	if lines[1] != "supercalifragilisticexpialidocious" {
		t.Errorf("Oversized word was not kept whole: %q", lines[1])
	}
}

func TestWrap_OversizedFirstWord(t *testing.T) {
	lines := Wrap("supercalifragilisticexpialidocious", runeWidth, 5)

	if len(lines) != 1 || lines[0] != "supercalifragilisticexpialidocious" {
		t.Fatalf("Expected single unsplit line, got %v", lines)
	}
}

func TestWrap_EmptyInput(t *testing.T) {
	if lines := Wrap("", runeWidth, 10); lines != nil {
		t.Errorf("Expected no lines for empty input, got %v", lines)
	}
	if lines := Wrap("   \t ", runeWidth, 10); lines != nil {
		t.Errorf("Expected no lines for whitespace input, got %v", lines)
	}
}
