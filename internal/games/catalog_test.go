package games

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/mgalan/lince/internal/wordbank"
)

func testBank() *wordbank.Bank {
	return wordbank.Load("es", "")
}

func TestCatalogCodesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, ref := range Catalog() {
		if seen[ref.Code] {
			t.Fatalf("duplicate game code %q", ref.Code)
		}
		seen[ref.Code] = true
	}
	if len(seen) != 9 {
		t.Fatalf("catalog has %d games, want 9", len(seen))
	}
}

func TestNewCoversWholeCatalog(t *testing.T) {
	bank := testBank()
	for _, ref := range Catalog() {
		inst, err := New(ref.Code, bank)
		if err != nil {
			t.Fatalf("New(%q): %v", ref.Code, err)
		}
		if (inst.Trial == nil) == (inst.Board == nil) {
			t.Fatalf("%q must bind exactly one engine shape", ref.Code)
		}
	}
}

func TestNewUnknownGame(t *testing.T) {
	if _, err := New("tetris", testBank()); err == nil {
		t.Fatal("expected error for unknown game")
	}
}

func TestBoardGeneration(t *testing.T) {
	bank := testBank()
	rng := rand.New(rand.NewSource(7))
	codes := []string{"schulte", "even_odd", "find_number", "letter_search", "twin_words"}
	for _, code := range codes {
		for _, level := range []int{1, 5, 10} {
			inst, err := New(code, bank)
			if err != nil {
				t.Fatalf("New(%q): %v", code, err)
			}
			spec, err := inst.Board.Board(level, rng)
			if err != nil {
				t.Fatalf("%s level %d: %v", code, level, err)
			}
			if spec.Size <= 0 || len(spec.Cells) == 0 {
				t.Fatalf("%s level %d: empty board", code, level)
			}
			if spec.Targets <= 0 {
				t.Fatalf("%s level %d: no targets", code, level)
			}
			targetCells := 0
			for _, cell := range spec.Cells {
				if cell.Label == "" {
					t.Fatalf("%s level %d: empty cell label", code, level)
				}
				if cell.Target {
					targetCells++
				}
			}
			if spec.Ordered {
				// Ordered boards must expose a complete 1..Targets chain.
				orders := map[int]bool{}
				for _, cell := range spec.Cells {
					if cell.Order > 0 {
						if orders[cell.Order] {
							t.Fatalf("%s level %d: duplicate order %d", code, level, cell.Order)
						}
						orders[cell.Order] = true
					}
				}
				for i := 1; i <= spec.Targets; i++ {
					if !orders[i] {
						t.Fatalf("%s level %d: missing order %d", code, level, i)
					}
				}
			} else if targetCells != spec.Targets {
				t.Fatalf("%s level %d: %d target cells but Targets=%d", code, level, targetCells, spec.Targets)
			}
			if spec.Threshold <= 0 {
				t.Fatalf("%s level %d: no promotion threshold", code, level)
			}
		}
	}
}

func TestTrialGeneration(t *testing.T) {
	bank := testBank()
	rng := rand.New(rand.NewSource(7))
	codes := []string{"running_words", "number_memory", "anagrams", "word_race"}
	for _, code := range codes {
		for _, level := range []int{1, 5, 10} {
			inst, err := New(code, bank)
			if err != nil {
				t.Fatalf("New(%q): %v", code, err)
			}
			spec, err := inst.Trial.Trial(level, rng)
			if err != nil {
				t.Fatalf("%s level %d: %v", code, level, err)
			}
			if len(spec.Stimuli) == 0 {
				t.Fatalf("%s level %d: no stimuli", code, level)
			}
			if spec.Exposure <= 0 {
				t.Fatalf("%s level %d: no exposure", code, level)
			}
			if len(spec.Options) > 0 {
				if spec.Answer < 0 || spec.Answer >= len(spec.Options) {
					t.Fatalf("%s level %d: answer index %d out of range", code, level, spec.Answer)
				}
				seen := map[string]bool{}
				for _, opt := range spec.Options {
					if seen[opt] {
						t.Fatalf("%s level %d: duplicate option %q", code, level, opt)
					}
					seen[opt] = true
				}
			} else if spec.Expected == "" {
				t.Fatalf("%s level %d: free-input round without expected answer", code, level)
			}
			if inst.Trial.Rounds() <= 0 {
				t.Fatalf("%s: no rounds", code)
			}
		}
	}
}

func TestRunningWordsAnswerIsLastWord(t *testing.T) {
	inst, err := New("running_words", testBank())
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		spec, err := inst.Trial.Trial(5, rng)
		if err != nil {
			t.Fatal(err)
		}
		last := spec.Stimuli[len(spec.Stimuli)-1]
		if spec.Options[spec.Answer] != last {
			t.Fatalf("answer %q is not the last stimulus %q", spec.Options[spec.Answer], last)
		}
	}
}

func TestAnagramsScrambleDiffers(t *testing.T) {
	inst, err := New("anagrams", testBank())
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		spec, err := inst.Trial.Trial(8, rng)
		if err != nil {
			t.Fatal(err)
		}
		answer := spec.Options[spec.Answer]
		if spec.Stimuli[0] == answer && len([]rune(answer)) > 1 {
			// A same-order scramble is only allowed for uniform words.
			runes := []rune(answer)
			uniform := true
			for _, r := range runes[1:] {
				if r != runes[0] {
					uniform = false
				}
			}
			if !uniform {
				t.Fatalf("scramble %q equals the answer", spec.Stimuli[0])
			}
		}
	}
}

func TestWordRaceOptionsIncludeShownWord(t *testing.T) {
	inst, err := New("word_race", testBank())
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(3))
	spec, err := inst.Trial.Trial(5, rng)
	if err != nil {
		t.Fatal(err)
	}
	shown := map[string]bool{}
	for _, w := range spec.Stimuli {
		shown[w] = true
	}
	if !shown[spec.Options[spec.Answer]] {
		t.Fatalf("answer %q never appeared in the stream", spec.Options[spec.Answer])
	}
}

func TestLetterSearchPromptLettersAppear(t *testing.T) {
	inst, err := New("letter_search", testBank())
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 25; i++ {
		for _, level := range []int{1, 5, 10} {
			spec, err := inst.Board.Board(level, rng)
			if err != nil {
				t.Fatal(err)
			}
			letters := strings.Fields(strings.TrimPrefix(spec.Prompt, "Encuentra todas las letras: "))
			onBoard := map[string]bool{}
			for _, cell := range spec.Cells {
				if cell.Target {
					onBoard[cell.Label] = true
				}
			}
			for _, l := range letters {
				if !onBoard[l] {
					t.Fatalf("level %d: prompt letter %q has no cell on the board", level, l)
				}
			}
			if len(onBoard) != len(letters) {
				t.Fatalf("level %d: board has target letters outside the prompt: %v vs %v", level, onBoard, letters)
			}
		}
	}
}

func TestTwinWordsTargetsDiffer(t *testing.T) {
	inst, err := New("twin_words", testBank())
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(3))
	spec, err := inst.Board.Board(4, rng)
	if err != nil {
		t.Fatal(err)
	}
	targets := 0
	for _, cell := range spec.Cells {
		if cell.Target {
			targets++
		}
	}
	if targets != spec.Targets {
		t.Fatalf("%d target cells, Targets=%d", targets, spec.Targets)
	}
}

func TestPickDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pool := []string{"a", "b", "c", "d", "e"}
	taken := map[string]bool{"a": true, "b": true}
	got := pickDistinct(pool, 3, taken, rng)
	if len(got) != 3 {
		t.Fatalf("got %d words, want 3", len(got))
	}
	for _, w := range got {
		if taken[w] {
			t.Fatalf("excluded word %q picked while pool sufficed", w)
		}
	}

	// Thin pool: the exclusion relaxes rather than failing.
	thin := pickDistinct([]string{"a", "b"}, 2, map[string]bool{"a": true}, rng)
	if len(thin) != 2 {
		t.Fatalf("thin pool returned %d words, want 2", len(thin))
	}
}
