package xp

import "testing"

func TestCompute(t *testing.T) {
	tests := []struct {
		name string
		code string
		in   Inputs
		want int
	}{
		{name: "schulte scales with score and level", code: "schulte", in: Inputs{Score: 100, Level: 2}, want: 20},
		{name: "grid game at floor", code: "even_odd", in: Inputs{Score: 0, Level: 0}, want: Floor},
		{name: "word race uses throughput", code: "word_race", in: Inputs{WPM: 200, Accuracy: 0.9}, want: 90},
		{name: "word race accepts percent accuracy", code: "word_race", in: Inputs{WPM: 200, Accuracy: 90}, want: 90},
		{name: "word race zero accuracy floors", code: "word_race", in: Inputs{WPM: 300, Accuracy: 0}, want: Floor},
		{name: "number memory is raw score", code: "number_memory", in: Inputs{Score: 140}, want: 140},
		{name: "number memory floors", code: "number_memory", in: Inputs{Score: 2}, want: Floor},
		{name: "default formula", code: "running_words", in: Inputs{Score: 150}, want: 10},
		{name: "default floors", code: "anagrams", in: Inputs{Score: 30}, want: Floor},
		{name: "unknown game floors", code: "mystery", in: Inputs{}, want: Floor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compute(tt.code, tt.in); got != tt.want {
				t.Fatalf("Compute(%q, %+v) = %d, want %d", tt.code, tt.in, got, tt.want)
			}
		})
	}
}

func TestSpanScore(t *testing.T) {
	tests := []struct {
		digits int
		want   int
	}{
		{digits: 2, want: 1},
		{digits: 3, want: 1},
		{digits: 4, want: 2},
		{digits: 7, want: 16},
		{digits: 10, want: 128},
	}
	for _, tt := range tests {
		if got := SpanScore(tt.digits); got != tt.want {
			t.Fatalf("SpanScore(%d) = %d, want %d", tt.digits, got, tt.want)
		}
	}
}
