// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/mgalan/lince/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// AggregateByGame folds runs into per-game aggregates, sorted by run count
// descending, ties broken by game code.
func AggregateByGame(runs []model.RunAggregate) []model.GameAggregate {
	byGame := map[string]*model.GameAggregate{}
	levelSums := map[string]float64{}
	accSums := map[string]float64{}
	for _, r := range runs {
		agg, ok := byGame[r.GameCode]
		if !ok {
			agg = &model.GameAggregate{GameCode: r.GameCode}
			byGame[r.GameCode] = agg
		}
		agg.Runs++
		if r.Score > agg.BestScore {
			agg.BestScore = r.Score
		}
		levelSums[r.GameCode] += float64(r.Level)
		accSums[r.GameCode] += r.Accuracy
	}
	out := make([]model.GameAggregate, 0, len(byGame))
	for code, agg := range byGame {
		agg.AvgAccuracy = accSums[code] / float64(agg.Runs)
		agg.AvgLevel = levelSums[code] / float64(agg.Runs)
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Runs == out[j].Runs {
			return out[i].GameCode < out[j].GameCode
		}
		return out[i].Runs > out[j].Runs
	})
	return out
}

// RenderSummary prints overall training totals for the filtered runs.
func RenderSummary(w io.Writer, runs []model.RunAggregate, totalXP int) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs found.")
		return err
	}
	var totalAcc, totalSec float64
	bestScore := 0
	for _, r := range runs {
		totalAcc += r.Accuracy
		totalSec += r.DurationSec
		if r.Score > bestScore {
			bestScore = r.Score
		}
	}
	count := float64(len(runs))
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Runs: %d\n", len(runs)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Total XP: %d\n", totalXP); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best Score: %d\n", bestScore); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Accuracy: %.2f%%\n", (totalAcc/count)*100); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Training Time: %.1f min\n", totalSec/60); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderGameTable prints per-game aggregates.
func RenderGameTable(w io.Writer, aggs []model.GameAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No game stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Game"); err != nil {
		return err
	}
	headers := []string{"Game", "Runs", "Best Score", "Avg Accuracy", "Avg Level"}
	rows := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, []string{
			agg.GameCode,
			fmt.Sprintf("%d", agg.Runs),
			fmt.Sprintf("%d", agg.BestScore),
			fmt.Sprintf("%.2f%%", agg.AvgAccuracy*100),
			fmt.Sprintf("%.1f", agg.AvgLevel),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCurves prints learning curves for score and accuracy over runs.
func RenderCurves(w io.Writer, runs []model.RunAggregate, window, totalWidth int) error {
	if len(runs) == 0 {
		return nil
	}
	scores := make([]float64, len(runs))
	accs := make([]float64, len(runs))
	for i, r := range runs {
		scores[i] = float64(r.Score)
		accs[i] = r.Accuracy * 100
	}
	scores = MovingAverage(scores, window)
	accs = MovingAverage(accs, window)
	return PlotSeries(w, "Learning Curves", []Series{
		{Name: "Score", Values: scores},
		{Name: "Accuracy", Values: accs},
	}, totalWidth)
}
