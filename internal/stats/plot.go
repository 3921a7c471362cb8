package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	plotHeight    = 10
	minPlotWidth  = 10
	axisSeparator = " | "
	fallbackWidth = 80
)

// seriesMarkers distinguish overlapping series without color.
var seriesMarkers = []rune{'*', 'o', '+', 'x'}

// PlotSeries renders a compact text plot, one marker style per series. Each
// series is scaled to its own min/max so curves with different units share
// one canvas; the legend prints the per-series ranges.
func PlotSeries(w io.Writer, title string, series []Series, totalWidth int) error {
	series = filterSeries(series)
	if len(series) == 0 {
		return nil
	}
	width := plotWidthFor(totalWidth)

	grid := make([][]rune, plotHeight)
	for y := range grid {
		grid[y] = make([]rune, width)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	ranges := make([][2]float64, len(series))
	for si, s := range series {
		values := resample(s.Values, width)
		minVal, maxVal := minMax(values)
		if math.Abs(maxVal-minVal) < 1e-9 {
			minVal--
			maxVal++
		}
		ranges[si] = [2]float64{minVal, maxVal}
		marker := seriesMarkers[si%len(seriesMarkers)]
		for x, v := range values {
			pos := (v - minVal) / (maxVal - minVal)
			y := int(math.Round((1 - pos) * float64(plotHeight-1)))
			if y < 0 {
				y = 0
			}
			if y >= plotHeight {
				y = plotHeight - 1
			}
			if grid[y][x] == ' ' {
				grid[y][x] = marker
			}
		}
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	axisLabels := [plotHeight]string{0: "max", plotHeight / 2: "mid", plotHeight - 1: "min"}
	for y := 0; y < plotHeight; y++ {
		if _, err := fmt.Fprintf(w, "%3s%s%s\n", axisLabels[y], axisSeparator, string(grid[y])); err != nil {
			return err
		}
	}
	legend := make([]string, 0, len(series))
	for si, s := range series {
		marker := seriesMarkers[si%len(seriesMarkers)]
		legend = append(legend, fmt.Sprintf("%c %s (%.1f..%.1f)", marker, s.Name, ranges[si][0], ranges[si][1]))
	}
	if _, err := fmt.Fprintln(w, "Legend: "+strings.Join(legend, "  ")); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func filterSeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

func plotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}
	width := totalWidth - 3 - len(axisSeparator)
	if width < minPlotWidth {
		width = minPlotWidth
	}
	return width
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}

// resample stretches or averages values to exactly width samples.
func resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) == width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	if len(values) > width {
		for i := 0; i < width; i++ {
			start := i * len(values) / width
			end := (i + 1) * len(values) / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	if len(values) == 1 || width == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	for i := 0; i < width; i++ {
		pos := float64(i) * float64(len(values)-1) / float64(width-1)
		idx := int(math.Floor(pos))
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}

func minMax(values []float64) (float64, float64) {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if minVal == math.Inf(1) {
		return 0, 0
	}
	return minVal, maxVal
}
