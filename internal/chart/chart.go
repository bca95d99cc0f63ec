// Package chart provides ASCII terminal chart rendering for benchmark timings.
// Two renderers are available:
//
//   - Bar: horizontal bar chart, one bar per labeled value, used to compare
//     codecs on the same document
//   - Plot: multi-line ASCII chart with labeled axes, used to show how one
//     document's timings move across the iterations of a run
//
// Values are microseconds. NaN values are skipped (Bar) or drawn as gaps (Plot).
package chart

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ─── Bar ─────────────────────────────────────────────────────────────────────

// Bar is one labeled value in a bar chart.
type Bar struct {
	Label string
	Value float64
}

// BarOptions controls horizontal bar chart rendering.
type BarOptions struct {
	// Width is the total character width available for the chart.
	// If 0, auto-detects from $COLUMNS, falls back to 80.
	Width int
	// MaxBars is the maximum number of bars to render. The first MaxBars
	// bars are kept. If 0, no limit is applied.
	MaxBars int
}

// RenderBars renders a horizontal bar chart of bars to w under title.
// Bars are scaled from a zero baseline to the largest value.
//
// Output example:
//
//	small.json  (µs, encode+decode mean)
//	sonic     12.4  ████████
//	goccy     15.0  ██████████
//	std       31.9  █████████████████████
func RenderBars(w io.Writer, title string, bars []Bar, opts BarOptions) error {
	totalWidth := opts.Width
	if totalWidth <= 0 {
		totalWidth = termWidth()
	}

	var valid []Bar
	for _, b := range bars {
		if !math.IsNaN(b.Value) && b.Value >= 0 {
			valid = append(valid, b)
		}
	}
	if len(valid) < 1 {
		return fmt.Errorf("chart bar: no values to render")
	}
	if opts.MaxBars > 0 && len(valid) > opts.MaxBars {
		valid = valid[:opts.MaxBars]
	}

	maxVal := 0.0
	labelWidth, valWidth := 0, 0
	for _, b := range valid {
		maxVal = math.Max(maxVal, b.Value)
		if l := len([]rune(b.Label)); l > labelWidth {
			labelWidth = l
		}
		if l := len(formatFloat(b.Value)); l > valWidth {
			valWidth = l
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// label + value + two 2-space separators
	barAreaWidth := totalWidth - labelWidth - valWidth - 4
	if barAreaWidth < 4 {
		barAreaWidth = 4
	}

	fmt.Fprintln(w, title)
	for _, b := range valid {
		barLen := int(math.Round(b.Value / maxVal * float64(barAreaWidth)))
		if barLen < 1 {
			barLen = 1 // every bar stays visible
		}
		if barLen > barAreaWidth {
			barLen = barAreaWidth
		}
		pad := labelWidth - len([]rune(b.Label))
		fmt.Fprintf(w, "%s%s  %*s  %s\n",
			b.Label, strings.Repeat(" ", pad),
			valWidth, formatFloat(b.Value),
			strings.Repeat("█", barLen),
		)
	}
	return nil
}

// ─── Plot ─────────────────────────────────────────────────────────────────────

// PlotOptions controls multi-line ASCII plot rendering.
type PlotOptions struct {
	// Width is the total character width of the chart (including Y-axis label).
	// If 0, auto-detects from $COLUMNS, falls back to 80.
	Width int
	// Height is the number of data rows in the chart body (not counting axis labels).
	// If 0, defaults to 12.
	Height int
}

// Plot renders a multi-line ASCII chart of values to w. values[i] is the
// timing of iteration i+1; the X axis is labeled with iteration numbers.
func Plot(w io.Writer, title string, values []float64, opts PlotOptions) error {
	width := opts.Width
	if width <= 0 {
		width = termWidth()
	}
	height := opts.Height
	if height <= 0 {
		height = 12
	}

	var validVals []float64
	for _, v := range values {
		if !math.IsNaN(v) {
			validVals = append(validVals, v)
		}
	}
	if len(validVals) < 2 {
		return fmt.Errorf("chart plot: need at least 2 values (got %d)", len(validVals))
	}

	minVal, maxVal := validVals[0], validVals[0]
	for _, v := range validVals[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}

	ticks := yTicks(minVal, maxVal, height)
	yLabelWidth := 0
	for _, t := range ticks {
		if l := len(formatFloat(t)); l > yLabelWidth {
			yLabelWidth = l
		}
	}
	yAxisWidth := yLabelWidth + 2 // label + " ┤"

	plotWidth := width - yAxisWidth
	if plotWidth < 10 {
		plotWidth = 10
	}
	// Short runs get one column per iteration.
	if plotWidth > len(values) {
		plotWidth = len(values)
	}

	cols := sampleCols(values, plotWidth)
	grid := buildGrid(cols, minVal, maxVal, height)

	fmt.Fprintf(w, "%s  (iterations 1 to %d)\n", title, len(values))

	for row := 0; row < height; row++ {
		label := ""
		for _, t := range ticks {
			if math.Abs(rowForValue(t, minVal, maxVal, height)-float64(row)) < 0.5 {
				label = formatFloat(t)
				break
			}
		}
		axisCh := "┤"
		if label == "" {
			axisCh = " "
		}
		fmt.Fprintf(w, "%*s%s%s\n", yLabelWidth, label, axisCh, string(grid[row]))
	}

	fmt.Fprintf(w, "%s└%s\n", strings.Repeat(" ", yLabelWidth), strings.Repeat("─", plotWidth))
	fmt.Fprintf(w, "%s %s\n", strings.Repeat(" ", yLabelWidth), xAxisLabels(len(values), plotWidth))
	return nil
}

// ─── Grid building ────────────────────────────────────────────────────────────

// sampleCols reduces values to exactly n columns.
// Each column holds the average of its bucket, or NaN if all are NaN.
func sampleCols(values []float64, n int) []float64 {
	total := len(values)
	cols := make([]float64, n)
	for col := 0; col < n; col++ {
		lo := col * total / n
		hi := (col+1)*total/n - 1
		if hi >= total {
			hi = total - 1
		}
		sum, count := 0.0, 0
		for i := lo; i <= hi; i++ {
			if !math.IsNaN(values[i]) {
				sum += values[i]
				count++
			}
		}
		if count == 0 {
			cols[col] = math.NaN()
		} else {
			cols[col] = sum / float64(count)
		}
	}
	return cols
}

// rowForValue returns the float row index (0=top=max) for a given value.
func rowForValue(v, minVal, maxVal float64, height int) float64 {
	if maxVal == minVal {
		return float64(height) / 2
	}
	return (maxVal - v) / (maxVal - minVal) * float64(height-1)
}

// buildGrid renders columns into a height×width rune grid using
// box-drawing characters to connect adjacent points.
func buildGrid(cols []float64, minVal, maxVal float64, height int) [][]rune {
	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", len(cols)))
	}

	rowOf := make([]int, len(cols))
	for col, v := range cols {
		if math.IsNaN(v) {
			rowOf[col] = -1 // gap
			continue
		}
		r := int(math.Round(rowForValue(v, minVal, maxVal, height)))
		rowOf[col] = max(0, min(r, height-1))
	}

	for col := 0; col < len(cols); col++ {
		r := rowOf[col]
		if r < 0 {
			continue
		}

		prevRow, nextRow := -2, -2
		if col > 0 {
			prevRow = rowOf[col-1]
		}
		if col < len(cols)-1 {
			nextRow = rowOf[col+1]
		}

		switch {
		case prevRow < 0 && nextRow < 0:
			grid[r][col] = '·'
		case (prevRow < 0 || prevRow == r) && (nextRow < 0 || nextRow == r):
			grid[r][col] = '─'
		case prevRow >= 0 && prevRow < r && nextRow >= 0 && nextRow < r,
			prevRow >= 0 && prevRow > r && nextRow >= 0 && nextRow > r:
			grid[r][col] = '─'
		case (prevRow < 0 || prevRow < r) && nextRow >= 0 && nextRow > r:
			grid[r][col] = '╭'
		case (prevRow < 0 || prevRow > r) && nextRow >= 0 && nextRow < r:
			grid[r][col] = '╰'
		case prevRow >= 0 && prevRow < r:
			grid[r][col] = '╮'
		case prevRow >= 0 && prevRow > r:
			grid[r][col] = '╯'
		default:
			grid[r][col] = '│'
		}

		// Vertical connector back to the previous column's row.
		if prevRow >= 0 && prevRow != r {
			lo, hi := min(r, prevRow), max(r, prevRow)
			for fill := lo + 1; fill < hi; fill++ {
				if grid[fill][col] == ' ' {
					grid[fill][col] = '│'
				}
			}
		}
	}
	return grid
}

// ─── Axis helpers ─────────────────────────────────────────────────────────────

// yTicks returns 3–4 evenly-spaced tick values for the Y axis.
func yTicks(minVal, maxVal float64, height int) []float64 {
	if maxVal == minVal {
		return []float64{minVal}
	}
	nTicks := 4
	if height <= 6 {
		nTicks = 3
	}
	ticks := make([]float64, nTicks)
	for i := 0; i < nTicks; i++ {
		ticks[i] = minVal + float64(i)*(maxVal-minVal)/float64(nTicks-1)
	}
	return ticks
}

// xAxisLabels places the first, middle and last iteration numbers under a
// plot body of plotWidth columns.
func xAxisLabels(n, plotWidth int) string {
	if n == 0 {
		return ""
	}
	buf := []rune(strings.Repeat(" ", plotWidth))
	writeAt := func(pos int, s string) {
		for i, ch := range s {
			if pos+i >= 0 && pos+i < len(buf) {
				buf[pos+i] = ch
			}
		}
	}

	endLabel := strconv.Itoa(n)
	writeAt(0, "1")
	if plotWidth >= 12 {
		midLabel := strconv.Itoa((n + 1) / 2)
		writeAt(plotWidth/2-len(midLabel)/2, midLabel)
	}
	writeAt(plotWidth-len(endLabel), endLabel)
	return string(buf)
}

// ─── Utilities ────────────────────────────────────────────────────────────────

// formatFloat formats a value for labels: no unnecessary trailing zeros,
// at least one decimal place, K/M suffixes for large numbers.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "."
	}
	abs := math.Abs(v)
	var s string
	switch {
	case abs == 0:
		return "0"
	case abs >= 1e6:
		return strconv.FormatFloat(v/1e6, 'f', 1, 64) + "M"
	case abs >= 1e4:
		return strconv.FormatFloat(v/1e3, 'f', 1, 64) + "K"
	case abs >= 100:
		s = strconv.FormatFloat(v, 'f', 1, 64)
	case abs >= 1:
		s = strconv.FormatFloat(v, 'f', 2, 64)
	default:
		s = strconv.FormatFloat(v, 'f', 4, 64)
	}
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

// termWidth returns the terminal width from $COLUMNS, defaulting to 80.
func termWidth() int {
	if cols := os.Getenv("COLUMNS"); cols != "" {
		if n, err := strconv.Atoi(cols); err == nil && n > 20 {
			return n
		}
	}
	return 80
}
