// Package render draws a terminal chart of an integrand alongside its
// Monte Carlo estimate.
//
// The renderer is a peripheral consumer of mc.Result: it receives the
// plain result object plus an evaluator and has no hook back into the
// integrator. Output is deterministic for fixed inputs, which keeps it
// golden-testable.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/quadra-dev/quadra/internal/mc"
)

// Defaults for a zero-valued Chart.
const (
	DefaultWidth   = 72
	DefaultHeight  = 16
	DefaultPadding = 0.1
)

// Chart configures the renderer.
type Chart struct {
	// Width and Height are the plot size in character cells. Zero means
	// the package default.
	Width  int
	Height int

	// Padding extends the plotted domain beyond [a, b] by this fraction
	// of the interval width on each side. Zero means the default; use a
	// negative value for no padding.
	Padding float64

	// NoColor disables lipgloss styling, leaving plain text.
	NoColor bool
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	statsStyle  = lipgloss.NewStyle().Faint(true)
	curveStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	gutterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Render draws the integrand over the padded domain with the estimate in
// the title. eval is typically the compiled expression the estimate was
// produced from, but any evaluator over the same domain works.
//
// Points where eval fails are skipped; if no point in the domain is
// evaluable, Render returns an error.
func (c Chart) Render(res *mc.Result, eval func(float64) (float64, error)) (string, error) {
	if res == nil {
		return "", fmt.Errorf("render chart: nil result")
	}
	if eval == nil {
		return "", fmt.Errorf("render chart: nil evaluator")
	}

	width := c.Width
	if width <= 0 {
		width = DefaultWidth
	}
	height := c.Height
	if height <= 0 {
		height = DefaultHeight
	}
	padding := c.Padding
	if padding == 0 {
		padding = DefaultPadding
	}
	if padding < 0 {
		padding = 0
	}

	pad := (res.B - res.A) * padding
	lo := res.A - pad
	hi := res.B + pad

	// Sample one y per dot column. Braille cells are 2 dots wide and
	// 4 dots tall.
	cols := width * 2
	rows := height * 4
	ys := make([]float64, cols)
	ok := make([]bool, cols)

	yMin, yMax := math.Inf(1), math.Inf(-1)
	evaluable := 0
	for i := 0; i < cols; i++ {
		x := lo + (hi-lo)*float64(i)/float64(cols-1)
		y, err := eval(x)
		if err != nil {
			continue
		}
		ys[i] = y
		ok[i] = true
		evaluable++
		yMin = math.Min(yMin, y)
		yMax = math.Max(yMax, y)
	}
	if evaluable == 0 {
		return "", fmt.Errorf("render chart: integrand not evaluable anywhere in [%g, %g]", lo, hi)
	}

	// Keep y=0 in frame so the curve reads against the axis.
	yMin = math.Min(yMin, 0)
	yMax = math.Max(yMax, 0)
	if yMax == yMin {
		yMax = yMin + 1
	}

	canvas := newCanvas(width, height)
	for i := 0; i < cols; i++ {
		if !ok[i] {
			continue
		}
		r := int(math.Round((yMax - ys[i]) / (yMax - yMin) * float64(rows-1)))
		canvas.set(i, r)
	}

	var b strings.Builder
	b.WriteString(c.style(titleStyle, fmt.Sprintf("∫ %s dx over [%g, %g]", res.Expr, res.A, res.B)))
	b.WriteByte('\n')
	b.WriteString(c.style(statsStyle, fmt.Sprintf("estimate %.6g  variance %.6g  samples %d  seed %d",
		res.Estimate, res.Variance, res.Samples, res.Seed)))
	b.WriteString("\n\n")

	for r, line := range canvas.lines() {
		b.WriteString(c.style(curveStyle, line))
		switch r {
		case 0:
			b.WriteString(fmt.Sprintf("  %.4g", yMax))
		case height - 1:
			b.WriteString(fmt.Sprintf("  %.4g", yMin))
		}
		b.WriteByte('\n')
	}

	b.WriteString(c.style(gutterStyle, gutter(width, lo, hi, res.A, res.B)))
	b.WriteByte('\n')
	b.WriteString(fmt.Sprintf("%-*s%g\n", width, fmt.Sprintf("%g", lo), hi))

	return b.String(), nil
}

func (c Chart) style(s lipgloss.Style, text string) string {
	if c.NoColor {
		return text
	}
	return s.Render(text)
}

// gutter renders the bottom band marking which columns lie inside the
// integration interval.
func gutter(width int, lo, hi, a, b float64) string {
	runes := make([]rune, width)
	for i := range runes {
		x := lo + (hi-lo)*(float64(i)+0.5)/float64(width)
		if x >= a && x <= b {
			runes[i] = '═'
		} else {
			runes[i] = '─'
		}
	}
	return string(runes)
}

// canvas is a braille dot grid. Each character cell holds 2x4 dots.
type canvas struct {
	width  int
	height int
	cells  []rune
}

func newCanvas(width, height int) *canvas {
	cells := make([]rune, width*height)
	for i := range cells {
		cells[i] = brailleBase
	}
	return &canvas{width: width, height: height, cells: cells}
}

const brailleBase = '⠀'

// brailleBits maps (dot column, dot row) within a cell to its bit in the
// braille codepoint.
var brailleBits = [2][4]rune{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// set marks the dot at column x, row y in dot coordinates. Out-of-range
// coordinates are ignored.
func (c *canvas) set(x, y int) {
	if x < 0 || y < 0 || x >= c.width*2 || y >= c.height*4 {
		return
	}
	cell := (y/4)*c.width + x/2
	c.cells[cell] |= brailleBits[x%2][y%4]
}

// lines renders the canvas as one string per character row.
func (c *canvas) lines() []string {
	out := make([]string, c.height)
	for r := 0; r < c.height; r++ {
		out[r] = string(c.cells[r*c.width : (r+1)*c.width])
	}
	return out
}
