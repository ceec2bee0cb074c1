// Common package contains commonly used functions that benefit multiple tools
// Exporting these functions from the Common package reduces redundant code
package common

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Palette is the fixed plotting palette shared by every tool.
// Curve and bar colors are assigned by cycling over it in order.
var Palette = []color.RGBA{
	{R: 230, G: 85, B: 13, A: 255},   // orange
	{R: 49, G: 130, B: 189, A: 255},  // blue
	{R: 49, G: 163, B: 84, A: 255},   // green
	{R: 117, G: 107, B: 177, A: 255}, // purple
	{R: 99, G: 99, B: 99, A: 255},    // gray
	{R: 222, G: 45, B: 38, A: 255},   // red
}

// PaletteColor returns the i-th palette color, cycling past the end.
func PaletteColor(i int) color.RGBA {
	return Palette[i%len(Palette)]
}

// tsvReader builds a csv.Reader configured for tab-separated tables.
func tsvReader(in io.Reader) gocsv.CSVReader {
	r := csv.NewReader(in)
	r.Comma = '\t'
	r.LazyQuotes = true
	return r
}

// tsvWriter builds a csv.Writer configured for tab-separated tables.
func tsvWriter(out io.Writer) *gocsv.SafeCSVWriter {
	w := csv.NewWriter(out)
	w.Comma = '\t'
	return gocsv.NewSafeCSVWriter(w)
}

// LoadTSV unmarshals a tab-separated file into out, which must be a
// pointer to a slice of structs carrying csv tags.
func LoadTSV(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	if err := gocsv.UnmarshalCSV(tsvReader(f), out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// WriteTSV marshals a slice of tagged structs to a tab-separated file.
func WriteTSV(path string, in interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	if err := gocsv.MarshalCSV(in, tsvWriter(f)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// NAFloat is a float64 that reads and writes "NA" (or an empty field)
// as NaN in tab-separated tables.
type NAFloat float64

func (n *NAFloat) UnmarshalCSV(field string) error {
	field = strings.TrimSpace(field)
	if field == "" || field == "NA" || field == "NaN" {
		*n = NAFloat(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return err
	}
	*n = NAFloat(v)
	return nil
}

func (n NAFloat) MarshalCSV() (string, error) {
	if math.IsNaN(float64(n)) {
		return "NA", nil
	}
	return strconv.FormatFloat(float64(n), 'g', -1, 64), nil
}

// IsMissing reports whether a statistic is absent (NaN-encoded).
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Signif rounds v to the given number of significant figures.
func Signif(v float64, digits int) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	mag := math.Pow(10, float64(digits)-math.Ceil(math.Log10(math.Abs(v))))
	return math.Round(v*mag) / mag
}

// ParseRatio parses a "k/n" ratio string into a float64 quotient.
func ParseRatio(s string) (float64, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed ratio %q: want k/n", s)
	}
	k, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, fmt.Errorf("malformed ratio %q: %w", s, err)
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, fmt.Errorf("malformed ratio %q: %w", s, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("malformed ratio %q: zero denominator", s)
	}
	return k / n, nil
}

// AdjustBH applies a Benjamini-Hochberg correction to a p-value slice,
// returning adjusted values in the original order.
func AdjustBH(pvals []float64) []float64 {
	n := len(pvals)
	if n == 0 {
		return nil
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool {
		return pvals[idx[i]] < pvals[idx[j]]
	})

	adj := make([]float64, n)
	minP := 1.0
	for i := n - 1; i >= 0; i-- {
		rank := i + 1
		a := pvals[idx[i]] * float64(n) / float64(rank)
		if a > 1 {
			a = 1
		}
		if a < minP {
			minP = a
		} else {
			a = minP
		}
		adj[idx[i]] = a
	}
	return adj
}

// SymmetricMax returns the smallest m such that [-m, m] covers every value.
func SymmetricMax(vals []float64) float64 {
	m := 0.0
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

// RenderSVG renders a plot to an SVG string at the given size.
func RenderSVG(p *plot.Plot, w, h vg.Length) (string, error) {
	var buf bytes.Buffer
	writer, err := p.WriterTo(w, h, "svg")
	if err != nil {
		return "", err
	}
	_, err = writer.WriteTo(&buf)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Truncate shortens s to at most width runes, appending an ellipsis
// when anything was cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
