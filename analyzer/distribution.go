package analyzer

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pivolan/eda_dashboard/domain/models"
)

// densityGridSize is the number of points sampled along the density curve.
const densityGridSize = 200

// maxHistogramBins bounds the bin count when a narrow IQR meets a wide range.
const maxHistogramBins = 1000

// calculateQuantile returns the p-quantile of sorted data with linear
// interpolation between the closest ranks.
func calculateQuantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}

	pos := p * float64(len(sorted)-1)
	floor := math.Floor(pos)
	ceil := math.Ceil(pos)

	if floor == ceil {
		return sorted[int(pos)]
	}

	lower := sorted[int(floor)]
	upper := sorted[int(ceil)]
	fraction := pos - floor

	return lower + fraction*(upper-lower)
}

// findOutliers returns the values outside the 1.5*IQR fences.
func findOutliers(numbers []float64, q1 float64, q3 float64, iqr float64) []float64 {
	outliers := make([]float64, 0)
	lowerBound := q1 - 1.5*iqr
	upperBound := q3 + 1.5*iqr

	for _, num := range numbers {
		if num < lowerBound || num > upperBound {
			outliers = append(outliers, num)
		}
	}
	return outliers
}

// binWidthAuto picks the smaller of the Sturges and Freedman-Diaconis widths.
// It falls back to Sturges when the IQR is zero or when the Freedman-Diaconis
// width would need more than maxHistogramBins bins.
func binWidthAuto(sorted []float64) float64 {
	n := float64(len(sorted))
	ptp := sorted[len(sorted)-1] - sorted[0]
	sturges := ptp / (math.Log2(n) + 1)
	iqr := calculateQuantile(sorted, 0.75) - calculateQuantile(sorted, 0.25)
	fd := 2 * iqr * math.Pow(n, -1.0/3)
	if fd > 0 && ptp/fd <= maxHistogramBins {
		return math.Min(fd, sturges)
	}
	return sturges
}

// Finite drops NaN and infinite values.
func Finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Histogram bins the finite values into equal-width bins. The last bin
// includes its right edge. Constant data gets a single bin of width 1 centred
// on the value.
func Histogram(values []float64) ([]models.HistogramData, error) {
	sorted := Finite(values)
	if len(sorted) == 0 {
		return nil, ErrNoValues
	}
	sort.Float64s(sorted)

	first, last := sorted[0], sorted[len(sorted)-1]
	nbins := 1
	if width := binWidthAuto(sorted); width > 0 {
		nbins = int(math.Ceil((last - first) / width))
	}
	if first == last {
		first -= 0.5
		last += 0.5
	}
	if nbins < 1 {
		nbins = 1
	}
	if nbins > maxHistogramBins {
		nbins = maxHistogramBins
	}

	step := (last - first) / float64(nbins)
	bins := make([]models.HistogramData, nbins)
	for i := range bins {
		bins[i].RangeStart = first + float64(i)*step
		bins[i].RangeEnd = first + float64(i+1)*step
	}
	bins[nbins-1].RangeEnd = last

	for _, v := range sorted {
		idx := int((v - first) / step)
		if idx >= nbins {
			idx = nbins - 1
		}
		if idx < 0 {
			idx = 0
		}
		bins[idx].Count++
	}
	return bins, nil
}

// Density estimates a Gaussian KDE over [min, max] with Scott's bandwidth and
// scales it so the curve overlays a histogram with the given bin width.
// Non-finite values are ignored. It returns nil when fewer than two points
// remain or they have no spread.
func Density(values []float64, binWidth float64) []models.DensityPoint {
	values = Finite(values)
	if len(values) < 2 {
		return nil
	}
	std, err := stats.StandardDeviationSample(values)
	if err != nil || std == 0 || math.IsNaN(std) {
		return nil
	}
	minV, _ := stats.Min(values)
	maxV, _ := stats.Max(values)

	n := float64(len(values))
	bandwidth := std * math.Pow(n, -1.0/5)
	kernel := distuv.Normal{Mu: 0, Sigma: bandwidth}
	scale := n * binWidth

	points := make([]models.DensityPoint, densityGridSize)
	step := (maxV - minV) / float64(densityGridSize-1)
	for i := range points {
		x := minV + float64(i)*step
		sum := 0.0
		for _, v := range values {
			sum += kernel.Prob(x - v)
		}
		points[i] = models.DensityPoint{X: x, Y: sum / n * scale}
	}
	return points
}

// Box computes box-plot statistics over the finite values: quartiles, whiskers
// reaching the most extreme values inside the 1.5*IQR fences, and the outliers
// beyond them.
func Box(values []float64) (models.BoxStats, error) {
	sorted := Finite(values)
	if len(sorted) == 0 {
		return models.BoxStats{}, ErrNoValues
	}
	sort.Float64s(sorted)

	q1 := calculateQuantile(sorted, 0.25)
	median := calculateQuantile(sorted, 0.5)
	q3 := calculateQuantile(sorted, 0.75)
	iqr := q3 - q1
	lowerBound := q1 - 1.5*iqr
	upperBound := q3 + 1.5*iqr

	box := models.BoxStats{
		Q1:           q1,
		Median:       median,
		Q3:           q3,
		LowerWhisker: q1,
		UpperWhisker: q3,
		Outliers:     findOutliers(sorted, q1, q3, iqr),
	}
	for _, v := range sorted {
		if v >= lowerBound {
			box.LowerWhisker = math.Min(v, q1)
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i] <= upperBound {
			box.UpperWhisker = math.Max(sorted[i], q3)
			break
		}
	}
	return box, nil
}
