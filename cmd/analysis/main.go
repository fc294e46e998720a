//go:build analysis

// Command analysis generates fresh keypairs and signatures, collects
// coefficient distributions, and renders histograms plus a chi-square
// goodness-of-fit report against the expected Gaussian shape.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"fourpath-signature/lattice"
	"fourpath-signature/signverify"
)

type summaryStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

type chiSquareReport struct {
	Sigma    float64 `json:"sigma"`
	Bins     int     `json:"bins"`
	Dof      int     `json:"dof"`
	Stat     float64 `json:"chi_square"`
	Critical float64 `json:"critical_0p01"`
	Passed   bool    `json:"passed"`
}

func computeStats(x []float64) summaryStats {
	n := len(x)
	if n == 0 {
		return summaryStats{}
	}
	cp := append([]float64(nil), x...)
	sort.Float64s(cp)
	var m float64
	for _, v := range x {
		m += v
	}
	m /= float64(n)
	var m2 float64
	for _, v := range x {
		d := v - m
		m2 += d * d
	}
	std := 0.0
	if n > 1 {
		std = math.Sqrt(m2 / float64(n-1))
	}
	return summaryStats{
		Count: n, Mean: m, Std: std,
		Min: cp[0], Median: cp[n/2], Max: cp[n-1],
	}
}

// chiSquareGaussian bins the samples per integer value, merges bins
// until every expected count is at least five, and compares against
// the discrete Gaussian with the given sigma. The 1% critical value
// uses the Wilson-Hilferty approximation.
func chiSquareGaussian(samples []float64, sigma float64) chiSquareReport {
	n := len(samples)
	bound := int(math.Ceil(6 * sigma))
	obs := make(map[int]int)
	for _, v := range samples {
		k := int(math.Round(v))
		if k < -bound {
			k = -bound
		}
		if k > bound {
			k = bound
		}
		obs[k]++
	}
	total := 0.0
	expRaw := make(map[int]float64)
	for k := -bound; k <= bound; k++ {
		w := math.Exp(-float64(k) * float64(k) / (2 * sigma * sigma))
		expRaw[k] = w
		total += w
	}
	type bin struct{ o, e float64 }
	var bins []bin
	cur := bin{}
	for k := -bound; k <= bound; k++ {
		cur.o += float64(obs[k])
		cur.e += expRaw[k] / total * float64(n)
		if cur.e >= 5 {
			bins = append(bins, cur)
			cur = bin{}
		}
	}
	if cur.e > 0 && len(bins) > 0 {
		bins[len(bins)-1].o += cur.o
		bins[len(bins)-1].e += cur.e
	}
	stat := 0.0
	for _, b := range bins {
		d := b.o - b.e
		stat += d * d / b.e
	}
	dof := len(bins) - 1
	if dof < 1 {
		dof = 1
	}
	k := float64(dof)
	z := 2.326 // 99th percentile of the standard normal
	crit := k * math.Pow(1-2/(9*k)+z*math.Sqrt(2/(9*k)), 3)
	return chiSquareReport{
		Sigma: sigma, Bins: len(bins), Dof: dof,
		Stat: stat, Critical: crit, Passed: stat <= crit,
	}
}

func toBarItems(vals []int) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

func newHistogramChart(title string, values []float64) *charts.Bar {
	stats := computeStats(values)
	lo := int(math.Floor(stats.Min))
	hi := int(math.Ceil(stats.Max))
	if hi <= lo {
		hi = lo + 1
	}
	counts := make([]int, hi-lo+1)
	labels := make([]string, hi-lo+1)
	for i := range labels {
		labels[i] = fmt.Sprintf("%d", lo+i)
	}
	for _, v := range values {
		counts[int(math.Round(v))-lo]++
	}
	bar := charts.NewBar()
	subtitle := fmt.Sprintf("n=%d, mean=%.3f, std=%.3f", stats.Count, stats.Mean, stats.Std)
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("count", toBarItems(counts)).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return bar
}

func appendInt64(vals []float64, xs []int64) []float64 {
	for _, v := range xs {
		vals = append(vals, float64(v))
	}
	return vals
}

func saveJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func main() {
	runs := flag.Int("runs", 20, "number of keygen runs")
	sigsPerRun := flag.Int("sigs", 4, "signatures per run")
	n := flag.Int("n", 512, "ring dimension")
	q := flag.Uint64("q", 12289, "modulus")
	outDir := flag.String("out", "Measure_Reports", "output directory")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}
	par, err := lattice.NewParams(*n, *q)
	if err != nil {
		log.Fatalf("params: %v", err)
	}

	var allF, allG, allS2 []float64
	typeCounts := make([]int, 4)
	start := time.Now()
	for run := 0; run < *runs; run++ {
		src, err := lattice.NewSource()
		if err != nil {
			log.Fatalf("source: %v", err)
		}
		pk, sk, err := signverify.GenerateKeyPair(par, src, lattice.KeyGenOpts{})
		if err != nil {
			log.Fatalf("run %d keygen: %v", run, err)
		}
		allF = appendInt64(allF, sk.F)
		allG = appendInt64(allG, sk.G)
		for s := 0; s < *sigsPerRun; s++ {
			msg := []byte(fmt.Sprintf("analysis run %d sig %d", run, s))
			sig, err := signverify.Sign(sk, pk, msg, src)
			if err != nil {
				log.Fatalf("run %d sign: %v", run, err)
			}
			if !signverify.Verify(pk, msg, sig) {
				log.Fatalf("run %d: signature failed verification", run)
			}
			allS2 = appendInt64(allS2, sig.S2)
			typeCounts[sig.Type]++
		}
	}
	fmt.Printf("collected %d runs in %s; challenge type counts: %v\n", *runs, time.Since(start).Round(time.Millisecond), typeCounts)

	sigmaFG := par.SigmaKey * math.Sqrt(float64(par.Q)/float64(2*par.N))
	reports := map[string]chiSquareReport{
		"f": chiSquareGaussian(allF, sigmaFG),
		"g": chiSquareGaussian(allG, sigmaFG),
	}
	for name, r := range reports {
		fmt.Printf("chi-square %s: stat=%.2f crit=%.2f dof=%d passed=%v\n", name, r.Stat, r.Critical, r.Dof, r.Passed)
	}
	if err := saveJSON(filepath.Join(*outDir, "chisquare.json"), reports); err != nil {
		log.Fatalf("save: %v", err)
	}

	page := components.NewPage()
	page.AddCharts(
		newHistogramChart("key coefficients f", allF),
		newHistogramChart("key coefficients g", allG),
		newHistogramChart("response coefficients s2", allS2),
	)
	out, err := os.Create(filepath.Join(*outDir, "distributions.html"))
	if err != nil {
		log.Fatalf("create: %v", err)
	}
	defer out.Close()
	if err := page.Render(out); err != nil {
		log.Fatalf("render: %v", err)
	}
	fmt.Printf("reports written to %s\n", *outDir)
}
