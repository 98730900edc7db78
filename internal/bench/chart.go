package bench

import (
	"slices"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// SaveChart draws mean latency per workload as grouped bars, one group per
// workload and one bar per store. The image format follows path's extension.
func SaveChart(path string, results []Result) error {
	var workloads []Workload
	var stores []string
	latency := map[string]map[Workload]float64{}

	for _, r := range results {
		if _, ok := latency[r.Store]; !ok {
			latency[r.Store] = map[Workload]float64{}
			stores = append(stores, r.Store)
		}
		if !slices.Contains(workloads, r.Workload) {
			workloads = append(workloads, r.Workload)
		}
		latency[r.Store][r.Workload] = float64(r.LatencyNs)
	}

	p := plot.New()
	p.Title.Text = "Mean latency per operation"
	p.Y.Label.Text = "ns/op"

	width := vg.Points(20)
	for i, name := range stores {
		values := make(plotter.Values, len(workloads))
		for j, w := range workloads {
			values[j] = latency[name][w]
		}

		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return err
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = vg.Length(i-len(stores)/2) * width

		p.Add(bars)
		p.Legend.Add(name, bars)
	}

	names := make([]string, len(workloads))
	for i, w := range workloads {
		names[i] = string(w)
	}
	p.NominalX(names...)
	p.Legend.Top = true

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
