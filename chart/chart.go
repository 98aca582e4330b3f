package chart

import (
	"bytes"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/t-800m101/spothinta-go/hours"
	"github.com/t-800m101/spothinta-go/prices"
)

const FileName = "spot-hinta-kaavio.html"

// Generate renders the price window as an interactive bar chart page,
// a companion to the text tables for anyone who wants to zoom around.
func Generate(records []prices.Record, res prices.Resolution) (bytes.Buffer, error) {
	var buf bytes.Buffer

	if len(records) == 0 {
		return buf, fmt.Errorf("no prices to chart")
	}

	labels := make([]string, 0, len(records))
	data := make([]opts.BarData, 0, len(records))
	for _, r := range records {
		label := hours.DayFi(r.Start) + " " + hours.HourLabel(r.Start)
		if res == prices.Quarter {
			label = hours.DayFi(r.Start) + " " + hours.QuarterLabel(r.Start)
		}
		labels = append(labels, label)
		data = append(data, opts.BarData{Value: prices.Round2(r.Price)})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		// fixed chart id keeps reruns byte-identical
		charts.WithInitializationOpts(opts.Initialization{
			ChartID:   "spothinta",
			PageTitle: "Sähkön hinta",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Sähkön hinta",
			Subtitle: "snt/kWh, sis. alv",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithDataZoomOpts(
			opts.DataZoom{
				Type:  "slider",
				Start: 0,
				End:   100,
			},
			opts.DataZoom{
				Type:  "inside",
				Start: 0,
				End:   100,
			},
		),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("snt/kWh", data)

	if err := bar.Render(&buf); err != nil {
		return bytes.Buffer{}, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf, nil
}
