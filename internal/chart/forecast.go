// Package chart renders sales history and forecasts as standalone HTML pages.
package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// echarts skips points with this value
const gap = "-"

// Labels names the x axis: observed days count up to D0, forecast days are
// D+1 onwards.
func Labels(observed, horizon int) []string {
	labels := make([]string, 0, observed+horizon)
	for i := observed - 1; i >= 0; i-- {
		if i == 0 {
			labels = append(labels, "D0")
			continue
		}
		labels = append(labels, fmt.Sprintf("D-%d", i))
	}
	for i := 1; i <= horizon; i++ {
		labels = append(labels, fmt.Sprintf("D+%d", i))
	}
	return labels
}

// LineForecast builds a line chart with the observed history followed by the
// forecast.
func LineForecast(title string, history []float64, forecast []int64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	lineDataActual, lineDataForecast := seriesData(history, forecast)

	line.SetXAxis(Labels(len(history), len(forecast))).
		AddSeries("Actual", lineDataActual).
		AddSeries("Forecast", lineDataForecast)
	return line
}

// seriesData aligns both series on one axis, padding with gaps. The forecast
// series starts at the last observation.
func seriesData(history []float64, forecast []int64) ([]opts.LineData, []opts.LineData) {
	total := len(history) + len(forecast)
	lineDataActual := make([]opts.LineData, 0, total)
	lineDataForecast := make([]opts.LineData, 0, total)

	for i, v := range history {
		lineDataActual = append(lineDataActual, opts.LineData{Value: v})
		if i == len(history)-1 {
			lineDataForecast = append(lineDataForecast, opts.LineData{Value: v})
			continue
		}
		lineDataForecast = append(lineDataForecast, opts.LineData{Value: gap})
	}
	for _, v := range forecast {
		lineDataActual = append(lineDataActual, opts.LineData{Value: gap})
		lineDataForecast = append(lineDataForecast, opts.LineData{Value: v})
	}

	return lineDataActual, lineDataForecast
}

// Render writes the chart page to w.
func Render(w io.Writer, title string, history []float64, forecast []int64) error {
	return LineForecast(title, history, forecast).Render(w)
}
