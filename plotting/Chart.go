package plotting

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// EpisodeChart returns a line chart of the return and length of each
// episode of a run. Episode i is drawn at x = i + 1.
func EpisodeChart(title string, returns []float64, lengths []int) (
	*charts.Line, error) {
	if len(returns) != len(lengths) {
		return nil, fmt.Errorf("episodeChart: %d returns for %d lengths",
			len(returns), len(lengths))
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
	)

	episodes := make([]string, len(returns))
	returnData := make([]opts.LineData, len(returns))
	lengthData := make([]opts.LineData, len(lengths))
	for i := range returns {
		episodes[i] = strconv.Itoa(i + 1)
		returnData[i] = opts.LineData{Value: returns[i]}
		lengthData[i] = opts.LineData{Value: lengths[i]}
	}

	line.SetXAxis(episodes).
		AddSeries("return", returnData).
		AddSeries("length", lengthData)
	return line, nil
}

// SaveEpisodeChart renders the EpisodeChart of a run to an HTML file
func SaveEpisodeChart(title string, returns []float64, lengths []int,
	filename string) error {
	line, err := EpisodeChart(title, returns, lengths)
	if err != nil {
		return fmt.Errorf("saveEpisodeChart: %w", err)
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("saveEpisodeChart: %w", err)
	}
	defer f.Close()

	page := components.NewPage()
	page.AddCharts(line)
	if err := page.Render(f); err != nil {
		return fmt.Errorf("saveEpisodeChart: %w", err)
	}
	return nil
}
