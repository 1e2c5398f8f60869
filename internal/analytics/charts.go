package analytics

import "github.com/akilli/monitorx/internal/models"

// Chart is the {labels, datasets} shape consumed by charting libraries
type Chart struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one data series of a chart
type Dataset struct {
	Label           string   `json:"label,omitempty"`
	Data            []int    `json:"data"`
	BackgroundColor []string `json:"backgroundColor,omitempty"`
	Tension         float64  `json:"tension,omitempty"`
}

// Charts groups the four charts of the analytics view
type Charts struct {
	Total     int   `json:"total"`
	Sentiment Chart `json:"sentiment"`
	Channel   Chart `json:"channel"`
	Daily     Chart `json:"daily"`
	TopTags   Chart `json:"top_tags"`
}

// BuildCharts transforms aggregates into chart shapes
func BuildCharts(a models.Analytics) Charts {
	return Charts{
		Total:     a.Total,
		Sentiment: SentimentChart(a.BySentiment),
		Channel:   ChannelChart(a.ByChannel),
		Daily:     DailyChart(a.TimeseriesDaily),
		TopTags:   TopTagsChart(a.TopTags),
	}
}

// SentimentChart builds the pie of mentions per sentiment, coloured like the list badges
func SentimentChart(rows []models.SentimentCount) Chart {
	labels := make([]string, len(rows))
	data := make([]int, len(rows))
	colors := make([]string, len(rows))
	for i, row := range rows {
		labels[i] = string(row.Sentiment)
		data[i] = row.Count
		colors[i] = row.Sentiment.Color()
	}
	return Chart{
		Labels:   labels,
		Datasets: []Dataset{{Data: data, BackgroundColor: colors}},
	}
}

// ChannelChart builds the bar chart of mentions per channel
func ChannelChart(rows []models.ChannelCount) Chart {
	labels := make([]string, len(rows))
	data := make([]int, len(rows))
	for i, row := range rows {
		labels[i] = string(row.Channel)
		data[i] = row.Count
	}
	return Chart{
		Labels:   labels,
		Datasets: []Dataset{{Label: "Menções por canal", Data: data}},
	}
}

// DailyChart builds the line chart of mentions per day
func DailyChart(rows []models.DailyCount) Chart {
	labels := make([]string, len(rows))
	data := make([]int, len(rows))
	for i, row := range rows {
		labels[i] = row.Date
		data[i] = row.Count
	}
	return Chart{
		Labels:   labels,
		Datasets: []Dataset{{Label: "Menções por dia", Data: data, Tension: 0.2}},
	}
}

// TopTagsChart builds the bar chart of the most used tags
func TopTagsChart(rows []models.TagCount) Chart {
	labels := make([]string, len(rows))
	data := make([]int, len(rows))
	for i, row := range rows {
		labels[i] = row.Tag
		data[i] = row.Count
	}
	return Chart{
		Labels:   labels,
		Datasets: []Dataset{{Label: "Top tags", Data: data}},
	}
}
