package cmd

import (
	"github.com/akilli/monitorx/internal/models"
	"github.com/akilli/monitorx/internal/query"
	"github.com/spf13/cobra"
)

// filterFlags are the filter criteria shared by list and analytics.
type filterFlags struct {
	text      string
	channel   string
	sentiment string
	tag       string
	from      string
	to        string
	dateField string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.text, "query", "q", "", "free text search")
	cmd.Flags().StringVar(&f.channel, "channel", "", "channel (Facebook, Instagram, YouTube, LinkedIn, X (Twitter), Blog, Site)")
	cmd.Flags().StringVar(&f.sentiment, "sentiment", "", "sentiment (positivo, neutro, negativo)")
	cmd.Flags().StringVar(&f.tag, "tag", "", "tag")
	cmd.Flags().StringVar(&f.from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.dateField, "date-field", "", "date the range applies to (published or mined)")
}

func (f *filterFlags) criteria() query.Criteria {
	return query.Criteria{
		Text:      f.text,
		Channel:   models.Channel(f.channel),
		Sentiment: models.Sentiment(f.sentiment),
		Tag:       f.tag,
		DateFrom:  f.from,
		DateTo:    f.to,
		DateField: models.DateField(f.dateField),
	}
}
