package digest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/akilli/monitorx/internal/api"
	"github.com/akilli/monitorx/internal/config"
	"github.com/akilli/monitorx/internal/models"
	"github.com/akilli/monitorx/internal/notifications"
	"github.com/akilli/monitorx/internal/query"
	"github.com/akilli/monitorx/internal/storage"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	runTimeout     = 10 * time.Minute
	topChannelsMax = 5
)

// Service builds periodic digests from the backend analytics
type Service struct {
	config   *config.Config
	backend  api.Backend
	archive  storage.Archive
	notifier notifications.Notifier
	metrics  *Metrics
	mu       sync.RWMutex

	now func() time.Time
}

// Metrics holds digest run metrics
type Metrics struct {
	TotalMentions      int            `json:"total_mentions"`
	NegativeMentions   int            `json:"negative_mentions"`
	LastRun            time.Time      `json:"last_run"`
	LastRunDuration    string         `json:"last_run_duration"`
	LastReport         string         `json:"last_report,omitempty"`
	ChannelMetrics     map[string]int `json:"channel_metrics"`
	SentimentBreakdown map[string]int `json:"sentiment_breakdown"`
	RunCount           int            `json:"run_count"`
	AlertCount         int            `json:"alert_count"`
	ErrorCount         int            `json:"error_count"`
}

// NewService creates a new digest service
func NewService(cfg *config.Config, backend api.Backend, archive storage.Archive, notifier notifications.Notifier) *Service {
	return &Service{
		config:   cfg,
		backend:  backend,
		archive:  archive,
		notifier: notifier,
		metrics: &Metrics{
			ChannelMetrics:     make(map[string]int),
			SentimentBreakdown: make(map[string]int),
		},
		now: time.Now,
	}
}

// Window returns the inclusive date range covered by a digest generated at now
func Window(schedule string, now time.Time) (from, to string) {
	days := 1
	if schedule == "weekly" {
		days = 7
	}
	return now.AddDate(0, 0, -days).Format(query.DateLayout), now.Format(query.DateLayout)
}

// RunDigest performs one digest run
func (s *Service) RunDigest(ctx context.Context) error {
	start := time.Now()
	logrus.Info("Starting digest run")

	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	from, to := Window(s.config.ReportSchedule, s.now().In(s.config.Location()))
	criteria := query.Criteria{DateFrom: from, DateTo: to, DateField: models.DateFieldMined}
	logrus.Infof("Collecting %s digest for %s to %s", s.config.ReportSchedule, from, to)

	var data *models.Analytics
	var negatives *models.MentionPage

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data, err = s.backend.GetAnalytics(gctx, criteria)
		if err != nil {
			return fmt.Errorf("failed to fetch analytics: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		negative := criteria
		negative.Sentiment = models.SentimentNegative
		var err error
		negatives, err = s.backend.ListMentions(gctx, negative, 1)
		if err != nil {
			return fmt.Errorf("failed to fetch negative mentions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		logrus.Errorf("Digest run failed: %v", err)
		s.recordError()
		return err
	}

	report := s.generateReport(from, to, data, negatives)

	name, err := storage.SaveReport(ctx, s.archive, report)
	if err != nil {
		logrus.Errorf("Failed to archive digest: %v", err)
		s.recordError()
		return err
	}

	s.updateMetrics(report, name, time.Since(start))

	if err := s.notifier.SendReport(ctx, report); err != nil {
		logrus.Errorf("Failed to send digest: %v", err)
		s.recordError()
		return err
	}

	if err := s.checkAlert(ctx, report, negatives.Total); err != nil {
		logrus.Errorf("Failed to send alert: %v", err)
		s.recordError()
		return err
	}

	logrus.Infof("Digest run completed in %v", time.Since(start))
	return nil
}

func (s *Service) generateReport(from, to string, data *models.Analytics, negatives *models.MentionPage) *models.Report {
	report := &models.Report{
		GeneratedAt:      s.now().UTC(),
		Period:           s.config.ReportSchedule,
		DateFrom:         from,
		DateTo:           to,
		Analytics:        *data,
		NegativeMentions: negatives.Items,
		Summary:          make(map[string]interface{}),
	}
	if report.NegativeMentions == nil {
		report.NegativeMentions = []models.Mention{}
	}

	report.Summary["negative_total"] = negatives.Total
	report.Summary["top_channels"] = topChannels(data.ByChannel)
	if data.Total > 0 {
		report.Summary["negative_share"] = float64(negativeCount(data)) / float64(data.Total)
	}

	return report
}

// checkAlert raises an alert when the window holds at least the configured number of negatives
func (s *Service) checkAlert(ctx context.Context, report *models.Report, negativeTotal int) error {
	threshold := s.config.NegativeAlertThreshold
	if threshold <= 0 || negativeTotal < threshold {
		return nil
	}

	alert := &models.Alert{
		ID:    fmt.Sprintf("negative-%s-%s", report.DateFrom, report.DateTo),
		Type:  "urgent",
		Title: fmt.Sprintf("%d menções negativas entre %s e %s", negativeTotal, report.DateFrom, report.DateTo),
		Message: fmt.Sprintf("O número de menções negativas atingiu o limite configurado (%d).",
			threshold),
		Mentions:  report.NegativeMentions,
		CreatedAt: s.now().UTC(),
	}

	if err := s.notifier.SendAlert(ctx, alert); err != nil {
		return err
	}

	s.mu.Lock()
	s.metrics.AlertCount++
	s.mu.Unlock()
	return nil
}

func negativeCount(data *models.Analytics) int {
	for _, sc := range data.BySentiment {
		if sc.Sentiment == models.SentimentNegative {
			return sc.Count
		}
	}
	return 0
}

func topChannels(counts []models.ChannelCount) []string {
	sorted := append([]models.ChannelCount(nil), counts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})

	top := []string{}
	for i, cc := range sorted {
		if i >= topChannelsMax {
			break
		}
		top = append(top, fmt.Sprintf("%s (%d)", cc.Channel, cc.Count))
	}
	return top
}

func (s *Service) updateMetrics(report *models.Report, name string, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.TotalMentions = report.Analytics.Total
	s.metrics.NegativeMentions = negativeCount(&report.Analytics)
	s.metrics.LastRun = s.now()
	s.metrics.LastRunDuration = duration.String()
	s.metrics.LastReport = name
	s.metrics.RunCount++

	s.metrics.ChannelMetrics = make(map[string]int)
	s.metrics.SentimentBreakdown = make(map[string]int)
	for _, cc := range report.Analytics.ByChannel {
		s.metrics.ChannelMetrics[cc.Channel.String()] = cc.Count
	}
	for _, sc := range report.Analytics.BySentiment {
		s.metrics.SentimentBreakdown[sc.Sentiment.String()] = sc.Count
	}
}

func (s *Service) recordError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics.ErrorCount++
}

// GetMetrics returns current metrics as JSON
func (s *Service) GetMetrics() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}

// Reports lists the archived digest names, oldest first
func (s *Service) Reports(ctx context.Context) ([]string, error) {
	names, err := s.archive.List(ctx, storage.ReportPrefix)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
