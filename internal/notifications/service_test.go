package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/akilli/monitorx/internal/config"
	"github.com/akilli/monitorx/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeMailer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeMailer) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func sampleReport() *models.Report {
	return &models.Report{
		GeneratedAt: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
		Period:      "daily",
		DateFrom:    "2024-03-01",
		DateTo:      "2024-03-02",
		Analytics: models.Analytics{
			Total: 12,
			BySentiment: []models.SentimentCount{
				{Sentiment: models.SentimentPositive, Count: 8},
				{Sentiment: models.SentimentNegative, Count: 4},
			},
			ByChannel: []models.ChannelCount{{Channel: models.ChannelBlog, Count: 12}},
			TopTags:   []models.TagCount{{Tag: "crise", Count: 2}},
		},
		NegativeMentions: []models.Mention{
			{ID: 7, Title: "Reclamação", URL: "https://example.com/7", Channel: models.ChannelBlog,
				Snippet: strings.Repeat("a", 250), CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
			{ID: 8, URL: "https://example.com/8", Channel: models.ChannelSite},
		},
	}
}

func newTestService(cfg *config.Config) (*Service, *fakeMailer) {
	svc := NewService(cfg)
	m := &fakeMailer{}
	svc.mailer = m
	return svc, m
}

func TestBuildTeamsMessage(t *testing.T) {
	svc, _ := newTestService(config.Defaults())
	msg := svc.buildTeamsMessage(sampleReport())

	assert.Equal(t, "MessageCard", msg.Type)
	assert.Equal(t, "Resumo de menções - diário", msg.Title)
	assert.Equal(t, "dc2626", msg.ThemeColor)
	require.Len(t, msg.Sections, 3)

	facts := map[string]string{}
	for _, f := range msg.Sections[0].Facts {
		facts[f.Name] = f.Value
	}
	assert.Equal(t, "12", facts["Total"])
	assert.Equal(t, "4", facts["negativo"])
	assert.Equal(t, "12", facts["Blog"])

	assert.Equal(t, "crise (2)", msg.Sections[1].ActivityText)
	assert.Contains(t, msg.Sections[2].ActivityText, "**[Reclamação](https://example.com/7)**")
	assert.Contains(t, msg.Sections[2].ActivityText, "(sem título)")
}

func TestSendReport_Teams(t *testing.T) {
	var received TeamsMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Defaults()
	cfg.TeamsWebhookURL = server.URL
	svc, mailer := newTestService(cfg)

	require.NoError(t, svc.SendReport(context.Background(), sampleReport()))
	assert.Equal(t, "Resumo de menções - diário", received.Title)
	assert.Empty(t, mailer.sent)
}

func TestSendReport_TeamsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad card", http.StatusBadRequest)
	}))
	defer server.Close()

	cfg := config.Defaults()
	cfg.TeamsWebhookURL = server.URL
	svc, _ := newTestService(cfg)

	err := svc.SendReport(context.Background(), sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestSendReport_Email(t *testing.T) {
	cfg := config.Defaults()
	cfg.NotificationEmail = "team@example.com"
	cfg.SMTPUsername = "bot@example.com"
	svc, mailer := newTestService(cfg)

	require.NoError(t, svc.SendReport(context.Background(), sampleReport()))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"team@example.com"}, mailer.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Resumo de menções - diário (12 menções)"}, mailer.sent[0].GetHeader("Subject"))
}

func TestSendReport_EmailFailure(t *testing.T) {
	cfg := config.Defaults()
	cfg.NotificationEmail = "team@example.com"
	svc, mailer := newTestService(cfg)
	mailer.err = errors.New("connection refused")

	err := svc.SendReport(context.Background(), sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email: failed to send email")
}

func TestBuildEmailHTML(t *testing.T) {
	html, err := buildEmailHTML(sampleReport())
	require.NoError(t, err)

	assert.Contains(t, html, "Resumo de menções - diário")
	assert.Contains(t, html, "#16a34a")
	assert.Contains(t, html, "#dc2626")
	assert.Contains(t, html, `href="https://example.com/7"`)
	assert.Contains(t, html, strings.Repeat("a", 200)+"...")
	assert.NotContains(t, html, strings.Repeat("a", 201))
}

func TestBuildEmailText(t *testing.T) {
	text := buildEmailText(sampleReport())

	assert.Contains(t, text, "Período: 2024-03-01 a 2024-03-02")
	assert.Contains(t, text, "Total: 12")
	assert.Contains(t, text, "positivo: 8")
	assert.Contains(t, text, "1. Reclamação")
	assert.Contains(t, text, "2. (sem título)")
}

func TestSendAlert(t *testing.T) {
	var received TeamsMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
	}))
	defer server.Close()

	cfg := config.Defaults()
	cfg.TeamsWebhookURL = server.URL
	cfg.NotificationEmail = "team@example.com"
	svc, mailer := newTestService(cfg)

	alert := &models.Alert{
		Type:     "urgent",
		Title:    "Pico de menções negativas",
		Message:  "4 menções negativas",
		Mentions: sampleReport().NegativeMentions,
	}
	require.NoError(t, svc.SendAlert(context.Background(), alert))

	assert.Equal(t, "Pico de menções negativas", received.Title)
	require.Len(t, received.Sections, 1)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"[URGENT] Pico de menções negativas"}, mailer.sent[0].GetHeader("Subject"))
}

func TestPeriodLabel(t *testing.T) {
	assert.Equal(t, "diário", periodLabel("daily"))
	assert.Equal(t, "semanal", periodLabel("weekly"))
	assert.Equal(t, "custom", periodLabel("custom"))
}
