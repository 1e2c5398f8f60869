package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/akilli/monitorx/internal/config"
	"github.com/akilli/monitorx/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

const (
	teamsMentionLimit = 5
	emailMentionLimit = 10
	snippetLimit      = 200
)

// mailer is satisfied by *gomail.Dialer
type mailer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Service delivers digests and alerts to Teams and email
type Service struct {
	config *config.Config
	client *resty.Client
	mailer mailer
}

var _ Notifier = (*Service)(nil)

// TeamsMessage represents a Microsoft Teams message card
type TeamsMessage struct {
	Type       string         `json:"@type"`
	Context    string         `json:"@context"`
	ThemeColor string         `json:"themeColor,omitempty"`
	Title      string         `json:"title"`
	Text       string         `json:"text"`
	Sections   []TeamsSection `json:"sections,omitempty"`
}

type TeamsSection struct {
	ActivityTitle    string      `json:"activityTitle,omitempty"`
	ActivitySubtitle string      `json:"activitySubtitle,omitempty"`
	ActivityText     string      `json:"activityText,omitempty"`
	Facts            []TeamsFact `json:"facts,omitempty"`
	Markdown         bool        `json:"markdown,omitempty"`
}

type TeamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewService creates a new notification service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
		mailer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
	}
}

// SendReport sends a digest via every configured channel
func (s *Service) SendReport(ctx context.Context, report *models.Report) error {
	var errs []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.postTeams(ctx, s.buildTeamsMessage(report)); err != nil {
			logrus.Errorf("Failed to send Teams notification: %v", err)
			errs = append(errs, fmt.Sprintf("Teams: %v", err))
		} else {
			logrus.Info("Successfully sent digest to Teams")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendReportEmail(report); err != nil {
			logrus.Errorf("Failed to send email notification: %v", err)
			errs = append(errs, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.Info("Successfully sent digest via email")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// SendAlert sends an alert via every configured channel
func (s *Service) SendAlert(ctx context.Context, alert *models.Alert) error {
	var errs []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.postTeams(ctx, s.buildAlertMessage(alert)); err != nil {
			errs = append(errs, fmt.Sprintf("Teams: %v", err))
		}
	}

	if s.config.NotificationEmail != "" {
		m := s.newMessage("[" + strings.ToUpper(alert.Type) + "] " + alert.Title)
		m.SetBody("text/plain", buildAlertText(alert))
		if err := s.mailer.DialAndSend(m); err != nil {
			errs = append(errs, fmt.Sprintf("Email: %v", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("alert errors: %s", strings.Join(errs, "; "))
	}

	logrus.Infof("Sent %s alert: %s", alert.Type, alert.Title)
	return nil
}

func (s *Service) postTeams(ctx context.Context, message *TeamsMessage) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.TeamsWebhookURL)
	if err != nil {
		return fmt.Errorf("failed to send Teams message: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("Teams webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

func (s *Service) buildTeamsMessage(report *models.Report) *TeamsMessage {
	message := &TeamsMessage{
		Type:    "MessageCard",
		Context: "https://schema.org/extensions",
		Title:   fmt.Sprintf("Resumo de menções - %s", periodLabel(report.Period)),
		Text: fmt.Sprintf("%d menções entre %s e %s",
			report.Analytics.Total, report.DateFrom, report.DateTo),
	}

	facts := []TeamsFact{
		{Name: "Total", Value: fmt.Sprintf("%d", report.Analytics.Total)},
		{Name: "Gerado em", Value: report.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC")},
	}
	for _, sc := range report.Analytics.BySentiment {
		facts = append(facts, TeamsFact{Name: sc.Sentiment.String(), Value: fmt.Sprintf("%d", sc.Count)})
	}
	for _, cc := range report.Analytics.ByChannel {
		facts = append(facts, TeamsFact{Name: cc.Channel.String(), Value: fmt.Sprintf("%d", cc.Count)})
	}

	message.Sections = append(message.Sections, TeamsSection{
		ActivityTitle: "Resumo",
		Facts:         facts,
		Markdown:      true,
	})

	if len(report.Analytics.TopTags) > 0 {
		var tags []string
		for _, tc := range report.Analytics.TopTags {
			tags = append(tags, fmt.Sprintf("%s (%d)", tc.Tag, tc.Count))
		}
		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Top tags",
			ActivityText:  strings.Join(tags, ", "),
		})
	}

	if len(report.NegativeMentions) > 0 {
		message.ThemeColor = strings.TrimPrefix(models.ColorNegative, "#")
		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Menções negativas",
			ActivityText:  mentionLines(report.NegativeMentions, teamsMentionLimit),
			Markdown:      true,
		})
	}

	return message
}

func (s *Service) buildAlertMessage(alert *models.Alert) *TeamsMessage {
	message := &TeamsMessage{
		Type:       "MessageCard",
		Context:    "https://schema.org/extensions",
		ThemeColor: strings.TrimPrefix(models.ColorNegative, "#"),
		Title:      alert.Title,
		Text:       alert.Message,
	}
	if len(alert.Mentions) > 0 {
		message.Sections = append(message.Sections, TeamsSection{
			ActivityTitle: "Menções",
			ActivityText:  mentionLines(alert.Mentions, teamsMentionLimit),
			Markdown:      true,
		})
	}
	return message
}

func mentionLines(mentions []models.Mention, limit int) string {
	if len(mentions) < limit {
		limit = len(mentions)
	}
	lines := make([]string, 0, limit)
	for _, m := range mentions[:limit] {
		lines = append(lines, fmt.Sprintf("**[%s](%s)** - %s (%s)",
			displayTitle(m), m.URL, m.Channel, m.CreatedAt.Format("02/01")))
	}
	return strings.Join(lines, "\n\n")
}

func (s *Service) newMessage(subject string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", subject)
	return m
}

func (s *Service) sendReportEmail(report *models.Report) error {
	htmlBody, err := buildEmailHTML(report)
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	m := s.newMessage(fmt.Sprintf("Resumo de menções - %s (%d menções)",
		periodLabel(report.Period), report.Analytics.Total))
	m.SetBody("text/plain", buildEmailText(report))
	m.AddAlternative("text/html", htmlBody)

	if err := s.mailer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

var emailTemplate = template.Must(template.New("email").Funcs(template.FuncMap{
	"period":   periodLabel,
	"truncate": truncate,
	"title":    displayTitle,
	"color":    func(s models.Sentiment) template.CSS { return template.CSS(s.Color()) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Resumo de menções</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #1f2937; color: white; padding: 20px; border-radius: 5px; }
        .summary { background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-radius: 5px; }
        .mention { border-left: 4px solid {{.Negative}}; padding: 10px; margin: 10px 0; background-color: #fafafa; }
        .mention-title { font-weight: bold; margin-bottom: 5px; }
        .mention-meta { color: #666; font-size: 0.9em; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Resumo de menções - {{period .Report.Period}}</h1>
        <p>{{.Report.DateFrom}} a {{.Report.DateTo}}</p>
    </div>

    <div class="summary">
        <h2>Resumo</h2>
        <p><strong>Total:</strong> {{.Report.Analytics.Total}}</p>
        {{range .Report.Analytics.BySentiment}}
        <p><span style="color: {{color .Sentiment}}">&#9679;</span> <strong>{{.Sentiment}}:</strong> {{.Count}}</p>
        {{end}}
        {{range .Report.Analytics.ByChannel}}
        <p><strong>{{.Channel}}:</strong> {{.Count}}</p>
        {{end}}
    </div>

    {{if .Mentions}}
    <h2>Menções negativas</h2>
    {{range .Mentions}}
    <div class="mention">
        <div class="mention-title"><a href="{{.URL}}" target="_blank">{{title .}}</a></div>
        <div class="mention-meta">#{{.ID}} | {{.Channel}} | {{.CreatedAt.Format "02/01/2006"}}</div>
        {{if .Snippet}}<p>{{truncate .Snippet}}</p>{{end}}
    </div>
    {{end}}
    {{end}}

    <hr>
    <p><small>Resumo gerado automaticamente pelo MonitorX.</small></p>
</body>
</html>
`))

func buildEmailHTML(report *models.Report) (string, error) {
	mentions := report.NegativeMentions
	if len(mentions) > emailMentionLimit {
		mentions = mentions[:emailMentionLimit]
	}

	data := struct {
		Report   *models.Report
		Mentions []models.Mention
		Negative template.CSS
	}{report, mentions, template.CSS(models.ColorNegative)}

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildEmailText(report *models.Report) string {
	var text strings.Builder

	fmt.Fprintf(&text, "Resumo de menções - %s\n", periodLabel(report.Period))
	fmt.Fprintf(&text, "Período: %s a %s\n", report.DateFrom, report.DateTo)
	fmt.Fprintf(&text, "Gerado em: %s\n\n", report.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"))

	text.WriteString("RESUMO\n")
	text.WriteString("======\n")
	fmt.Fprintf(&text, "Total: %d\n", report.Analytics.Total)
	for _, sc := range report.Analytics.BySentiment {
		fmt.Fprintf(&text, "%s: %d\n", sc.Sentiment, sc.Count)
	}
	for _, cc := range report.Analytics.ByChannel {
		fmt.Fprintf(&text, "%s: %d\n", cc.Channel, cc.Count)
	}

	if len(report.NegativeMentions) > 0 {
		text.WriteString("\nMENÇÕES NEGATIVAS\n")
		text.WriteString("=================\n")

		limit := emailMentionLimit
		if len(report.NegativeMentions) < limit {
			limit = len(report.NegativeMentions)
		}
		for i, m := range report.NegativeMentions[:limit] {
			fmt.Fprintf(&text, "\n%d. %s\n", i+1, displayTitle(m))
			fmt.Fprintf(&text, "   Canal: %s | Data: %s\n", m.Channel, m.CreatedAt.Format("02/01/2006"))
			fmt.Fprintf(&text, "   URL: %s\n", m.URL)
			if m.Snippet != "" {
				fmt.Fprintf(&text, "   Trecho: %s\n", truncate(m.Snippet))
			}
		}
	}

	text.WriteString("\n---\nResumo gerado automaticamente pelo MonitorX.\n")
	return text.String()
}

func buildAlertText(alert *models.Alert) string {
	var text strings.Builder
	fmt.Fprintf(&text, "%s\n\n%s\n", alert.Title, alert.Message)
	for _, m := range alert.Mentions {
		fmt.Fprintf(&text, "\n- #%d %s\n  %s\n", m.ID, displayTitle(m), m.URL)
	}
	return text.String()
}

func periodLabel(period string) string {
	switch period {
	case "daily":
		return "diário"
	case "weekly":
		return "semanal"
	default:
		return period
	}
}

func displayTitle(m models.Mention) string {
	if strings.TrimSpace(m.Title) == "" {
		return "(sem título)"
	}
	return m.Title
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= snippetLimit {
		return s
	}
	return string(r[:snippetLimit]) + "..."
}
