package cmd

import (
	"strings"
	"time"

	"github.com/akilli/monitorx/internal/models"
)

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02/01/2006 15:04")
}

func mentionTitle(m models.Mention) string {
	if strings.TrimSpace(m.Title) == "" {
		return "(sem título)"
	}
	return m.Title
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
