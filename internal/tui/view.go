package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/akilli/monitorx/internal/listview"
	"github.com/akilli/monitorx/internal/models"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleBarStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#333333"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"}).
			Padding(0, 1)

	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#999999"}).
			Padding(0, 1)

	spinnerStyle = lipgloss.NewStyle().
			Bold(true)

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true)

	separatorStyle = lipgloss.NewStyle().
			Faint(true)

	cursorRowStyle = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#e0e0e0", Dark: "#282828"})

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#999999"}).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(models.ColorNegative))

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2)

	modalTitleStyle = lipgloss.NewStyle().
			Bold(true)

	flashStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#996600", Dark: "#ffcc00"})

	focusedLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Underline(true)
)

// sentimentStyle colours a badge with the fixed sentiment palette.
func sentimentStyle(s models.Sentiment) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color(s.Color())).
		Padding(0, 1)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	if m.view == viewAnalytics {
		body = m.analyticsView()
	} else {
		body = m.listView()
	}

	parts := []string{m.titleBar(), body, m.footer()}
	screen := strings.Join(parts, "\n")

	if m.modal != modalNone {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.modalView())
	}
	return screen
}

func (m Model) titleBar() string {
	tabs := []string{"Menções", "Análises"}
	tabs[m.view] = "[" + tabs[m.view] + "]"
	title := titleBarStyle.Render("MonitorX  " + strings.Join(tabs, " "))

	if m.loading() {
		title += " " + m.spinner.View()
	}
	return title
}

func (m Model) listView() string {
	var b strings.Builder
	s := m.list

	fmt.Fprintf(&b, "%s\n", statsStyle.Render(fmt.Sprintf(
		"Página %d de %d  |  %d menções  |  %d selecionadas  |  %s",
		s.Page, s.PageCount, s.Total, s.Selection.Len(), filterSummary(s.Applied.Params()))))

	dateField := s.Applied.EffectiveDateField()
	header := fmt.Sprintf("%s %-8s %-12s %-10s %-10s %s",
		pageCheckbox(s.PageSelection()), "ID", "Canal", "Sentimento", "Data", "Título")
	b.WriteString(tableHeaderStyle.Render(header) + "\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", max(m.width-2, 20))) + "\n")

	if len(s.Items) == 0 && !s.Loading {
		b.WriteString("  Nenhuma menção encontrada.\n")
	}

	for i, mention := range s.Items {
		row := fmt.Sprintf("%s #%-7d %-12s %s %-10s %s",
			checkbox(s.Selection.Has(mention.ID)),
			mention.ID,
			truncateRunes(mention.Channel.String(), 12),
			sentimentStyle(mention.Sentiment).Render(fmt.Sprintf("%-8s", truncateRunes(mention.Sentiment.String(), 8))),
			formatDate(mention.DateFor(dateField)),
			truncateRunes(displayTitle(mention), max(m.width-50, 20)),
		)
		if len(mention.Tags) > 0 {
			row += "  [" + strings.Join(mention.Tags, ", ") + "]"
		}

		switch {
		case i == m.cursor:
			row = cursorRowStyle.Render(row)
		case s.Selection.Has(mention.ID):
			row = selectedRowStyle.Render(row)
		}
		b.WriteString(row + "\n")
	}

	if s.Err != nil {
		b.WriteString(errorStyle.Render("Erro: "+errorText(s.Err)) + "\n")
	}

	return b.String()
}

func (m Model) analyticsView() string {
	var b strings.Builder
	s := m.analytics
	charts := s.Charts()

	dateField := s.Applied.DateField
	if dateField == "" {
		dateField = models.DateFieldMined
	}
	fmt.Fprintf(&b, "%s\n\n", statsStyle.Render(fmt.Sprintf(
		"Total: %d  |  %s  |  %s",
		charts.Total, dateField.Label(), filterSummary(s.Applied.Params()))))

	width := max(m.width-40, 10)

	b.WriteString(tableHeaderStyle.Render("Sentimento") + "\n")
	maxSentiment := maxCount(charts.Sentiment.Datasets[0].Data)
	for i, label := range charts.Sentiment.Labels {
		line := lipgloss.NewStyle().
			Foreground(lipgloss.Color(charts.Sentiment.Datasets[0].BackgroundColor[i])).
			Render(bar(charts.Sentiment.Datasets[0].Data[i], maxSentiment, width))
		fmt.Fprintf(&b, "  %-14s %s %d\n", label, line, charts.Sentiment.Datasets[0].Data[i])
	}

	writeBars(&b, charts.Channel.Datasets[0].Label, charts.Channel.Labels, charts.Channel.Datasets[0].Data, width)
	writeBars(&b, charts.Daily.Datasets[0].Label, charts.Daily.Labels, charts.Daily.Datasets[0].Data, width)
	writeBars(&b, charts.TopTags.Datasets[0].Label, charts.TopTags.Labels, charts.TopTags.Datasets[0].Data, width)

	if s.Err != nil {
		b.WriteString("\n" + errorStyle.Render("Erro: "+errorText(s.Err)) + "\n")
	}

	return b.String()
}

func writeBars(b *strings.Builder, title string, labels []string, data []int, width int) {
	b.WriteString("\n" + tableHeaderStyle.Render(title) + "\n")
	if len(labels) == 0 {
		b.WriteString("  (sem dados)\n")
		return
	}
	top := maxCount(data)
	for i, label := range labels {
		fmt.Fprintf(b, "  %-14s %s %d\n", truncateRunes(label, 14), bar(data[i], top, width), data[i])
	}
}

func (m Model) footer() string {
	var line string
	if m.flashMessage != "" && time.Now().Before(m.flashExpiresAt) {
		line = flashStyle.Render(m.flashMessage)
	} else if m.view == viewAnalytics {
		line = "f filtros  s busca  r atualizar  tab menções  ? ajuda  q sair"
	} else {
		line = "espaço marcar  a página  c limpar  n/p página  d excluir  D excluir selecionadas  t/T tag  f filtros  ? ajuda"
	}
	return footerStyle.Render(line)
}

func (m Model) modalView() string {
	var b strings.Builder

	switch m.modal {
	case modalDeleteConfirm:
		b.WriteString(modalTitleStyle.Render("Excluir menção") + "\n\n")
		fmt.Fprintf(&b, "Tem certeza que deseja excluir a menção #%d?\n\n", m.pendingDelete)
		b.WriteString("[Y] Sim  [N] Cancelar")

	case modalBulkConfirm:
		b.WriteString(modalTitleStyle.Render("Excluir selecionadas") + "\n\n")
		fmt.Fprintf(&b, "Excluir %d menção(ões)? Esta ação não pode ser desfeita.\n\n", m.list.Selection.Len())
		b.WriteString("[Y] Sim  [N] Cancelar")

	case modalTag:
		title := "Adicionar tag"
		if m.tagRemove {
			title = "Remover tag"
		}
		b.WriteString(modalTitleStyle.Render(title) + "\n\n")
		if mention, ok := m.currentMention(); ok {
			fmt.Fprintf(&b, "Menção #%d\n\n", mention.ID)
		}
		b.WriteString(m.tagInput.View() + "\n\n")
		b.WriteString("Enter confirmar  Esc cancelar")

	case modalFilter, modalSearch:
		b.WriteString(modalTitleStyle.Render(m.form.title) + "\n\n")
		for i, f := range m.form.fields {
			label := fmt.Sprintf("%-17s", f.label)
			if i == m.form.focus {
				label = focusedLabelStyle.Render(label)
			}
			fmt.Fprintf(&b, "%s %s\n", label, f.display())
		}
		if m.form.err != "" {
			b.WriteString("\n" + errorStyle.Render(m.form.err) + "\n")
		}
		b.WriteString("\nTab próximo campo  ←/→ opções  Enter aplicar  Esc cancelar")

	case modalHelp:
		b.WriteString(modalTitleStyle.Render("Atalhos") + "\n\n")
		for _, line := range []string{
			"↑/↓ j/k     mover cursor",
			"espaço      marcar/desmarcar menção",
			"a           marcar/desmarcar página",
			"c           limpar seleção",
			"n/p ←/→     próxima/anterior página",
			"home/end    primeira/última página",
			"d           excluir menção",
			"D           excluir selecionadas",
			"t / T       adicionar / remover tag",
			"f           filtros",
			"s           executar busca",
			"r           atualizar",
			"tab         alternar menções/análises",
			"q           sair",
		} {
			b.WriteString(line + "\n")
		}
	}

	return modalStyle.Render(b.String())
}

func pageCheckbox(p listview.PageSelection) string {
	switch p {
	case listview.PageSelectionAll:
		return "[x]"
	case listview.PageSelectionPartial:
		return "[-]"
	default:
		return "[ ]"
	}
}

func checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

func filterSummary(params map[string]string) string {
	delete(params, "date_field")
	if len(params) == 0 {
		return "sem filtros"
	}
	var parts []string
	for _, k := range []string{"q", "canal", "sentimento", "tag", "date_from", "date_to"} {
		if v, ok := params[k]; ok {
			parts = append(parts, k+"="+v)
		}
	}
	return strings.Join(parts, " ")
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02/01/2006")
}

func displayTitle(m models.Mention) string {
	if strings.TrimSpace(m.Title) == "" {
		return "(sem título)"
	}
	return m.Title
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func maxCount(data []int) int {
	top := 0
	for _, v := range data {
		if v > top {
			top = v
		}
	}
	return top
}

func bar(v, top, width int) string {
	if top <= 0 || v <= 0 {
		return ""
	}
	n := v * width / top
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}
