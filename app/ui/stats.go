package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gridline/app/stats"
)

var (
	statsTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("105"))
	statsLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
	statsBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("110"))
	statsBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

// renderProfile renders the stats overlay for one column profile.
func renderProfile(p *stats.Profile, width int) string {
	if p == nil {
		return ""
	}
	inner := width - 6
	if inner < 30 {
		inner = 30
	}

	var b strings.Builder
	b.WriteString(statsTitleStyle.Render(p.Column))
	b.WriteString(statsLabelStyle.Render(fmt.Sprintf("  %d values, %d absent", p.Total, p.Absent)))
	b.WriteString("\n\n")

	if p.NumericCount > 0 {
		b.WriteString(fmt.Sprintf("numeric %d   min %s   max %s   mean %s   sum %s\n\n",
			p.NumericCount, num(p.Min), num(p.Max), num(p.Mean()), num(p.Sum)))
		b.WriteString(renderBuckets(p, inner))
	}

	if len(p.TopValues) > 0 {
		if p.NumericCount > 0 {
			b.WriteString("\n")
		}
		b.WriteString(statsLabelStyle.Render("most frequent"))
		b.WriteString("\n")
		valueWidth := 0
		for _, v := range p.TopValues {
			if len(v.Value) > valueWidth {
				valueWidth = len(v.Value)
			}
		}
		if valueWidth > 30 {
			valueWidth = 30
		}
		if valueWidth < minColumnWidth {
			valueWidth = minColumnWidth
		}
		for _, v := range p.TopValues {
			b.WriteString(fmt.Sprintf("  %s %d\n", pad(v.Value, valueWidth), v.Count))
		}
	}

	b.WriteString("\n")
	b.WriteString(inputHelpStyle.Render("Esc: close"))
	return statsBoxStyle.Width(width).Render(b.String())
}

// renderBuckets draws the numeric distribution as horizontal bars, the
// longest bar scaled to the available width.
func renderBuckets(p *stats.Profile, width int) string {
	if len(p.Buckets) == 0 {
		return ""
	}
	labels := make([]string, len(p.Buckets))
	labelWidth, maxCount := 0, 0
	for i, bk := range p.Buckets {
		labels[i] = bucketLabel(bk)
		if len(labels[i]) > labelWidth {
			labelWidth = len(labels[i])
		}
		if bk.Count > maxCount {
			maxCount = bk.Count
		}
	}

	barSpace := width - labelWidth - 10
	if barSpace < 10 {
		barSpace = 10
	}
	var b strings.Builder
	for i, bk := range p.Buckets {
		bar := 0
		if maxCount > 0 {
			bar = bk.Count * barSpace / maxCount
		}
		if bar == 0 && bk.Count > 0 {
			bar = 1
		}
		b.WriteString(fmt.Sprintf("  %s %s %d\n",
			pad(labels[i], labelWidth),
			statsBarStyle.Render(strings.Repeat("█", bar)),
			bk.Count))
	}
	return b.String()
}

func bucketLabel(bk stats.Bucket) string {
	if bk.Width == 0 {
		return num(bk.Start)
	}
	return num(bk.Start) + ".." + num(bk.Start+bk.Width)
}

func num(v float64) string {
	return fmt.Sprintf("%.4g", v)
}
