package notifier

import (
	"fmt"
	"html"
	"strings"

	"Cryptalyst/internal/alert"
	"Cryptalyst/internal/model"
)

var actionEmoji = map[model.Action]string{
	model.ActionBuy:  "🟢",
	model.ActionSell: "🔴",
	model.ActionHold: "🟡",
}

// FormatAnalysisReport formats an analysis report into a Telegram message.
func FormatAnalysisReport(rep *model.AnalysisReport) string {
	var b strings.Builder
	md := rep.Metadata
	rec := rep.Recommendation

	b.WriteString(fmt.Sprintf("📊 <b>%s (%s)</b> | %s\n\n",
		html.EscapeString(md.AssetName), html.EscapeString(md.AssetSymbol), md.GeneratedAt.Format("2006-01-02 15:04")))

	b.WriteString(fmt.Sprintf("%s <b>%s</b> (confidence %.0f%%, score %.1f)\n",
		actionEmoji[rec.Action], rec.Action, rec.Confidence, rec.OverallScore))
	b.WriteString(fmt.Sprintf("Risk: %s (%d)\n\n", rep.Risk.Level, rep.Risk.Score))

	b.WriteString(fmt.Sprintf("Sentiment: %s %.0f (%d articles)\n",
		rep.Sentiment.Sentiment, rep.Sentiment.Score, rep.Sentiment.NewsCount))
	b.WriteString(fmt.Sprintf("Technical: %s %.0f\n", rep.Technical.Trend, rep.Technical.Score))
	for _, s := range rep.Technical.Signals {
		b.WriteString(fmt.Sprintf("  • %s: %s (%.2f)\n", s.Indicator, s.Signal, s.Value))
	}

	pt := rep.PriceTargets
	b.WriteString("\n🎯 <b>Levels</b>\n")
	b.WriteString(fmt.Sprintf("  Price: %.2f | Target: %.2f\n", pt.CurrentPrice, pt.TargetPrice))
	b.WriteString(fmt.Sprintf("  R1 %.2f / R2 %.2f\n", pt.Resistance1, pt.Resistance2))
	b.WriteString(fmt.Sprintf("  S1 %.2f / S2 %.2f\n", pt.Support1, pt.Support2))

	if len(rec.Reasoning) > 0 {
		b.WriteString("\n💡 <b>Reasoning</b>\n")
		for _, r := range rec.Reasoning {
			b.WriteString("  • " + html.EscapeString(r) + "\n")
		}
	}
	if len(rep.Insights) > 0 {
		b.WriteString("\n🔎 <b>Insights</b>\n")
		for _, in := range rep.Insights {
			b.WriteString("  • " + html.EscapeString(in) + "\n")
		}
	}

	b.WriteString("\n" + html.EscapeString(rep.Summary) + "\n")
	b.WriteString("<i>" + html.EscapeString(md.Disclaimer) + "</i>")
	return b.String()
}

// FormatAlertTriggered formats a fired price alert.
func FormatAlertTriggered(a alert.Alert, price float64) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔔 <b>%s alert</b>\n", html.EscapeString(a.Symbol)))
	b.WriteString(fmt.Sprintf("Price %.2f is %s target %.2f\n", price, a.Condition, a.Target))
	if a.Note != "" {
		b.WriteString("Note: " + html.EscapeString(a.Note) + "\n")
	}
	return b.String()
}

// FormatAlertList formats the alert book for display.
func FormatAlertList(alerts []alert.Alert) string {
	if len(alerts) == 0 {
		return "No alerts configured."
	}
	var b strings.Builder
	b.WriteString("🔔 <b>Alerts</b>\n\n")
	for _, a := range alerts {
		status := "active"
		if !a.Active {
			status = "triggered"
			if a.TriggeredAt != nil {
				status += " " + a.TriggeredAt.Format("2006-01-02 15:04")
			}
		}
		b.WriteString(fmt.Sprintf("%s %s %.2f [%s] %s\n",
			html.EscapeString(a.Symbol), a.Condition, a.Target, status, a.ID[:min(8, len(a.ID))]))
	}
	return b.String()
}

// HelpText lists the bot commands.
const HelpText = `<b>Cryptalyst commands</b>
/analyze SYMBOL - run an analysis now
/alerts - list price alerts
/help - show this message`
