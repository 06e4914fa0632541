package notify

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mamadbah2/perfdash/internal/domain/models"
	"github.com/mamadbah2/perfdash/pkg/clients/slack"
)

var printer = message.NewPrinter(language.English)

// Money renders an amount as "$1,234.56", with a leading minus for negatives.
func Money(d decimal.Decimal) string {
	f := d.Round(2).InexactFloat64()
	if f < 0 {
		return printer.Sprintf("-$%.2f", -f)
	}
	return printer.Sprintf("$%.2f", f)
}

func change(pct float64) string {
	switch {
	case pct > 0:
		return fmt.Sprintf("▲ %.1f%%", pct)
	case pct < 0:
		return fmt.Sprintf("▼ %.1f%%", -pct)
	}
	return "no change"
}

// FormatSummary builds the Slack message for a daily KPI summary.
func FormatSummary(s models.DailySummary) slack.Message {
	title := fmt.Sprintf("Daily performance for %s", s.Date.Key())
	t := s.Totals

	var text strings.Builder
	fmt.Fprintf(&text, "%s\n", title)
	fmt.Fprintf(&text, "Spend %s (%s), Revenue %s (%s), Margin %s (%s), ROI %.2f%%\n",
		Money(t.Spend), change(s.SpendChange),
		Money(t.Revenue), change(s.RevenueChange),
		Money(t.Margin), change(s.MarginChange),
		t.ROI)
	fmt.Fprintf(&text, "Cash balance %s", Money(s.CurrentBalance))

	blocks := []slack.Block{
		slack.Header(title),
		slack.Fields(
			fmt.Sprintf("*Spend*\n%s (%s)", Money(t.Spend), change(s.SpendChange)),
			fmt.Sprintf("*Revenue*\n%s (%s)", Money(t.Revenue), change(s.RevenueChange)),
			fmt.Sprintf("*Margin*\n%s (%s)", Money(t.Margin), change(s.MarginChange)),
			fmt.Sprintf("*ROI*\n%.2f%%", t.ROI),
			fmt.Sprintf("*Cash balance*\n%s", Money(s.CurrentBalance)),
		),
	}

	if len(s.TopNetworks) > 0 {
		var lines strings.Builder
		lines.WriteString("*Top networks by margin*")
		for i, n := range s.TopNetworks {
			fmt.Fprintf(&lines, "\n%d. %s: %s margin on %s spend (ROI %.2f%%)", i+1, n.Key, Money(n.Margin), Money(n.Spend), n.ROI)
		}
		blocks = append(blocks, slack.Divider(), slack.Section(lines.String()))
	}

	if len(s.Warnings) > 0 {
		blocks = append(blocks, slack.Section(":warning: "+strings.Join(s.Warnings, "\n:warning: ")))
	}

	return slack.Message{Text: text.String(), Blocks: blocks}
}
