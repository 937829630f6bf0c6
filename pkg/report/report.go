// Package report renders projections as terminal tables.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"revforecast-api/internal/models"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	numberStyle  = cellStyle.Align(lipgloss.Right)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

var headers = []string{
	"Year", "Custom %", "Custom", "Product", "Revenue", "Profit",
	"Margin %", "Break-even", "Shortfall", "Volume x", "Cum. revenue",
}

// Currency rounds to whole currency units and groups thousands.
func Currency(v float64) string {
	d := decimal.NewFromFloat(v).Round(0)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	return sign + groupThousands(d.StringFixed(0))
}

// Units formats a unit count with one decimal place.
func Units(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1)
}

// Percent formats a 0-100 value with one decimal place.
func Percent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1)
}

// Multiplier formats a volume multiplier with two decimal places.
func Multiplier(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "x"
}

// Table renders one row per projected year.
func Table(p *models.Projection) string {
	rows := make([][]string, 0, len(p.Rows))
	for _, r := range p.Rows {
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.Year),
			Percent(r.CustomMixPct),
			Units(r.CustomUnits),
			Units(r.ProductUnits),
			Currency(r.Revenue),
			Currency(r.Profit),
			Percent(r.MarginPct),
			Units(r.BreakEvenUnits),
			Currency(r.Shortfall),
			Multiplier(r.RequiredVolumeMultiplier),
			Currency(r.CumulativeRevenue),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		BorderHeader(true).
		BorderRow(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})

	return t.Render()
}

// Warnings lists warnings one per line, or returns "" when there are none.
func Warnings(p *models.Projection) string {
	if len(p.Warnings) == 0 {
		return ""
	}

	var b strings.Builder
	for _, w := range p.Warnings {
		b.WriteString(warningStyle.Render(fmt.Sprintf("year %d: %s", w.Year, w.Kind)))
		b.WriteString(" ")
		b.WriteString(describe(w))
		b.WriteString("\n")
	}
	return b.String()
}

func describe(w models.Warning) string {
	d := w.Detail
	switch w.Kind {
	case models.WarningCapacityExceeded:
		return fmt.Sprintf("requested %s units, capacity %s", Units(d.RequestedUnits), Units(d.CapacityUnits))
	case models.WarningNonPositiveMargin:
		return fmt.Sprintf("%s unit margin %s", d.Stream, Currency(d.UnitMargin))
	case models.WarningProfitShortfall:
		s := fmt.Sprintf("profit %s below baseline %s by %s", Currency(d.Profit), Currency(d.BaselineProfit), Currency(d.Shortfall))
		if d.Reason != "" {
			s += " (" + d.Reason + ")"
		}
		return s
	}
	return ""
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
