package reporting

import (
	"fmt"
	"strings"

	"github.com/directpulse/direct-pulse-api/internal/domain"
)

// Summary monta o corpo em Markdown enviado pelo Telegram: bloco de totais
// mais a campanha de maior custo
func Summary(title string, data *domain.ReportData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*%s*\n", title)
	fmt.Fprintf(&b, "_%s a %s_\n\n", data.DateFrom.Format("02/01/2006"), data.DateTo.Format("02/01/2006"))

	fmt.Fprintf(&b, "Impressões: %d\n", data.Totals.Impressions)
	fmt.Fprintf(&b, "Cliques: %d\n", data.Totals.Clicks)
	fmt.Fprintf(&b, "Custo: %.2f ₽\n", data.Totals.Cost)
	fmt.Fprintf(&b, "CTR: %.2f%%\n", data.Totals.Ctr)

	if data.Totals.Conversions != nil {
		fmt.Fprintf(&b, "Conversões: %d\n", *data.Totals.Conversions)
	}
	if data.Totals.ConversionRate != nil {
		fmt.Fprintf(&b, "Taxa de conversão: %.2f%%\n", *data.Totals.ConversionRate)
	}
	if data.Totals.CostPerConversion != nil {
		fmt.Fprintf(&b, "Custo por conversão: %.2f ₽\n", *data.Totals.CostPerConversion)
	}

	if len(data.TopCampaigns.ByCost) > 0 {
		top := data.TopCampaigns.ByCost[0]
		fmt.Fprintf(&b, "\nMaior custo: %s (%.2f ₽)\n", top.CampaignName, top.Cost)
	}

	return b.String()
}
