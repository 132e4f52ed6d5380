package sender

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var summaryTemplate = template.Must(template.ParseFS(templateFS, "templates/order_summary.html"))

// SummaryLine is one order in a restaurant summary e-mail.
type SummaryLine struct {
	CustomerName string
	Items        []string
	OrderText    string
	Notes        string
	Total        string
}

// OrderSummary is the data rendered into a restaurant summary e-mail.
type OrderSummary struct {
	RestaurantName string
	Date           string
	Orders         []SummaryLine
	OrderCount     int
	TotalAmount    string
}

// RenderOrderSummary renders the summary subject and HTML body.
func RenderOrderSummary(summary OrderSummary) (string, string, error) {
	var buf bytes.Buffer
	if err := summaryTemplate.Execute(&buf, summary); err != nil {
		return "", "", fmt.Errorf("render order summary: %w", err)
	}
	subject := fmt.Sprintf("Orders for %s - %s", summary.Date, summary.RestaurantName)
	return subject, buf.String(), nil
}
