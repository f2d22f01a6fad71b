// expenses.go - Monthly expense report: aggregate scanned invoices by
// category and optionally mail the summary to the restaurant's accountant.

package reports

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/mitbach-app/invoice_ocr_backend/configs"
	"github.com/mitbach-app/invoice_ocr_backend/internal/invoice"
	"github.com/mitbach-app/invoice_ocr_backend/internal/storage"
)

// CategoryTotal is one aggregated expense bucket.
type CategoryTotal struct {
	Category invoice.Category `json:"category"`
	Total    float64          `json:"total"`
	Count    int              `json:"count"`
}

// ExpenseReport is one month of spending, broken down by category.
type ExpenseReport struct {
	Month      string          `json:"month"`
	Categories []CategoryTotal `json:"categories"`
	GrandTotal float64         `json:"grandTotal"`
	Invoices   int             `json:"invoices"`
}

// BuildMonthly aggregates the user's invoices for the given month. month is
// "YYYY-MM"; an empty month means the current one.
func BuildMonthly(userID, month string) (*ExpenseReport, error) {
	from, to, label, err := monthRange(month)
	if err != nil {
		return nil, err
	}

	records, err := storage.InvoicesInRange(userID, from, to)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[invoice.Category]*CategoryTotal)
	report := &ExpenseReport{Month: label, Invoices: len(records)}
	for _, rec := range records {
		bucket, ok := byCategory[rec.Category]
		if !ok {
			bucket = &CategoryTotal{Category: rec.Category}
			byCategory[rec.Category] = bucket
		}
		bucket.Total += rec.Total
		bucket.Count++
		report.GrandTotal += rec.Total
	}

	report.Categories = make([]CategoryTotal, 0, len(byCategory))
	for _, bucket := range byCategory {
		report.Categories = append(report.Categories, *bucket)
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		return report.Categories[i].Total > report.Categories[j].Total
	})
	return report, nil
}

// SendToAccountant emails the report to the configured accountant address
// via Resend. Returns the provider message ID.
func SendToAccountant(report *ExpenseReport) (string, error) {
	if configs.RESEND_API_KEY == "" {
		return "", fmt.Errorf("RESEND_API_KEY is not configured")
	}
	if configs.ACCOUNTANT_EMAIL == "" {
		return "", fmt.Errorf("ACCOUNTANT_EMAIL is not configured")
	}

	client := resend.NewClient(configs.RESEND_API_KEY)
	sent, err := client.Emails.Send(&resend.SendEmailRequest{
		From:    configs.REPORT_FROM_EMAIL,
		To:      []string{configs.ACCOUNTANT_EMAIL},
		Subject: fmt.Sprintf("דוח הוצאות חודשי - %s", report.Month),
		Html:    renderHTML(report),
	})
	if err != nil {
		return "", fmt.Errorf("failed to send report email: %w", err)
	}
	return sent.Id, nil
}

// renderHTML produces a simple RTL table the accountant can read in any
// mail client.
func renderHTML(report *ExpenseReport) string {
	var b strings.Builder
	b.WriteString(`<div dir="rtl" style="font-family: Arial, sans-serif;">`)
	fmt.Fprintf(&b, "<h2>דוח הוצאות %s</h2>", report.Month)
	fmt.Fprintf(&b, "<p>סה\"כ %d חשבוניות</p>", report.Invoices)
	b.WriteString(`<table border="1" cellpadding="6" cellspacing="0">`)
	b.WriteString("<tr><th>קטגוריה</th><th>חשבוניות</th><th>סכום</th></tr>")
	for _, c := range report.Categories {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>₪%.2f</td></tr>", c.Category, c.Count, c.Total)
	}
	fmt.Fprintf(&b, "<tr><td><b>סה\"כ</b></td><td>%d</td><td><b>₪%.2f</b></td></tr>", report.Invoices, report.GrandTotal)
	b.WriteString("</table></div>")
	return b.String()
}

// monthRange resolves "YYYY-MM" to its [start, next-month) window.
func monthRange(month string) (time.Time, time.Time, string, error) {
	var start time.Time
	if month == "" {
		now := time.Now()
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	} else {
		parsed, err := time.ParseInLocation("2006-01", month, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, "", fmt.Errorf("invalid month %q, expected YYYY-MM", month)
		}
		start = parsed
	}
	return start, start.AddDate(0, 1, 0), start.Format("2006-01"), nil
}
