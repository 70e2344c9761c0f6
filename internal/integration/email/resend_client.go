// Package email delivers alert digests via Resend.
package email

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/storeledger/backend/internal/domain/entity"
)

// ResendNotifier implements the adapter.AlertNotifier interface using Resend.
type ResendNotifier struct {
	client    *resend.Client
	fromName  string
	fromEmail string
	toEmail   string
}

// NewResendNotifier creates a new Resend notifier.
func NewResendNotifier(apiKey, fromName, fromEmail, toEmail string) *ResendNotifier {
	return &ResendNotifier{
		client:    resend.NewClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
		toEmail:   toEmail,
	}
}

// SendDigest sends the triggered alerts for a period as one email.
func (c *ResendNotifier) SendDigest(ctx context.Context, periodLabel string, alerts []entity.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	html, err := renderDigest(periodLabel, alerts)
	if err != nil {
		return fmt.Errorf("failed to render alert digest: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{c.toEmail},
		Subject: fmt.Sprintf("Store alerts for %s", periodLabel),
		Html:    html,
		Text:    renderDigestText(periodLabel, alerts),
	}

	if _, err := c.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send alert digest: %w", err)
	}
	return nil
}

var digestTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Store alerts for {{.Period}}</h2>
  <table cellpadding="8" cellspacing="0" border="0">
    {{range .Alerts}}
    <tr>
      <td style="color: {{.Color}}; font-weight: bold; text-transform: uppercase;">{{.Severity}}</td>
      <td>
        <div>{{.Message}}</div>
        <div style="color: #666; font-size: 13px;">{{.Recommendation}}</div>
      </td>
    </tr>
    {{end}}
  </table>
</body>
</html>`))

type digestRow struct {
	Severity       entity.AlertSeverity
	Color          string
	Message        string
	Recommendation string
}

func renderDigest(periodLabel string, alerts []entity.Alert) (string, error) {
	rows := make([]digestRow, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, digestRow{
			Severity:       a.Severity,
			Color:          severityColor(a.Severity),
			Message:        a.Message,
			Recommendation: a.Recommendation,
		})
	}

	var sb strings.Builder
	err := digestTemplate.Execute(&sb, struct {
		Period string
		Alerts []digestRow
	}{Period: periodLabel, Alerts: rows})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

func renderDigestText(periodLabel string, alerts []entity.Alert) string {
	var sb strings.Builder
	sb.WriteString("Store alerts for " + periodLabel + "\n\n")
	for _, a := range alerts {
		sb.WriteString(fmt.Sprintf("[%s] %s\n  %s\n", strings.ToUpper(string(a.Severity)), a.Message, a.Recommendation))
	}
	return sb.String()
}

func severityColor(severity entity.AlertSeverity) string {
	switch severity {
	case entity.AlertCritical:
		return "#c0392b"
	case entity.AlertWarning:
		return "#d68910"
	case entity.AlertSuccess:
		return "#1e8449"
	default:
		return "#333333"
	}
}
