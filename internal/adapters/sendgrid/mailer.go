package sendgrid

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/rest"
	sg "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"valley_travel/internal/domain"
)

type sender interface {
	SendWithContext(ctx context.Context, m *mail.SGMailV3) (*rest.Response, error)
}

type Config struct {
	APIKey            string
	FromEmail         string
	FromName          string
	VerifyTemplateID  string
	BookingTemplateID string
}

// Mailer sends partner verification and booking emails. Dynamic templates are
// used when their ids are configured, plain text+HTML otherwise.
type Mailer struct {
	cfg    Config
	client sender
}

func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg, client: sg.NewSendClient(cfg.APIKey)}
}

var _ domain.Mailer = (*Mailer)(nil)

func (m *Mailer) SendVerification(ctx context.Context, to, name, link string) error {
	return m.send(ctx, verificationMessage(m.cfg, to, name, link))
}

func (m *Mailer) SendBookingUpdate(ctx context.Context, to, name string, params map[string]string) error {
	return m.send(ctx, bookingMessage(m.cfg, to, name, params))
}

func (m *Mailer) send(ctx context.Context, msg *mail.SGMailV3) error {
	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func verificationMessage(cfg Config, to, name, link string) *mail.SGMailV3 {
	data := map[string]string{"owner_name": name, "verification_link": link}
	if cfg.VerifyTemplateID != "" {
		return templateMessage(cfg, cfg.VerifyTemplateID, to, name, data)
	}
	subject := "Verify your Valley Travel partner account"
	text := fmt.Sprintf("Hello %s,\n\nThanks for registering your hotel. Verify your email to continue:\n%s\n", name, link)
	body := fmt.Sprintf(`<p>Hello %s,</p><p>Thanks for registering your hotel. Verify your email to continue:</p><p><a href="%s">Verify email</a></p>`,
		html.EscapeString(name), html.EscapeString(link))
	return mail.NewSingleEmail(mail.NewEmail(cfg.FromName, cfg.FromEmail), subject, mail.NewEmail(name, to), text, body)
}

func bookingMessage(cfg Config, to, name string, params map[string]string) *mail.SGMailV3 {
	if cfg.BookingTemplateID != "" {
		return templateMessage(cfg, cfg.BookingTemplateID, to, name, params)
	}
	subject := "Your booking update"
	switch params["payment_status"] {
	case string(domain.BookingPaid):
		subject = "Booking confirmed: " + params["package_name"]
	case string(domain.BookingPaymentFailed):
		subject = "Payment failed for your booking"
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var text, rows strings.Builder
	fmt.Fprintf(&text, "Hello %s,\n\n", name)
	for _, k := range keys {
		fmt.Fprintf(&text, "%s: %s\n", k, params[k])
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%s</td></tr>", html.EscapeString(k), html.EscapeString(params[k]))
	}
	body := fmt.Sprintf("<p>Hello %s,</p><table>%s</table>", html.EscapeString(name), rows.String())
	return mail.NewSingleEmail(mail.NewEmail(cfg.FromName, cfg.FromEmail), subject, mail.NewEmail(name, to), text.String(), body)
}

func templateMessage(cfg Config, templateID, to, name string, data map[string]string) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(mail.NewEmail(cfg.FromName, cfg.FromEmail))
	m.SetTemplateID(templateID)
	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail(name, to))
	for k, v := range data {
		p.SetDynamicTemplateData(k, v)
	}
	m.AddPersonalizations(p)
	return m
}

// LogMailer stands in when no API key is configured.
type LogMailer struct{}

func (LogMailer) SendVerification(ctx context.Context, to, name, link string) error {
	log.Warn().Str("to", to).Str("link", link).Msg("email disabled: verification not sent")
	return nil
}

func (LogMailer) SendBookingUpdate(ctx context.Context, to, name string, params map[string]string) error {
	log.Warn().Str("to", to).Str("booking_id", params["booking_id"]).Msg("email disabled: booking update not sent")
	return nil
}
