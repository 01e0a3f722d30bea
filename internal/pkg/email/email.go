package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"
	"mime"
	"net/mail"
	"net/smtp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/klauspost/lctime"
	"github.com/rs/zerolog"
)

// Recipient identifies the member a notification is addressed to
type Recipient struct {
	Email     string
	FirstName string
	LastName  string
}

// FullName returns "First Last".
func (r Recipient) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// Notifier sends the membership decision emails
type Notifier interface {
	SendApprovalEmail(ctx context.Context, to Recipient) error
	SendRejectionEmail(ctx context.Context, to Recipient, reason string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
	SiteName  string
	SiteURL   string
	Locale    string
	// MaxTries bounds delivery attempts for one message
	MaxTries int
}

type sendFunc func(ctx context.Context, to string, message []byte) error

// SMTPNotifier implements Notifier over SMTP
type SMTPNotifier struct {
	config SMTPConfig
	logger zerolog.Logger
	send   sendFunc
	now    func() time.Time
	delay  time.Duration
}

// NewSMTPNotifier creates a new SMTP notifier
func NewSMTPNotifier(config SMTPConfig, logger zerolog.Logger) *SMTPNotifier {
	if config.MaxTries <= 0 {
		config.MaxTries = 3
	}
	if config.Locale == "" {
		config.Locale = "fr_FR"
	}
	n := &SMTPNotifier{
		config: config,
		logger: logger,
		now:    time.Now,
		delay:  200 * time.Millisecond,
	}
	n.send = n.sendSMTP
	return n
}

// SendApprovalEmail tells a member their account was validated
func (n *SMTPNotifier) SendApprovalEmail(ctx context.Context, to Recipient) error {
	subject := fmt.Sprintf("Your %s account has been validated", n.config.SiteName)
	body := fmt.Sprintf(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">Welcome to %s!</h2>
		<p>Hello %s,</p>
		<p>Your membership request was validated on %s. You can now log in and register for our events.</p>
		<div style="text-align: center; margin: 30px 0;">
			<a href="%s" style="background-color: #c0392b; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Log in</a>
		</div>
		<p>See you soon,<br>The %s team</p>
	</div>
</body>
</html>`,
		html.EscapeString(n.config.SiteName),
		html.EscapeString(to.FirstName),
		n.decisionDate(),
		html.EscapeString(n.config.SiteURL),
		html.EscapeString(n.config.SiteName),
	)

	return n.deliver(ctx, to, subject, body)
}

// SendRejectionEmail tells a member their request was declined, quoting the reason
func (n *SMTPNotifier) SendRejectionEmail(ctx context.Context, to Recipient, reason string) error {
	subject := fmt.Sprintf("Your %s membership request", n.config.SiteName)
	body := fmt.Sprintf(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">Membership request</h2>
		<p>Hello %s,</p>
		<p>We are sorry to let you know that your membership request was declined on %s.</p>
		<p><strong>Reason:</strong></p>
		<blockquote style="border-left: 3px solid #ccc; padding-left: 12px;">%s</blockquote>
		<p>Feel free to contact us for more information.</p>
		<p>Best regards,<br>The %s team</p>
	</div>
</body>
</html>`,
		html.EscapeString(to.FirstName),
		n.decisionDate(),
		strings.ReplaceAll(html.EscapeString(reason), "\n", "<br>"),
		html.EscapeString(n.config.SiteName),
	)

	return n.deliver(ctx, to, subject, body)
}

// decisionDate renders today in the configured locale, e.g. "mardi 14 octobre 2025".
func (n *SMTPNotifier) decisionDate() string {
	now := n.now()
	s, err := lctime.StrftimeLoc(n.config.Locale, "%A %d %B %Y", now)
	if err != nil {
		return now.Format("02/01/2006")
	}
	return s
}

func (n *SMTPNotifier) deliver(ctx context.Context, to Recipient, subject, body string) error {
	// Without credentials, log instead of sending (development)
	if n.config.Username == "" || n.config.Password == "" {
		n.logger.Warn().
			Str("toEmail", to.Email).
			Str("subject", subject).
			Msg("SMTP credentials not configured - email not sent.")
		return nil
	}

	message := n.buildMessage(to, subject, body)

	retrier := retry.NewRetrier(n.config.MaxTries, n.delay, 5*n.delay)
	err := retrier.Run(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return n.send(ctx, to.Email, message)
	})
	if err != nil {
		n.logger.Error().Err(err).Str("toEmail", to.Email).Str("subject", subject).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.Info().Str("toEmail", to.Email).Str("subject", subject).Msg("Email sent")
	return nil
}

// buildMessage RFC 2047-encodes display names and the subject, so no header
// value can carry a raw line break.
func (n *SMTPNotifier) buildMessage(to Recipient, subject, body string) []byte {
	from := mail.Address{Name: n.config.FromName, Address: n.config.FromEmail}
	rcpt := mail.Address{Name: to.FullName(), Address: to.Email}
	headers := map[string]string{
		"From":         from.String(),
		"To":           rcpt.String(),
		"Subject":      mime.QEncoding.Encode("utf-8", subject),
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, headers[k])
	}
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// sendSMTP delivers one message, over implicit TLS when configured
func (n *SMTPNotifier) sendSMTP(_ context.Context, to string, message []byte) error {
	auth := smtp.PlainAuth("", n.config.Username, n.config.Password, n.config.Host)
	serverAddress := n.config.Host + ":" + strconv.Itoa(n.config.Port)

	if !n.config.UseTLS {
		return smtp.SendMail(serverAddress, auth, n.config.FromEmail, []string{to}, message)
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: n.config.Host})
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, n.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(n.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	return w.Close()
}
