package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// Sender delivers transactional mail. Without SMTP credentials it logs the
// message instead of sending, so development setups work out of the box.
type Sender struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewSender creates a new Sender
func NewSender(config SMTPConfig, logger zerolog.Logger) *Sender {
	return &Sender{
		config: config,
		logger: logger,
	}
}

// FeeReminder sends an unpaid-fee notice to a student
func (s *Sender) FeeReminder(ctx context.Context, toEmail, toName string, amount float64, dueDate time.Time) error {
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Float64("amount", amount).
			Time("dueDate", dueDate).
			Msg("SMTP credentials not configured - fee reminder not sent")
		return nil
	}

	subject := "Hostel Fee Payment Reminder"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Fee Payment Reminder</h2>
				<p>Hello %s,</p>
				<p>This is a reminder that a hostel fee of <strong>%.2f</strong> is due on <strong>%s</strong>.</p>
				<p>Please arrange payment at the hostel office at your earliest convenience.</p>
				<p>If you have already paid, kindly disregard this message.</p>
				<p>Best regards,<br>Hostel Administration</p>
			</div>
		</body>
		</html>
	`, toName, amount, dueDate.Format("02 Jan 2006"))

	return s.sendHTMLEmail(ctx, toEmail, subject, body)
}

func (s *Sender) sendHTMLEmail(ctx context.Context, toEmail, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth(
		"",
		s.config.Username,
		s.config.Password,
		s.config.Host,
	)

	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	headers["To"] = toEmail
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + htmlBody

	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)
	if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, []byte(message)); err != nil {
		s.logger.Error().Err(err).Str("server", serverAddress).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Debug().Str("toEmail", toEmail).Str("subject", subject).Msg("Email sent")
	return nil
}
