package service

import (
	"context"
	"fmt"
	"strings"

	"appliance-rental-backend/internal/config"
	"appliance-rental-backend/internal/domain"
	"appliance-rental-backend/internal/logger"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gopkg.in/gomail.v2"
)

// Mailer delivers one plain-text message.
type Mailer interface {
	Send(ctx context.Context, toEmail, toName, subject, body string) error
}

// NewMailer builds the provider selected in config.
func NewMailer(cfg config.EmailConfig) (Mailer, error) {
	switch cfg.Provider {
	case "smtp":
		return NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.From, cfg.FromName), nil
	case "sendgrid":
		return NewSendGridMailer(cfg.SendGridAPIKey, cfg.From, cfg.FromName), nil
	case "", "log":
		return NewLogMailer(), nil
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Provider)
	}
}

type smtpMailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTPMailer(host string, port int, username, password, from, fromName string) Mailer {
	return &smtpMailer{
		dialer:   gomail.NewDialer(host, port, username, password),
		from:     from,
		fromName: fromName,
	}
}

func (m *smtpMailer) Send(ctx context.Context, toEmail, toName, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.fromName)
	msg.SetAddressHeader("To", toEmail, toName)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	logger.ExternalServiceCall("smtp", "DialAndSend", "to", toEmail)
	err := m.dialer.DialAndSend(msg)
	logger.ExternalServiceResult("smtp", "DialAndSend", err, "to", toEmail)
	if err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	return nil
}

type sendGridMailer struct {
	send     func(*mail.SGMailV3) (*rest.Response, error)
	from     string
	fromName string
}

func NewSendGridMailer(apiKey, from, fromName string) Mailer {
	client := sendgrid.NewSendClient(apiKey)
	return &sendGridMailer{
		send:     client.Send,
		from:     from,
		fromName: fromName,
	}
}

func (m *sendGridMailer) Send(ctx context.Context, toEmail, toName, subject, body string) error {
	message := mail.NewSingleEmail(
		mail.NewEmail(m.fromName, m.from),
		subject,
		mail.NewEmail(toName, toEmail),
		body,
		"",
	)

	logger.ExternalServiceCall("sendgrid", "Send", "to", toEmail)
	response, err := m.send(message)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "Send", err, "to", toEmail)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type logMailer struct{}

// NewLogMailer returns a Mailer that only logs, for development setups.
func NewLogMailer() Mailer {
	return logMailer{}
}

func (logMailer) Send(ctx context.Context, toEmail, toName, subject, body string) error {
	logger.InfoContext(ctx, "Email (log provider)", "to", toEmail, "subject", subject, "body", body)
	return nil
}

type emailService struct {
	mailer Mailer
}

func NewEmailService(mailer Mailer) EmailService {
	return &emailService{mailer: mailer}
}

func (s *emailService) send(ctx context.Context, user *domain.User, subject string, lines ...string) error {
	body := fmt.Sprintf("Hello %s,\n\n%s\n\nBest regards,\nThe Appliance Rental Team", user.Name, strings.Join(lines, "\n"))
	return s.mailer.Send(ctx, user.Email, user.Name, subject, body)
}

func (s *emailService) SendRentalSubmitted(ctx context.Context, user *domain.User, appliance *domain.Appliance, rental *domain.RentalRequest) error {
	return s.send(ctx, user, fmt.Sprintf("Rental request received: %s", appliance.Name),
		fmt.Sprintf("We received your request to rent %s for %d months starting %s.",
			appliance.Name, rental.DurationMonths, rental.StartDate.Format(domain.DateLayout)),
		fmt.Sprintf("Monthly amount: %s, deposit: %s, total: %s.",
			rental.MonthlyAmount.StringFixed(2), rental.Deposit.StringFixed(2), rental.TotalAmount.StringFixed(2)),
		"We will let you know once it has been reviewed.")
}

func (s *emailService) SendRentalApproved(ctx context.Context, user *domain.User, appliance *domain.Appliance, rental *domain.RentalRequest) error {
	lines := []string{fmt.Sprintf("Your request to rent %s has been approved.", appliance.Name)}
	if rental.DeliveryAddress != nil {
		lines = append(lines, fmt.Sprintf("Delivery address: %s", *rental.DeliveryAddress))
	}
	if len(rental.Installments) > 0 {
		first := rental.Installments[0]
		lines = append(lines, fmt.Sprintf("Your first installment of %s is due on %s.",
			first.Amount.StringFixed(2), first.DueDate.Format(domain.DateLayout)))
	}
	return s.send(ctx, user, fmt.Sprintf("Rental approved: %s", appliance.Name), lines...)
}

func (s *emailService) SendRentalRejected(ctx context.Context, user *domain.User, appliance *domain.Appliance, reason string) error {
	return s.send(ctx, user, fmt.Sprintf("Rental request declined: %s", appliance.Name),
		fmt.Sprintf("Unfortunately your request to rent %s was declined.", appliance.Name),
		fmt.Sprintf("Reason: %s", reason))
}

func (s *emailService) SendRentalActivated(ctx context.Context, user *domain.User, appliance *domain.Appliance, rental *domain.RentalRequest) error {
	return s.send(ctx, user, fmt.Sprintf("Rental started: %s", appliance.Name),
		fmt.Sprintf("Your rental of %s is now active and runs until %s.", appliance.Name, rental.EndDate.Format(domain.DateLayout)))
}

func (s *emailService) SendRentalCompleted(ctx context.Context, user *domain.User, appliance *domain.Appliance) error {
	return s.send(ctx, user, fmt.Sprintf("Rental completed: %s", appliance.Name),
		fmt.Sprintf("Your rental of %s has been completed. Thank you for renting with us.", appliance.Name))
}

func (s *emailService) SendRentalCancelled(ctx context.Context, user *domain.User, appliance *domain.Appliance, reason string) error {
	lines := []string{
		fmt.Sprintf("Your rental of %s has been cancelled.", appliance.Name),
		"Any unpaid installments have been cancelled.",
	}
	if reason != "" {
		lines = append(lines, fmt.Sprintf("Reason: %s", reason))
	}
	return s.send(ctx, user, fmt.Sprintf("Rental cancelled: %s", appliance.Name), lines...)
}

func (s *emailService) SendPaymentReceipt(ctx context.Context, user *domain.User, appliance *domain.Appliance, installment *domain.Installment) error {
	paid := installment.Amount
	if installment.PaidAmount != nil {
		paid = *installment.PaidAmount
	}
	return s.send(ctx, user, fmt.Sprintf("Payment received: %s installment %d", appliance.Name, installment.Number),
		fmt.Sprintf("We recorded a payment of %s for installment %d of your %s rental.",
			paid.StringFixed(2), installment.Number, appliance.Name))
}

func (s *emailService) SendInstallmentReminder(ctx context.Context, user *domain.User, appliance *domain.Appliance, installment *domain.Installment) error {
	return s.send(ctx, user, fmt.Sprintf("Upcoming payment: %s installment %d", appliance.Name, installment.Number),
		fmt.Sprintf("Installment %d of %s for your %s rental is due on %s.",
			installment.Number, installment.Amount.StringFixed(2), appliance.Name, installment.DueDate.Format(domain.DateLayout)),
		fmt.Sprintf("Payment method on file: %s.", installment.PaymentMethod))
}
