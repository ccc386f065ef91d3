package mailer

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendTopupReceipt(toEmail string, amount decimal.Decimal, baseCredits, bonusCredits int, newBalance decimal.Decimal) error
	SendLowBalanceAlert(toEmail string, balance decimal.Decimal) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)
	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendTopupReceipt(toEmail string, amount decimal.Decimal, baseCredits, bonusCredits int, newBalance decimal.Decimal) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Payment Received")

	bonusLine := ""
	if bonusCredits > 0 {
		bonusLine = fmt.Sprintf("<p>Bonus credits: <b>+%d</b></p>", bonusCredits)
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Thanks for your top-up!</h2>
			<p>Amount paid: <b>Rs %s</b></p>
			<p>Credits added: <b>%d</b></p>
			%s
			<p>New wallet balance: <b>Rs %s</b></p>
		</div>
	`, amount.StringFixed(2), baseCredits, bonusLine, newBalance.StringFixed(2))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send topup receipt to %s: %w", toEmail, err)
	}
	return nil
}

func (s *emailService) SendLowBalanceAlert(toEmail string, balance decimal.Decimal) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your wallet balance is running low")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Low balance</h2>
			<p>Your wallet balance is down to <b>Rs %s</b>.</p>
			<p>Top up now to keep generating product photos without interruption.</p>
		</div>
	`, balance.StringFixed(2))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send low balance alert to %s: %w", toEmail, err)
	}
	return nil
}
