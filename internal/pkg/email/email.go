package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/aliounendiaye221/J-ngatub-sub000/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// SendVerificationCode sends the registration verification code.
func (s *Service) SendVerificationCode(to, code string) error {
	subject := "Code de vérification - Jàngatub"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #16a34a;">Vérification de votre adresse email</h2>
        <p>Bonjour,</p>
        <p>Vous créez un compte sur Jàngatub. Votre code de vérification&nbsp;:</p>
        <div style="background-color: #f3f4f6; padding: 15px; text-align: center; font-size: 24px; font-weight: bold; letter-spacing: 5px; margin: 20px 0;">
            %s
        </div>
        <p>Ce code est valable 24 heures.</p>
        <p>Si vous n'êtes pas à l'origine de cette demande, ignorez simplement ce message.</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">Message automatique, merci de ne pas répondre.</p>
    </div>
</body>
</html>
`, code)

	return s.sendHTML(to, subject, body)
}

// SendPremiumConfirmation confirms a premium activation after a successful
// Wave payment.
func (s *Service) SendPremiumConfirmation(to, plan, endAt string) error {
	subject := "Votre abonnement premium est actif - Jàngatub"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #16a34a;">Paiement confirmé</h2>
        <p>Bonjour,</p>
        <p>Votre paiement Wave a bien été reçu. Votre abonnement <strong>%s</strong> est actif jusqu'au <strong>%s</strong>.</p>
        <p>Bonnes révisions&nbsp;!</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">Message automatique, merci de ne pas répondre.</p>
    </div>
</body>
</html>
`, plan, endAt)

	return s.sendHTML(to, subject, body)
}

func (s *Service) sendHTML(to, subject, body string) error {
	if s.cfg.SMTPHost == "" {
		return fmt.Errorf("SMTP not configured")
	}

	headers := []string{
		fmt.Sprintf("From: %s", s.cfg.From),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	}

	msg := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg))
}
