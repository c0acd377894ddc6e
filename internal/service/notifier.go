package service

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"
	"time"

	mail "github.com/go-mail/mail/v2"
	"github.com/sirupsen/logrus"

	"github.com/ziggy-data/investimento/internal/model"
)

// Notifier отправляет служебные уведомления по SMTP. Используется
// конвейером персистентности для оповещения о проглоченных сбоях
// записи; никогда не влияет на путь обработки запроса.
type Notifier struct {
	dialer   *mail.Dialer
	logger   *logrus.Logger
	enabled  bool
	opsEmail string
}

func NewNotifier(logger *logrus.Logger) *Notifier {
	enabled := os.Getenv("ALERTS_ENABLED") == "true"
	if !enabled {
		return &Notifier{logger: logger, enabled: false}
	}

	smtpHost := os.Getenv("SMTP_HOST")
	smtpPortStr := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	opsEmail := os.Getenv("OPS_EMAIL")
	isInsecureSkipVerify := os.Getenv("INSECURE_SKIP_VERIFY") == "true"

	// Преобразуем smtpPort в int
	smtpPort, err := strconv.Atoi(smtpPortStr)
	if err != nil {
		logger.Fatalf("Ошибка преобразования SMTP_PORT: %v", err)
	}

	d := mail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	d.TLSConfig = &tls.Config{
		ServerName:         smtpHost,
		InsecureSkipVerify: isInsecureSkipVerify,
	}

	return &Notifier{
		dialer:   d,
		logger:   logger,
		enabled:  true,
		opsEmail: opsEmail,
	}
}

// SendPersistFailureAlert отправляет оповещение о сбое фоновой записи
// симуляции. Сбой записи уже проглочен конвейером; это только сигнал
// для дежурных.
func (n *Notifier) SendPersistFailureAlert(simulacao *model.Simulation, cause error) error {
	if !n.enabled {
		n.logger.Debug("Отправка уведомлений отключена")
		return nil
	}

	subject := "Сбой сохранения симуляции"
	content := fmt.Sprintf(`
		<h1>Сбой фоновой записи симуляции</h1>
		<p>Симуляция: <strong>%s</strong></p>
		<p>Клиент: <strong>%d</strong></p>
		<p>Сумма: <strong>%s</strong></p>
		<p>Причина: <strong>%s</strong></p>
		<p>Дата: <strong>%s</strong></p>
		<small>Это автоматическое уведомление, пожалуйста, не отвечайте на него</small>
	`, simulacao.ID, simulacao.ClienteID, simulacao.ValorInvestido.StringFixed(2), cause, time.Now().Format("02.01.2006 15:04"))

	return n.sendEmail(n.opsEmail, subject, content)
}

func (n *Notifier) sendEmail(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_USER"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := n.dialer.DialAndSend(m); err != nil {
		n.logger.WithError(err).Error("Ошибка отправки email")
		return fmt.Errorf("не удалось отправить email: %w", err)
	}

	n.logger.Infof("Email успешно отправлен на %s", to)
	return nil
}
