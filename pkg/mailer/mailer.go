package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"profiremanager/backend/config"
)

// Mailer SMTP 邮件发送封装
// 仅承担投递：欢迎邮件与替换通知邮件均在 goroutine 中调用，不阻塞业务流程
type Mailer struct {
	cfg    *config.MailConfig
	logger *zap.Logger
}

// NewMailer 创建 Mailer 实例
func NewMailer(cfg *config.MailConfig, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

// Enabled 是否启用邮件发送
func (m *Mailer) Enabled() bool {
	return m.cfg.Enabled && m.cfg.SMTPHost != ""
}

// Send 发送一封纯文本邮件
// 未启用时静默跳过（开发环境默认关闭）
func (m *Mailer) Send(to, subject, body string) error {
	if !m.Enabled() {
		m.logger.Debug("邮件发送未启用，跳过", zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	m.logger.Info("邮件已发送", zap.String("to", to), zap.String("subject", subject))
	return nil
}
