package service

import (
	"fmt"
	"html"
	"log"

	"purchases/config"

	"gopkg.in/gomail.v2"
)

// EmailService 邮件通知服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled 邮件服务是否可用
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled
}

// SendPasswordChangedEmail 发送密码已修改通知
func (s *EmailService) SendPasswordChangedEmail(toEmail, username string) error {
	if !s.Enabled() {
		return fmt.Errorf("邮件服务未启用，请配置 PURCHASES_EMAIL_ENABLED=true")
	}
	return s.sendEmail(toEmail, "【购物记录】密码已修改", s.generatePasswordChangedBody(username))
}

// SendAccountDeletedEmail 发送账户注销通知
func (s *EmailService) SendAccountDeletedEmail(toEmail, username string) error {
	if !s.Enabled() {
		return fmt.Errorf("邮件服务未启用，请配置 PURCHASES_EMAIL_ENABLED=true")
	}
	return s.sendEmail(toEmail, "【购物记录】账户已注销", s.generateAccountDeletedBody(username))
}

// NotifyAsync 后台发送通知，失败只记录日志，不影响请求
func (s *EmailService) NotifyAsync(toEmail string, send func(string) error) {
	if !s.Enabled() || toEmail == "" {
		return
	}
	go func() {
		if err := send(toEmail); err != nil {
			log.Printf("发送通知邮件失败: %v", err)
		}
	}()
}

// SendTestEmail 发送测试邮件
func (s *EmailService) SendTestEmail(toEmail string) error {
	if !s.Enabled() {
		return fmt.Errorf("邮件服务未启用")
	}
	body := `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>✅ 邮件配置成功</h2>
    <p>如果您收到这封邮件，说明邮件服务配置正确。</p>
</body>
</html>
`
	return s.sendEmail(toEmail, "【购物记录】邮件配置测试", body)
}

func (s *EmailService) generatePasswordChangedBody(username string) string {
	return s.wrapBody(fmt.Sprintf(`
            <p>尊敬的 <strong>%s</strong>，您好！</p>
            <p>您的账户密码刚刚被修改。</p>
            <div class="warning">
                <p>⚠️ 如果这不是您本人的操作，请立即联系管理员。</p>
            </div>`, html.EscapeString(username)))
}

func (s *EmailService) generateAccountDeletedBody(username string) string {
	return s.wrapBody(fmt.Sprintf(`
            <p>尊敬的 <strong>%s</strong>，您好！</p>
            <p>您的账户及全部购买记录已被删除。</p>
            <p>感谢您的使用。</p>`, html.EscapeString(username)))
}

// wrapBody 套用统一的邮件模板
func (s *EmailService) wrapBody(content string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; }
        .header { background: #2563eb; color: white; padding: 30px; text-align: center; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .warning { background: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; border-radius: 4px; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>🛒 购物记录</h1></div>
        <div class="content">%s
        </div>
        <div class="footer"><p>此邮件由系统自动发送，请勿回复</p></div>
    </div>
</body>
</html>
`, content)
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	return nil
}
