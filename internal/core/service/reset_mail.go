package service

import (
	"fmt"

	"github.com/civicvoice/civicvoice-api/internal/core/ports"
)

const otpMailSubject = "Password Reset Code - CivicVoice"

const otpMailHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: #2c3e50; color: white; padding: 24px; text-align: center; border-radius: 8px 8px 0 0;">
    <h1 style="margin: 0; font-size: 24px;">Password Reset Code</h1>
    <p style="margin: 8px 0 0 0; opacity: 0.85;">CivicVoice Security Code</p>
  </div>
  <div style="background: #f8f9fa; padding: 24px; border: 1px solid #e9ecef; border-top: none; border-radius: 0 0 8px 8px;">
    <div style="text-align: center; margin: 16px 0;">
      <div style="display: inline-block; background: white; padding: 16px 32px; border: 2px solid #007bff; border-radius: 8px;">
        <div style="font-size: 32px; font-weight: bold; letter-spacing: 5px; font-family: monospace; color: #007bff;">%s</div>
      </div>
    </div>
    <p>You requested a password reset for your CivicVoice account. Enter the code above on the password reset page.</p>
    <p><strong>This code expires in 10 minutes.</strong> Do not share it with anyone.</p>
    <p style="color: #666; font-size: 13px;">If you did not request this reset, you can safely ignore this email.</p>
  </div>
</body>
</html>`

const otpMailText = `CivicVoice Password Reset Code

Your code: %s

This code expires in 10 minutes.
Enter it on the password reset page to continue.

If you did not request this reset, you can safely ignore this email.`

// otpMail composes the delivery message for a reset code. The code appears
// exactly once per body and is never echoed anywhere else.
func otpMail(to, code string) ports.MailMessage {
	return ports.MailMessage{
		To:       to,
		Subject:  otpMailSubject,
		HTMLBody: fmt.Sprintf(otpMailHTML, code),
		TextBody: fmt.Sprintf(otpMailText, code),
	}
}
