package mailer

import "fmt"

// SignupOTPMessage builds the signup verification email.
func SignupOTPMessage(to, code string, expiryMinutes int) *Message {
	plain := fmt.Sprintf(`Email Verification

Thank you for registering with EquipSight!

Your verification code is: %s

This code will expire in %d minutes.

If you didn't request this code, please ignore this email.

---
EquipSight`, code, expiryMinutes)

	html := fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Email Verification</h2>
    <p>Thank you for registering with EquipSight!</p>
    <p>Your verification code is:</p>
    <div style="background-color: #f3f4f6; padding: 20px; text-align: center; border-radius: 8px; margin: 20px 0;">
      <span style="font-size: 32px; font-weight: bold; letter-spacing: 8px; color: #1f2937;">%s</span>
    </div>
    <p>This code will expire in <strong>%d minutes</strong>.</p>
    <p style="color: #6b7280; font-size: 14px;">If you didn't request this code, please ignore this email.</p>
  </div>
</body>
</html>`, code, expiryMinutes)

	return &Message{
		To:        to,
		Subject:   "Verify Your Email - EquipSight",
		PlainBody: plain,
		HTMLBody:  html,
	}
}

// PasswordResetOTPMessage builds the password reset email.
func PasswordResetOTPMessage(to, code string, expiryMinutes int) *Message {
	plain := fmt.Sprintf(`Password Reset Request

We received a request to reset your EquipSight password.

Your password reset code is: %s

This code will expire in %d minutes.

WARNING: If you didn't request this password reset, please ignore this email and ensure your account is secure.

---
EquipSight`, code, expiryMinutes)

	html := fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #dc2626;">Password Reset Request</h2>
    <p>We received a request to reset your EquipSight password.</p>
    <p>Your password reset code is:</p>
    <div style="background-color: #fef2f2; padding: 20px; text-align: center; border-radius: 8px; margin: 20px 0; border: 1px solid #fecaca;">
      <span style="font-size: 32px; font-weight: bold; letter-spacing: 8px; color: #991b1b;">%s</span>
    </div>
    <p>This code will expire in <strong>%d minutes</strong>.</p>
    <p style="color: #dc2626; font-size: 14px;"><strong>If you didn't request this password reset, please ignore this email and ensure your account is secure.</strong></p>
  </div>
</body>
</html>`, code, expiryMinutes)

	return &Message{
		To:        to,
		Subject:   "Password Reset - EquipSight",
		PlainBody: plain,
		HTMLBody:  html,
	}
}
