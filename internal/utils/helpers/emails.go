package helpers

import (
	"fmt"
	"html"
	"time"
)

// BuildSimpleHTML: общий каркас всех писем.
func BuildSimpleHTML(appName, title, body string) string {
	return fmt.Sprintf(`
<html>
  <body style="font-family:Arial,sans-serif; background:#f9f9f9;">
    <table width="100%%" cellpadding="0" cellspacing="0" bgcolor="#f9f9f9">
      <tr>
        <td align="center" style="padding:32px 0;">
          <table width="520" bgcolor="#fff" cellpadding="24" cellspacing="0" style="border-radius:10px; box-shadow:0 1px 8px #eee;">
            <tr>
              <td>
                <h2 style="color:#667eea; margin-top:0;">%s</h2>
                <div style="font-size:16px; color:#222;">%s</div>
                <hr style="margin:32px 0 16px 0; border:0; border-top:1px solid #eee;">
                <div style="font-size:12px; color:#999;">&copy; %d %s. This is an automated message, please do not reply.</div>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>
`, html.EscapeString(title), body, time.Now().Year(), html.EscapeString(appName))
}

func BuildPasswordResetOTPHTML(appName, name, otp string, ttl time.Duration) string {
	body := fmt.Sprintf(`
      <p>Hi %s,</p>
      <p>We received a request to reset your password. Use the code below to continue:</p>
      <p style="font-size:32px; letter-spacing:8px; font-weight:700; color:#333; text-align:center; margin:24px 0;">%s</p>
      <p style="font-size:14px; color:#666;">The code is valid for %d minutes.</p>
      <p style="font-size:14px; color:#666;">If you did not request a password reset, you can safely ignore this email.</p>
    `, html.EscapeString(name), html.EscapeString(otp), int(ttl.Minutes()))
	return BuildSimpleHTML(appName, "Password Reset Code", body)
}

func BuildPasswordChangedHTML(appName, name string) string {
	body := fmt.Sprintf(`
      <p>Hi %s,</p>
      <p>Your password has been successfully reset. You can now log in to your account using your new password.</p>
      <div style="background:#f8f9fa; padding:16px; border-radius:8px; border-left:4px solid #30D158; font-size:14px;">
        <strong>Security Tip:</strong> If you didn't make this change or believe an unauthorized person has accessed your account, please contact us immediately.
      </div>
    `, html.EscapeString(name))
	return BuildSimpleHTML(appName, "Password Reset Successful", body)
}

func BuildWelcomeHTML(appName, name, email, password string) string {
	body := fmt.Sprintf(`
      <p>Hi %s,</p>
      <p>An account has been created for you in the %s directory. Your login details:</p>
      <table cellpadding="6" style="font-size:15px; background:#f8f9fa; border-radius:8px; margin:16px 0;">
        <tr><td style="color:#666;">Email</td><td><b>%s</b></td></tr>
        <tr><td style="color:#666;">Password</td><td><b style="font-family:monospace;">%s</b></td></tr>
      </table>
      <p style="font-size:14px; color:#666;">Please change your password after the first login.</p>
    `, html.EscapeString(name), html.EscapeString(appName), html.EscapeString(email), html.EscapeString(password))
	return BuildSimpleHTML(appName, "Welcome to "+appName, body)
}
