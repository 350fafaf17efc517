package verification

import "fmt"

const emailSubject = "Your AquaAdapt verification code"

// renderOTPEmail renders the HTML message body. The visual template is
// presentation detail; only the literal code in the body is load-bearing.
func renderOTPEmail(code string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#f4f8fb;font-family:Arial,Helvetica,sans-serif;">
  <div style="max-width:480px;margin:32px auto;background:#ffffff;border-radius:8px;padding:32px;">
    <h2 style="color:#0b6e99;margin-top:0;">AquaAdapt</h2>
    <p style="color:#333333;font-size:15px;">Use the code below to verify your email address. It expires in 10 minutes.</p>
    <div style="background:#eef6fa;border-radius:6px;padding:16px;text-align:center;margin:24px 0;">
      <span style="font-size:32px;letter-spacing:8px;font-weight:bold;color:#0b6e99;">%s</span>
    </div>
    <p style="color:#888888;font-size:12px;">If you did not request this code, you can safely ignore this email.</p>
  </div>
</body>
</html>`, code)
}
