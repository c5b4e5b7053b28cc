package mail

import (
	"fmt"
	"html/template"
	"strings"
)

const verificationSubject = "Verify your email"

var verificationTmpl = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Verify Your Email</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1>Confirm your contacts account</h1>
		<p>Hello {{.Email}},</p>
		<p>Click the link below to verify your email address and start managing your contacts:</p>
		<p style="text-align: center; margin: 30px 0;">
			<a href="{{.URL}}" style="background-color: #4CAF50; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px;">Verify email</a>
		</p>
		<p style="word-break: break-all; color: #666;">{{.URL}}</p>
		<p style="color: #999; font-size: 12px;">If you did not sign up, ignore this message.</p>
	</div>
</body>
</html>`))

func renderVerification(email, url string) (string, error) {
	var buf strings.Builder
	err := verificationTmpl.Execute(&buf, struct {
		Email string
		URL   string
	}{Email: email, URL: url})
	if err != nil {
		return "", fmt.Errorf("render verification: %w", err)
	}
	return buf.String(), nil
}
