package emails

import (
	"bytes"
	"html/template"
	"time"
)

var layoutTmpl = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>WealthDesk</title></head>
<body style="margin:0;padding:40px 0;background:#F3F4F6;font-family:-apple-system,'Segoe UI',Roboto,Helvetica,Arial,sans-serif;color:#1F2937;">
  <table role="presentation" width="600" align="center" style="background:#FFFFFF;border-radius:8px;padding:40px 48px;">
    <tr><td>{{.Content}}</td></tr>
    <tr><td style="padding-top:32px;font-size:13px;color:#6B7280;text-align:center;">© {{.Year}} WealthDesk. All rights reserved.</td></tr>
  </table>
</body>
</html>`))

var welcomeTmpl = template.Must(template.New("welcome").Parse(`
<h1 style="font-size:24px;color:#111827;">Welcome, {{.Name}}!</h1>
<p>Your advisor account is ready. You can now register investors, build model and custom portfolios, and track every holding in one place.</p>
<p style="font-size:14px;color:#6B7280;">If you did not sign up for this account, please contact support immediately.</p>
<p>The WealthDesk Team</p>
`))

// render executes content and wraps it in the shared layout. Values are
// escaped by html/template.
func render(content *template.Template, data interface{}) (string, error) {
	var body bytes.Buffer
	if err := content.Execute(&body, data); err != nil {
		return "", err
	}
	var out bytes.Buffer
	err := layoutTmpl.Execute(&out, struct {
		Content template.HTML
		Year    int
	}{template.HTML(body.String()), time.Now().Year()})
	return out.String(), err
}
