package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

// All notification emails share one layout; only the heading and body
// paragraphs differ.
const layoutTmpl = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body {
      font-family: Arial, sans-serif;
      line-height: 1.6;
      color: #333;
    }
    .container {
      max-width: 600px;
      margin: 0 auto;
      padding: 20px;
      border: 1px solid #ddd;
      border-radius: 5px;
      background-color: #f9f9f9;
    }
    .header {
      text-align: center;
      padding-bottom: 20px;
    }
    .content {
      padding: 20px;
      background-color: #fff;
      border-radius: 5px;
    }
    .footer {
      text-align: center;
      padding-top: 20px;
      font-size: 0.9em;
      color: #777;
    }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h2>{{.Title}}</h2>
    </div>
    <div class="content">
      <p>Dear {{.Name}},</p>
      {{.Body}}
      <p>Thank you for your understanding.</p>
    </div>
    <div class="footer">
      <p>&copy; 2024 BuddyBoard. All rights reserved.</p>
    </div>
  </div>
</body>
</html>`

const verificationBody = `<p>Please verify your email by clicking on the following link:</p>
<p><a href="{{.URL}}">{{.URL}}</a></p>
<p>If you did not create an account, no further action is required.</p>`

const passwordResetBody = `<p>You requested a password reset. Please click on the following link to reset your password:</p>
<p><a href="{{.URL}}">{{.URL}}</a></p>
<p>If you did not request a password reset, please ignore this email.</p>`

const deckBlockedBody = `<p>We regret to inform you that your deck titled <strong>{{.DeckTitle}}</strong> has been blocked for the following reasons:</p>
<p>{{.Reason}}</p>
<p>Please contact the admin for more information.</p>`

var (
	layout               = template.Must(template.New("layout").Parse(layoutTmpl))
	verificationTemplate = template.Must(template.New("verification").Parse(verificationBody))
	passwordResetTmpl    = template.Must(template.New("password_reset").Parse(passwordResetBody))
	deckBlockedTemplate  = template.Must(template.New("deck_blocked").Parse(deckBlockedBody))
)

type templateData struct {
	Title     string
	Name      string
	URL       string
	DeckTitle string
	Reason    string
}

func renderHTML(body *template.Template, data templateData) (string, error) {
	var inner bytes.Buffer
	if err := body.Execute(&inner, data); err != nil {
		return "", fmt.Errorf("rendering %s body: %w", body.Name(), err)
	}

	var out bytes.Buffer
	err := layout.Execute(&out, struct {
		Title string
		Name  string
		Body  template.HTML
	}{
		Title: data.Title,
		Name:  data.Name,
		Body:  template.HTML(inner.String()),
	})
	if err != nil {
		return "", fmt.Errorf("rendering %s layout: %w", body.Name(), err)
	}
	return out.String(), nil
}
