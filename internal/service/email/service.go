package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v3"

	"pitchvault/internal/config"
)

type Service interface {
	SendRequestEmail(ctx context.Context, toEmail, ownerName, requesterName, pitchTitle string) error
	SendDecisionEmail(ctx context.Context, toEmail, requesterName, pitchTitle, status, detail string) error
}

type service struct {
	client *resend.Client
	config *config.Config
}

func NewService(cfg *config.Config) Service {
	return &service{
		client: resend.NewClient(cfg.ResendAPIKey),
		config: cfg,
	}
}

var requestTmpl = template.Must(template.New("request").Parse(`
<p>Hi {{.OwnerName}},</p>
<p><strong>{{.RequesterName}}</strong> has requested NDA-gated access to your pitch
<strong>{{.PitchTitle}}</strong>.</p>
<p><a href="https://{{.Domain}}/agreements">Review the request</a></p>
`))

var decisionTmpl = template.Must(template.New("decision").Parse(`
<p>Hi {{.RequesterName}},</p>
<p>Your NDA request for <strong>{{.PitchTitle}}</strong> was <strong>{{.Status}}</strong>.</p>
{{if .Detail}}<p>{{.Detail}}</p>{{end}}
<p><a href="https://{{.Domain}}/agreements">View your agreements</a></p>
`))

func (s *service) SendRequestEmail(ctx context.Context, toEmail, ownerName, requesterName, pitchTitle string) error {
	data := struct {
		OwnerName     string
		RequesterName string
		PitchTitle    string
		Domain        string
	}{ownerName, requesterName, pitchTitle, s.config.Domain}

	return s.send(toEmail, "New NDA request", requestTmpl, data)
}

func (s *service) SendDecisionEmail(ctx context.Context, toEmail, requesterName, pitchTitle, status, detail string) error {
	data := struct {
		RequesterName string
		PitchTitle    string
		Status        string
		Detail        string
		Domain        string
	}{requesterName, pitchTitle, status, detail, s.config.Domain}

	return s.send(toEmail, fmt.Sprintf("Your NDA request was %s", status), decisionTmpl, data)
}

func (s *service) send(toEmail, subject string, tmpl *template.Template, data interface{}) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("PitchVault <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	_, err := s.client.Emails.Send(params)
	return err
}
