package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// ClaimNotificationData feeds the email sent to a donor when one of their
// listings is claimed.
type ClaimNotificationData struct {
	DonorName     string
	FoodType      string
	Quantity      string
	Location      string
	ClaimantName  string
	ClaimantOrg   string
	ClaimantEmail string
	ClaimantPhone string
}

var claimHTML = template.Must(template.New("claim").Parse(`
<p>Hi {{.DonorName}},</p>
<p>Your listing <strong>{{.FoodType}}</strong> ({{.Quantity}}, {{.Location}}) has been claimed.</p>
<p>Claimant details:</p>
<ul>
  <li>Name: {{.ClaimantName}}</li>
  {{if .ClaimantOrg}}<li>Organization: {{.ClaimantOrg}}</li>{{end}}
  <li>Email: {{.ClaimantEmail}}</li>
  {{if .ClaimantPhone}}<li>Phone: {{.ClaimantPhone}}</li>{{end}}
</ul>
<p>Please arrange the pickup directly with them.</p>
`))

// NewClaimJob renders the claim notification into an EmailJob addressed to
// the donor.
func NewClaimJob(donorEmail string, data ClaimNotificationData) (EmailJob, error) {
	var buf bytes.Buffer
	if err := claimHTML.Execute(&buf, data); err != nil {
		return EmailJob{}, err
	}
	text := fmt.Sprintf(
		"Hi %s, your listing %s (%s, %s) has been claimed by %s (%s). Please arrange the pickup directly.",
		data.DonorName, data.FoodType, data.Quantity, data.Location, data.ClaimantName, data.ClaimantEmail,
	)
	return EmailJob{
		To:      donorEmail,
		Subject: "Your listing was claimed: " + data.FoodType,
		Text:    text,
		HTML:    buf.String(),
	}, nil
}
