package mail

import (
	"fmt"
	"io"

	"github.com/careers-intake-api/internal/config"
	"github.com/careers-intake-api/internal/domain"
	"gopkg.in/gomail.v2"
)

// Mailer delivers the two outbound messages of the intake flow.
type Mailer interface {
	// SendCode delivers a verification code to a candidate.
	SendCode(email, code string) error
	// NotifyReviewer sends a qualified submission to the human reviewer
	// with the original resume attached.
	NotifyReviewer(c *domain.Candidate, resume []byte, filename string) error
}

type mailer struct {
	dialer     *gomail.Dialer
	from       string
	reviewerTo string
}

func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		dialer:     gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:       cfg.SMTPFrom,
		reviewerTo: cfg.ReviewerEmail,
	}
}

func (m *mailer) SendCode(email, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Your application verification code")
	msg.SetBody("text/html", fmt.Sprintf(`
		<p>Thank you for applying. Use this code to verify your email address:</p>
		<p style="font-size:28px;font-weight:bold;letter-spacing:6px">%s</p>
		<p><strong>The code is valid for 10 minutes.</strong></p>
		<p>If you didn't request it, you can ignore this email.</p>`, code))
	return m.dialer.DialAndSend(msg)
}

func (m *mailer) NotifyReviewer(c *domain.Candidate, resume []byte, filename string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.reviewerTo)
	msg.SetHeader("Subject", fmt.Sprintf("New qualified candidate: %s (%s, score %d)", c.FullName, roleLabel(c), c.ATSScore))
	msg.SetBody("text/html", fmt.Sprintf(`
		<h2>Qualified application</h2>
		<table cellpadding="4">
			<tr><td>Name</td><td>%s</td></tr>
			<tr><td>Email</td><td>%s</td></tr>
			<tr><td>Phone</td><td>%s</td></tr>
			<tr><td>Location</td><td>%s, %s</td></tr>
			<tr><td>College</td><td>%s</td></tr>
			<tr><td>Current company</td><td>%s</td></tr>
			<tr><td>LinkedIn</td><td>%s</td></tr>
			<tr><td>Role</td><td>%s</td></tr>
			<tr><td>ATS score</td><td>%d (%s)</td></tr>
		</table>
		<p>%s</p>`,
		c.FullName, c.Email, c.Phone, c.City, c.State, c.CollegeName,
		c.CurrentCompany, c.LinkedIn, roleLabel(c), c.ATSScore, c.ATSStatus,
		c.Description))
	msg.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(resume)
		return err
	}))
	return m.dialer.DialAndSend(msg)
}

func roleLabel(c *domain.Candidate) string {
	if c.CustomJobRole != "" {
		return c.CustomJobRole
	}
	return c.JobCategory
}
