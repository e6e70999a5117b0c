// Package mailer sends transactional email for the marketplace: listing
// confirmations, item inquiries and contact-form submissions.  The
// Mailer is constructed once at startup and passed into handlers; when
// SMTP is not configured it degrades to a logged no-op so email never
// blocks the primary operation.
package mailer

import (
	"errors"
	"fmt"
	"log"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"github.com/sokogo/sokogo-backend/internal/config"
	"github.com/sokogo/sokogo-backend/internal/model"
)

// ErrNotConfigured is returned when SMTP settings are absent.
var ErrNotConfigured = errors.New("mailer: not configured")

type Mailer struct {
	dialer *gomail.Dialer
	from   string
	admin  string
}

// New builds a Mailer from config.  A missing SMTP host produces a
// usable but disabled Mailer.
func New(cfg config.Config) *Mailer {
	m := &Mailer{admin: cfg.AdminEmail}
	if cfg.SMTPHost == "" {
		log.Printf("mailer: SMTP not configured, email disabled")
		return m
	}
	m.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	m.from = cfg.SMTPFrom
	if m.from == "" {
		m.from = cfg.SMTPUser
	}
	return m
}

// Configured reports whether the mailer can actually send.
func (m *Mailer) Configured() bool { return m.dialer != nil }

// Send delivers one HTML message.  Callers treat failures as non-fatal.
func (m *Mailer) Send(to, subject, html string) error {
	if m.dialer == nil {
		log.Printf("mailer: dropping %q to %s (not configured)", subject, to)
		return ErrNotConfigured
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)
	msg.AddAlternative("text/plain", htmlToText(html))
	return m.dialer.DialAndSend(msg)
}

// SendItemPosted notifies a seller that their listing went live.
func (m *Mailer) SendItemPosted(seller model.User, item *model.Item) error {
	html := fmt.Sprintf(
		`<h2>Your listing is live</h2>
		<p>Hi %s, your listing <strong>%s</strong> (%s / %s) has been posted at %.2f %s.</p>`,
		seller.FirstName, item.Title, item.Category, item.Subcategory, item.Price, item.Currency)
	return m.Send(seller.Email, "Listing posted: "+item.Title, html)
}

// SendInquiry forwards a buyer's question about an item to its seller.
func (m *Mailer) SendInquiry(buyer, seller model.User, item *model.Item, message string) error {
	html := fmt.Sprintf(
		`<h2>New inquiry about %s</h2>
		<p><strong>From:</strong> %s %s (%s)</p>
		<p style="white-space: pre-wrap;">%s</p>`,
		item.Title, buyer.FirstName, buyer.LastName, buyer.Email, message)
	return m.Send(seller.Email, "Inquiry: "+item.Title, html)
}

// SendContactForm delivers a site contact-form submission to the admin
// address.
func (m *Mailer) SendContactForm(name, email, subject, message string) error {
	if m.admin == "" {
		return ErrNotConfigured
	}
	html := fmt.Sprintf(
		`<h2>New contact form submission</h2>
		<p><strong>Name:</strong> %s</p>
		<p><strong>Email:</strong> %s</p>
		<p><strong>Subject:</strong> %s</p>
		<p style="white-space: pre-wrap;">%s</p>`,
		name, email, subject, message)
	return m.Send(m.admin, "Contact Form: "+subject, html)
}

// htmlToText is a crude fallback body for clients that reject HTML.
func htmlToText(html string) string {
	var b strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
