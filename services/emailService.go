package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/Taraweeh/initializers"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog/log"
)

// EmailSender is the subset of the Resend client used to deliver mail.
type EmailSender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type EmailService struct {
	sender EmailSender
	from   string
	to     string
}

var emailService *EmailService

// InitEmailService initializes the email service with Resend API
func InitEmailService() {
	apiKey := initializers.Getenv("RESEND_API_KEY", "")

	if apiKey == "" {
		log.Warn().Msg("RESEND_API_KEY not set, error reports will only be logged")
		return
	}

	client := resend.NewClient(apiKey)
	SetEmailService(NewEmailService(client.Emails))

	log.Info().Msg("email service initialized with Resend")
}

func NewEmailService(sender EmailSender) *EmailService {
	return &EmailService{
		sender: sender,
		from:   initializers.Getenv("REPORT_EMAIL_FROM", "noreply@taraweeh.org"),
		to:     initializers.Getenv("REPORT_EMAIL_TO", "info@taraweeh.org"),
	}
}

// GetEmailService returns the singleton email service instance
func GetEmailService() *EmailService {
	return emailService
}

func SetEmailService(s *EmailService) {
	emailService = s
}

// ErrorReport is a visitor's report of wrong information on a mosque page.
type ErrorReport struct {
	MosqueID      int
	MosqueName    string
	ErrorTypes    []string
	Details       string
	ReporterEmail string
	ReportedAt    time.Time
}

// FormatErrorReport renders the plain-text body of a mosque error report.
func FormatErrorReport(r ErrorReport) string {
	reporter := r.ReporterEmail
	if reporter == "" {
		reporter = "Not provided"
	}

	return fmt.Sprintf(`Error Report for Mosque: %s (ID: %d)

Error Types: %s

Additional Details:
%s

Reporter Email: %s

Reported at: %s
`, r.MosqueName, r.MosqueID, strings.Join(r.ErrorTypes, ", "), r.Details, reporter, r.ReportedAt.Format("2006-01-02 15:04:05"))
}

// SendErrorReport emails a mosque error report to the site inbox
func (s *EmailService) SendErrorReport(r ErrorReport) error {
	if s == nil || s.sender == nil {
		return fmt.Errorf("email service not initialized")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{s.to},
		Subject: fmt.Sprintf("تقرير خطأ: %s", r.MosqueName),
		Text:    FormatErrorReport(r),
	}
	if r.ReporterEmail != "" {
		params.ReplyTo = r.ReporterEmail
	}

	sent, err := s.sender.Send(params)
	if err != nil {
		log.Error().Err(err).Int("mosque_id", r.MosqueID).Msg("failed to send error report email")
		return fmt.Errorf("failed to send email: %v", err)
	}

	log.Info().Int("mosque_id", r.MosqueID).Str("email_id", sent.Id).Msg("sent error report email")
	return nil
}
