package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// sendMail delivers an HTML email through the configured SMTP relay
func sendMail(to, subject, body string) error {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_FROM"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(os.Getenv("SMTP_HOST"), port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"))
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// SendEnrollmentConfirmation notifies a buyer that their courses are unlocked.
// Callers log failures and move on; email is never on the fulfillment path.
func SendEnrollmentConfirmation(to, reference string, courseTitles []string) error {
	body := "<h2>You're enrolled!</h2><p>Your payment has been confirmed and the following courses are now available in your library:</p><ul>"
	for _, title := range courseTitles {
		body += "<li>" + title + "</li>"
	}
	body += fmt.Sprintf("</ul><p>Payment reference: <b>%s</b></p>", reference)
	return sendMail(to, "Your PalmTechnIQ enrollment is confirmed", body)
}

// SendWithdrawalDecision notifies a tutor of a payout decision
func SendWithdrawalDecision(to string, amount float64, approved bool, note string) error {
	subject := "Your withdrawal request was approved"
	body := fmt.Sprintf("<p>Your withdrawal of %.2f has been approved and is on its way.</p>", amount)
	if !approved {
		subject = "Your withdrawal request was rejected"
		body = fmt.Sprintf("<p>Your withdrawal of %.2f was rejected.</p>", amount)
	}
	if note != "" {
		body += fmt.Sprintf("<p>Note from admin: %s</p>", note)
	}
	return sendMail(to, subject, body)
}

// SendTutorApplicationDecision notifies an applicant of the review outcome
func SendTutorApplicationDecision(to string, approved bool, note string) error {
	subject := "Your tutor application was approved"
	body := "<p>Congratulations! Your tutor application has been approved. You can now publish courses and receive earnings.</p>"
	if !approved {
		subject = "Your tutor application was rejected"
		body = "<p>Unfortunately your tutor application was not approved at this time.</p>"
	}
	if note != "" {
		body += fmt.Sprintf("<p>Note from admin: %s</p>", note)
	}
	return sendMail(to, subject, body)
}
