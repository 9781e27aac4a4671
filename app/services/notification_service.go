// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"sync"
)

// NotificationService handles sending notifications via SMS and email
type NotificationService interface {
	SendSMS(mobile, message string) error
	SendEmail(email, subject, message string) error
}

// NotificationServiceImpl implements NotificationService
type NotificationServiceImpl struct {
	smsProvider   SMSProvider
	emailProvider EmailProvider
}

// SMSProvider interface for SMS sending
type SMSProvider interface {
	SendSMS(mobile, message string) error
}

// EmailProvider interface for email sending
type EmailProvider interface {
	SendEmail(email, subject, message string) error
}

// NewNotificationService creates a new notification service
func NewNotificationService(smsProvider SMSProvider, emailProvider EmailProvider) NotificationService {
	return &NotificationServiceImpl{
		smsProvider:   smsProvider,
		emailProvider: emailProvider,
	}
}

// SendSMS sends an SMS message to the specified mobile number
func (s *NotificationServiceImpl) SendSMS(mobile, message string) error {
	if s.smsProvider == nil {
		return fmt.Errorf("SMS provider not configured")
	}

	if len(mobile) < 8 || !strings.HasPrefix(mobile, "+") {
		return fmt.Errorf("invalid mobile number format: %s", mobile)
	}

	return s.smsProvider.SendSMS(mobile, message)
}

// SendEmail sends an email to the specified email address
func (s *NotificationServiceImpl) SendEmail(email, subject, message string) error {
	if s.emailProvider == nil {
		return fmt.Errorf("email provider not configured")
	}

	if len(email) == 0 || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address: %s", email)
	}

	return s.emailProvider.SendEmail(email, subject, message)
}

type MockSMSProvider struct{}

func NewMockSMSProvider() SMSProvider {
	return &MockSMSProvider{}
}

func (p *MockSMSProvider) SendSMS(mobile, message string) error {
	log.Printf("SMS sent to %s: %s", mobile, message)
	return nil
}

// RecordingEmailProvider stores sent emails in memory. Used in tests and as a
// safe default in environments without SMTP credentials.
type RecordingEmailProvider struct {
	mu   sync.Mutex
	Sent []RecordedEmail
}

// RecordedEmail is one captured email
type RecordedEmail struct {
	To      string
	Subject string
	Message string
}

func NewRecordingEmailProvider() *RecordingEmailProvider {
	return &RecordingEmailProvider{}
}

func (p *RecordingEmailProvider) SendEmail(email, subject, message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Sent = append(p.Sent, RecordedEmail{To: email, Subject: subject, Message: message})
	log.Printf("Email sent to %s [%s]", email, subject)
	return nil
}

// Count returns how many emails have been captured
func (p *RecordingEmailProvider) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Sent)
}

type SMTPEmailProvider struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
}

func NewSMTPEmailProvider(host string, port int, username, password, fromEmail string) EmailProvider {
	return &SMTPEmailProvider{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromEmail: fromEmail,
	}
}

func (p *SMTPEmailProvider) SendEmail(email, subject, message string) error {
	addr := fmt.Sprintf("%s:%d", p.host, p.port)
	auth := smtp.PlainAuth("", p.username, p.password, p.host)

	body := strings.Join([]string{
		"From: " + p.fromEmail,
		"To: " + email,
		"Subject: " + subject,
		"",
		message,
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, p.fromEmail, []string{email}, []byte(body)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
