package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/octobees/servicefinder/internal/dto"
	"github.com/octobees/servicefinder/internal/entity"
	"github.com/octobees/servicefinder/internal/repository"
)

const (
	maxContactNameLength    = 120
	maxContactSubjectLength = 200
	maxContactMessageLength = 5000
)

// ValidationError reports which fields of a submission were rejected.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, field := range []string{"name", "email", "phone", "subject", "message"} {
		if msg, ok := e.Fields[field]; ok {
			parts = append(parts, field+": "+msg)
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ContactService accepts contact form submissions.
type ContactService struct {
	repo   repository.ContactRepository
	region string
}

// NewContactService builds a ContactService normalising phones for region.
func NewContactService(repo repository.ContactRepository, region string) *ContactService {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = defaultPhoneRegion
	}
	return &ContactService{repo: repo, region: region}
}

// Submit validates the request and stores the message. requestID ties the
// stored row to the HTTP request log line and may be empty.
func (s *ContactService) Submit(ctx context.Context, req dto.ContactRequest, requestID string) (*entity.ContactMessage, error) {
	fields := make(map[string]string)

	name := strings.TrimSpace(req.Name)
	switch {
	case name == "":
		fields["name"] = "is required"
	case utf8.RuneCountInString(name) > maxContactNameLength:
		fields["name"] = "is too long"
	}

	email, ok := normalizeEmail(req.Email)
	if !ok {
		fields["email"] = "must be a valid email address"
	}

	var phone *string
	if raw := strings.TrimSpace(req.Phone); raw != "" {
		if normalized := normalizePhone(raw, s.region); normalized != "" {
			phone = &normalized
		} else {
			fields["phone"] = "must be a valid phone number"
		}
	}

	subject := strings.TrimSpace(req.Subject)
	switch {
	case subject == "":
		fields["subject"] = "is required"
	case utf8.RuneCountInString(subject) > maxContactSubjectLength:
		fields["subject"] = "is too long"
	}

	message := strings.TrimSpace(req.Message)
	switch {
	case message == "":
		fields["message"] = "is required"
	case utf8.RuneCountInString(message) > maxContactMessageLength:
		fields["message"] = "is too long"
	}

	if len(fields) > 0 {
		return nil, ValidationError{Fields: fields}
	}

	msg := &entity.ContactMessage{
		Name:    name,
		Email:   email,
		Phone:   phone,
		Subject: subject,
		Message: message,
	}
	if requestID != "" {
		msg.RequestID = &requestID
	}
	return s.repo.Create(ctx, msg)
}
