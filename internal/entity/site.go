package entity

import (
	"time"

	"github.com/google/uuid"
)

// BasicInfo holds the content-managed branding and SEO defaults of the site.
type BasicInfo struct {
	ID                 uuid.UUID `json:"id"`
	SiteName           string    `json:"site_name"`
	Tagline            string    `json:"tagline"`
	Domain             string    `json:"domain"`
	Logo               string    `json:"logo"`
	LogoAlt            string    `json:"logo_alt"`
	BannerImage        string    `json:"banner_image"`
	BannerAlt          string    `json:"banner_alt"`
	Favicon            string    `json:"favicon"`
	PrimaryColor       string    `json:"primary_color"`
	SecondaryColor     string    `json:"secondary_color"`
	SupportEmail       string    `json:"support_email"`
	ContactPhone       string    `json:"contact_phone"`
	MetaTitle          string    `json:"meta_title"`
	MetaDescription    string    `json:"meta_description"`
	MetaKeywords       string    `json:"meta_keywords"`
	OGTitle            string    `json:"og_title"`
	OGDescription      string    `json:"og_description"`
	OGImage            string    `json:"og_image"`
	TwitterTitle       string    `json:"twitter_title"`
	TwitterDescription string    `json:"twitter_description"`
	TwitterImage       string    `json:"twitter_image"`
	DefaultCity        string    `json:"default_city"`
	DefaultState       string    `json:"default_state"`
	DefaultService     string    `json:"default_service"`
	SchemaOrgType      string    `json:"schema_org_type"`
	BusinessName       string    `json:"business_name"`
	BusinessAddress    string    `json:"business_address"`
	FooterText         string    `json:"footer_text"`
	IsLive             bool      `json:"is_live"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Theme is the subset of branding threaded through to the rendering layer.
type Theme struct {
	SiteName       string `json:"site_name" yaml:"site_name"`
	PrimaryColor   string `json:"primary_color" yaml:"primary_color"`
	SecondaryColor string `json:"secondary_color" yaml:"secondary_color"`
}

// ContactMessage is a message submitted through the contact form.
type ContactMessage struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	RequestID *string   `json:"request_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
