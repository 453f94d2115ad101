package entity

import (
	"time"

	"github.com/google/uuid"
)

// State is a Brazilian state page in the directory.
type State struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Image          *string   `json:"image,omitempty"`
	Description    string    `json:"description"`
	SEOTitle       string    `json:"seo_title"`
	SEODescription string    `json:"seo_description"`
	H1Title        string    `json:"h1_title"`
	IntroText      string    `json:"intro_text"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	Sequence       int       `json:"sequence"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// City is a city page; listings are grouped by city.
type City struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Slug           string     `json:"slug"`
	Image          *string    `json:"image,omitempty"`
	Description    string     `json:"description"`
	SEOTitle       string     `json:"seo_title"`
	SEODescription string     `json:"seo_description"`
	H1Title        string     `json:"h1_title"`
	IntroText      string     `json:"intro_text"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
	StateID        *uuid.UUID `json:"state_id,omitempty"`
	Sequence       int        `json:"sequence"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Service describes a service offered across the directory.
type Service struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Category        *string   `json:"category,omitempty"`
	ImageURL        string    `json:"image_url"`
	Description     string    `json:"description"`
	SEOTitle        string    `json:"seo_title"`
	SEODescription  string    `json:"seo_description"`
	H1Title         string    `json:"h1_title"`
	IntroText       string    `json:"intro_text"`
	Icon            *string   `json:"icon,omitempty"`
	Types           []string  `json:"types,omitempty"`
	TypesIntro      *string   `json:"types_intro,omitempty"`
	TypesConclusion *string   `json:"types_conclusion,omitempty"`
	Sequence        int       `json:"sequence"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
