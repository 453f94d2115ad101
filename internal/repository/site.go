package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/servicefinder/internal/entity"
)

// SiteRepository exposes the content-managed site settings.
type SiteRepository interface {
	GetLiveBasicInfo(ctx context.Context) (*entity.BasicInfo, error)
}

// PGXSiteRepository implements SiteRepository using pgx.
type PGXSiteRepository struct {
	pool pgxPool
}

// NewPGXSiteRepository wires a pgx backed repository.
func NewPGXSiteRepository(pool *pgxpool.Pool) *PGXSiteRepository {
	return &PGXSiteRepository{pool: pool}
}

// GetLiveBasicInfo returns the settings row flagged as live.
func (r *PGXSiteRepository) GetLiveBasicInfo(ctx context.Context) (*entity.BasicInfo, error) {
	var info entity.BasicInfo
	err := r.pool.QueryRow(ctx, `
        SELECT id, site_name, tagline, domain, logo, logo_alt, banner_image, banner_alt, favicon,
               primary_color, secondary_color, support_email, contact_phone,
               meta_title, meta_description, meta_keywords, og_title, og_description, og_image,
               twitter_title, twitter_description, twitter_image,
               default_city, default_state, default_service, schema_org_type,
               business_name, business_address, footer_text, is_live, created_at, updated_at
        FROM basic_info
        WHERE is_live = TRUE
        ORDER BY updated_at DESC
        LIMIT 1
    `).Scan(
		&info.ID, &info.SiteName, &info.Tagline, &info.Domain, &info.Logo, &info.LogoAlt,
		&info.BannerImage, &info.BannerAlt, &info.Favicon,
		&info.PrimaryColor, &info.SecondaryColor, &info.SupportEmail, &info.ContactPhone,
		&info.MetaTitle, &info.MetaDescription, &info.MetaKeywords,
		&info.OGTitle, &info.OGDescription, &info.OGImage,
		&info.TwitterTitle, &info.TwitterDescription, &info.TwitterImage,
		&info.DefaultCity, &info.DefaultState, &info.DefaultService, &info.SchemaOrgType,
		&info.BusinessName, &info.BusinessAddress, &info.FooterText, &info.IsLive,
		&info.CreatedAt, &info.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get live basic info: %w", err)
	}
	return &info, nil
}

// ContactRepository stores contact form submissions.
type ContactRepository interface {
	Create(ctx context.Context, msg *entity.ContactMessage) (*entity.ContactMessage, error)
}

// PGXContactRepository implements ContactRepository using pgx.
type PGXContactRepository struct {
	pool pgxPool
}

// NewPGXContactRepository wires a pgx backed repository.
func NewPGXContactRepository(pool *pgxpool.Pool) *PGXContactRepository {
	return &PGXContactRepository{pool: pool}
}

// Create persists a contact message and returns the stored row.
func (r *PGXContactRepository) Create(ctx context.Context, msg *entity.ContactMessage) (*entity.ContactMessage, error) {
	if msg == nil {
		return nil, fmt.Errorf("contact message is nil")
	}
	stored := *msg
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
        INSERT INTO contact_messages (name, email, phone, subject, message, request_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at
    `,
		msg.Name, msg.Email, stringOrNil(msg.Phone), msg.Subject, msg.Message, stringOrNil(msg.RequestID),
	).Scan(&id, &stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert contact message: %w", err)
	}
	stored.ID = id
	return &stored, nil
}
