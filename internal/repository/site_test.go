package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/octobees/servicefinder/internal/entity"
)

func TestPGXSiteRepository_GetLiveBasicInfo(t *testing.T) {
	repo := &PGXSiteRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error {
				*dest[1].(*string) = "Geladeira Express"
				*dest[9].(*string) = "#112233"
				*dest[29].(*bool) = true
				return nil
			}}
		},
	}}

	info, err := repo.GetLiveBasicInfo(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.SiteName != "Geladeira Express" || info.PrimaryColor != "#112233" || !info.IsLive {
		t.Fatalf("unexpected info: %+v", info)
	}

	repo.pool = &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}
	if _, err := repo.GetLiveBasicInfo(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGXContactRepository_Create(t *testing.T) {
	id := uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")
	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var gotArgs []any
	repo := &PGXContactRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			gotArgs = args
			return &stubRow{scan: func(dest ...any) error {
				*dest[0].(*uuid.UUID) = id
				*dest[1].(*time.Time) = created
				return nil
			}}
		},
	}}

	msg := &entity.ContactMessage{Name: "Ana", Email: "ana@example.com", Subject: "Orçamento", Message: "Olá"}
	stored, err := repo.Create(context.Background(), msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.ID != id || !stored.CreatedAt.Equal(created) {
		t.Fatalf("unexpected stored message: %+v", stored)
	}
	if gotArgs[2] != nil {
		t.Fatalf("expected nil phone argument, got %v", gotArgs[2])
	}
	if msg.ID != uuid.Nil {
		t.Fatalf("expected input message untouched")
	}
	if _, err := repo.Create(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil message")
	}
}
