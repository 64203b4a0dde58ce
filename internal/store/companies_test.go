package store

import (
	"context"
	"errors"
	"testing"

	"hkexpatjobs/internal/database"
	"hkexpatjobs/internal/database/dbtest"
)

func TestCompanyStore_UpsertKeepsOneRowPerRecruiter(t *testing.T) {
	s := NewCompanyStore(dbtest.Open(t))
	ctx := context.Background()

	first, created, err := s.Upsert(ctx, 5, func(c *database.Company) {
		c.Name = "Harbour Tech"
		c.Verified = true
		c.RecruiterID = 99
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created || first.RecruiterID != 5 || first.Verified {
		t.Fatalf("unexpected created company %+v (created=%v)", first, created)
	}

	second, created, err := s.Upsert(ctx, 5, func(c *database.Company) {
		c.Industry = "Technology"
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if created || second.ID != first.ID || second.Name != "Harbour Tech" || second.Industry != "Technology" {
		t.Fatalf("unexpected updated company %+v (created=%v)", second, created)
	}
}

func TestCompanyStore_SetLogoRequiresCompany(t *testing.T) {
	s := NewCompanyStore(dbtest.Open(t))
	ctx := context.Background()

	if _, err := s.SetLogo(ctx, 1, "/uploads/logo.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, _, err := s.Upsert(ctx, 1, func(c *database.Company) { c.Name = "Acme" }); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	company, err := s.SetLogo(ctx, 1, "/uploads/logo.png")
	if err != nil || company.Logo != "/uploads/logo.png" {
		t.Fatalf("expected logo to be set, got %+v err=%v", company, err)
	}
}
