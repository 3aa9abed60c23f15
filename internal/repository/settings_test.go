package repository_test

import (
	"context"
	"testing"

	"github.com/bensuskins/family-meals/internal/repository"
	"github.com/bensuskins/family-meals/internal/testutil"
)

func TestSettingsRepository_SeededFamilyName(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewSettingsRepository(db)

	value, err := repo.Get(context.Background(), repository.SettingFamilyName)
	if err != nil {
		t.Fatalf("getting seeded setting: %v", err)
	}
	if value != "Family" {
		t.Errorf("expected seeded 'Family', got %q", value)
	}
}

func TestSettingsRepository_SetOverwrites(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewSettingsRepository(db)
	ctx := context.Background()

	repo.Set(ctx, repository.SettingFamilyName, "Lindqvist")
	if err := repo.Set(ctx, repository.SettingFamilyName, "Berg"); err != nil {
		t.Fatalf("setting value: %v", err)
	}

	value, err := repo.Get(ctx, repository.SettingFamilyName)
	if err != nil {
		t.Fatalf("getting value: %v", err)
	}
	if value != "Berg" {
		t.Errorf("expected 'Berg', got %q", value)
	}
}

func TestSettingsRepository_Missing(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewSettingsRepository(db)
	ctx := context.Background()

	if _, err := repo.Get(ctx, "nonexistent_key"); !repository.IsNotFound(err) {
		t.Errorf("expected not found for missing key, got %v", err)
	}
	if value := repo.GetOrDefault(ctx, "nonexistent_key", "fallback"); value != "fallback" {
		t.Errorf("expected fallback, got %q", value)
	}

	repo.Set(ctx, "blank", "")
	if value := repo.GetOrDefault(ctx, "blank", "fallback"); value != "fallback" {
		t.Errorf("expected fallback for blank value, got %q", value)
	}
}
