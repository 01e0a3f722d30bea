package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	appModels "github.com/Asus75000/sae-prof/internal/app/models"
	appRepos "github.com/Asus75000/sae-prof/internal/app/repositories"
	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
	"github.com/Asus75000/sae-prof/internal/pkg/auth"
	"github.com/rs/zerolog"
)

// Options describes the default data
type Options struct {
	AdminEmail     string
	AdminPassword  string
	AdminFirstName string
	AdminLastName  string
	Categories     []string
	Today          time.Time
}

// CreateDefaultData creates the administrator account and the default sport
// categories if they don't exist. Every step runs even if a previous one failed.
func CreateDefaultData(ctx context.Context, members appRepos.IMemberRepository, categories appRepos.ICategoryRepository, opts Options, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (administrator, categories)...")
	var finalErr error

	if err := createAdmin(ctx, members, opts); err != nil {
		lgr.Error().Err(err).Str("email", opts.AdminEmail).Msg("Error creating administrator account")
		finalErr = errors.Join(finalErr, err)
	}

	for _, label := range opts.Categories {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		_, err := categories.Create(ctx, &appModels.SportCategory{Label: label})
		if err != nil && !errors.Is(err, apperrors.ErrCategoryAlreadyExists) {
			lgr.Error().Err(err).Str("label", label).Msg("Error creating default category")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data is in place.")
	}
	return finalErr
}

func createAdmin(ctx context.Context, members appRepos.IMemberRepository, opts Options) error {
	email := strings.ToLower(strings.TrimSpace(opts.AdminEmail))
	if email == "" {
		return nil
	}

	exists, err := members.EmailExists(ctx, email)
	if err != nil || exists {
		return err
	}

	hash, err := auth.HashPassword(opts.AdminPassword)
	if err != nil {
		return err
	}

	firstName, lastName := opts.AdminFirstName, opts.AdminLastName
	if firstName == "" {
		firstName = "Admin"
	}
	if lastName == "" {
		lastName = "Kasta"
	}
	today := opts.Today
	admin := &appModels.Member{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
		TShirtSize:   "M",
		SweaterSize:  "M",
		Status:       appModels.MemberStatusApproved,
		StatusDate:   &today,
		IsAdherent:   true,
		IsManager:    true,
		IsAdmin:      true,
	}
	_, err = members.Create(ctx, admin)
	if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		return nil
	}
	return err
}
