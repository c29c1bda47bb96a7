package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/centerkech-api/internal/models"
	"github.com/noah-isme/centerkech-api/internal/repository"
	"github.com/noah-isme/centerkech-api/internal/repository/backend"
	"github.com/noah-isme/centerkech-api/pkg/config"
	"github.com/noah-isme/centerkech-api/pkg/logger"
	"github.com/noah-isme/centerkech-api/pkg/password"
)

const defaultImage = "https://mma.prnewswire.com/media/1888550/Center_Midnight_Logo.jpg?p=facebook"

var seedLocations = []models.Location{
	{
		ID:          "centre-1",
		Name:        "Centre Sidi Youssef Ben Ali",
		Address:     "Diour Chouhadaa SYBA Marrakech",
		Phone:       "+212 6 75 77 58 84",
		Email:       "contact@centerkech.com",
		Coordinates: []float64{31.606, -7.9614},
		Hours:       "Lun-Ven: 9h-18h, Sam: 9h-13h",
		Specialties: []string{"Langues", "Informatique", "Mathématiques"},
		Image:       defaultImage,
	},
	{
		ID:          "centre-2",
		Name:        "Centre M'Hamid",
		Address:     "M'Hamid - Marrakech",
		Phone:       "+212 6 75 77 58 84",
		Email:       "contact@centerkech.com",
		Coordinates: []float64{31.5933, -8.0211},
		Hours:       "Lun-Ven: 8h30-19h, Sam: 9h-14h",
		Specialties: []string{"Sciences", "Robotique", "Arts Plastiques"},
		Image:       defaultImage,
	},
	{
		ID:          "centre-3",
		Name:        "Centre Moussa Ibn Noussaire",
		Address:     "Av. Moussa Ibn Noussaire, SYBA",
		Phone:       "+212 6 75 77 58 84",
		Email:       "contact@centerkech.com",
		Coordinates: []float64{31.6092, -7.9587},
		Hours:       "Lun-Ven: 9h-20h, Sam-Dim: 10h-16h",
		Specialties: []string{"Musique", "Théâtre", "Développement Personnel"},
		Image:       defaultImage,
	},
}

func main() {
	var (
		reset         bool
		adminEmail    string
		adminPassword string
		adminName     string
	)
	flag.BoolVar(&reset, "reset", false, "delete every user and location before seeding")
	flag.StringVar(&adminEmail, "admin-email", "admin@centerkech.com", "admin account email")
	flag.StringVar(&adminPassword, "admin-password", "admin123", "admin account password")
	flag.StringVar(&adminName, "admin-name", "Admin User", "admin account display name")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	repos, err := backend.Open(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to open store", zap.Error(err))
	}
	defer repos.Close() //nolint:errcheck

	hasher, err := password.New(cfg.Auth.HashAlgorithm, cfg.Auth.BcryptCost)
	if err != nil {
		logr.Fatal("failed to init password hasher", zap.Error(err))
	}

	if reset {
		if err := wipe(ctx, repos); err != nil {
			logr.Fatal("failed to clear existing data", zap.Error(err))
		}
		logr.Info("existing users and locations cleared")
	}

	if err := seedAdmin(ctx, repos.Users, hasher, adminEmail, adminPassword, adminName); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			logr.Fatal("failed to create admin user", zap.Error(err))
		}
		logr.Info("admin user already exists", zap.String("email", adminEmail))
	} else {
		logr.Info("admin user created", zap.String("email", adminEmail))
	}

	for _, loc := range seedLocations {
		loc := loc
		if _, err := repos.Locations.Upsert(ctx, &loc); err != nil {
			logr.Fatal("failed to seed location", zap.String("id", loc.ID), zap.Error(err))
		}
	}
	logr.Info("database seeded", zap.Int("locations", len(seedLocations)))
}

func wipe(ctx context.Context, repos *repository.Repositories) error {
	users, err := repos.Users.List(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if err := repos.Users.Delete(ctx, u.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}
	locations, err := repos.Locations.List(ctx)
	if err != nil {
		return err
	}
	for _, loc := range locations {
		if err := repos.Locations.Delete(ctx, loc.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}
	return nil
}

func seedAdmin(ctx context.Context, users repository.UserStore, hasher *password.Hasher, email, secret, name string) error {
	digest, err := hasher.Hash(secret)
	if err != nil {
		return err
	}
	return users.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: digest,
		Name:         name,
		Role:         models.RoleAdmin,
		IsActive:     true,
	})
}
