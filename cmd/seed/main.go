// seed inserts a development contador for local testing.
// Idempotent: skips the insert if the dev CNPJ already exists.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	accountdomain "portal-xml/backend/internal/account/domain"
	accountrepo "portal-xml/backend/internal/account/repository"
	"portal-xml/backend/internal/config"
	"portal-xml/backend/internal/db"
)

const (
	devCNPJ  = "12.345.678/0001-90"
	devEmail = "dev@portalxml.local"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Env == "production" {
		log.Fatal("seed: refusing to run with APP_ENV=production")
	}

	sqlDB, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	accounts := accountrepo.NewPostgresRepository(sqlDB)
	existing, err := accounts.GetByTaxID(ctx, devCNPJ)
	if err != nil {
		log.Fatalf("seed: lookup: %v", err)
	}
	if existing != nil {
		fmt.Printf("seed: contador %s already exists, nothing to do\n", devCNPJ)
		return
	}

	dev := &accountdomain.Contador{
		ID:        uuid.New().String(),
		Nome:      "Contador de Desenvolvimento",
		TaxID:     devCNPJ,
		Email:     devEmail,
		CreatedAt: time.Now().UTC(),
	}
	if err := accounts.Create(ctx, dev); err != nil {
		log.Fatalf("seed: create: %v", err)
	}
	fmt.Printf("seed: created contador %s (%s); password is set via /auth/primeiro-acesso\n", devCNPJ, devEmail)
}
