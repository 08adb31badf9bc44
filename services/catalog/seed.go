package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"detailbook/models"

	"go.uber.org/zap"
)

// SeedEntry is one service with its per-size prices.
type SeedEntry struct {
	Service models.Service        `json:"service"`
	Pricing models.ServicePricing `json:"pricing"`
}

func LoadSeedFile(path string) ([]SeedEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue seed: %w", err)
	}
	var entries []SeedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode catalogue seed: %w", err)
	}
	return entries, nil
}

// Seed upserts every entry so the catalogue matches the seed file.
func (s *Service) Seed(ctx context.Context, entries []SeedEntry) error {
	for i := range entries {
		e := entries[i]
		if e.Service.ID == "" {
			return fmt.Errorf("catalogue seed entry %d has no service id", i)
		}
		if err := s.services.Upsert(ctx, &e.Service); err != nil {
			return err
		}
		e.Pricing.ServiceID = e.Service.ID
		if err := s.pricing.Upsert(ctx, &e.Pricing); err != nil {
			return err
		}
	}
	s.logger.Info("catalogue seeded", zap.Int("services", len(entries)))
	return nil
}
