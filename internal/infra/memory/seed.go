package memory

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// Seed is the YAML fixture format used to populate a memory store.
type Seed struct {
	Staff []struct {
		ID           string `yaml:"id"`
		LocationID   string `yaml:"location_id"`
		Name         string `yaml:"name"`
		WorkingHours []struct {
			Weekday int    `yaml:"weekday"`
			Start   string `yaml:"start"`
			End     string `yaml:"end"`
		} `yaml:"working_hours"`
	} `yaml:"staff"`

	Variants []struct {
		ID              string `yaml:"id"`
		Name            string `yaml:"name"`
		DurationMinutes int    `yaml:"duration_minutes"`
		PriceCents      int64  `yaml:"price_cents"`
	} `yaml:"variants"`

	Skills []struct {
		StaffID          string `yaml:"staff_id"`
		ServiceVariantID string `yaml:"service_variant_id"`
		CustomPriceCents *int64 `yaml:"custom_price_cents"`
	} `yaml:"skills"`
}

// LoadSeedFile reads a fixture from disk, expanding ${ENV} references.
func LoadSeedFile(path string) (*Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed([]byte(os.ExpandEnv(string(raw))))
}

func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return &seed, nil
}

// Apply writes the fixture into s.
func (seed *Seed) Apply(ctx context.Context, s *Store) error {
	for _, st := range seed.Staff {
		id, err := uuid.Parse(st.ID)
		if err != nil {
			return fmt.Errorf("staff %q: %w", st.Name, err)
		}
		loc, err := uuid.Parse(st.LocationID)
		if err != nil {
			return fmt.Errorf("staff %q location: %w", st.Name, err)
		}
		s.SaveStaff(models.Staff{ID: id, LocationID: loc, Name: st.Name, Active: true})

		rules := make([]models.WorkingHours, 0, len(st.WorkingHours))
		for _, wh := range st.WorkingHours {
			rule := models.WorkingHours{StaffID: id, Weekday: wh.Weekday, StartTime: wh.Start, EndTime: wh.End}
			if err := domain.ValidateRule(rule); err != nil {
				return fmt.Errorf("staff %q working hours: %w", st.Name, err)
			}
			rules = append(rules, rule)
		}
		if err := s.ReplaceWorkingHours(ctx, id, rules); err != nil {
			return err
		}
	}

	for _, v := range seed.Variants {
		id, err := uuid.Parse(v.ID)
		if err != nil {
			return fmt.Errorf("variant %q: %w", v.Name, err)
		}
		s.SaveServiceVariant(models.ServiceVariant{
			ID:              id,
			Name:            v.Name,
			DurationMinutes: v.DurationMinutes,
			PriceCents:      v.PriceCents,
			Active:          true,
		})
	}

	for _, sk := range seed.Skills {
		staffID, err := uuid.Parse(sk.StaffID)
		if err != nil {
			return fmt.Errorf("skill staff id: %w", err)
		}
		variantID, err := uuid.Parse(sk.ServiceVariantID)
		if err != nil {
			return fmt.Errorf("skill variant id: %w", err)
		}
		s.SaveStaffSkill(models.StaffSkill{
			StaffID:          staffID,
			ServiceVariantID: variantID,
			CustomPriceCents: sk.CustomPriceCents,
		})
	}

	return nil
}
