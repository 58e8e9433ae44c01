package pricing

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// Catalog is the read side the resolver needs.
type Catalog interface {
	GetServiceVariant(ctx context.Context, id uuid.UUID) (*models.ServiceVariant, error)
	GetStaffSkill(ctx context.Context, staffID, variantID uuid.UUID) (*models.StaffSkill, error)
}

// Resolver picks the price a staff member charges for a variant: their own
// custom price when set, otherwise the variant's base price.
type Resolver struct {
	catalog Catalog
}

func NewResolver(catalog Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve returns the price in minor currency units. A missing variant is
// reported as the catalog's NotFound error.
func (r *Resolver) Resolve(
	ctx context.Context,
	staffID uuid.UUID,
	variantID uuid.UUID,
) (int64, error) {
	return r.ResolveWith(ctx, r.catalog, staffID, variantID)
}

// ResolveWith reads through another catalog, e.g. a transaction.
func (r *Resolver) ResolveWith(
	ctx context.Context,
	catalog Catalog,
	staffID uuid.UUID,
	variantID uuid.UUID,
) (int64, error) {

	variant, err := catalog.GetServiceVariant(ctx, variantID)
	if err != nil {
		return 0, err
	}

	skill, err := catalog.GetStaffSkill(ctx, staffID, variantID)
	if err != nil {
		return 0, err
	}
	if skill != nil && skill.CustomPriceCents != nil {
		return *skill.CustomPriceCents, nil
	}

	return variant.PriceCents, nil
}
