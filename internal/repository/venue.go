package repository

import (
	"context"
	"errors"

	"github.com/campusbites/checkout/internal/models"
	"github.com/campusbites/checkout/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const (
	selectVendorQuery = `
						SELECT vendor_id, name, university_id FROM vendors
						WHERE vendor_id = $1
`
	selectChargesQuery = `
						SELECT packing_charge, delivery_charge FROM university_charges
						WHERE university_id = $1
`
)

// VenueRepository implements fee-schedule lookups against venue data
type VenueRepository struct {
	db *postgres.DB
}

// NewVenueRepository creates new VenueRepository instance
func NewVenueRepository(db *postgres.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

// GetVendor returns vendor by id
func (vr *VenueRepository) GetVendor(ctx context.Context, vendorID string) (*models.Vendor, error) {
	vendor := models.Vendor{}
	err := vr.db.QueryRow(ctx, selectVendorQuery, vendorID).Scan(&vendor.VendorID, &vendor.Name, &vendor.UniversityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &vendor, nil
}

// GetUniversityCharges returns the fee schedule of a university
func (vr *VenueRepository) GetUniversityCharges(ctx context.Context, universityID string) (models.FeeSchedule, error) {
	schedule := models.FeeSchedule{}
	err := vr.db.QueryRow(ctx, selectChargesQuery, universityID).Scan(&schedule.Packaging, &schedule.Delivery)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.FeeSchedule{}, models.ErrDataNotFound
		}
		return models.FeeSchedule{}, err
	}

	return schedule, nil
}
