package service

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/database"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/model"
	"github.com/BrokenDetector/Coupon-calendar-sub000/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db              *sql.DB
	currencyService *CurrencyService
	features        map[string]bool
}

// NewSystemService creates a new SystemService.
// features lists configuration switches reported by the version endpoint.
func NewSystemService(db *sql.DB, currencyService *CurrencyService, features map[string]bool) *SystemService {
	return &SystemService{
		db:              db,
		currencyService: currencyService,
		features:        features,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth(ctx context.Context) error {
	return database.HealthCheck(ctx, s.db)
}

// CheckVersion reports the application and schema versions and whether the
// currency rate table has been loaded.
func (s *SystemService) CheckVersion(ctx context.Context) (model.VersionInfo, error) {
	dbVersion, err := database.SchemaVersion(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, err
	}

	features := make(map[string]bool, len(s.features)+1)
	for name, enabled := range s.features {
		features[name] = enabled
	}
	features["rates_loaded"] = s.currencyService.Rates() != nil

	return model.VersionInfo{
		AppVersion: version.Version,
		DbVersion:  strconv.FormatInt(dbVersion, 10),
		Features:   features,
	}, nil
}
