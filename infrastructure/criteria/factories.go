package criteria

import (
	"github.com/ajmercer/go-dealscout/internal/ports"
)

// Factory functions adapting flexible configuration maps onto the typed
// criterion constructors, following the registry factory pattern. Each
// starts from the criterion's defaults and overlays the provided values.

// CreatePriceVsEstimate builds a price_vs_estimate criterion from a
// configuration map.
func CreatePriceVsEstimate(config map[string]any) (ports.Criterion, error) {
	cfg := DefaultPriceVsEstimateConfig()
	if err := overlay(config, &cfg); err != nil {
		return nil, err
	}
	return NewPriceVsEstimate(cfg)
}

// CreatePricePerSqft builds a price_per_sqft criterion from a
// configuration map.
func CreatePricePerSqft(config map[string]any) (ports.Criterion, error) {
	cfg := DefaultPricePerSqftConfig()
	if err := overlay(config, &cfg); err != nil {
		return nil, err
	}
	return NewPricePerSqft(cfg)
}

// CreateDaysOnMarket builds a days_on_market criterion from a
// configuration map.
func CreateDaysOnMarket(config map[string]any) (ports.Criterion, error) {
	cfg := DefaultDaysOnMarketConfig()
	if err := overlay(config, &cfg); err != nil {
		return nil, err
	}
	return NewDaysOnMarket(cfg)
}

// CreatePriceReductions builds a price_reductions criterion from a
// configuration map.
func CreatePriceReductions(config map[string]any) (ports.Criterion, error) {
	cfg := DefaultPriceReductionsConfig()
	if err := overlay(config, &cfg); err != nil {
		return nil, err
	}
	return NewPriceReductions(cfg)
}

// CreateHOACost builds an hoa_cost criterion from a configuration map.
func CreateHOACost(config map[string]any) (ports.Criterion, error) {
	cfg := DefaultHOACostConfig()
	if err := overlay(config, &cfg); err != nil {
		return nil, err
	}
	return NewHOACost(cfg)
}

// CreateTaxRate builds a tax_rate criterion from a configuration map.
func CreateTaxRate(config map[string]any) (ports.Criterion, error) {
	cfg := DefaultTaxRateConfig()
	if err := overlay(config, &cfg); err != nil {
		return nil, err
	}
	return NewTaxRate(cfg)
}

// CreateSchoolRating builds a school_rating criterion.
func CreateSchoolRating(_ map[string]any) (ports.Criterion, error) {
	return NewSchoolRating(), nil
}

// CreateWalkScore builds a walk_score criterion.
func CreateWalkScore(_ map[string]any) (ports.Criterion, error) {
	return NewWalkScore(), nil
}

// CreateFloodRisk builds a flood_risk criterion.
func CreateFloodRisk(_ map[string]any) (ports.Criterion, error) {
	return NewFloodRisk(), nil
}

// CreateCommuteTime builds a commute_time criterion from a configuration
// map.
func CreateCommuteTime(config map[string]any) (ports.Criterion, error) {
	cfg := DefaultCommuteTimeConfig()
	if err := overlay(config, &cfg); err != nil {
		return nil, err
	}
	return NewCommuteTime(cfg)
}

// CreateLotSizeValue builds a lot_size_value criterion from a
// configuration map.
func CreateLotSizeValue(config map[string]any) (ports.Criterion, error) {
	cfg := DefaultLotSizeValueConfig()
	if err := overlay(config, &cfg); err != nil {
		return nil, err
	}
	return NewLotSizeValue(cfg)
}

// CreateBedBathValue builds a bed_bath_value criterion from a
// configuration map.
func CreateBedBathValue(config map[string]any) (ports.Criterion, error) {
	cfg := DefaultBedBathValueConfig()
	if err := overlay(config, &cfg); err != nil {
		return nil, err
	}
	return NewBedBathValue(cfg)
}

// CreateFeaturesBonus builds a features_bonus criterion from a
// configuration map.
func CreateFeaturesBonus(config map[string]any) (ports.Criterion, error) {
	cfg := DefaultFeaturesBonusConfig()
	if err := overlay(config, &cfg); err != nil {
		return nil, err
	}
	return NewFeaturesBonus(cfg)
}

// CreatePropertyAge builds a property_age criterion from a configuration
// map.
func CreatePropertyAge(config map[string]any) (ports.Criterion, error) {
	cfg := DefaultPropertyAgeConfig()
	if err := overlay(config, &cfg); err != nil {
		return nil, err
	}
	return NewPropertyAge(cfg)
}
