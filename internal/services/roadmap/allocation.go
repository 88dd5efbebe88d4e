package roadmap

import (
	"fmt"
	"math"

	"github.com/benvon/roadmap-api/internal/models"
)

// AllocationTolerance is the permitted deviation from 100 when summing the
// three allocation percentages
const AllocationTolerance = 0.01

var presetAllocations = map[models.RoadmapType]models.AllocationStrategy{
	models.RoadmapTypeStrategicOnly: {Strategic: 70, CustomerDriven: 20, Maintenance: 10},
	models.RoadmapTypeCustomerOnly:  {Strategic: 20, CustomerDriven: 70, Maintenance: 10},
	models.RoadmapTypeBalanced:      {Strategic: 60, CustomerDriven: 30, Maintenance: 10},
}

// ResolveAllocation maps a roadmap type to its allocation strategy. For
// custom roadmaps the caller-supplied triple is validated and returned; for
// the fixed types the preset table is used and any supplied custom triple is
// ignored.
func ResolveAllocation(roadmapType models.RoadmapType, custom *models.AllocationStrategy) (models.AllocationStrategy, error) {
	if roadmapType == models.RoadmapTypeCustom {
		if custom == nil {
			return models.AllocationStrategy{}, &ValidationError{
				Field:   "custom_allocation",
				Message: "custom roadmaps require an allocation strategy",
			}
		}
		if err := ValidateAllocation(*custom); err != nil {
			return models.AllocationStrategy{}, err
		}
		return *custom, nil
	}

	preset, ok := presetAllocations[roadmapType]
	if !ok {
		return models.AllocationStrategy{}, &ValidationError{
			Field:   "type",
			Message: fmt.Sprintf("unknown roadmap type: %s", roadmapType),
		}
	}
	return preset, nil
}

// ValidateAllocation checks that every percentage is within [0,100] and that
// the triple sums to 100 within AllocationTolerance
func ValidateAllocation(a models.AllocationStrategy) error {
	for _, pct := range []struct {
		name  string
		value float64
	}{
		{"strategic", a.Strategic},
		{"customer_driven", a.CustomerDriven},
		{"maintenance", a.Maintenance},
	} {
		if pct.value < 0 || pct.value > 100 {
			return &ValidationError{
				Field:   "custom_allocation." + pct.name,
				Message: fmt.Sprintf("percentage must be between 0 and 100, got %g", pct.value),
			}
		}
	}

	if sum := a.Sum(); math.Abs(sum-100) > AllocationTolerance {
		return &ValidationError{
			Field:   "custom_allocation",
			Message: fmt.Sprintf("allocation percentages must sum to 100, got %g", sum),
		}
	}
	return nil
}
