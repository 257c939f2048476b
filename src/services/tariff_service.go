// src/services/tariff_service.go
package services

import (
	"math/rand"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/username/tariffscope/src/models"
	"github.com/username/tariffscope/src/reference"
)

// DeminimisThresholdUSD is the US de-minimis customs value. Shipments valued
// below it are exempt from duty.
var DeminimisThresholdUSD = decimal.NewFromInt(800)

// tariffServiceImpl implements TariffEstimator. The randomness source is
// injected so tests can seed it; production wiring seeds from the clock,
// preserving the observed non-deterministic surcharge behavior.
type tariffServiceImpl struct {
	mu  sync.Mutex // rand.Rand is not safe for concurrent use
	rng *rand.Rand
}

// NewTariffService creates the local estimator with the given randomness
// source.
func NewTariffService(rng *rand.Rand) TariffEstimator {
	return &tariffServiceImpl{rng: rng}
}

// uniform draws from [lo, hi).
func (s *tariffServiceImpl) uniform(lo, hi float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rng.Float64()*(hi-lo)
}

// Estimate combines the baseline HS rate with the surcharge components for
// the origin country and calculation method, then applies the de-minimis
// exemption. All rates are percentage points; monetary values are exact
// decimals.
func (s *tariffServiceImpl) Estimate(hsCode, countryOfOrigin, vendorCountry string, costPerUnit decimal.Decimal, quantity int, method string) models.TariffResult {
	baselineRate := reference.BaselineRate(hsCode)

	var reciprocalRate, chapter301Rate, spiRate, ieepaRate float64

	// Reciprocal tariff applies to a fixed set of origin countries.
	switch countryOfOrigin {
	case "CN", "MX", "CA":
		reciprocalRate = s.uniform(0, 5)
	}

	// Chapter 301 is China specific.
	if countryOfOrigin == "CN" {
		chapter301Rate = s.uniform(7.5, 25)
	}

	if method == models.MethodPreferential {
		switch countryOfOrigin {
		case "MX", "CA", "VN":
			spiRate = s.uniform(0, 10)
		}
	} else {
		switch countryOfOrigin {
		case "CN", "RU":
			ieepaRate = s.uniform(10, 25)
		}
	}

	totalRate := baselineRate + reciprocalRate + chapter301Rate
	if method == models.MethodPreferential {
		totalRate += spiRate
	} else {
		totalRate += ieepaRate
	}

	customsValue := costPerUnit.Mul(decimal.NewFromInt(int64(quantity)))

	var dutyAmount decimal.Decimal
	var effectiveRate float64
	deminimisApplied := false

	if customsValue.LessThan(DeminimisThresholdUSD) {
		deminimisApplied = true
		dutyAmount = decimal.Zero
		effectiveRate = 0.0
	} else {
		dutyAmount = customsValue.Mul(decimal.NewFromFloat(totalRate).Div(decimal.NewFromInt(100)))
		effectiveRate = totalRate
	}

	result := models.TariffResult{
		VendorCountry:      vendorCountry,
		CountryOfOrigin:    countryOfOrigin,
		CostPerUnit:        costPerUnit,
		Quantity:           quantity,
		CustomsValue:       customsValue,
		BaselineTariffRate: baselineRate,
		ReciprocalRate:     reciprocalRate,
		Chapter301Rate:     chapter301Rate,
		TotalTariffRate:    effectiveRate,
		DutyAmount:         dutyAmount,
		TotalCost:          customsValue.Add(dutyAmount),
		DeminimisApplied:   deminimisApplied,
		CalculationSummary: []models.SummaryEntry{
			{Name: "DUTY_DEMINIMIS_APPLIED", Value: strconv.FormatBool(deminimisApplied)},
		},
	}

	if method == models.MethodPreferential {
		result.SPITariffRate = &spiRate
	} else {
		result.IEEPATariffRate = &ieepaRate
	}

	return result
}
