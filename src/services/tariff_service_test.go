package services

import (
	"math/rand"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/tariffscope/src/logger"
	"github.com/username/tariffscope/src/models"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func newSeededEstimator(t *testing.T) TariffEstimator {
	t.Helper()
	return NewTariffService(rand.New(rand.NewSource(42)))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEstimateCustomsValueIsExact(t *testing.T) {
	est := newSeededEstimator(t)

	result := est.Estimate("8517.62.00", "CN", "CN", dec("100.50"), 1000, models.MethodStandard)

	assert.True(t, result.CustomsValue.Equal(dec("100500")),
		"customs value must be cost*quantity exactly, got %s", result.CustomsValue)
	assert.True(t, result.TotalCost.Equal(result.CustomsValue.Add(result.DutyAmount)))
}

func TestEstimateDeminimisBoundary(t *testing.T) {
	est := newSeededEstimator(t)

	below := est.Estimate("6109.10.00", "CN", "CN", dec("799.99"), 1, models.MethodStandard)
	require.True(t, below.CustomsValue.Equal(dec("799.99")))
	assert.True(t, below.DeminimisApplied)
	assert.True(t, below.DutyAmount.IsZero())
	assert.Equal(t, 0.0, below.TotalTariffRate)
	assert.True(t, below.TotalCost.Equal(dec("799.99")))
	require.Len(t, below.CalculationSummary, 1)
	assert.Equal(t, "DUTY_DEMINIMIS_APPLIED", below.CalculationSummary[0].Name)
	assert.Equal(t, "true", below.CalculationSummary[0].Value)

	at := est.Estimate("6109.10.00", "CN", "CN", dec("800.00"), 1, models.MethodStandard)
	assert.False(t, at.DeminimisApplied)
	assert.False(t, at.DutyAmount.IsZero())
	assert.Equal(t, "false", at.CalculationSummary[0].Value)
}

func TestEstimateNoSurchargesOutsideSpecialCountries(t *testing.T) {
	est := newSeededEstimator(t)

	// Germany is in none of the surcharge lists, so the total rate collapses
	// to the baseline.
	for _, method := range []string{models.MethodStandard, models.MethodPreferential} {
		result := est.Estimate("6109.10.00", "DE", "DE", dec("100"), 100, method)
		assert.Equal(t, 0.0, result.ReciprocalRate, "method %s", method)
		assert.Equal(t, 0.0, result.Chapter301Rate, "method %s", method)
		if method == models.MethodPreferential {
			require.NotNil(t, result.SPITariffRate)
			assert.Equal(t, 0.0, *result.SPITariffRate)
			assert.Nil(t, result.IEEPATariffRate)
		} else {
			require.NotNil(t, result.IEEPATariffRate)
			assert.Equal(t, 0.0, *result.IEEPATariffRate)
			assert.Nil(t, result.SPITariffRate)
		}
		assert.Equal(t, 16.5, result.TotalTariffRate, "method %s", method)
	}
}

func TestEstimateSurchargeRanges(t *testing.T) {
	est := newSeededEstimator(t)

	// China under the standard method draws all three surcharge components.
	result := est.Estimate("8517.62.00", "CN", "CN", dec("50"), 100, models.MethodStandard)

	assert.GreaterOrEqual(t, result.ReciprocalRate, 0.0)
	assert.Less(t, result.ReciprocalRate, 5.0)
	assert.GreaterOrEqual(t, result.Chapter301Rate, 7.5)
	assert.Less(t, result.Chapter301Rate, 25.0)
	require.NotNil(t, result.IEEPATariffRate)
	assert.GreaterOrEqual(t, *result.IEEPATariffRate, 10.0)
	assert.Less(t, *result.IEEPATariffRate, 25.0)

	expectedTotal := result.BaselineTariffRate + result.ReciprocalRate + result.Chapter301Rate + *result.IEEPATariffRate
	assert.InDelta(t, expectedTotal, result.TotalTariffRate, 1e-9)
}

func TestEstimatePreferentialSPI(t *testing.T) {
	est := newSeededEstimator(t)

	result := est.Estimate("8471.30.01", "VN", "VN", dec("25"), 100, models.MethodPreferential)

	require.NotNil(t, result.SPITariffRate)
	assert.Nil(t, result.IEEPATariffRate)
	assert.GreaterOrEqual(t, *result.SPITariffRate, 0.0)
	assert.Less(t, *result.SPITariffRate, 10.0)
	// Vietnam gets no reciprocal or Chapter 301 component.
	assert.Equal(t, 0.0, result.ReciprocalRate)
	assert.Equal(t, 0.0, result.Chapter301Rate)
}

func TestEstimateUnknownHSCodeDefaultsToZeroBaseline(t *testing.T) {
	est := newSeededEstimator(t)

	result := est.Estimate("0000.00.00", "DE", "DE", dec("100"), 100, models.MethodStandard)

	assert.Equal(t, 0.0, result.BaselineTariffRate)
	assert.Equal(t, 0.0, result.TotalTariffRate)
	assert.True(t, result.DutyAmount.IsZero())
}

func TestEstimateExampleGermanyExempt(t *testing.T) {
	est := newSeededEstimator(t)

	result := est.Estimate("8517.62.00", "DE", "DE", dec("100"), 5, models.MethodStandard)

	assert.Equal(t, 0.0, result.BaselineTariffRate)
	assert.Equal(t, 0.0, result.TotalTariffRate)
	assert.True(t, result.CustomsValue.Equal(dec("500")))
	assert.True(t, result.DeminimisApplied)
	assert.True(t, result.DutyAmount.IsZero())
	assert.True(t, result.TotalCost.Equal(dec("500")))
}

func TestEstimateDeterministicWithFixedSeed(t *testing.T) {
	a := NewTariffService(rand.New(rand.NewSource(7)))
	b := NewTariffService(rand.New(rand.NewSource(7)))

	ra := a.Estimate("6109.10.00", "CN", "CN", dec("10"), 500, models.MethodStandard)
	rb := b.Estimate("6109.10.00", "CN", "CN", dec("10"), 500, models.MethodStandard)

	assert.Equal(t, ra.TotalTariffRate, rb.TotalTariffRate)
	assert.True(t, ra.DutyAmount.Equal(rb.DutyAmount))
}
