package reference

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountriesOrderedWithSentinelLast(t *testing.T) {
	countries := Countries()
	require.NotEmpty(t, countries)

	last := countries[len(countries)-1]
	assert.Equal(t, NotSpecified, last.Code)

	names := make([]string, 0, len(countries)-1)
	for _, c := range countries[:len(countries)-1] {
		names = append(names, c.Name)
	}
	assert.True(t, sort.StringsAreSorted(names), "countries must be alphabetical by name")
}

func TestLookupHS(t *testing.T) {
	info, ok := LookupHS("6109.10.00")
	require.True(t, ok)
	assert.Equal(t, "T-shirts, cotton", info.Description)
	assert.Equal(t, 16.5, info.BaselineRate)

	_, ok = LookupHS("0000.00.00")
	assert.False(t, ok)
}

func TestBaselineRateDefaultsToZero(t *testing.T) {
	assert.Equal(t, 0.0, BaselineRate("0000.00.00"))
	assert.Equal(t, 5.0, BaselineRate("8528.72.64"))
}

func TestHSCodeListSorted(t *testing.T) {
	codes := HSCodeList()
	require.Len(t, codes, 5)
	assert.True(t, sort.StringsAreSorted(codes))
}
