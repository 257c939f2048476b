// Package reference holds the static country and HS-code tables.
// Both are built once at startup and never mutated afterwards, so they are
// safe for concurrent reads without locking.
package reference

import (
	"sort"
	"sync"

	"github.com/username/tariffscope/src/logger"
)

// NotSpecified is the sentinel country entry shown last in the picker.
// It is never a valid country of origin for a calculation.
const NotSpecified = "Not Specified"

type CountryInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

type HSCodeInfo struct {
	Description  string  `json:"description"`
	BaselineRate float64 `json:"baseline_rate"`
}

var (
	countries []CountryInfo
	hsCodes   map[string]HSCodeInfo
	initOnce  sync.Once
)

// Init builds the reference tables. Call once from main before serving.
func Init() {
	initOnce.Do(func() {
		countries = buildCountryTable()
		hsCodes = buildHSTable()
		if logger.L != nil {
			logger.L.Info("Reference data initialized",
				"countryCount", len(countries),
				"hsCodeCount", len(hsCodes))
		}
	})
}

// Countries returns the country list in display order: alphabetical by name,
// with the "Not Specified" sentinel last.
func Countries() []CountryInfo {
	Init()
	return countries
}

// HSCodeList returns the known HS codes sorted ascending.
func HSCodeList() []string {
	Init()
	codes := make([]string, 0, len(hsCodes))
	for code := range hsCodes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// LookupHS returns the reference entry for an HS code.
func LookupHS(code string) (HSCodeInfo, bool) {
	Init()
	info, ok := hsCodes[code]
	return info, ok
}

// BaselineRate returns the baseline duty rate for an HS code, defaulting to
// zero when the code is unknown. Missing codes are not an error.
func BaselineRate(code string) float64 {
	info, ok := LookupHS(code)
	if !ok {
		return 0.0
	}
	return info.BaselineRate
}

func buildCountryTable() []CountryInfo {
	list := []CountryInfo{
		{Code: "AU", Name: "Australia", Flag: "🇦🇺"},
		{Code: "BR", Name: "Brazil", Flag: "🇧🇷"},
		{Code: "CA", Name: "Canada", Flag: "🇨🇦"},
		{Code: "CN", Name: "China", Flag: "🇨🇳"},
		{Code: "FR", Name: "France", Flag: "🇫🇷"},
		{Code: "DE", Name: "Germany", Flag: "🇩🇪"},
		{Code: "IN", Name: "India", Flag: "🇮🇳"},
		{Code: "ID", Name: "Indonesia", Flag: "🇮🇩"},
		{Code: "IT", Name: "Italy", Flag: "🇮🇹"},
		{Code: "JP", Name: "Japan", Flag: "🇯🇵"},
		{Code: "MY", Name: "Malaysia", Flag: "🇲🇾"},
		{Code: "MX", Name: "Mexico", Flag: "🇲🇽"},
		{Code: "PH", Name: "Philippines", Flag: "🇵🇭"},
		{Code: "RU", Name: "Russia", Flag: "🇷🇺"},
		{Code: "KR", Name: "South Korea", Flag: "🇰🇷"},
		{Code: "ES", Name: "Spain", Flag: "🇪🇸"},
		{Code: "TH", Name: "Thailand", Flag: "🇹🇭"},
		{Code: "GB", Name: "United Kingdom", Flag: "🇬🇧"},
		{Code: "US", Name: "United States", Flag: "🇺🇸"},
		{Code: "VN", Name: "Vietnam", Flag: "🇻🇳"},
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	// Sentinel entry always last, regardless of alphabetical position.
	return append(list, CountryInfo{Code: NotSpecified, Name: NotSpecified, Flag: "🌍"})
}

func buildHSTable() map[string]HSCodeInfo {
	return map[string]HSCodeInfo{
		"8517.62.00": {Description: "Machines for reception, conversion of voice, image", BaselineRate: 0.0},
		"6109.10.00": {Description: "T-shirts, cotton", BaselineRate: 16.5},
		"8471.30.01": {Description: "Portable computers", BaselineRate: 0.0},
		"9503.00.00": {Description: "Tricycles, scooters, pedal cars, toys", BaselineRate: 0.0},
		"8528.72.64": {Description: "Reception apparatus for TV", BaselineRate: 5.0},
	}
}
