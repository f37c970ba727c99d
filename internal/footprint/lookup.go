// Package footprint estimates meal footprints from a bundled table of
// kg CO2e per kg of food.
package footprint

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/vladimiradmaev/footprint-helper/internal/domain"
)

// DefaultPortionGrams is assumed when a quantity has no usable mass
const DefaultPortionGrams = 150.0

//go:embed footprints.csv
var bundled string

var gramsPerUnit = map[string]float64{
	"mg":  0.001,
	"g":   1,
	"gr":  1,
	"kg":  1000,
	"oz":  28.349523125,
	"lb":  453.59237,
	"lbs": 453.59237,
	"ml":  1,
	"cl":  10,
	"dl":  100,
	"l":   1000,
}

var (
	quantityPattern = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*([a-z]*)\s*$`)
	trailingQty     = regexp.MustCompile(`(?i)^(.*?)\s+(\d+(?:\.\d+)?\s*[a-z]*)$`)
	itemSeparator   = regexp.MustCompile(`\s*[,;]\s*`)
)

type factor struct {
	name  string
	perKg float64
}

// Lookup matches food names against the table. Longer names win, so
// "soy milk" is preferred over "milk".
type Lookup struct {
	factors []factor
}

var (
	defaultOnce   sync.Once
	defaultLookup *Lookup
)

// Default returns the lookup built from the bundled table
func Default() *Lookup {
	defaultOnce.Do(func() {
		l, err := Load(strings.NewReader(bundled))
		if err != nil {
			panic(fmt.Sprintf("bundled footprint table: %v", err))
		}
		defaultLookup = l
	})
	return defaultLookup
}

// Load reads a food,kg_co2e_per_kg table with a header row
func Load(r io.Reader) (*Lookup, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read footprint csv: %w", err)
	}
	if len(records) <= 1 {
		return nil, fmt.Errorf("footprint csv contains no data rows")
	}

	factors := make([]factor, 0, len(records)-1)
	for i, row := range records[1:] {
		if len(row) != 2 {
			return nil, fmt.Errorf("csv row %d has %d columns, expected 2", i+2, len(row))
		}
		perKg, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil || perKg < 0 {
			return nil, fmt.Errorf("csv row %d: invalid factor %q", i+2, row[1])
		}
		factors = append(factors, factor{name: strings.ToLower(strings.TrimSpace(row[0])), perKg: perKg})
	}
	sort.SliceStable(factors, func(i, j int) bool {
		return len(factors[i].name) > len(factors[j].name)
	})
	return &Lookup{factors: factors}, nil
}

// Factor returns kg CO2e per kg for the first table food contained in name
func (l *Lookup) Factor(name string) (float64, bool) {
	lower := strings.ToLower(name)
	for _, f := range l.factors {
		if strings.Contains(lower, f.name) {
			return f.perKg, true
		}
	}
	return 0, false
}

// Estimate returns the footprint in kg CO2e of quantity of name
func (l *Lookup) Estimate(name, quantity string) (float64, bool) {
	perKg, ok := l.Factor(name)
	if !ok {
		return 0, false
	}
	return round(perKg * Grams(quantity) / 1000), true
}

// Fill returns a copy of items where every missing footprint that the
// table can estimate is filled in
func (l *Lookup) Fill(items []domain.FoodItem) []domain.FoodItem {
	out := make([]domain.FoodItem, len(items))
	for i, item := range items {
		out[i] = item
		if item.Footprint != nil {
			v := *item.Footprint
			out[i].Footprint = &v
			continue
		}
		if v, ok := l.Estimate(item.Name, item.Quantity); ok {
			out[i].Footprint = &v
		}
	}
	return out
}

// ParseItems splits free text like "rice 200g, beans 100 g; salad" on
// commas and semicolons into food items with estimated footprints. Words
// such as "and" stay inside names, as in "mac and cheese".
func (l *Lookup) ParseItems(text string) []domain.FoodItem {
	var items []domain.FoodItem
	for _, part := range itemSeparator.Split(strings.TrimSpace(text), -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		item := domain.FoodItem{Name: part}
		if m := trailingQty.FindStringSubmatch(part); m != nil {
			item.Name, item.Quantity = strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		}
		items = append(items, item)
	}
	return l.Fill(items)
}

// Grams converts a quantity such as "200 g" or "0.3kg" to grams. Volumes
// count as water. A bare or unknown unit counts as that many portions.
func Grams(quantity string) float64 {
	m := quantityPattern.FindStringSubmatch(quantity)
	if m == nil {
		return DefaultPortionGrams
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil || amount <= 0 {
		return DefaultPortionGrams
	}
	if perUnit, ok := gramsPerUnit[strings.ToLower(m[2])]; ok {
		return amount * perUnit
	}
	return amount * DefaultPortionGrams
}

func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}
