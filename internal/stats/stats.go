// Package stats derives ownership costs and usage figures from items and
// their wear history. Everything here is pure; callers load the rows.
package stats

import (
	"sort"

	"soravault/internal/models"
)

const (
	daysPerYear    = 365.0
	rotationWindow = 30
	rankingSize    = 5
)

type ItemStats struct {
	ItemID                string       `json:"item_id"`
	Name                  string       `json:"name"`
	DaysOwned             int          `json:"days_owned"`
	WearDays              float64      `json:"wear_days"`
	WearCount             int          `json:"wear_count"`
	LastWorn              *models.Date `json:"last_worn,omitempty"`
	CostBasis             float64      `json:"cost_basis"`
	Value                 float64      `json:"value"`
	Depreciation          float64      `json:"depreciation"`
	DepreciationPct       float64      `json:"depreciation_pct"`
	AnnualDepreciationPct float64      `json:"annual_depreciation_pct"`
	CostPerWear           *float64     `json:"cost_per_wear,omitempty"`
	NetCostPerWear        *float64     `json:"net_cost_per_wear,omitempty"`
	WaterExposures        int          `json:"water_exposures"`
}

type ItemUsage struct {
	ItemID   string  `json:"item_id"`
	Name     string  `json:"name"`
	WearDays float64 `json:"wear_days"`
}

type Summary struct {
	ItemCount         int                `json:"item_count"`
	ActiveCount       int                `json:"active_count"`
	TotalCost         float64            `json:"total_cost"`
	TotalValue        float64            `json:"total_value"`
	TotalDepreciation float64            `json:"total_depreciation"`
	TotalWearDays     float64            `json:"total_wear_days"`
	MostWorn          []ItemUsage        `json:"most_worn"`
	LeastWorn         []ItemUsage        `json:"least_worn"`
	NeverWorn         []ItemUsage        `json:"never_worn"`
	WearByMonth       map[string]float64 `json:"wear_by_month"`
	RotationRatio     float64            `json:"rotation_ratio"`
	Items             []ItemStats        `json:"items"`
}

// Value is what the piece is worth for depreciation purposes: the realised
// price once sold or traded, else the latest valuation, else what was paid.
func Value(item models.Item) float64 {
	if (item.Status == models.StatusSold || item.Status == models.StatusTraded) && item.SoldPrice != nil {
		return *item.SoldPrice
	}
	if item.CurrentValue != nil {
		return *item.CurrentValue
	}
	return deref(item.PurchasePrice)
}

func ownershipStart(item models.Item) models.Date {
	if item.PurchaseDate != nil && !item.PurchaseDate.IsZero() {
		return *item.PurchaseDate
	}
	return models.NewDate(item.CreatedAt)
}

func ownershipEnd(item models.Item, today models.Date) models.Date {
	if item.Disposed() && item.SoldDate != nil && !item.SoldDate.IsZero() {
		return *item.SoldDate
	}
	return today
}

// ForItem computes the figures for one item. Wear and water rows for other
// items are skipped, so callers can pass a whole collection's history.
func ForItem(item models.Item, wears []models.WearEntry, water []models.WaterUsage, today models.Date) ItemStats {
	st := ItemStats{
		ItemID:    item.ID,
		Name:      item.DisplayName(),
		CostBasis: deref(item.PurchasePrice),
		Value:     Value(item),
	}

	if days := ownershipStart(item).DaysUntil(ownershipEnd(item, today)); days > 0 {
		st.DaysOwned = days
	}

	var worn []float64
	for _, w := range wears {
		if w.ItemID != item.ID {
			continue
		}
		worn = append(worn, w.Days)
		if st.LastWorn == nil || w.WornOn.After(st.LastWorn.Time) {
			d := w.WornOn
			st.LastWorn = &d
		}
	}
	st.WearCount = len(worn)
	st.WearDays = sum(worn)

	for _, u := range water {
		if u.ItemID == item.ID {
			st.WaterExposures++
		}
	}

	if st.CostBasis > 0 {
		st.Depreciation = round2(st.CostBasis - st.Value)
		st.DepreciationPct = round2(ratio(st.CostBasis-st.Value, st.CostBasis) * 100)
		if st.DaysOwned > 0 {
			st.AnnualDepreciationPct = round2(st.DepreciationPct * daysPerYear / float64(st.DaysOwned))
		}
	}

	if st.WearDays > 0 {
		cpw := round2(st.CostBasis / st.WearDays)
		net := round2((st.CostBasis - st.Value) / st.WearDays)
		st.CostPerWear = &cpw
		st.NetCostPerWear = &net
	}
	return st
}

// Summarize aggregates a set of items (a collection or a whole account).
func Summarize(items []models.Item, wears []models.WearEntry, water []models.WaterUsage, today models.Date) Summary {
	s := Summary{
		ItemCount:   len(items),
		WearByMonth: map[string]float64{},
		MostWorn:    []ItemUsage{},
		LeastWorn:   []ItemUsage{},
		NeverWorn:   []ItemUsage{},
		Items:       make([]ItemStats, 0, len(items)),
	}

	ids := make(map[string]models.Item, len(items))
	for _, it := range items {
		ids[it.ID] = it
	}

	windowStart := today.AddDays(-(rotationWindow - 1))
	recent := map[string]struct{}{}
	for _, w := range wears {
		it, ok := ids[w.ItemID]
		if !ok {
			continue
		}
		s.WearByMonth[w.WornOn.Format("2006-01")] += w.Days
		s.TotalWearDays += w.Days
		if it.Status == models.StatusActive && !w.WornOn.Before(windowStart.Time) && !w.WornOn.After(today.Time) {
			recent[w.ItemID] = struct{}{}
		}
	}

	var worn []ItemUsage
	for _, it := range items {
		st := ForItem(it, wears, water, today)
		s.Items = append(s.Items, st)
		s.TotalCost += st.CostBasis
		s.TotalValue += st.Value
		s.TotalDepreciation += st.Depreciation

		if it.Status != models.StatusActive {
			continue
		}
		s.ActiveCount++
		usage := ItemUsage{ItemID: it.ID, Name: st.Name, WearDays: st.WearDays}
		if st.WearCount == 0 {
			s.NeverWorn = append(s.NeverWorn, usage)
			continue
		}
		worn = append(worn, usage)
	}

	sort.SliceStable(worn, func(i, j int) bool { return worn[i].WearDays > worn[j].WearDays })
	s.MostWorn = append(s.MostWorn, worn[:min(rankingSize, len(worn))]...)
	for i := len(worn) - 1; i >= 0 && len(s.LeastWorn) < rankingSize; i-- {
		s.LeastWorn = append(s.LeastWorn, worn[i])
	}

	s.TotalCost = round2(s.TotalCost)
	s.TotalValue = round2(s.TotalValue)
	s.TotalDepreciation = round2(s.TotalDepreciation)
	s.RotationRatio = round2(ratio(len(recent), s.ActiveCount))
	return s
}
