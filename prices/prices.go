package prices

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Resolution is the granularity of the price slots in a feed.
type Resolution string

const (
	Hourly  Resolution = "hourly"
	Quarter Resolution = "quarter"
)

func (r Resolution) SlotDuration() time.Duration {
	if r == Quarter {
		return 15 * time.Minute
	}
	return time.Hour
}

// Record is one spot-price slot. Price is in cents per kWh including VAT,
// as published by the feed. Immutable once parsed.
type Record struct {
	Start time.Time
	Price float64
}

type rawRecord struct {
	Price     float64 `json:"price"`
	StartDate string  `json:"startDate"`
}

type rawPayload struct {
	Prices []rawRecord `json:"prices"`
}

// The feed writes fractional seconds without a timezone colon quirk,
// e.g. "2025-02-03T13:00:00.000Z".
const startDateLayout = "2006-01-02T15:04:05.000Z07:00"

// Parse decodes a raw latest-prices payload. The feed lists records
// newest first; the result is sorted ascending by start time.
func Parse(body []byte) ([]Record, error) {
	var payload rawPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode price payload: %w", err)
	}

	records := make([]Record, 0, len(payload.Prices))
	for _, raw := range payload.Prices {
		start, err := time.Parse(startDateLayout, raw.StartDate)
		if err != nil {
			start, err = time.Parse(time.RFC3339, raw.StartDate)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start date %q: %w", raw.StartDate, err)
			}
		}
		records = append(records, Record{Start: start, Price: raw.Price})
	}

	SortAscending(records)
	return records, nil
}

func SortAscending(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Start.Before(records[j].Start)
	})
}

// Round2 rounds a price to two decimals, half away from zero.
// Display strings and bar lengths both use the rounded value so the
// bar never disagrees with the printed price.
func Round2(price float64) float64 {
	f, _ := decimal.NewFromFloat(price).Round(2).Float64()
	return f
}

// Format renders a price with exactly two decimals, e.g. "7.50".
func Format(price float64) string {
	return decimal.NewFromFloat(price).StringFixed(2)
}

// HourGroup is one hour's worth of quarter records: the mean hour price
// plus the quarter extremes, used for the min/max bar markers.
type HourGroup struct {
	Start time.Time
	Mean  float64
	Min   float64
	Max   float64
}

const quartersPerHour = 4

// GroupByHour aggregates quarter records into hour groups. Every hour
// must have exactly four quarters; anything else means the feed handed
// us inconsistent data and the run must not continue.
func GroupByHour(records []Record) ([]HourGroup, error) {
	byHour := lo.GroupBy(records, func(r Record) time.Time {
		local := r.Start
		return time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, local.Location())
	})

	groups := make([]HourGroup, 0, len(byHour))
	for start, quarters := range byHour {
		if len(quarters) != quartersPerHour {
			return nil, fmt.Errorf("hour %s has %d quarter prices, expected %d",
				start.Format(time.RFC3339), len(quarters), quartersPerHour)
		}
		qp := lo.Map(quarters, func(r Record, _ int) float64 { return r.Price })
		groups = append(groups, HourGroup{
			Start: start,
			Mean:  lo.Sum(qp) / quartersPerHour,
			Min:   lo.Min(qp),
			Max:   lo.Max(qp),
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Start.Before(groups[j].Start)
	})
	return groups, nil
}

// FilterFrom drops records starting before the cutoff. With history
// enabled all records are kept.
func FilterFrom(records []Record, cutoff time.Time, showHistory bool) []Record {
	if showHistory {
		return records
	}
	return lo.Filter(records, func(r Record, _ int) bool {
		return !r.Start.Before(cutoff)
	})
}
