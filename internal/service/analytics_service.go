package service

import (
	"sort"
	"strings"

	"github.com/ensdash/ensdash-backend/internal/model"
)

// Metrics are the headline stat cards for a filtered record set. Missing
// capacities contribute 0 to the sums.
type Metrics struct {
	TotalEnsembles     int     `json:"total_ensembles"`
	TotalSeats         int     `json:"total_seats"`
	EnrolledStudents   int     `json:"enrolled_students"`
	OpenSeats          int     `json:"open_seats"`
	AvgEnrollmentRate  float64 `json:"avg_enrollment_rate"`
	LowEnrollmentCount int     `json:"low_enrollment_count"`
}

// InstrumentSummary aggregates one instrument across a record set.
type InstrumentSummary struct {
	Instrument    model.InstrumentCode `json:"instrument"`
	Needed        int                  `json:"needed"`
	Enrolled      int                  `json:"enrolled"`
	FilledCount   int                  `json:"filled_count"`
	TotalWithNeed int                  `json:"total_with_need"`
	FillRate      float64              `json:"fill_rate"`
}

// GroupStat is one row of a style, time-slot or faculty rollup.
type GroupStat struct {
	Label             string  `json:"label"`
	AvgEnrollmentRate float64 `json:"avg_enrollment_rate"`
	Count             int     `json:"count"`
}

// BucketCount is one slice of the enrollment-rate distribution.
type BucketCount struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// Time-slot labels derived from a section's first start time.
const (
	SlotMorning   = "Morning"
	SlotAfternoon = "Afternoon"
	SlotEvening   = "Evening"
	SlotUnknown   = "Unknown"
)

// rateBuckets is the fixed display order of the distribution. The bucket
// function below is total over [0, inf) with no gaps or overlaps.
var rateBuckets = []string{
	"0% (No Students)",
	"1-25% (Low)",
	"26-50% (Medium)",
	"51-75% (Good)",
	"76-99% (High)",
	"100% (Full)",
}

// AnalyticsService computes the aggregate views over an already filtered
// record set. All methods are pure passes over their input.
type AnalyticsService struct{}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService() *AnalyticsService {
	return &AnalyticsService{}
}

// Metrics computes the headline stats for the record set.
func (s *AnalyticsService) Metrics(records []model.Ensemble) Metrics {
	m := Metrics{TotalEnsembles: len(records)}
	var rateSum float64
	for i := range records {
		e := &records[i]
		m.TotalSeats += e.Capacity()
		m.EnrolledStudents += e.ActiveStudents
		m.OpenSeats += e.OpenSeats
		rateSum += e.EnrollmentRate
		if e.ActiveStudents < lowEnrollmentThreshold {
			m.LowEnrollmentCount++
		}
	}
	if len(records) > 0 {
		m.AvgEnrollmentRate = rateSum / float64(len(records))
	}
	return m
}

// InstrumentSummary aggregates each of the five instruments across the
// record set. FillRate is 0, not undefined, when no section needs the
// instrument.
func (s *AnalyticsService) InstrumentSummary(records []model.Ensemble) []InstrumentSummary {
	out := make([]InstrumentSummary, 0, len(model.InstrumentCodes))
	for i, code := range model.InstrumentCodes {
		sum := InstrumentSummary{Instrument: code}
		for j := range records {
			st := records[j].Instruments[i]
			sum.Needed += st.Needed
			sum.Enrolled += st.Enrolled
			if st.Status == model.StatusFilled {
				sum.FilledCount++
			}
			if st.Needed > 0 {
				sum.TotalWithNeed++
			}
		}
		if sum.TotalWithNeed > 0 {
			sum.FillRate = float64(sum.FilledCount) / float64(sum.TotalWithNeed) * 100
		}
		out = append(out, sum)
	}
	return out
}

// StyleRollup groups the records by style with mean enrollment rate and
// row count, sorted by style name.
func (s *AnalyticsService) StyleRollup(records []model.Ensemble) []GroupStat {
	return rollup(records, func(e *model.Ensemble) string { return e.Style }, byLabel)
}

// TimeSlotRollup groups the records by time-of-day slot, sorted by label.
func (s *AnalyticsService) TimeSlotRollup(records []model.Ensemble) []GroupStat {
	return rollup(records, func(e *model.Ensemble) string { return TimeSlot(e.StartTimes) }, byLabel)
}

// FacultyRollup explodes multi-faculty sections into one row per
// (faculty, section) pair, then groups by faculty. Sorted by average
// enrollment rate descending, matching the workload report.
func (s *AnalyticsService) FacultyRollup(records []model.Ensemble) []GroupStat {
	type acc struct {
		rateSum float64
		count   int
	}
	groups := make(map[string]*acc)
	for i := range records {
		for _, name := range records[i].FacultyNames {
			a, ok := groups[name]
			if !ok {
				a = &acc{}
				groups[name] = a
			}
			a.rateSum += records[i].EnrollmentRate
			a.count++
		}
	}

	out := make([]GroupStat, 0, len(groups))
	for name, a := range groups {
		out = append(out, GroupStat{
			Label:             name,
			AvgEnrollmentRate: a.rateSum / float64(a.count),
			Count:             a.count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgEnrollmentRate != out[j].AvgEnrollmentRate {
			return out[i].AvgEnrollmentRate > out[j].AvgEnrollmentRate
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// RateDistribution counts records per enrollment-rate bucket, in fixed
// bucket order. Empty buckets are present with a count of 0.
func (s *AnalyticsService) RateDistribution(records []model.Ensemble) []BucketCount {
	counts := make(map[string]int, len(rateBuckets))
	for i := range records {
		counts[RateBucket(records[i].EnrollmentRate)]++
	}
	out := make([]BucketCount, 0, len(rateBuckets))
	for _, b := range rateBuckets {
		out = append(out, BucketCount{Bucket: b, Count: counts[b]})
	}
	return out
}

// RateBucket assigns an enrollment rate to its distribution bucket.
// Upper bounds are inclusive except as labeled for the first bucket.
func RateBucket(rate float64) string {
	switch {
	case rate == 0:
		return rateBuckets[0]
	case rate <= 25:
		return rateBuckets[1]
	case rate <= 50:
		return rateBuckets[2]
	case rate <= 75:
		return rateBuckets[3]
	case rate <= 99:
		return rateBuckets[4]
	default:
		return rateBuckets[5]
	}
}

// TimeSlot classifies the first start time into a time-of-day slot.
// The afternoon check is a substring match on the hour tokens 12/1/2/3,
// preserved exactly from the upstream report (so "11:30 PM" lands in
// Afternoon via the "1:" token).
func TimeSlot(startTimes []string) string {
	if len(startTimes) == 0 {
		return SlotUnknown
	}
	t := startTimes[0]
	if strings.Contains(t, "AM") {
		return SlotMorning
	}
	if strings.Contains(t, "PM") {
		if strings.Contains(t, "12:") || strings.Contains(t, "1:") ||
			strings.Contains(t, "2:") || strings.Contains(t, "3:") {
			return SlotAfternoon
		}
		return SlotEvening
	}
	return SlotUnknown
}

func rollup(records []model.Ensemble, key func(*model.Ensemble) string, order func([]GroupStat)) []GroupStat {
	type acc struct {
		rateSum float64
		count   int
	}
	groups := make(map[string]*acc)
	for i := range records {
		k := key(&records[i])
		a, ok := groups[k]
		if !ok {
			a = &acc{}
			groups[k] = a
		}
		a.rateSum += records[i].EnrollmentRate
		a.count++
	}

	out := make([]GroupStat, 0, len(groups))
	for label, a := range groups {
		out = append(out, GroupStat{
			Label:             label,
			AvgEnrollmentRate: a.rateSum / float64(a.count),
			Count:             a.count,
		})
	}
	order(out)
	return out
}

func byLabel(stats []GroupStat) {
	sort.Slice(stats, func(i, j int) bool { return stats[i].Label < stats[j].Label })
}
