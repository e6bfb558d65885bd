package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ensdash/ensdash-backend/internal/dataset"
	"github.com/ensdash/ensdash-backend/internal/model"
	"github.com/gocarina/gocsv"
)

// Report names accepted by the export surface.
const (
	ReportEnsembles     = "ensembles"
	ReportLowEnrollment = "low_enrollment"
	ReportPerformance   = "performance"
	ReportPriority      = "priority"
)

// ReportNames lists every report the exporter can produce.
var ReportNames = []string{ReportEnsembles, ReportLowEnrollment, ReportPerformance, ReportPriority}

// ensembleRow is the general listing export, one row per filtered section.
type ensembleRow struct {
	Section        string `csv:"Section"`
	CourseTitle    string `csv:"Course Title"`
	Faculty        string `csv:"Faculty"`
	AvailableSeats *int   `csv:"Available Seats"`
	Enrolled       int    `csv:"Enrolled"`
	Capacity       *int   `csv:"Capacity"`
	EnrollmentRate string `csv:"Enrollment Rate (%)"`
	Style          string `csv:"Style"`
	Rating         string `csv:"Rating"`
	Days           string `csv:"Days"`
	Time           string `csv:"Time"`
}

// lowEnrollmentRow is the at-risk listing export.
type lowEnrollmentRow struct {
	Section        string `csv:"Section"`
	CourseTitle    string `csv:"Course_Title"`
	Faculty        string `csv:"Faculty"`
	ScheduleDays   string `csv:"Schedule_Days"`
	ScheduleTime   string `csv:"Schedule_Time"`
	Enrolled       int    `csv:"Enrolled_Students"`
	TotalCapacity  *int   `csv:"Total_Capacity"`
	EnrollmentRate string `csv:"Enrollment_Rate_Percent"`
	Status         string `csv:"Status"`
	RiskLevel      string `csv:"Risk_Level"`
}

// performanceRow is the rating-audition exemption listing export.
type performanceRow struct {
	Section     string `csv:"Section"`
	CourseTitle string `csv:"Course_Title"`
	Faculty     string `csv:"Faculty"`
	Reason      string `csv:"Reason"`
	Style       string `csv:"Style"`
	Rating      string `csv:"Rating"`
}

// priorityRow is the registration-preference listing export.
type priorityRow struct {
	Rank     int    `csv:"Rank"`
	Section  string `csv:"Section"`
	Faculty  string `csv:"Faculty"`
	Contract string `csv:"Contract_Type"`
	Enrolled int    `csv:"Enrolled_Students"`
	Level    string `csv:"Priority_Level"`
	Score    int    `csv:"Priority_Score"`
}

const riskLevelDropped = "POTENTIALLY WILL BE DROPPED"

// ExportService serializes report views to CSV (UTF-8, header row).
type ExportService struct {
	prefix string
}

// NewExportService creates an ExportService with the configured filename prefix.
func NewExportService(prefix string) *ExportService {
	return &ExportService{prefix: prefix}
}

// Filename builds the collision-safe download name for a report:
// {prefix}_{report}_{term}_{yyyymmdd_hhmmss}.csv
func (s *ExportService) Filename(report, term string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s_%s.csv", s.prefix, report, term, now.Format("20060102_150405"))
}

// Ensembles renders the general listing CSV.
func (s *ExportService) Ensembles(records []model.Ensemble) ([]byte, error) {
	rows := make([]ensembleRow, 0, len(records))
	for i := range records {
		e := &records[i]
		rows = append(rows, ensembleRow{
			Section:        e.SectionName,
			CourseTitle:    e.CourseTitle(),
			Faculty:        strings.Join(e.FacultyNames, ", "),
			AvailableSeats: e.SeatsAvailable,
			Enrolled:       e.ActiveStudents,
			Capacity:       e.SeatsCapacity,
			EnrollmentRate: formatRate(e.EnrollmentRate),
			Style:          e.Style,
			Rating:         formatRating(e.Rating),
			Days:           strings.Join(e.Days, ", "),
			Time:           formatTimeRange(e.StartTimes, e.EndTimes),
		})
	}
	return gocsv.MarshalBytes(&rows)
}

// LowEnrollment renders the at-risk listing CSV.
func (s *ExportService) LowEnrollment(flags []LowEnrollmentFlag) ([]byte, error) {
	rows := make([]lowEnrollmentRow, 0, len(flags))
	for _, f := range flags {
		e := &f.Ensemble
		rows = append(rows, lowEnrollmentRow{
			Section:        e.SectionName,
			CourseTitle:    e.CourseTitle(),
			Faculty:        strings.Join(e.FacultyNames, ", "),
			ScheduleDays:   strings.Join(e.Days, ", "),
			ScheduleTime:   formatTimeRange(e.StartTimes, e.EndTimes),
			Enrolled:       e.ActiveStudents,
			TotalCapacity:  e.SeatsCapacity,
			EnrollmentRate: formatRate(e.EnrollmentRate),
			Status:         f.Status(),
			RiskLevel:      riskLevelDropped,
		})
	}
	return gocsv.MarshalBytes(&rows)
}

// Performance renders the audition-exemption listing CSV.
func (s *ExportService) Performance(classes []PerformanceClass) ([]byte, error) {
	rows := make([]performanceRow, 0, len(classes))
	for _, pc := range classes {
		e := &pc.Ensemble
		rows = append(rows, performanceRow{
			Section:     e.SectionName,
			CourseTitle: e.CourseTitle(),
			Faculty:     strings.Join(e.FacultyNames, ", "),
			Reason:      pc.Reason,
			Style:       e.Style,
			Rating:      formatRating(e.Rating),
		})
	}
	return gocsv.MarshalBytes(&rows)
}

// Priority renders the registration-preference listing CSV.
func (s *ExportService) Priority(ranked []RankedEnsemble) ([]byte, error) {
	rows := make([]priorityRow, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, priorityRow{
			Rank:     r.Rank,
			Section:  r.SectionName,
			Faculty:  r.Faculty,
			Contract: string(r.Contract),
			Enrolled: r.ActiveStudents,
			Level:    r.Level,
			Score:    r.Score,
		})
	}
	return gocsv.MarshalBytes(&rows)
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 1, 64)
}

func formatRating(r *float64) string {
	if r == nil {
		return "N/A"
	}
	return dataset.FormatRating(*r)
}

// formatTimeRange renders "start - end" from the first listed times, with
// N/A fallbacks for missing values.
func formatTimeRange(start, end []string) string {
	s, e := "N/A", "N/A"
	if len(start) > 0 {
		s = start[0]
	}
	if len(end) > 0 {
		e = end[0]
	}
	return s + " - " + e
}
