package service

import (
	"strings"

	"github.com/ensdash/ensdash-backend/internal/model"
)

// Thresholds for the enrollment health rules.
const (
	lowEnrollmentThreshold = 4
	criticalEnrollmentRate = 25
)

// Severity tiers for low-enrollment flags.
const (
	SeverityCritical = "CRITICAL"
	SeverityWarning  = "WARNING"
)

// Alert types for the non-exclusive critical alerts.
const (
	AlertLowEnrollmentRate = "LOW_ENROLLMENT_RATE"
	AlertFullCapacity      = "FULL_CAPACITY"
)

// PerformanceClass is a section exempt from rating auditions, with the
// label of the first rule that matched.
type PerformanceClass struct {
	Ensemble model.Ensemble `json:"ensemble"`
	Reason   string         `json:"reason"`
}

// LowEnrollmentFlag marks a section with fewer than four students.
type LowEnrollmentFlag struct {
	Ensemble model.Ensemble `json:"ensemble"`
	Severity string         `json:"severity"`
	Message  string         `json:"message"`
}

// Status renders the combined tier string used in reports,
// e.g. "CRITICAL - NO STUDENTS".
func (f LowEnrollmentFlag) Status() string {
	return f.Severity + " - " + f.Message
}

// LowEnrollmentSummary counts flagged sections per student-count tier.
type LowEnrollmentSummary struct {
	Total         int `json:"total"`
	ZeroStudents  int `json:"zero_students"`
	OneStudent    int `json:"one_student"`
	TwoStudents   int `json:"two_students"`
	ThreeStudents int `json:"three_students"`
}

// CriticalAlert is an informational flag independent of the low-enrollment
// classification. A section may trigger both alert types, either, or none.
type CriticalAlert struct {
	Type        string `json:"type"`
	SectionName string `json:"section_name"`
	Message     string `json:"message"`
}

// performanceRule is one (predicate, label) entry of the exemption rules.
// The rules are data so new exemptions extend the list, not the control flow.
type performanceRule struct {
	Label string
	Match func(e *model.Ensemble) bool
}

// Evaluated in order, first match wins.
var performanceRules = []performanceRule{
	{
		Label: "ENMX-100 section",
		Match: func(e *model.Ensemble) bool {
			return strings.Contains(e.SectionName, "ENMX-100")
		},
	},
	{
		Label: "exempt faculty",
		Match: func(e *model.Ensemble) bool {
			joined := strings.Join(e.FacultyNames, ", ")
			return strings.Contains(joined, "PISJ") || strings.Contains(joined, "ENDS")
		},
	},
	{
		Label: "performance keyword in title",
		Match: func(e *model.Ensemble) bool {
			title := strings.ToUpper(e.CourseTitle())
			return strings.Contains(title, "PERFORMANCE") ||
				strings.Contains(title, "ENSEMBLE") ||
				strings.Contains(title, "RECITAL")
		},
	},
}

// ClassifierService flags performance classes and enrollment health issues.
// All methods are pure passes over their input.
type ClassifierService struct{}

// NewClassifierService creates a new ClassifierService.
func NewClassifierService() *ClassifierService {
	return &ClassifierService{}
}

// PerformanceClasses returns the sections exempt from rating auditions.
func (s *ClassifierService) PerformanceClasses(records []model.Ensemble) []PerformanceClass {
	out := make([]PerformanceClass, 0)
	for i := range records {
		if reason, ok := performanceReason(&records[i]); ok {
			out = append(out, PerformanceClass{Ensemble: records[i], Reason: reason})
		}
	}
	return out
}

func performanceReason(e *model.Ensemble) (string, bool) {
	for _, rule := range performanceRules {
		if rule.Match(e) {
			return rule.Label, true
		}
	}
	return "", false
}

// LowEnrollment flags every section with fewer than four students. The
// tier is a pure function of the student count, independent of capacity.
func (s *ClassifierService) LowEnrollment(records []model.Ensemble) ([]LowEnrollmentFlag, LowEnrollmentSummary) {
	flags := make([]LowEnrollmentFlag, 0)
	var sum LowEnrollmentSummary
	for i := range records {
		e := &records[i]
		if e.ActiveStudents >= lowEnrollmentThreshold {
			continue
		}
		flag := LowEnrollmentFlag{Ensemble: *e}
		switch e.ActiveStudents {
		case 0:
			flag.Severity, flag.Message = SeverityCritical, "NO STUDENTS"
			sum.ZeroStudents++
		case 1:
			flag.Severity, flag.Message = SeverityCritical, "ONLY 1 STUDENT"
			sum.OneStudent++
		case 2:
			flag.Severity, flag.Message = SeverityWarning, "ONLY 2 STUDENTS"
			sum.TwoStudents++
		default:
			flag.Severity, flag.Message = SeverityWarning, "ONLY 3 STUDENTS"
			sum.ThreeStudents++
		}
		sum.Total++
		flags = append(flags, flag)
	}
	return flags, sum
}

// CriticalAlerts returns the informational alerts: sections with a low
// enrollment rate despite four or more students, and sections at full
// capacity. These do not replace the low-enrollment classification.
func (s *ClassifierService) CriticalAlerts(records []model.Ensemble) []CriticalAlert {
	out := make([]CriticalAlert, 0)
	for i := range records {
		e := &records[i]
		if e.EnrollmentRate < criticalEnrollmentRate && e.ActiveStudents >= lowEnrollmentThreshold {
			out = append(out, CriticalAlert{
				Type:        AlertLowEnrollmentRate,
				SectionName: e.SectionName,
				Message:     "enrollment rate below 25% despite 4+ students",
			})
		}
		if e.SeatsAvailable != nil && *e.SeatsAvailable == 0 {
			out = append(out, CriticalAlert{
				Type:        AlertFullCapacity,
				SectionName: e.SectionName,
				Message:     "no available seats",
			})
		}
	}
	return out
}
