package service

import (
	"testing"

	"github.com/ensdash/ensdash-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLowEnrollmentTiers(t *testing.T) {
	svc := NewClassifierService()

	records := []model.Ensemble{
		section("Zero", 0, 10),
		section("One", 1, 10),
		section("Two", 2, 10),
		section("Three", 3, 10),
		section("Four", 4, 10),
		section("Ten", 10, 10),
	}
	flags, sum := svc.LowEnrollment(records)

	require.Len(t, flags, 4)
	assert.Equal(t, SeverityCritical, flags[0].Severity)
	assert.Equal(t, "CRITICAL - NO STUDENTS", flags[0].Status())
	assert.Equal(t, SeverityCritical, flags[1].Severity)
	assert.Equal(t, "CRITICAL - ONLY 1 STUDENT", flags[1].Status())
	assert.Equal(t, SeverityWarning, flags[2].Severity)
	assert.Equal(t, "WARNING - ONLY 2 STUDENTS", flags[2].Status())
	assert.Equal(t, SeverityWarning, flags[3].Severity)
	assert.Equal(t, "WARNING - ONLY 3 STUDENTS", flags[3].Status())

	assert.Equal(t, LowEnrollmentSummary{
		Total:         4,
		ZeroStudents:  1,
		OneStudent:    1,
		TwoStudents:   1,
		ThreeStudents: 1,
	}, sum)
}

// The tier depends on the head count only, never on the capacity or rate.
func TestLowEnrollmentIgnoresCapacity(t *testing.T) {
	svc := NewClassifierService()

	small := section("Small", 3, 3) // 100% full, still flagged
	flags, _ := svc.LowEnrollment([]model.Ensemble{small})
	require.Len(t, flags, 1)
	assert.Equal(t, SeverityWarning, flags[0].Severity)
}

func TestPerformanceClassRuleOrder(t *testing.T) {
	svc := NewClassifierService()

	// Matches both the section rule and the title rule; the section rule
	// comes first.
	both := section("ENMX-100-02", 5, 10)
	both.CourseTitles = []string{"Jazz Performance Workshop"}

	faculty := section("ENMX-310-01", 5, 10)
	faculty.FacultyNames = []string{"Rivera, PISJ"}

	title := section("ENMX-320-01", 5, 10)
	title.CourseTitles = []string{"Spring recital prep"}

	plain := section("ENMX-330-01", 5, 10)
	plain.CourseTitles = []string{"Music Theory II"}

	out := svc.PerformanceClasses([]model.Ensemble{both, faculty, title, plain})
	require.Len(t, out, 3)
	assert.Equal(t, "ENMX-100 section", out[0].Reason)
	assert.Equal(t, "exempt faculty", out[1].Reason)
	assert.Equal(t, "performance keyword in title", out[2].Reason)
}

func TestPerformanceClassTitleMatchIsCaseInsensitive(t *testing.T) {
	svc := NewClassifierService()

	e := section("ENMX-340-01", 5, 10)
	e.CourseTitles = []string{"chamber ensemble"}

	out := svc.PerformanceClasses([]model.Ensemble{e})
	require.Len(t, out, 1)
	assert.Equal(t, "performance keyword in title", out[0].Reason)
}

func TestCriticalAlerts(t *testing.T) {
	svc := NewClassifierService()

	// Low rate with enough students: LOW_ENROLLMENT_RATE only.
	lowRate := section("LowRate", 4, 20) // 20%
	lowRate.SeatsAvailable = intPtr(16)

	// Low rate but under four students: tracked by LowEnrollment, not here.
	few := section("Few", 2, 20)
	few.SeatsAvailable = intPtr(18)

	// No seats left: FULL_CAPACITY only.
	full := section("Full", 10, 10)
	full.SeatsAvailable = intPtr(0)

	// Both conditions at once produce two alerts for one section.
	bothE := section("Both", 5, 30) // ~16.7%
	bothE.SeatsAvailable = intPtr(0)

	// Missing availability never triggers the capacity alert.
	missing := section("Missing", 8, 10)
	missing.SeatsAvailable = nil

	out := svc.CriticalAlerts([]model.Ensemble{lowRate, few, full, bothE, missing})
	require.Len(t, out, 4)
	assert.Equal(t, AlertLowEnrollmentRate, out[0].Type)
	assert.Equal(t, "LowRate", out[0].SectionName)
	assert.Equal(t, AlertFullCapacity, out[1].Type)
	assert.Equal(t, "Full", out[1].SectionName)
	assert.Equal(t, AlertLowEnrollmentRate, out[2].Type)
	assert.Equal(t, "Both", out[2].SectionName)
	assert.Equal(t, AlertFullCapacity, out[3].Type)
	assert.Equal(t, "Both", out[3].SectionName)
}
