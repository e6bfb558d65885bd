package model

// InstrumentCode identifies one of the five tracked rhythm-section roles.
type InstrumentCode string

const (
	InstrumentGuitar InstrumentCode = "GUIT"
	InstrumentPiano  InstrumentCode = "PNO"
	InstrumentBass   InstrumentCode = "BASS"
	InstrumentDrums  InstrumentCode = "DRUMS"
	InstrumentVoice  InstrumentCode = "VOICE"
)

// InstrumentCodes is the fixed tracking order. The i-th entry of a section's
// rhythm-enrolled list always corresponds to InstrumentCodes[i], regardless of
// what the section's own instrument list says.
var InstrumentCodes = [5]InstrumentCode{
	InstrumentGuitar,
	InstrumentPiano,
	InstrumentBass,
	InstrumentDrums,
	InstrumentVoice,
}

// InstrumentStatus is the three-way fill state of one instrument in one section.
type InstrumentStatus string

const (
	StatusFilled      InstrumentStatus = "Filled"
	StatusNeeded      InstrumentStatus = "Needed"
	StatusNotRequired InstrumentStatus = "Not Required"
)

// InstrumentStat holds the derived per-instrument numbers for a section.
type InstrumentStat struct {
	Code     InstrumentCode   `json:"code"`
	Enrolled int              `json:"enrolled"`
	Needed   int              `json:"needed"`
	Status   InstrumentStatus `json:"status"`
}

// Ensemble is one schedulable class section with its enrollment and
// instrumentation data. All coercion happens in the loader; code downstream
// of the loader never re-validates fields.
//
// SeatsAvailable, SeatsCapacity and Rating are nil when the source value was
// absent or non-numeric. ActiveStudents coerces missing to 0 so that every
// count-based rule sees a concrete number.
type Ensemble struct {
	Term        string `json:"term"`
	SectionName string `json:"section_name"`

	CourseTitles []string `json:"course_titles"`
	FacultyNames []string `json:"faculty_names"`
	Style        string   `json:"style"`
	Rating       *float64 `json:"rating"`

	Days       []string `json:"days"`
	StartTimes []string `json:"start_times"`
	EndTimes   []string `json:"end_times"`

	SeatsAvailable *int `json:"seats_available"`
	ActiveStudents int  `json:"active_students"`
	SeatsCapacity  *int `json:"seats_capacity"`

	RhythmInstruments []string `json:"rhythm_instruments"`
	RhythmEnrolled    []int    `json:"rhythm_enrolled"`
	RhythmNeeded      []string `json:"rhythm_needed"`

	// Derived on load.
	EnrollmentRate float64            `json:"enrollment_rate"`
	OpenSeats      int                `json:"open_seats"`
	Instruments    [5]InstrumentStat  `json:"instruments"`
}

// CourseTitle returns the first listed course title, or "N/A" when none.
func (e *Ensemble) CourseTitle() string {
	if len(e.CourseTitles) > 0 {
		return e.CourseTitles[0]
	}
	return "N/A"
}

// FirstFaculty returns the first listed faculty name, or "" when none.
func (e *Ensemble) FirstFaculty() string {
	if len(e.FacultyNames) > 0 {
		return e.FacultyNames[0]
	}
	return ""
}

// Capacity returns the seat capacity, treating missing as 0.
func (e *Ensemble) Capacity() int {
	if e.SeatsCapacity == nil {
		return 0
	}
	return *e.SeatsCapacity
}

// AvailableSeats returns the open-seat count from the source data, treating
// missing as 0.
func (e *Ensemble) AvailableSeats() int {
	if e.SeatsAvailable == nil {
		return 0
	}
	return *e.SeatsAvailable
}

// Stat returns the derived stats for the given instrument code. The second
// return is false for codes outside the fixed five.
func (e *Ensemble) Stat(code InstrumentCode) (InstrumentStat, bool) {
	for _, st := range e.Instruments {
		if st.Code == code {
			return st, true
		}
	}
	return InstrumentStat{}, false
}

// NeedsInstrument reports whether the section still lists the given
// instrument among its open needs.
func (e *Ensemble) NeedsInstrument(code InstrumentCode) bool {
	st, ok := e.Stat(code)
	return ok && st.Needed > 0
}
