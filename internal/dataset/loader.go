package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ensdash/ensdash-backend/internal/model"
	"github.com/rs/zerolog"
)

// rawSection mirrors one element of the registration-system JSON export.
// Every field is a lenient type so that all coercion rules live here and
// nowhere else: numeric fields that fail to parse become missing, list
// fields that are not lists become empty lists. Unknown keys are ignored.
type rawSection struct {
	Term              flexString     `json:"bSecTerm"`
	SectionName       flexString     `json:"secInstrumentation_sectionname"`
	CourseTitles      flexStringList `json:"secInstrumentation_titlelongcrs"`
	FacultyNames      flexStringList `json:"secInstrumentation_facnamepreffml"`
	SeatsAvailable    flexNumber     `json:"secInstrumentation_seatsavail"`
	ActiveStudents    flexNumber     `json:"secInstrumentation_activestucount"`
	SeatsCapacity     flexNumber     `json:"secInstrumentation_seatscap"`
	Rating            flexNumber     `json:"ratingOverall"`
	Style             flexString     `json:"style"`
	Days              flexStringList `json:"bSinCsmDays"`
	StartTimes        flexStringList `json:"bSinCsmStartTime"`
	EndTimes          flexStringList `json:"bSinCsmEndTime"`
	RhythmInstruments flexStringList `json:"rhythminstrument"`
	RhythmEnrolled    flexIntList    `json:"rhythmenrolled"`
	RhythmNeeded      flexStringList `json:"rhythmneeded"`
}

// flexString decodes a JSON string, stringifies a number, and treats
// anything else as empty.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexString(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	}
	*f = ""
	return nil
}

// flexNumber decodes a JSON number or a numeric string. Anything else,
// null included, is missing, never an error.
type flexNumber struct {
	val *float64
}

func (f *flexNumber) UnmarshalJSON(b []byte) error {
	// Unmarshal into float64 treats null as a no-op success, which would
	// leave a stale zero looking like a real value. Missing stays nil.
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		f.val = &n
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if v, perr := strconv.ParseFloat(strings.TrimSpace(s), 64); perr == nil {
			f.val = &v
		}
	}
	return nil
}

func (f flexNumber) intPtr() *int {
	if f.val == nil {
		return nil
	}
	v := int(*f.val)
	return &v
}

func (f flexNumber) intOrZero() int {
	if f.val == nil {
		return 0
	}
	return int(*f.val)
}

// flexStringList decodes a JSON array, stringifying scalar elements.
// Null, scalars and missing keys all normalize to an empty list.
type flexStringList []string

func (f *flexStringList) UnmarshalJSON(b []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		*f = nil
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s flexString
		_ = s.UnmarshalJSON(item)
		out = append(out, string(s))
	}
	*f = out
	return nil
}

// flexIntList decodes a JSON array of ints-as-strings (the export's format
// for rhythm enrollment counts) or plain numbers. Unparseable elements
// coerce to 0; non-lists normalize to an empty list.
type flexIntList []int

func (f *flexIntList) UnmarshalJSON(b []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		*f = nil
		return nil
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		var n flexNumber
		_ = n.UnmarshalJSON(item)
		out = append(out, n.intOrZero())
	}
	*f = out
	return nil
}

// Snapshot is the immutable, fully derived view of one data file. All
// analysis passes read from a Snapshot; nothing mutates it after load.
type Snapshot struct {
	Ensembles []model.Ensemble
	LoadedAt  time.Time
}

// Load reads and derives the ensemble snapshot from a JSON data file.
// Malformed JSON or a non-array top level is a fatal load error; there is
// no partial load. Field-level problems never fail the load — they coerce
// per the rules on rawSection.
func Load(path string, log zerolog.Logger) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data file %q: %w", path, err)
	}
	return Parse(data, log)
}

// Parse builds a Snapshot from raw JSON bytes. Split out from Load so
// tests and the export CLI can feed data without touching disk.
func Parse(data []byte, log zerolog.Logger) (*Snapshot, error) {
	var raws []rawSection
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("parse ensemble data: expected a JSON array of section objects: %w", err)
	}

	ensembles := make([]model.Ensemble, 0, len(raws))
	for _, r := range raws {
		ensembles = append(ensembles, buildEnsemble(r, log))
	}

	return &Snapshot{Ensembles: ensembles, LoadedAt: time.Now()}, nil
}

func buildEnsemble(r rawSection, log zerolog.Logger) model.Ensemble {
	e := model.Ensemble{
		Term:              string(r.Term),
		SectionName:       string(r.SectionName),
		CourseTitles:      emptyNotNil(r.CourseTitles),
		FacultyNames:      emptyNotNil(r.FacultyNames),
		Style:             string(r.Style),
		Rating:            r.Rating.val,
		Days:              emptyNotNil(r.Days),
		StartTimes:        emptyNotNil(r.StartTimes),
		EndTimes:          emptyNotNil(r.EndTimes),
		SeatsAvailable:    r.SeatsAvailable.intPtr(),
		ActiveStudents:    r.ActiveStudents.intOrZero(),
		SeatsCapacity:     r.SeatsCapacity.intPtr(),
		RhythmInstruments: emptyNotNil(r.RhythmInstruments),
		RhythmEnrolled:    emptyIntsNotNil(r.RhythmEnrolled),
		RhythmNeeded:      emptyNotNil(r.RhythmNeeded),
	}

	if cap := e.Capacity(); cap > 0 {
		e.EnrollmentRate = float64(e.ActiveStudents) / float64(cap) * 100
	}
	e.OpenSeats = e.Capacity() - e.ActiveStudents

	tagInstruments(&e, log)
	return e
}

// tagInstruments derives the per-instrument enrolled/needed/status triple.
// The enrolled list is indexed positionally against the fixed code order;
// the section's own instrument labels are only cross-checked for a warning,
// never used for matching (compatibility with the upstream export).
func tagInstruments(e *model.Ensemble, log zerolog.Logger) {
	for i, code := range model.InstrumentCodes {
		st := model.InstrumentStat{Code: code}

		if i < len(e.RhythmEnrolled) {
			st.Enrolled = e.RhythmEnrolled[i]
		}
		for _, need := range e.RhythmNeeded {
			if need == string(code) {
				st.Needed++
			}
		}

		switch {
		case st.Enrolled > 0:
			st.Status = model.StatusFilled
		case st.Needed > 0:
			st.Status = model.StatusNeeded
		default:
			st.Status = model.StatusNotRequired
		}

		if i < len(e.RhythmInstruments) && e.RhythmInstruments[i] != string(code) {
			log.Warn().
				Str("section", e.SectionName).
				Int("position", i).
				Str("expected", string(code)).
				Str("listed", e.RhythmInstruments[i]).
				Msg("rhythm instrument label disagrees with positional order")
		}

		e.Instruments[i] = st
	}
}

func emptyNotNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptyIntsNotNil(s []int) []int {
	if s == nil {
		return []int{}
	}
	return s
}
