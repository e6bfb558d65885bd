package service

import (
	"sort"
	"strings"

	"github.com/ensdash/ensdash-backend/internal/dataset"
	"github.com/ensdash/ensdash-backend/internal/model"
)

// Sort keys accepted by Filter.Sort.
const (
	SortNone           = "none"
	SortPriority       = "priority"
	SortEnrollmentAsc  = "enrollment_asc"
	SortEnrollmentDesc = "enrollment_desc"
	SortSection        = "section"
	SortFaculty        = "faculty"
)

// Filter is the user-selected view specification. Term is the only required
// field; every other condition narrows the set further (conjunctive).
// Selections arrive per request, so no cross-request state exists.
type Filter struct {
	Term       string `form:"term" binding:"required"`
	Style      string `form:"style"`
	Rating     string `form:"rating"`
	Instrument string `form:"instrument" binding:"omitempty,oneof=GUIT PNO BASS DRUMS VOICE"`
	BassOnly   bool   `form:"bass_only"`
	PianoOnly  bool   `form:"piano_only"`
	DrumsOnly  bool   `form:"drums_only"`
	VocalOnly  bool   `form:"vocal_only"`
	Search     string `form:"q"`
	Sort       string `form:"sort" binding:"omitempty,oneof=none priority enrollment_asc enrollment_desc section faculty"`
}

// EnsembleService applies filter, search and sort passes over the snapshot.
// Every call recomputes from the immutable snapshot; there is no incremental
// maintenance and nothing here mutates shared state.
type EnsembleService struct {
	store  *dataset.Store
	roster *dataset.ContractRoster
}

// NewEnsembleService creates a new EnsembleService.
func NewEnsembleService(store *dataset.Store, roster *dataset.ContractRoster) *EnsembleService {
	return &EnsembleService{store: store, roster: roster}
}

// Filtered returns the records matching the filter conditions, without the
// free-text search or sort applied. The analytics passes run on this set.
func (s *EnsembleService) Filtered(f Filter) []model.Ensemble {
	out := make([]model.Ensemble, 0)
	for _, e := range s.store.Snapshot().Ensembles {
		if s.matches(&e, f) {
			out = append(out, e)
		}
	}
	return out
}

// Query returns the fully resolved view: filter, then free-text search,
// then sort. An empty result is a normal empty slice, never an error.
func (s *EnsembleService) Query(f Filter) []model.Ensemble {
	records := s.Filtered(f)
	if f.Search != "" {
		records = SearchRecords(records, f.Search)
	}
	s.sortRecords(records, f.Sort)
	return records
}

func (s *EnsembleService) matches(e *model.Ensemble, f Filter) bool {
	if e.Term != f.Term {
		return false
	}
	if f.Style != "" && e.Style != f.Style {
		return false
	}
	if f.Rating != "" {
		if e.Rating == nil || dataset.FormatRating(*e.Rating) != f.Rating {
			return false
		}
	}
	if f.Instrument != "" && !e.NeedsInstrument(model.InstrumentCode(f.Instrument)) {
		return false
	}
	if f.BassOnly && !e.NeedsInstrument(model.InstrumentBass) {
		return false
	}
	if f.PianoOnly && !e.NeedsInstrument(model.InstrumentPiano) {
		return false
	}
	if f.DrumsOnly && !e.NeedsInstrument(model.InstrumentDrums) {
		return false
	}
	if f.VocalOnly && !e.NeedsInstrument(model.InstrumentVoice) {
		return false
	}
	return true
}

// SearchRecords matches the query case-insensitively against the section
// name, every faculty name and every course title (substring, logical OR).
func SearchRecords(records []model.Ensemble, query string) []model.Ensemble {
	q := strings.ToLower(query)
	out := make([]model.Ensemble, 0, len(records))
	for _, e := range records {
		if matchesSearch(&e, q) {
			out = append(out, e)
		}
	}
	return out
}

func matchesSearch(e *model.Ensemble, q string) bool {
	if strings.Contains(strings.ToLower(e.SectionName), q) {
		return true
	}
	for _, name := range e.FacultyNames {
		if strings.Contains(strings.ToLower(name), q) {
			return true
		}
	}
	for _, title := range e.CourseTitles {
		if strings.Contains(strings.ToLower(title), q) {
			return true
		}
	}
	return false
}

// sortRecords orders records in place by the selected key. The sort is
// stable, so ties keep their input order.
func (s *EnsembleService) sortRecords(records []model.Ensemble, key string) {
	switch key {
	case SortPriority:
		sort.SliceStable(records, func(i, j int) bool {
			return s.priorityScore(&records[i]) > s.priorityScore(&records[j])
		})
	case SortEnrollmentAsc:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].ActiveStudents < records[j].ActiveStudents
		})
	case SortEnrollmentDesc:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].ActiveStudents > records[j].ActiveStudents
		})
	case SortSection:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].SectionName < records[j].SectionName
		})
	case SortFaculty:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].FirstFaculty() < records[j].FirstFaculty()
		})
	}
}

// priorityScore mirrors the registration-preference score for sorting.
// Sections without faculty score with an Unknown contract here so they
// still have a well-defined sort position in the general listing.
func (s *EnsembleService) priorityScore(e *model.Ensemble) int {
	return e.ActiveStudents*10 + s.roster.Lookup(e.FirstFaculty()).Priority()
}
