package service

import (
	"sort"

	"github.com/ensdash/ensdash-backend/internal/dataset"
	"github.com/ensdash/ensdash-backend/internal/model"
)

// Priority level labels, a function of the student count alone. Counts of
// four or more fall outside the preference tiers and carry no label.
const (
	LevelHighest = "HIGHEST"
	LevelHigh    = "HIGH"
	LevelMedium  = "MEDIUM"
	LevelLow     = "LOW"
)

// studentWeight dominates any contract tiebreak (max contract priority is 4).
const studentWeight = 10

// RankedEnsemble is one row of the registration-preference ranking.
type RankedEnsemble struct {
	Rank           int                `json:"rank"`
	SectionName    string             `json:"section_name"`
	Faculty        string             `json:"faculty"`
	Contract       model.ContractType `json:"contract"`
	ActiveStudents int                `json:"active_students"`
	Level          string             `json:"level,omitempty"`
	Score          int                `json:"score"`
}

// PriorityService ranks sections for registration preference. The score is
// driven by enrolled count; the first listed faculty's contract type breaks
// ties. Sections without any faculty are excluded entirely.
type PriorityService struct {
	roster *dataset.ContractRoster
}

// NewPriorityService creates a new PriorityService.
func NewPriorityService(roster *dataset.ContractRoster) *PriorityService {
	return &PriorityService{roster: roster}
}

// Rank scores and orders the records descending by score. The sort is
// stable, so equal scores keep their input order.
func (s *PriorityService) Rank(records []model.Ensemble) []RankedEnsemble {
	out := make([]RankedEnsemble, 0, len(records))
	for i := range records {
		e := &records[i]
		faculty := e.FirstFaculty()
		if faculty == "" {
			continue
		}
		contract := s.roster.Lookup(faculty)
		out = append(out, RankedEnsemble{
			SectionName:    e.SectionName,
			Faculty:        faculty,
			Contract:       contract,
			ActiveStudents: e.ActiveStudents,
			Level:          PriorityLevel(e.ActiveStudents),
			Score:          e.ActiveStudents*studentWeight + contract.Priority(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// PriorityLevel maps a student count to its preference tier label. The
// label is for grouping and display only; it does not feed the score.
func PriorityLevel(activeStudents int) string {
	switch activeStudents {
	case 3:
		return LevelHighest
	case 2:
		return LevelHigh
	case 1:
		return LevelMedium
	case 0:
		return LevelLow
	default:
		return ""
	}
}
