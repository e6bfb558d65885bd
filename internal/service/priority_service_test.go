package service

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ensdash/ensdash-backend/internal/dataset"
	"github.com/ensdash/ensdash-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRoster builds a ContractRoster from name/contract pairs through the
// same CSV path production uses.
func testRoster(t *testing.T, pairs map[string]string) *dataset.ContractRoster {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contracts.csv")
	var body strings.Builder
	w := csv.NewWriter(&body)
	require.NoError(t, w.Write([]string{"faculty", "contract"}))
	for name, contract := range pairs {
		require.NoError(t, w.Write([]string{name, contract}))
	}
	w.Flush()
	require.NoError(t, w.Error())
	require.NoError(t, os.WriteFile(path, []byte(body.String()), 0644))
	roster, err := dataset.LoadContracts(path, zerolog.Nop())
	require.NoError(t, err)
	return roster
}

func taught(name string, active int, faculty string) model.Ensemble {
	e := section(name, active, 10)
	e.FacultyNames = []string{faculty}
	return e
}

// One extra student outweighs the best possible contract.
func TestRankStudentCountDominatesContract(t *testing.T) {
	svc := NewPriorityService(testRoster(t, map[string]string{
		"Adjunct Prof": "adjunct",
		"Tenured Prof": "FT",
	}))

	out := svc.Rank([]model.Ensemble{
		taught("TwoFT", 2, "Tenured Prof"),     // 24
		taught("ThreeAdj", 3, "Adjunct Prof"),  // 31
	})

	require.Len(t, out, 2)
	assert.Equal(t, "ThreeAdj", out[0].SectionName)
	assert.Equal(t, 31, out[0].Score)
	assert.Equal(t, 1, out[0].Rank)
	assert.Equal(t, "TwoFT", out[1].SectionName)
	assert.Equal(t, 24, out[1].Score)
	assert.Equal(t, 2, out[1].Rank)
}

func TestRankContractBreaksTies(t *testing.T) {
	svc := NewPriorityService(testRoster(t, map[string]string{
		"Adjunct Prof": "adjunct",
		"Tenured Prof": "FT",
	}))

	out := svc.Rank([]model.Ensemble{
		taught("A", 2, "Adjunct Prof"), // 21
		taught("B", 2, "Tenured Prof"), // 24
	})

	require.Len(t, out, 2)
	assert.Equal(t, "B", out[0].SectionName)
	assert.Equal(t, model.ContractFullTime, out[0].Contract)
	assert.Equal(t, "A", out[1].SectionName)
}

// Equal scores keep their snapshot order.
func TestRankStableOnEqualScores(t *testing.T) {
	svc := NewPriorityService(dataset.EmptyRoster())

	out := svc.Rank([]model.Ensemble{
		taught("First", 2, "X"),
		taught("Second", 2, "Y"),
		taught("Third", 2, "Z"),
	})

	require.Len(t, out, 3)
	assert.Equal(t, "First", out[0].SectionName)
	assert.Equal(t, "Second", out[1].SectionName)
	assert.Equal(t, "Third", out[2].SectionName)
}

func TestRankExcludesSectionsWithoutFaculty(t *testing.T) {
	svc := NewPriorityService(dataset.EmptyRoster())

	noFaculty := section("NoFaculty", 3, 10)
	out := svc.Rank([]model.Ensemble{noFaculty, taught("Taught", 0, "X")})

	require.Len(t, out, 1)
	assert.Equal(t, "Taught", out[0].SectionName)
}

func TestRankUnknownFacultyScoresZeroTiebreak(t *testing.T) {
	svc := NewPriorityService(testRoster(t, map[string]string{"Known": "FT"}))

	out := svc.Rank([]model.Ensemble{
		taught("Unlisted", 1, "Stranger"),
		taught("Listed", 1, "Known"),
	})

	require.Len(t, out, 2)
	assert.Equal(t, "Listed", out[0].SectionName)
	assert.Equal(t, 14, out[0].Score)
	assert.Equal(t, "Unlisted", out[1].SectionName)
	assert.Equal(t, 10, out[1].Score)
	assert.Equal(t, model.ContractUnknown, out[1].Contract)
}

func TestPriorityLevelLabels(t *testing.T) {
	assert.Equal(t, LevelHighest, PriorityLevel(3))
	assert.Equal(t, LevelHigh, PriorityLevel(2))
	assert.Equal(t, LevelMedium, PriorityLevel(1))
	assert.Equal(t, LevelLow, PriorityLevel(0))
	// Four or more students sit outside the preference tiers.
	assert.Equal(t, "", PriorityLevel(4))
	assert.Equal(t, "", PriorityLevel(12))
}
