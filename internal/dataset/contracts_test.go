package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ensdash/ensdash-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadContracts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faculty_contracts.csv")
	csv := "faculty,contract\nAlice Deng,FT\nBob Farrell,adjunct\nCara Holt,PT3yr\nDrew Iyer,sabbatical\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	roster, err := LoadContracts(path, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 4, roster.Len())

	assert.Equal(t, model.ContractFullTime, roster.Lookup("Alice Deng"))
	assert.Equal(t, model.ContractAdjunct, roster.Lookup("Bob Farrell"))
	assert.Equal(t, model.ContractPartTime3Yr, roster.Lookup("Cara Holt"))
	// Unrecognized contract strings and unknown names both resolve to Unknown.
	assert.Equal(t, model.ContractUnknown, roster.Lookup("Drew Iyer"))
	assert.Equal(t, model.ContractUnknown, roster.Lookup("Nobody Here"))
}

func TestLoadContractsMissingFile(t *testing.T) {
	roster, err := LoadContracts(filepath.Join(t.TempDir(), "nope.csv"), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 0, roster.Len())
	assert.Equal(t, model.ContractUnknown, roster.Lookup("Anyone"))
}

func TestLoadContractsParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte(`faculty,contract`+"\n"+`"unterminated,FT`), 0644))

	_, err := LoadContracts(path, zerolog.Nop())
	assert.Error(t, err)
}

func TestContractPriorityOrdering(t *testing.T) {
	assert.Equal(t, 4, model.ContractFullTime.Priority())
	assert.Equal(t, 3, model.ContractPartTime3Yr.Priority())
	assert.Equal(t, 2, model.ContractPartTimeSpecial.Priority())
	assert.Equal(t, 1, model.ContractAdjunct.Priority())
	assert.Equal(t, 0, model.ContractUnknown.Priority())
}
