package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ensdash/ensdash-backend/internal/model"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"
)

// contractRow is one line of the faculty roster CSV.
type contractRow struct {
	Faculty  string `csv:"faculty"`
	Contract string `csv:"contract"`
}

// ContractRoster maps faculty display names to contract types. The lookup
// is an exact string match on the name as it appears in the section data;
// absent names resolve to Unknown.
type ContractRoster struct {
	byName map[string]model.ContractType
}

// EmptyRoster returns a roster where every lookup yields Unknown.
func EmptyRoster() *ContractRoster {
	return &ContractRoster{byName: map[string]model.ContractType{}}
}

// LoadContracts reads the faculty roster CSV. A missing file is not an
// error — scoring still works, every contract is just Unknown — but a file
// that exists and fails to parse is.
func LoadContracts(path string, log zerolog.Logger) (*ContractRoster, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("file", path).Msg("faculty contracts file not found, all contracts default to Unknown")
			return EmptyRoster(), nil
		}
		return nil, fmt.Errorf("open contracts file %q: %w", path, err)
	}
	defer f.Close()

	var rows []contractRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parse contracts file %q: %w", path, err)
	}

	byName := make(map[string]model.ContractType, len(rows))
	for _, row := range rows {
		if row.Faculty == "" {
			continue
		}
		byName[row.Faculty] = model.ParseContractType(row.Contract)
	}

	log.Info().Int("faculty", len(byName)).Str("file", path).Msg("faculty contracts loaded")
	return &ContractRoster{byName: byName}, nil
}

// Lookup returns the contract type for a faculty name, defaulting to Unknown.
func (r *ContractRoster) Lookup(name string) model.ContractType {
	if ct, ok := r.byName[name]; ok {
		return ct
	}
	return model.ContractUnknown
}

// Len returns the number of roster entries.
func (r *ContractRoster) Len() int {
	return len(r.byName)
}
