package dataset

import (
	"sort"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
)

// Store memoizes the loaded snapshot for the life of the process. Re-reading
// the same data file within a session never touches disk; the operator
// reload endpoint is the only path that swaps the snapshot, and it does so
// atomically.
type Store struct {
	path string
	log  zerolog.Logger

	mu   sync.RWMutex
	snap *Snapshot
}

// NewStore creates a Store for the given data file. Call Open before use.
func NewStore(path string, log zerolog.Logger) *Store {
	return &Store{
		path: path,
		log:  log.With().Str("component", "dataset_store").Logger(),
	}
}

// Open performs the initial load. A failure here is fatal to the session:
// no partial dashboard state exists without a snapshot.
func (s *Store) Open() error {
	snap, err := Load(s.path, s.log)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	s.log.Info().Int("sections", len(snap.Ensembles)).Str("file", s.path).Msg("snapshot loaded")
	return nil
}

// Snapshot returns the current in-memory snapshot without any disk access.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Reload re-reads the data file and swaps the snapshot. On failure the
// previous snapshot stays in place. Returns the new section count.
func (s *Store) Reload() (int, error) {
	snap, err := Load(s.path, s.log)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	s.log.Info().Int("sections", len(snap.Ensembles)).Msg("snapshot reloaded")
	return len(snap.Ensembles), nil
}

// Terms returns the sorted distinct term identifiers in the snapshot.
func (sn *Snapshot) Terms() []string {
	return distinct(sn, func(i int) string { return sn.Ensembles[i].Term })
}

// Styles returns the sorted distinct ensemble styles in the snapshot.
func (sn *Snapshot) Styles() []string {
	return distinct(sn, func(i int) string { return sn.Ensembles[i].Style })
}

// Ratings returns the distinct overall ratings present in the snapshot,
// formatted for exact-match filtering, in ascending numeric order.
// Sections without a rating contribute nothing.
func (sn *Snapshot) Ratings() []string {
	seen := make(map[float64]struct{})
	vals := make([]float64, 0)
	for _, e := range sn.Ensembles {
		if e.Rating == nil {
			continue
		}
		if _, ok := seen[*e.Rating]; !ok {
			seen[*e.Rating] = struct{}{}
			vals = append(vals, *e.Rating)
		}
	}
	sort.Float64s(vals)
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = FormatRating(v)
	}
	return out
}

// FormatRating renders a rating with no trailing zeros, matching the
// string the rating filter compares against.
func FormatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func distinct(sn *Snapshot, key func(int) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for i := range sn.Ensembles {
		k := key(i)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
