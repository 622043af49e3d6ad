package records

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	recordsObject = "records"
)

// Record is the persisted best run for one wave set.
type Record struct {
	BestWave    int     `yaml:"best_wave"`
	BestLoop    int     `yaml:"best_loop"`
	TotalKills  int     `yaml:"total_kills"`
	Runs        int     `yaml:"runs"`
	Completions int     `yaml:"completions"`
	LongestRun  float64 `yaml:"longest_run"`
}

// Run is the outcome of one play session.
type Run struct {
	WavesCleared int
	Loop         int
	Kills        int
	Seconds      float64
	Completed    bool
}

// Store keeps records per wave set name. A nil manager keeps them in memory
// only, which is what tests and read-only environments get.
type Store struct {
	manager *gdata.Manager
	cache   map[string]Record
}

// Open tries to open the platform data dir for appName. On failure the
// store falls back to memory and the error is returned for logging.
func Open(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return NewStore(nil), fmt.Errorf("records: open %s: %w", appName, err)
	}
	return NewStore(m), nil
}

func NewStore(m *gdata.Manager) *Store {
	return &Store{manager: m, cache: map[string]Record{}}
}

// Persistent reports whether records survive a restart.
func (s *Store) Persistent() bool {
	return s != nil && s.manager != nil
}

// Load returns the record for set, zero if none was ever saved.
func (s *Store) Load(set string) (Record, error) {
	if s == nil {
		return Record{}, nil
	}
	if r, ok := s.cache[set]; ok {
		return r, nil
	}
	if s.manager == nil || !s.manager.ObjectPropExists(recordsObject, set) {
		return Record{}, nil
	}
	data, err := s.manager.LoadObjectProp(recordsObject, set)
	if err != nil {
		return Record{}, fmt.Errorf("records: load %s: %w", set, err)
	}
	var r Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("records: decode %s: %w", set, err)
	}
	s.cache[set] = r
	return r, nil
}

// Submit folds a finished run into the record for set and saves it. It
// reports whether the run set a new best.
func (s *Store) Submit(set string, run Run) (Record, bool, error) {
	if s == nil {
		return Record{}, false, nil
	}
	r, err := s.Load(set)
	if err != nil {
		log.Printf("records: %v (starting fresh)", err)
		r = Record{}
	}

	best := run.Loop > r.BestLoop || (run.Loop == r.BestLoop && run.WavesCleared > r.BestWave)
	if best {
		r.BestWave = run.WavesCleared
		r.BestLoop = run.Loop
	}
	r.Runs++
	r.TotalKills += run.Kills
	if run.Completed {
		r.Completions++
	}
	if run.Seconds > r.LongestRun {
		r.LongestRun = run.Seconds
	}
	s.cache[set] = r

	if s.manager == nil {
		return r, best, nil
	}
	data, err := yaml.Marshal(r)
	if err != nil {
		return r, best, fmt.Errorf("records: encode %s: %w", set, err)
	}
	if err := s.manager.SaveObjectProp(recordsObject, set, data); err != nil {
		return r, best, fmt.Errorf("records: save %s: %w", set, err)
	}
	return r, best, nil
}

// Reset forgets the record for set.
func (s *Store) Reset(set string) error {
	if s == nil {
		return nil
	}
	delete(s.cache, set)
	if s.manager == nil || !s.manager.ObjectPropExists(recordsObject, set) {
		return nil
	}
	data, err := yaml.Marshal(Record{})
	if err != nil {
		return fmt.Errorf("records: reset %s: %w", set, err)
	}
	if err := s.manager.SaveObjectProp(recordsObject, set, data); err != nil {
		return fmt.Errorf("records: reset %s: %w", set, err)
	}
	return nil
}
