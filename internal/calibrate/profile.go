package calibrate

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SchemaVersion is the current profile schema version.
const SchemaVersion = 1

// Profile is a named, persisted calibration.
type Profile struct {
	Name          string      `yaml:"name"`
	Calibration   Calibration `yaml:"calibration"`
	Timestamp     time.Time   `yaml:"timestamp"`
	SchemaVersion int         `yaml:"schema_version"`
}

// ProfileStore is the persistence port for calibration profiles.
// Put overwrites silently; there is no merge.
type ProfileStore interface {
	Get(name string) (Profile, bool)
	Put(name string, p Profile) error
	List() []string
	Delete(name string) error
}

// SaveProfile persists the current calibration under a user-chosen
// name, overwriting any existing profile of that name.
func (e *Engine) SaveProfile(name string) error {
	if e.cal == nil {
		return errors.New("calibrate: no calibration to save")
	}
	if e.store == nil {
		return errors.New("calibrate: no profile store configured")
	}

	return e.store.Put(name, Profile{
		Name:          name,
		Calibration:   *e.cal,
		Timestamp:     time.Now(),
		SchemaVersion: SchemaVersion,
	})
}

// LoadProfile loads a named profile and reapplies it to the model.
// Returns false when the name is absent or reapplication fails.
func (e *Engine) LoadProfile(name string) bool {
	if e.store == nil {
		return false
	}

	p, ok := e.store.Get(name)
	if !ok {
		return false
	}

	cal := p.Calibration
	e.cal = &cal
	return e.Apply()
}

// FileStore keeps all profiles in one YAML file as a flat name→profile
// mapping.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the given file path. The file
// is created on first Put.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get implements ProfileStore.
func (s *FileStore) Get(name string) (Profile, bool) {
	profiles, err := s.read()
	if err != nil {
		return Profile{}, false
	}
	p, ok := profiles[name]
	return p, ok
}

// Put implements ProfileStore.
func (s *FileStore) Put(name string, p Profile) error {
	profiles, err := s.read()
	if err != nil {
		return err
	}
	profiles[name] = p
	return s.write(profiles)
}

// List implements ProfileStore. Names are sorted.
func (s *FileStore) List() []string {
	profiles, err := s.read()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Delete implements ProfileStore. Deleting an absent name is not an
// error.
func (s *FileStore) Delete(name string) error {
	profiles, err := s.read()
	if err != nil {
		return err
	}
	delete(profiles, name)
	return s.write(profiles)
}

func (s *FileStore) read() (map[string]Profile, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]Profile{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading profile store %s", s.path)
	}

	profiles := map[string]Profile{}
	if err := yaml.Unmarshal(data, &profiles); err != nil {
		return nil, errors.Wrapf(err, "parsing profile store %s", s.path)
	}
	return profiles, nil
}

func (s *FileStore) write(profiles map[string]Profile) error {
	data, err := yaml.Marshal(profiles)
	if err != nil {
		return errors.Wrap(err, "encoding profile store")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrapf(err, "creating profile store dir")
	}
	return errors.Wrapf(os.WriteFile(s.path, data, 0644), "writing profile store %s", s.path)
}
