// Package credentials persists the single API key the tool authenticates
// with.
package credentials

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where the key is stored when no path is configured.
const DefaultPath = "config.yaml"

var (
	// ErrNotFound is returned when no credential file exists.
	ErrNotFound = errors.New("no saved API key")
	// ErrEmptyKey is returned when the file exists but holds no key.
	ErrEmptyKey = errors.New("saved API key is empty")
	// ErrSave wraps any failure to persist a key.
	ErrSave = errors.New("could not save API key")
)

// Credential is the persisted record.
type Credential struct {
	APIKey string `yaml:"api_key"`
}

// Prompter is the interactive surface the store needs.
type Prompter interface {
	YesNo(question string) (bool, error)
	Text(question string) (string, error)
	Success(msg string)
	Failure(msg string)
}

// Store reads and writes one credential at a fixed path.
type Store struct {
	path string
}

// NewStore creates a Store for path. An empty path uses DefaultPath.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a credential file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the saved credential.
func (s *Store) Load() (Credential, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Credential{}, ErrNotFound
	}
	if err != nil {
		return Credential{}, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var cred Credential
	if err := yaml.Unmarshal(data, &cred); err != nil {
		return Credential{}, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	cred.APIKey = strings.TrimSpace(cred.APIKey)
	if cred.APIKey == "" {
		return Credential{}, ErrEmptyKey
	}
	return cred, nil
}

// Save writes cred, replacing any existing record.
func (s *Store) Save(cred Credential) error {
	data, err := yaml.Marshal(cred)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("%w: %w", ErrSave, err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("%w: %w", ErrSave, err)
	}
	return nil
}

// Create prompts for a new key and saves it. A save failure means the
// caller has no usable credential.
func (s *Store) Create(p Prompter) (Credential, error) {
	var key string
	for key == "" {
		answer, err := p.Text("Enter your HubSpot private app access token:")
		if err != nil {
			return Credential{}, err
		}
		key = answer
		if key == "" {
			p.Failure("The API key cannot be empty.")
		}
	}

	cred := Credential{APIKey: key}
	if err := s.Save(cred); err != nil {
		p.Failure(err.Error())
		return Credential{}, err
	}
	p.Success("Saved API key to " + s.path)
	return cred, nil
}

// LoadOrCreate returns the saved key if the user chooses to reuse it, and
// otherwise prompts for a new one.
func (s *Store) LoadOrCreate(p Prompter) (Credential, error) {
	cred, err := s.Load()
	switch {
	case err == nil:
		reuse, err := p.YesNo(fmt.Sprintf("Use the existing API key from %s?", s.path))
		if err != nil {
			return Credential{}, err
		}
		if reuse {
			return cred, nil
		}
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrEmptyKey):
	default:
		p.Failure(err.Error())
	}
	return s.Create(p)
}
