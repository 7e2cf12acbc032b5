// Package profile persists named PingOne connection profiles in a JSON
// file next to the tool, with a small metadata block tracking the last
// profile that authenticated successfully.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

// metaKey is reserved in the profiles file and cannot name a profile.
const metaKey = "__meta__"

// Profile is one saved connection.
type Profile struct {
	EnvironmentID string `json:"environment_id"`
	ClientID      string `json:"client_id"`
	ClientSecret  string `json:"client_secret"`
}

// Meta rides along in the profiles file.
type Meta struct {
	AutoConnectLast    bool   `json:"auto_connect_last"`
	LastWorkingProfile string `json:"last_working_profile"`
}

// Store holds the profiles loaded from one file.
type Store struct {
	Path     string
	Profiles map[string]Profile
	Meta     Meta
}

// Load reads the profiles file at path. A missing file yields an empty
// store, ready to save.
func Load(path string) (*Store, error) {
	s := &Store{Path: path, Profiles: map[string]Profile{}}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for name, msg := range raw {
		if name == metaKey {
			if err := json.Unmarshal(msg, &s.Meta); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			continue
		}
		var p Profile
		if err := json.Unmarshal(msg, &p); err != nil {
			return nil, fmt.Errorf("parse %s profile %q: %w", path, name, err)
		}
		s.Profiles[name] = p
	}
	return s, nil
}

// Save writes the store back to its file, readable only by the owner
// since profiles carry client secrets.
func (s *Store) Save() error {
	obj := make(map[string]any, len(s.Profiles)+1)
	for name, p := range s.Profiles {
		obj[name] = p
	}
	obj[metaKey] = s.Meta

	data, err := json.MarshalIndent(obj, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, append(data, '\n'), 0o600)
}

// Names lists the saved profiles sorted.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.Profiles))
	for name := range s.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) Get(name string) (Profile, bool) {
	p, ok := s.Profiles[name]
	return p, ok
}

// Set adds or replaces a profile. The metadata key is reserved.
func (s *Store) Set(name string, p Profile) error {
	if name == metaKey || name == "" {
		return fmt.Errorf("invalid profile name %q", name)
	}
	s.Profiles[name] = p
	return nil
}

func (s *Store) Delete(name string) bool {
	if _, ok := s.Profiles[name]; !ok {
		return false
	}
	delete(s.Profiles, name)
	if s.Meta.LastWorkingProfile == name {
		s.Meta.LastWorkingProfile = ""
	}
	return true
}

// MarkWorking records that name just authenticated successfully.
func (s *Store) MarkWorking(name string) {
	s.Meta.LastWorkingProfile = name
}

// AutoConnect returns the profile to connect with when auto-connect is on
// and the last working profile still exists.
func (s *Store) AutoConnect() (Profile, string, bool) {
	if !s.Meta.AutoConnectLast || s.Meta.LastWorkingProfile == "" {
		return Profile{}, "", false
	}
	p, ok := s.Profiles[s.Meta.LastWorkingProfile]
	if !ok {
		return Profile{}, "", false
	}
	return p, s.Meta.LastWorkingProfile, true
}
