package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CragSeed is the YAML shape of a crag import file.
type CragSeed struct {
	Slug        string       `yaml:"slug"`
	Name        string       `yaml:"name"`
	Country     string       `yaml:"country,omitempty"`
	Description string       `yaml:"description,omitempty"`
	Sectors     []SectorSeed `yaml:"sectors"`
	Climbers    []UserSeed   `yaml:"climbers,omitempty"`
}

type SectorSeed struct {
	Label  string      `yaml:"label,omitempty"`
	Name   string      `yaml:"name"`
	Routes []RouteSeed `yaml:"routes"`
}

type RouteSeed struct {
	Slug       string   `yaml:"slug,omitempty"`
	Name       string   `yaml:"name"`
	Grade      string   `yaml:"grade,omitempty"`
	Difficulty *float64 `yaml:"difficulty,omitempty"`
	Length     *float64 `yaml:"length,omitempty"`
	Stars      int      `yaml:"stars,omitempty"`
	Ticks      int      `yaml:"ticks,omitempty"`
	Tries      int      `yaml:"tries,omitempty"`
	Climbers   int      `yaml:"climbers,omitempty"`
	Comments   int      `yaml:"comments,omitempty"`
}

type UserSeed struct {
	Login     string       `yaml:"login"`
	Firstname string       `yaml:"firstname"`
	Lastname  string       `yaml:"lastname"`
	Ascents   []AscentSeed `yaml:"ascents,omitempty"`
}

type AscentSeed struct {
	Route string `yaml:"route"`
	Type  string `yaml:"type"`
	Date  string `yaml:"date,omitempty"`
}

// ParseSeed decodes and validates one crag import document.
func ParseSeed(data []byte) (*CragSeed, error) {
	var seed CragSeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("decode crag seed: %w", err)
	}
	if err := seed.validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

// LoadSeedFile reads and parses a crag import file.
func LoadSeedFile(path string) (*CragSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	seed, err := ParseSeed(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seed, nil
}

func (s *CragSeed) validate() error {
	s.Slug = strings.TrimSpace(s.Slug)
	if s.Slug == "" {
		s.Slug = slugify(s.Name)
	}
	if s.Slug == "" {
		return errors.New("crag seed needs a slug or a name")
	}
	if len(s.Sectors) == 0 {
		return fmt.Errorf("crag %q has no sectors", s.Slug)
	}
	slugs := make(map[string]struct{})
	for i := range s.Sectors {
		for j := range s.Sectors[i].Routes {
			r := &s.Sectors[i].Routes[j]
			if strings.TrimSpace(r.Name) == "" {
				return fmt.Errorf("crag %q sector %d route %d has no name", s.Slug, i, j)
			}
			if r.Slug == "" {
				r.Slug = slugify(r.Name)
			}
			if _, dup := slugs[r.Slug]; dup {
				return fmt.Errorf("crag %q has duplicate route slug %q", s.Slug, r.Slug)
			}
			slugs[r.Slug] = struct{}{}
		}
	}
	for _, c := range s.Climbers {
		if strings.TrimSpace(c.Login) == "" {
			return fmt.Errorf("crag %q has a climber without login", s.Slug)
		}
		for _, a := range c.Ascents {
			if _, ok := slugs[a.Route]; !ok {
				return fmt.Errorf("climber %q logs unknown route %q", c.Login, a.Route)
			}
		}
	}
	return nil
}

var slugReplacer = strings.NewReplacer(
	"č", "c", "š", "s", "ž", "z", "ć", "c", "đ", "d",
	"Č", "c", "Š", "s", "Ž", "z", "Ć", "c", "Đ", "d",
)

func slugify(s string) string {
	s = strings.ToLower(slugReplacer.Replace(strings.TrimSpace(s)))
	var b strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
