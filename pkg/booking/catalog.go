package booking

import (
	"encoding/json"
	"fmt"
	"io"
)

// CatalogConfig is the parsed catalog document:
//
//	{"movies": [{"movie": "<name>", "theatres": ["<name>", ...]}, ...]}
//
// Unknown keys are ignored. The same shape is accepted inline from the main
// configuration file.
type CatalogConfig struct {
	Movies []MovieConfig `json:"movies" mapstructure:"movies" yaml:"movies"`
}

// MovieConfig is one catalog entry: a movie and the theatres it plays in.
type MovieConfig struct {
	Movie    string   `json:"movie" mapstructure:"movie" yaml:"movie"`
	Theatres []string `json:"theatres" mapstructure:"theatres" yaml:"theatres"`
}

// ParseCatalog decodes a JSON catalog document.
func ParseCatalog(r io.Reader) (*CatalogConfig, error) {
	var cfg CatalogConfig
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", ErrBadMessage)
	}
	return &cfg, nil
}

// Load populates the engine's catalog. Every theatre starts with the full
// seat plane free and no owners. Load must complete before any session is
// served; the catalog shape is immutable afterwards.
//
// Duplicate movie names, or duplicate theatre names within a movie, fail with
// ErrConflict. A missing movies array, empty names, or a movie without
// theatres fail with ErrBadMessage. On failure the engine must be discarded:
// partially loaded state is never exposed because loading happens before the
// listeners open.
func (e *Engine) Load(cfg *CatalogConfig) error {
	if cfg == nil || cfg.Movies == nil {
		return fmt.Errorf("no movies in catalog: %w", ErrBadMessage)
	}

	for _, mc := range cfg.Movies {
		if mc.Movie == "" {
			return fmt.Errorf("movie with empty name: %w", ErrBadMessage)
		}
		if len(mc.Theatres) == 0 {
			return fmt.Errorf("movie %q has no theatres: %w", mc.Movie, ErrBadMessage)
		}
		if _, ok := e.movies[mc.Movie]; ok {
			return fmt.Errorf("movie %q: %w", mc.Movie, ErrConflict)
		}

		m := &movie{theatres: make(map[string]*theatre, len(mc.Theatres))}
		for _, name := range mc.Theatres {
			if name == "" {
				return fmt.Errorf("movie %q: theatre with empty name: %w", mc.Movie, ErrBadMessage)
			}
			if _, ok := m.theatres[name]; ok {
				return fmt.Errorf("movie %q: theatre %q: %w", mc.Movie, name, ErrConflict)
			}

			t := &theatre{
				free:  make(SeatSet, MaxSeats),
				owned: make(map[string]SeatSet),
			}
			for seat := uint32(0); seat < MaxSeats; seat++ {
				t.free.Add(seat)
			}
			m.theatres[name] = t
		}
		e.movies[mc.Movie] = m
	}

	return nil
}

// Catalog returns the loaded movie names and each movie's theatre names, both
// sorted. Sessions use it to build their command trees; the result reflects
// the immutable post-Load shape.
func (e *Engine) Catalog() []MovieConfig {
	out := make([]MovieConfig, 0, len(e.movies))
	for _, movieName := range sortedKeys(e.movies) {
		out = append(out, MovieConfig{
			Movie:    movieName,
			Theatres: sortedKeys(e.movies[movieName].theatres),
		})
	}
	return out
}
