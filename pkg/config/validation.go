package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks a loaded configuration against the struct-level validation
// tags plus the catalog rules the tags cannot express.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			e := errs[0]
			return fmt.Errorf("field %s failed validation rule %q", e.Namespace(), e.Tag())
		}
		return err
	}

	if err := validateCatalog(&cfg.Catalog); err != nil {
		return err
	}

	return validateListeners(cfg.Server.Listeners)
}

// validateCatalog requires a catalog source and rejects inline entries the
// engine would refuse at load time, so misconfiguration surfaces before the
// listeners open.
func validateCatalog(cfg *CatalogConfig) error {
	if cfg.File != "" {
		// The document is parsed at startup; inline entries are ignored.
		return nil
	}

	if len(cfg.Movies) == 0 {
		return fmt.Errorf("catalog: either a document file or inline movies must be configured")
	}

	seen := make(map[string]struct{}, len(cfg.Movies))
	for _, mc := range cfg.Movies {
		if mc.Movie == "" {
			return fmt.Errorf("catalog: movie with empty name")
		}
		if _, dup := seen[mc.Movie]; dup {
			return fmt.Errorf("catalog: duplicate movie %q", mc.Movie)
		}
		seen[mc.Movie] = struct{}{}

		if len(mc.Theatres) == 0 {
			return fmt.Errorf("catalog: movie %q has no theatres", mc.Movie)
		}
		theatres := make(map[string]struct{}, len(mc.Theatres))
		for _, name := range mc.Theatres {
			if name == "" {
				return fmt.Errorf("catalog: movie %q: theatre with empty name", mc.Movie)
			}
			if _, dup := theatres[name]; dup {
				return fmt.Errorf("catalog: movie %q: duplicate theatre %q", mc.Movie, name)
			}
			theatres[name] = struct{}{}
		}
	}

	return nil
}

// validateListeners rejects two listeners on the same endpoint; the second
// bind would fail at startup anyway, this catches it at load.
func validateListeners(listeners []ListenerConfig) error {
	seen := make(map[string]struct{}, len(listeners))
	for _, l := range listeners {
		key := fmt.Sprintf("%s:%d", l.Bind, l.Port)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("server: duplicate listener %s", key)
		}
		seen[key] = struct{}{}
	}
	return nil
}
