package booking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatalog(t *testing.T) {
	doc := `{
		"movies": [
			{"movie": "GodFather", "theatres": ["Tokyo", "Delhi"]},
			{"movie": "Matrix", "theatres": ["Tokyo"], "rating": "ignored"}
		],
		"unknown": true
	}`
	cfg, err := ParseCatalog(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, cfg.Movies, 2)
	assert.Equal(t, "GodFather", cfg.Movies[0].Movie)
	assert.Equal(t, []string{"Tokyo", "Delhi"}, cfg.Movies[0].Theatres)
}

func TestParseCatalogMalformed(t *testing.T) {
	_, err := ParseCatalog(strings.NewReader("{not json"))
	assert.ErrorIs(t, err, ErrBadMessage)
}

func TestLoad(t *testing.T) {
	e := New()
	require.NoError(t, e.Load(testCatalog()))

	free, err := e.FreeSeats("GodFather", "Delhi")
	require.NoError(t, err)
	assert.Equal(t, int(MaxSeats), free.Len())
	for seat := uint32(0); seat < MaxSeats; seat++ {
		assert.True(t, free.Has(seat))
	}

	catalog := e.Catalog()
	require.Len(t, catalog, 2)
	assert.Equal(t, "GodFather", catalog[0].Movie)
	assert.Equal(t, []string{"Delhi", "MexicoCity", "SaoPaulo", "Shanghai", "Tokyo"}, catalog[0].Theatres)
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name string
		cfg  *CatalogConfig
		want error
	}{
		{"nil config", nil, ErrBadMessage},
		{"no movies key", &CatalogConfig{}, ErrBadMessage},
		{"empty movie name", &CatalogConfig{Movies: []MovieConfig{
			{Movie: "", Theatres: []string{"Tokyo"}},
		}}, ErrBadMessage},
		{"no theatres", &CatalogConfig{Movies: []MovieConfig{
			{Movie: "Matrix"},
		}}, ErrBadMessage},
		{"empty theatre name", &CatalogConfig{Movies: []MovieConfig{
			{Movie: "Matrix", Theatres: []string{""}},
		}}, ErrBadMessage},
		{"duplicate movie", &CatalogConfig{Movies: []MovieConfig{
			{Movie: "Matrix", Theatres: []string{"Tokyo"}},
			{Movie: "Matrix", Theatres: []string{"Delhi"}},
		}}, ErrConflict},
		{"duplicate theatre", &CatalogConfig{Movies: []MovieConfig{
			{Movie: "Matrix", Theatres: []string{"Tokyo", "Tokyo"}},
		}}, ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().Load(tt.cfg)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
