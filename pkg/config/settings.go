package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/render"
)

const (
	DefaultSettingsFile = "treeviz.toml"
	DefaultDataFile     = "data/basics.trees"
	DefaultOutputDir    = "_static"
	DefaultCacheTTL     = "720h"

	// VarsSection is the _variables.yml key that overrides settings.
	VarsSection = "treeviz"
)

// Figure kinds.
const (
	KindThreeD        = "threed"
	KindARG           = "arg"
	KindRecombination = "recombination"
	KindTopology      = "topology"
	KindBasics        = "basics"
	KindTreeMut       = "treemut"
)

// Kinds lists every figure kind in build order.
var Kinds = []string{KindThreeD, KindARG, KindRecombination, KindTopology, KindBasics, KindTreeMut}

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Settings describes a documentation build.
type Settings struct {
	OutputDir string        `toml:"output_dir"`
	VarsFile  string        `toml:"vars_file"`
	DataFile  string        `toml:"data_file"`
	Formats   []string      `toml:"formats"`
	Cache     CacheSettings `toml:"cache"`
	Figures   []Figure      `toml:"figure"`
}

type CacheSettings struct {
	Backend   string `toml:"backend"`
	RedisAddr string `toml:"redis_addr"`
	TTL       string `toml:"ttl"`
}

// TTLDuration parses TTL; an empty TTL means DefaultCacheTTL.
func (c CacheSettings) TTLDuration() (time.Duration, error) {
	ttl := c.TTL
	if ttl == "" {
		ttl = DefaultCacheTTL
	}
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache ttl %q", c.TTL)
	}
	if d <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "cache ttl must be positive, got %s", ttl)
	}
	return d, nil
}

// Figure is one figure of a build. Fields a kind does not use are ignored;
// zero values mean the figure's own defaults.
type Figure struct {
	Name      string    `toml:"name" json:"name"`
	Kind      string    `toml:"kind" json:"kind"`
	Model     string    `toml:"model,omitempty" json:"model,omitempty"`
	ID        string    `toml:"id,omitempty" json:"id,omitempty"`
	Seed      uint64    `toml:"seed,omitempty" json:"seed,omitempty"`
	TreeWidth float64   `toml:"tree_width,omitempty" json:"tree_width,omitempty"`
	YStep     float64   `toml:"y_step,omitempty" json:"y_step,omitempty"`
	LMargin   float64   `toml:"lmargin,omitempty" json:"lmargin,omitempty"`
	RMargin   float64   `toml:"rmargin,omitempty" json:"rmargin,omitempty"`
	Size      []float64 `toml:"size,omitempty" json:"size,omitempty"`
	Style     string    `toml:"style,omitempty" json:"style,omitempty"`
}

// DefaultSettings describes every figure of the documentation.
func DefaultSettings() Settings {
	figures := []Figure{
		{Name: "threedtree", Kind: KindThreeD},
		{Name: "arg", Kind: KindARG},
		{Name: "recombination", Kind: KindRecombination},
	}
	for _, model := range []string{"neutral", "expansion", "bottleneck", "selection"} {
		figures = append(figures, Figure{
			Name:  "tree-topology-" + model,
			Kind:  KindTopology,
			Model: model,
			ID:    "tree-topology-" + model,
		})
	}
	figures = append(figures,
		Figure{Name: "basics_tree", Kind: KindBasics},
		Figure{Name: "treemut", Kind: KindTreeMut},
	)
	return Settings{
		OutputDir: DefaultOutputDir,
		VarsFile:  DefaultVarsFile,
		DataFile:  DefaultDataFile,
		Formats:   []string{string(render.FormatSVG)},
		Cache:     CacheSettings{Backend: BackendFile, TTL: DefaultCacheTTL},
		Figures:   figures,
	}
}

// LoadSettings reads build settings from a TOML file. A missing file yields
// DefaultSettings. Unset fields fall back to their defaults, and a file
// without figures builds the default ones.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	var s Settings
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	s.fillDefaults()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// ApplyVars overrides settings with the "treeviz" section of the
// documentation variables, then validates the result.
func (s *Settings) ApplyVars(vars map[string]any) error {
	if err := DecodeVars(vars, VarsSection, s); err != nil {
		return err
	}
	s.fillDefaults()
	return s.Validate()
}

func (s *Settings) fillDefaults() {
	def := DefaultSettings()
	if s.OutputDir == "" {
		s.OutputDir = def.OutputDir
	}
	if s.VarsFile == "" {
		s.VarsFile = def.VarsFile
	}
	if s.DataFile == "" {
		s.DataFile = def.DataFile
	}
	if len(s.Formats) == 0 {
		s.Formats = def.Formats
	}
	if s.Cache.Backend == "" {
		s.Cache.Backend = def.Cache.Backend
	}
	if s.Cache.TTL == "" {
		s.Cache.TTL = def.Cache.TTL
	}
	if len(s.Figures) == 0 {
		s.Figures = def.Figures
	}
}

// Validate rejects unknown kinds, formats and cache backends, and duplicate
// figure names.
func (s Settings) Validate() error {
	if err := errors.ValidatePath(s.OutputDir); err != nil {
		return err
	}
	for _, f := range s.Formats {
		if _, err := render.ParseFormat(f); err != nil {
			return err
		}
	}
	switch s.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if s.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "redis cache needs redis_addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, redis or none)", s.Cache.Backend)
	}
	if _, err := s.Cache.TTLDuration(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(s.Figures))
	for _, f := range s.Figures {
		if err := f.Validate(); err != nil {
			return err
		}
		if seen[f.Name] {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate figure name %q", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// Validate checks one figure entry.
func (f Figure) Validate() error {
	if err := errors.ValidateFigureName(f.Name); err != nil {
		return err
	}
	if !slices.Contains(Kinds, f.Kind) {
		return errors.New(errors.ErrCodeInvalidConfig, "figure %q: unknown kind %q", f.Name, f.Kind)
	}
	if f.Kind == KindTopology && f.Model == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "figure %q: topology needs a model", f.Name)
	}
	if f.ID != "" {
		if err := errors.ValidateSVGID(f.ID); err != nil {
			return err
		}
	}
	if len(f.Size) != 0 && len(f.Size) != 2 {
		return errors.New(errors.ErrCodeInvalidConfig, "figure %q: size needs two values, got %d", f.Name, len(f.Size))
	}
	return nil
}
