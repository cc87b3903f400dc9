package config

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/treeviz/pkg/errors"
)

// DefaultVarsFile is the variables file, relative to the documentation root.
const DefaultVarsFile = "_variables.yml"

// LoadVars reads a YAML mapping from path.
func LoadVars(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	vars := make(map[string]any)
	if err := yaml.Unmarshal(data, &vars); err != nil {
		log.Error("cannot parse variables", "path", path, "err", err)
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return vars, nil
}

// DecodeVars decodes vars[key] into out, which must be a pointer to a
// struct tagged with `toml` names. A missing key leaves out untouched.
func DecodeVars(vars map[string]any, key string, out any) error {
	section, ok := vars[key]
	if !ok || section == nil {
		return nil
	}
	if _, ok := section.(map[string]any); !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "variables section %q is a %T, want a mapping", key, section)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "toml",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create decoder")
	}
	if err := dec.Decode(section); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode variables section %q", key)
	}
	return nil
}
