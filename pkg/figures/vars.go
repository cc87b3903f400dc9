package figures

import "github.com/matzehuels/treeviz/pkg/config"

// Vars loads the documentation variables from _variables.yml in the
// working directory.
func Vars() (map[string]any, error) {
	return config.LoadVars(config.DefaultVarsFile)
}
