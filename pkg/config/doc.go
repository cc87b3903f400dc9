// Package config loads the documentation variables and the build settings.
//
// Two files drive a build:
//
//   - _variables.yml, the documentation's shared variables, loaded as a
//     plain mapping by [LoadVars]. A "treeviz" section in it may override
//     build settings; see [DecodeVars] and [Settings.ApplyVars].
//   - treeviz.toml, the list of figures to build and where to put them,
//     loaded by [LoadSettings]. Without it, [DefaultSettings] describes
//     every documentation figure.
//
// Malformed variables are logged on the default charmbracelet logger before
// the error is returned, so a failing documentation build shows the parse
// error even when the caller swallows it.
package config
