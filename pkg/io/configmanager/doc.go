// Package configmanager loads the gcping configuration.
//
// Values are layered as defaults < config file < GCPING_* environment < flags.
// The config file is gcping.yaml, searched in the working directory and in
// $HOME/.config/gcping. Flags are generated from [FieldSelector]s so every
// command exposes the same names for the same settings.
package configmanager
