// Package config defines the format-agnostic sweep configuration model,
// along with the Loader interface for reading it from a file.
//
// The `config.Model` only carries values; every field is optional and the
// command line wins over anything set here. Concrete implementations of the
// interface, such as for HCL, are provided in separate packages.
package config
