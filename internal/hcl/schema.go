// This file contains the HCL schema structs a sweep file is decoded into
// with gohcl, before translation into the format-agnostic model.

package hcl

// sweepFile represents the top-level structure of a sweep file for decoding.
type sweepFile struct {
	Sweep      *sweepBlock       `hcl:"sweep,block"`
	Simulators []*simulatorBlock `hcl:"simulator,block"`
	Output     *outputBlock      `hcl:"output,block"`
}

type sweepBlock struct {
	Corners      []string  `hcl:"corners,optional"`
	Temperatures []float64 `hcl:"temperatures,optional"`
	Filter       string    `hcl:"filter,optional"`
	Sentinel     string    `hcl:"sentinel,optional"`
}

type simulatorBlock struct {
	Name    string            `hcl:"name,label"`
	Command []string          `hcl:"command,optional"`
	Timeout string            `hcl:"timeout,optional"`
	Env     map[string]string `hcl:"env,optional"`
	WorkDir string            `hcl:"workdir,optional"`
}

type outputBlock struct {
	Root   string `hcl:"root,optional"`
	Report string `hcl:"report,optional"`
}
