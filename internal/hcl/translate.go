package hcl

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/vk/cornergrid/internal/config"
	"github.com/vk/cornergrid/internal/model"
)

// translateSweep converts the HCL-specific sweep schema into the agnostic model.
func translateSweep(s *sweepBlock) (*config.Sweep, error) {
	if s == nil {
		return nil, nil
	}
	out := &config.Sweep{
		Filter:   strings.TrimSpace(s.Filter),
		Sentinel: strings.TrimSpace(s.Sentinel),
	}
	for _, c := range s.Corners {
		out.Corners = append(out.Corners, model.Corner(c))
	}
	for _, v := range s.Temperatures {
		t, err := model.TruncateTemperature(v)
		if err != nil {
			return nil, fmt.Errorf("sweep temperatures: %w", err)
		}
		out.Temperatures = append(out.Temperatures, t)
	}
	return out, nil
}

// translateSimulator converts the HCL-specific simulator schema into the
// agnostic model. Relative working directories resolve against baseDir.
func translateSimulator(s *simulatorBlock, baseDir string) (*config.Simulator, error) {
	out := &config.Simulator{
		Name:    s.Name,
		Command: s.Command,
		Env:     s.Env,
		WorkDir: resolve(baseDir, s.WorkDir),
	}
	if s.Timeout != "" {
		d, err := time.ParseDuration(s.Timeout)
		if err != nil {
			return nil, fmt.Errorf("simulator %q: invalid timeout: %w", s.Name, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("simulator %q: timeout must not be negative", s.Name)
		}
		out.Timeout = d
	}
	return out, nil
}

// translateOutput converts the HCL-specific output schema into the agnostic model.
func translateOutput(o *outputBlock, baseDir string) *config.Output {
	if o == nil {
		return nil
	}
	return &config.Output{
		Root:   resolve(baseDir, o.Root),
		Report: o.Report,
	}
}

func resolve(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
