package grid

import "github.com/vk/cornergrid/internal/model"

// CornerProvider supplies the corners of a batch.
type CornerProvider interface {
	Corners() []model.Corner
}

// TemperatureProvider supplies the temperatures of a batch.
type TemperatureProvider interface {
	Temperatures() []model.Temperature
}

// StaticCorners is a fixed corner list.
type StaticCorners []model.Corner

// Corners implements CornerProvider.
func (s StaticCorners) Corners() []model.Corner {
	return append([]model.Corner(nil), s...)
}

// StaticTemperatures is a fixed temperature list.
type StaticTemperatures []model.Temperature

// Temperatures implements TemperatureProvider.
func (s StaticTemperatures) Temperatures() []model.Temperature {
	return append([]model.Temperature(nil), s...)
}

// FromProviders enumerates the pairs offered by two providers.
func FromProviders(cp CornerProvider, tp TemperatureProvider) ([]Pair, error) {
	corners, temps := cp.Corners(), tp.Temperatures()
	if err := Validate(corners, temps); err != nil {
		return nil, err
	}
	return Enumerate(corners, temps), nil
}
