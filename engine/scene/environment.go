package scene

import "github.com/Carmen-Shannon/oxy-badge/engine/params"

// environmentMaps approximates each preset's HDR panorama as sky, horizon and ground radiance.
var environmentMaps = map[params.Environment]EnvironmentMap{
	params.EnvironmentSunset:    {Sky: [3]float32{0.45, 0.30, 0.45}, Horizon: [3]float32{1.00, 0.55, 0.30}, Ground: [3]float32{0.25, 0.15, 0.12}, Exposure: 1},
	params.EnvironmentDawn:      {Sky: [3]float32{0.55, 0.60, 0.85}, Horizon: [3]float32{1.00, 0.75, 0.70}, Ground: [3]float32{0.30, 0.25, 0.28}, Exposure: 1},
	params.EnvironmentNight:     {Sky: [3]float32{0.02, 0.03, 0.08}, Horizon: [3]float32{0.08, 0.10, 0.20}, Ground: [3]float32{0.01, 0.01, 0.02}, Exposure: 0.6},
	params.EnvironmentWarehouse: {Sky: [3]float32{0.55, 0.52, 0.48}, Horizon: [3]float32{0.40, 0.38, 0.35}, Ground: [3]float32{0.18, 0.17, 0.16}, Exposure: 1},
	params.EnvironmentForest:    {Sky: [3]float32{0.45, 0.60, 0.50}, Horizon: [3]float32{0.35, 0.50, 0.30}, Ground: [3]float32{0.12, 0.18, 0.08}, Exposure: 1},
	params.EnvironmentApartment: {Sky: [3]float32{0.85, 0.78, 0.68}, Horizon: [3]float32{0.70, 0.60, 0.50}, Ground: [3]float32{0.30, 0.25, 0.20}, Exposure: 1},
	params.EnvironmentStudio:    {Sky: [3]float32{0.95, 0.95, 0.95}, Horizon: [3]float32{0.80, 0.80, 0.80}, Ground: [3]float32{0.35, 0.35, 0.35}, Exposure: 1},
	params.EnvironmentCity:      {Sky: [3]float32{0.55, 0.65, 0.80}, Horizon: [3]float32{0.70, 0.70, 0.72}, Ground: [3]float32{0.20, 0.20, 0.22}, Exposure: 1},
	params.EnvironmentPark:      {Sky: [3]float32{0.50, 0.70, 0.95}, Horizon: [3]float32{0.75, 0.85, 0.90}, Ground: [3]float32{0.20, 0.30, 0.15}, Exposure: 1},
	params.EnvironmentLobby:     {Sky: [3]float32{0.80, 0.70, 0.55}, Horizon: [3]float32{0.65, 0.55, 0.45}, Ground: [3]float32{0.25, 0.20, 0.15}, Exposure: 1},
}

// EnvironmentFor returns the radiance bands of a preset. Unknown presets map to the default.
//
// Parameters:
//   - e: the environment preset
//
// Returns:
//   - EnvironmentMap: the preset's radiance approximation
func EnvironmentFor(e params.Environment) EnvironmentMap {
	if !e.Valid() {
		e = params.DefaultEnvironment
	}
	m := environmentMaps[e]
	m.Preset = e
	return m
}
