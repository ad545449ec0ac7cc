package params

import "strings"

// Environment identifies an image-based lighting preset supplying reflections.
type Environment int

const (
	EnvironmentSunset Environment = iota
	EnvironmentDawn
	EnvironmentNight
	EnvironmentWarehouse
	EnvironmentForest
	EnvironmentApartment
	EnvironmentStudio
	EnvironmentCity
	EnvironmentPark
	EnvironmentLobby

	environmentCount
)

var environmentNames = [environmentCount]string{
	"sunset", "dawn", "night", "warehouse", "forest",
	"apartment", "studio", "city", "park", "lobby",
}

// Environments returns every preset in display order.
//
// Returns:
//   - []Environment: all presets
func Environments() []Environment {
	out := make([]Environment, environmentCount)
	for i := range out {
		out[i] = Environment(i)
	}
	return out
}

// ParseEnvironment resolves a preset by its case-insensitive name.
//
// Parameters:
//   - name: the preset name (e.g. "city")
//
// Returns:
//   - Environment: the preset, or DefaultEnvironment if unknown
//   - bool: true if the name was recognized
func ParseEnvironment(name string) (Environment, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range environmentNames {
		if n == name {
			return Environment(i), true
		}
	}
	return DefaultEnvironment, false
}

// Valid reports whether e is one of the fixed presets.
func (e Environment) Valid() bool {
	return e >= 0 && e < environmentCount
}

// String returns the preset name, or "unknown".
func (e Environment) String() string {
	if !e.Valid() {
		return "unknown"
	}
	return environmentNames[e]
}

// Step returns the preset delta positions away, wrapping around the list.
//
// Parameters:
//   - delta: number of positions to move (negative moves backwards)
//
// Returns:
//   - Environment: the resulting preset
func (e Environment) Step(delta int) Environment {
	if !e.Valid() {
		e = DefaultEnvironment
	}
	n := int(environmentCount)
	return Environment(((int(e)+delta)%n + n) % n)
}
