package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEnvironment(t *testing.T) {
	for _, e := range Environments() {
		got, ok := ParseEnvironment(e.String())
		assert.True(t, ok)
		assert.Equal(t, e, got)
	}

	got, ok := ParseEnvironment(" Studio ")
	assert.True(t, ok)
	assert.Equal(t, EnvironmentStudio, got)

	got, ok = ParseEnvironment("moon")
	assert.False(t, ok)
	assert.Equal(t, DefaultEnvironment, got)
}

func TestEnvironmentStepWraps(t *testing.T) {
	assert.Len(t, Environments(), 10)
	assert.Equal(t, EnvironmentLobby, EnvironmentSunset.Step(-1))
	assert.Equal(t, EnvironmentSunset, EnvironmentLobby.Step(1))
	assert.Equal(t, EnvironmentPark, EnvironmentCity.Step(1))
	assert.Equal(t, "unknown", Environment(99).String())
}
