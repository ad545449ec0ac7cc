package link

// CodecBuilderOption is a functional option for configuring a Codec.
type CodecBuilderOption func(*codec)

// WithFullState makes the codec also carry the environment preset and rotation speed.
// The default omits both, so they reset to their defaults after a round trip.
//
// Parameters:
//   - enabled: if true, environment and rotationSpeed are encoded and decoded
//
// Returns:
//   - CodecBuilderOption: option function to apply
func WithFullState(enabled bool) CodecBuilderOption {
	return func(c *codec) {
		c.fullState = enabled
	}
}
