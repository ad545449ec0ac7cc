// Package link encodes customization parameters into a shareable address and restores them.
package link

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-badge/common"
	"github.com/Carmen-Shannon/oxy-badge/engine/params"
)

// Query keys, in encoding order.
const (
	KeyName           = "name"
	KeyCompany        = "company"
	KeyColor          = "color"
	KeyGlossiness     = "glossiness"
	KeyBlur           = "blur"
	KeyLightIntensity = "lightIntensity"
	KeyEnvironment    = "environment"
	KeyRotationSpeed  = "rotationSpeed"
)

// ErrInvalidLocation is returned when a share location is not an absolute address.
var ErrInvalidLocation = errors.New("share location must be an absolute URL")

// codec is the implementation of the Codec interface.
type codec struct {
	fullState bool
}

// Codec maps Parameters to and from flat query text.
// Decoding never fails: every missing or malformed field falls back to its default.
type Codec interface {
	// Encode serializes name, company, color, glossiness, blur and lightIntensity (plus
	// environment and rotationSpeed in full-state mode) as query key/value pairs.
	//
	// Parameters:
	//   - p: the parameters to encode
	//
	// Returns:
	//   - string: the query text without a leading '?'
	Encode(p params.Parameters) string

	// Decode parses query text into Parameters. A leading '?' is tolerated.
	//
	// Parameters:
	//   - query: the query text
	//
	// Returns:
	//   - params.Parameters: the decoded parameters, defaults for anything absent or malformed
	Decode(query string) params.Parameters

	// DecodeURL extracts the query of a full address and decodes it.
	// An address that cannot be parsed yields the defaults.
	//
	// Parameters:
	//   - raw: the address
	//
	// Returns:
	//   - params.Parameters: the decoded parameters
	DecodeURL(raw string) params.Parameters

	// ShareURL combines the origin and path of location with the encoded parameters.
	// Any query or fragment already on location is dropped.
	//
	// Parameters:
	//   - location: the current address (scheme and host required)
	//   - p: the parameters to share
	//
	// Returns:
	//   - string: the shareable address
	//   - error: ErrInvalidLocation if location is not absolute
	ShareURL(location string, p params.Parameters) (string, error)

	// FullState reports whether environment and rotation speed are carried.
	FullState() bool
}

var _ Codec = &codec{}

// NewCodec creates a Codec with the provided options.
//
// Parameters:
//   - options: functional options for codec configuration
//
// Returns:
//   - Codec: the newly created codec
func NewCodec(options ...CodecBuilderOption) Codec {
	c := &codec{}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *codec) FullState() bool {
	return c.fullState
}

// Encode writes pairs by hand because url.Values.Encode sorts keys and the order is part
// of the link format.
func (c *codec) Encode(p params.Parameters) string {
	pairs := [][2]string{
		{KeyName, p.DisplayName},
		{KeyCompany, p.CompanyName},
		{KeyColor, p.BaseColor},
		{KeyGlossiness, formatNumber(p.Glossiness)},
		{KeyBlur, formatNumber(p.SurfaceBlur)},
		{KeyLightIntensity, formatNumber(p.LightIntensity)},
	}
	if c.fullState {
		pairs = append(pairs,
			[2]string{KeyEnvironment, p.Environment.String()},
			[2]string{KeyRotationSpeed, formatNumber(p.RotationSpeed)},
		)
	}

	var b strings.Builder
	for i, kv := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(kv[0]))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(kv[1]))
	}
	return b.String()
}

func (c *codec) Decode(query string) params.Parameters {
	p := params.Defaults()

	// ParseQuery keeps every well-formed pair even when it reports an error for others.
	values, _ := url.ParseQuery(strings.TrimPrefix(query, "?"))

	if v, ok := lookup(values, KeyName); ok {
		p.DisplayName = v
	}
	if v, ok := lookup(values, KeyCompany); ok {
		p.CompanyName = v
	}
	if v, ok := lookup(values, KeyColor); ok && common.IsHexColor(v) {
		p.BaseColor = v
	}
	p.Glossiness = decodeNumber(values, KeyGlossiness, params.GlossinessDomain)
	p.SurfaceBlur = decodeNumber(values, KeyBlur, params.SurfaceBlurDomain)
	p.LightIntensity = decodeNumber(values, KeyLightIntensity, params.LightIntensityDomain)

	if c.fullState {
		if v, ok := lookup(values, KeyEnvironment); ok {
			p.Environment, _ = params.ParseEnvironment(v)
		}
		p.RotationSpeed = decodeNumber(values, KeyRotationSpeed, params.RotationSpeedDomain)
	}
	return p
}

func (c *codec) DecodeURL(raw string) params.Parameters {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return params.Defaults()
	}
	if u.Scheme == "" && u.Host == "" && u.RawQuery == "" && strings.Contains(u.Path, "=") {
		// A bare query without the leading '?'.
		return c.Decode(u.Path)
	}
	return c.Decode(u.RawQuery)
}

func (c *codec) ShareURL(location string, p params.Parameters) (string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidLocation, location)
	}
	base := url.URL{Scheme: u.Scheme, User: u.User, Host: u.Host, Path: u.Path, RawPath: u.RawPath}
	return base.String() + "?" + c.Encode(p), nil
}

// lookup returns the first value for key and whether the key was present at all.
func lookup(values url.Values, key string) (string, bool) {
	vs, ok := values[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// decodeNumber parses a decimal field, falling back to the domain default for missing,
// non-numeric or non-finite text, and clamping anything else into the domain.
func decodeNumber(values url.Values, key string, d params.Domain) float64 {
	v, ok := lookup(values, key)
	if !ok {
		return d.Default
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return d.Default
	}
	return d.Clamp(f)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
