package loader

import (
	"image"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-badge/engine/scene"
)

// Manifest names where each asset is read from. A reference is a file path, a file:// URL
// or an http(s) URL. Empty references are treated as not supplied.
type Manifest struct {
	Fonts map[scene.FontRole]string
	Logos map[scene.LogoRole]string
}

// LocalPaths returns the cleaned file paths referenced by the manifest, keyed back to the
// reference they came from.
func (m Manifest) LocalPaths() map[string]string {
	paths := make(map[string]string)
	add := func(ref string) {
		if p, ok := localPath(ref); ok {
			paths[p] = ref
		}
	}
	for _, ref := range m.Fonts {
		add(ref)
	}
	for _, ref := range m.Logos {
		add(ref)
	}
	return paths
}

// Assets holds the decoded fonts and logos. Entries that failed to load are absent and the
// renderer substitutes its built-in artwork for them.
type Assets struct {
	Fonts map[scene.FontRole][]byte
	Logos map[scene.LogoRole]image.Image
}

// NewAssets returns an empty asset set.
func NewAssets() Assets {
	return Assets{
		Fonts: make(map[scene.FontRole][]byte),
		Logos: make(map[scene.LogoRole]image.Image),
	}
}

func (a Assets) Font(role scene.FontRole) ([]byte, bool) {
	data, ok := a.Fonts[role]
	return data, ok && len(data) > 0
}

func (a Assets) Logo(role scene.LogoRole) (image.Image, bool) {
	img, ok := a.Logos[role]
	return img, ok && img != nil
}

// localPath resolves a reference to a file path when it names a local file.
func localPath(ref string) (string, bool) {
	if ref == "" {
		return "", false
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		if !strings.EqualFold(u.Scheme, "file") {
			return "", false
		}
		return filepath.Clean(filepath.FromSlash(u.Path)), true
	}
	return filepath.Clean(ref), true
}
