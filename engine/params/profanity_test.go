package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterClean(t *testing.T) {
	f := NewFilter(DefaultDenylist, DefaultMask)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"masks listed token", "hello badword1 world", "hello ******** world"},
		{"case insensitive", "BADWORD3", "********"},
		{"clean input unchanged", "hello  world ", "hello  world "},
		{"substring is not a token", "badword1s", "badword1s"},
		{"punctuation bypasses", "badword1!", "badword1!"},
		{"multiple tokens", "badword1 badword2", "******** ********"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Clean(tt.in))
		})
	}
}

func TestFilterMaskLengthCountsRunes(t *testing.T) {
	f := NewFilter([]string{"ärger"}, '#')
	assert.Equal(t, "so ##### hier", f.Clean("so ÄRGER hier"))
}

func TestNilFilterPassesThrough(t *testing.T) {
	var f *Filter
	assert.Equal(t, "badword1", f.Clean("badword1"))
}
