package filesystem

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileURI(t *testing.T) {
	uri := FileURI("/srv/sops/emergency.json")
	assert.Equal(t, "file:///srv/sops/emergency.json", uri)
}

func TestFileURI_RelativePathIsMadeAbsolute(t *testing.T) {
	uri := FileURI("sops.json")
	assert.True(t, filepath.IsAbs(ResolvePath(uri)))
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{"file uri", "file:///srv/sops/a.json", "/srv/sops/a.json"},
		{"bare path", "/srv/sops/a.json", "/srv/sops/a.json"},
		{"relative", "sops/a.json", "sops/a.json"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePath(tt.uri))
		})
	}
}
