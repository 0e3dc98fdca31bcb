package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docsort.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "재정보고서", cfg.Categories[0].Name)
	assert.Equal(t, "Certificate", cfg.Categories[len(cfg.Categories)-1].Name)
	assert.Equal(t, "사진", cfg.PhotoDir)
	assert.Equal(t, "기타", cfg.Other)
}

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigKeepsCategoryOrder(t *testing.T) {
	path := writeConfig(t, `
root = "/srv/docs"
photo_dir = "Photos"
image_extensions = [".jpg", ".heic"]

[[category]]
name = "Zeta"
keywords = ["beta"]

[[category]]
name = "Alpha"
keywords = ["alpha", "beta"]
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/docs", cfg.Root)
	assert.Equal(t, "Photos", cfg.PhotoDir)
	assert.Equal(t, "기타", cfg.Other)
	assert.Equal(t, BackendGoexif, cfg.MetadataBackend)
	assert.Equal(t, []string{".jpg", ".heic"}, cfg.ImageExtensions)
	require.Len(t, cfg.Categories, 2)
	assert.Equal(t, "Zeta", cfg.Categories[0].Name)
	assert.Equal(t, "Alpha", cfg.Categories[1].Name)

	assert.Equal(t, "Zeta", NewClassifier(cfg).Classify("alpha beta 2020.txt"))
}

func TestLoadConfigPartialOverrideKeepsTable(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `metadata_backend = "ExifTool"`))
	require.NoError(t, err)
	assert.Equal(t, BackendExiftool, cfg.MetadataBackend)
	assert.Equal(t, DefaultConfig().Categories, cfg.Categories)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		invalid bool
	}{
		{"unknown key", "bogus = 1", false},
		{"bad toml", "root = ", false},
		{"bad backend", `metadata_backend = "magic"`, true},
		{"duplicate category", "[[category]]\nname = \"A\"\nkeywords = [\"a\"]\n[[category]]\nname = \"A\"\nkeywords = [\"b\"]", true},
		{"category with slash", "[[category]]\nname = \"a/b\"\nkeywords = [\"a\"]", true},
		{"empty keyword", "[[category]]\nname = \"A\"\nkeywords = [\" \"]", true},
		{"extension without dot", `image_extensions = ["jpg"]`, true},
		{"photo dir dotdot", `photo_dir = ".."`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigIsImage(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.IsImage(".JPG"))
	assert.True(t, cfg.IsImage(".tiff"))
	assert.False(t, cfg.IsImage(".tif"))
	assert.False(t, cfg.IsImage(".pdf"))
	assert.False(t, cfg.IsImage(""))
}

func TestConfigIsCategory(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.IsCategory("수입"))
	assert.True(t, cfg.IsCategory("기타"))
	assert.False(t, cfg.IsCategory("donation_receipt"))
}
