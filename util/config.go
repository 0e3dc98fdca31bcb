package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

const (
	// BackendGoexif decodes EXIF in-process.
	BackendGoexif = "goexif"
	// BackendExiftool shells out to an exiftool process.
	BackendExiftool = "exiftool"
)

// Category is one row of the ordered category table.
type Category struct {
	Name     string   `toml:"name"`
	Keywords []string `toml:"keywords"`
}

// Config holds everything an organize pass needs. Categories are matched in
// slice order, so earlier rows win when keywords overlap.
type Config struct {
	Root            string
	Categories      []Category
	ImageExtensions []string
	// PhotoDir is the top level folder images are collected under.
	PhotoDir string
	// Other is both the fallback category and the fallback photo year bucket.
	Other           string
	MetadataBackend string
}

// fileConfig mirrors the TOML file. Empty fields keep their defaults.
type fileConfig struct {
	Root            string     `toml:"root"`
	PhotoDir        string     `toml:"photo_dir"`
	Other           string     `toml:"other"`
	MetadataBackend string     `toml:"metadata_backend"`
	ImageExtensions []string   `toml:"image_extensions"`
	Categories      []Category `toml:"category"`
}

// DefaultConfig returns the built-in category table and image extensions.
// Root is left empty and must be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		Categories: []Category{
			{Name: "재정보고서", Keywords: []string{"재정보고서", "재정 보고서", "도표", "지출보고서", "재정보고", "재정 보고", "재정", "지출보고", "보고서"}},
			{Name: "Donation_Receipt", Keywords: []string{"Donation", "Donate"}},
			{Name: "수입", Keywords: []string{"수입", "후원", "헌금", "수입보고", "후원헌금", "후원금"}},
			{Name: "지출", Keywords: []string{"지출", "청구서", "청구", "비용", "구입비용"}},
			{Name: "설교", Keywords: []string{"설교", "Sermon", "예배", "설교문", "주일예배", "칼럼"}},
			{Name: "Certificate", Keywords: []string{"certificate", "camper"}},
		},
		ImageExtensions: []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff"},
		PhotoDir:        "사진",
		Other:           "기타",
		MetadataBackend: BackendGoexif,
	}
}

// LoadConfig starts from DefaultConfig and overlays the TOML file at path.
// An empty path returns the defaults untouched.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var fc fileConfig
	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.Root != "" {
		cfg.Root = fc.Root
	}
	if fc.PhotoDir != "" {
		cfg.PhotoDir = fc.PhotoDir
	}
	if fc.Other != "" {
		cfg.Other = fc.Other
	}
	if fc.MetadataBackend != "" {
		cfg.MetadataBackend = strings.ToLower(fc.MetadataBackend)
	}
	if len(fc.ImageExtensions) > 0 {
		cfg.ImageExtensions = fc.ImageExtensions
	}
	if len(fc.Categories) > 0 {
		cfg.Categories = fc.Categories
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the table and names for values that would produce a broken
// layout on disk. Root is not checked here; NewOrganizer does that.
func (c Config) Validate() error {
	if err := validateDirName("photo_dir", c.PhotoDir); err != nil {
		return err
	}
	if err := validateDirName("other", c.Other); err != nil {
		return err
	}
	switch c.MetadataBackend {
	case BackendGoexif, BackendExiftool:
	default:
		return fmt.Errorf("%w: metadata_backend must be %q or %q, got %q", ErrInvalidConfig, BackendGoexif, BackendExiftool, c.MetadataBackend)
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("%w: at least one category is required", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Categories))
	for i, cat := range c.Categories {
		if err := validateDirName(fmt.Sprintf("category[%d].name", i), cat.Name); err != nil {
			return err
		}
		if seen[cat.Name] {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidConfig, cat.Name)
		}
		seen[cat.Name] = true
		for _, kw := range cat.Keywords {
			if strings.TrimSpace(kw) == "" {
				return fmt.Errorf("%w: category %q has an empty keyword", ErrInvalidConfig, cat.Name)
			}
		}
	}

	for _, ext := range c.ImageExtensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("%w: image extension %q must start with a dot", ErrInvalidConfig, ext)
		}
	}
	return nil
}

func validateDirName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: %s must be set", ErrInvalidConfig, field)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." || strings.ContainsRune(name, filepath.Separator) {
		return fmt.Errorf("%w: %s %q is not a single directory name", ErrInvalidConfig, field, name)
	}
	return nil
}

// IsImage reports whether ext (as returned by filepath.Ext) is a configured
// image extension. Comparison is case-insensitive.
func (c Config) IsImage(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range c.ImageExtensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// IsCategory reports whether name is a configured category or the fallback
// category.
func (c Config) IsCategory(name string) bool {
	if name == c.Other {
		return true
	}
	for _, cat := range c.Categories {
		if cat.Name == name {
			return true
		}
	}
	return false
}
