package common

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/golang/groupcache/lru"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"gopkg.in/yaml.v3"
)

// LoadYaml loads a yaml file into out
func LoadYaml(filename string, out interface{}) error {
	yamlData, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("yaml read %s: %w", filename, err)
	}
	if err = yaml.Unmarshal(yamlData, out); err != nil {
		return fmt.Errorf("yaml unmarshal %s: %w", filename, err)
	}
	return nil
}

// LoadConfig loads the configuration file over DefaultConfig
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()
	if err := LoadYaml(filename, config); err != nil {
		return nil, err
	}
	return config, nil
}

// YamlObjectAsString outputs contents of yaml object with a label
func YamlObjectAsString(in interface{}, label string) string {
	d, err := yaml.Marshal(in)
	if err != nil {
		log.Fatalf("error: yaml.Marshal %v", err)
	}
	return fmt.Sprintf("=== %s ===\n%s\n\n", label, string(d))
}

// Names of the built-in fonts
const (
	FontGoRegular = "GoRegular"
	FontGoBold    = "GoBold"
)

var builtinFonts = map[string][]byte{
	FontGoRegular: goregular.TTF,
	FontGoBold:    gobold.TTF,
}

// FontLoader returns faces for a font at a pixel size
type FontLoader interface {
	LoadFont(dir string, name string, size float64) (font.Face, error)
}

var fontCache sync.Map

// fontPath returns the file of a font in dir. Names must not leave dir.
func fontPath(dir string, name string) (string, error) {
	if len(dir) == 0 {
		return "", fmt.Errorf("unknown font %s", name)
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) ||
		filepath.Base(name) != name {
		return "", fmt.Errorf("invalid font name %q", name)
	}
	return filepath.Join(dir, name), nil
}

// loadTrueType parses a built-in font or a font file from dir, once per file.
func loadTrueType(dir string, name string) (*truetype.Font, error) {
	key := name
	fontBytes, builtin := builtinFonts[name]
	if !builtin {
		path, err := fontPath(dir, name)
		if err != nil {
			return nil, err
		}
		key = path
	}
	if v, found := fontCache.Load(key); found {
		return v.(*truetype.Font), nil
	}
	if !builtin {
		var err error
		fontBytes, err = os.ReadFile(key)
		if err != nil {
			return nil, fmt.Errorf("font read %s: %w", name, err)
		}
	}
	ttf, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("font parse %s: %w", name, err)
	}
	fontCache.Store(key, ttf)
	return ttf, nil
}

// loadFont loads a font into memory and returns a face at size pixels.
func loadFont(dir string, name string, size float64) (font.Face, error) {
	ttf, err := loadTrueType(dir, name)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(ttf, &truetype.Options{Size: size}), nil
}

// DefaultFaceCacheSize is the number of faces kept when no size is configured
const DefaultFaceCacheSize = 256

type faceKey struct {
	dir  string
	name string
	size fixed.Int26_6
}

// FontFaceCache keeps the most recently used faces, one per font and size.
// Faces are not safe for concurrent use, neither is the cache.
type FontFaceCache struct {
	faces *lru.Cache
}

// NewFontFaceCache returns an empty cache holding up to maxEntries faces
func NewFontFaceCache(maxEntries int) *FontFaceCache {
	if maxEntries <= 0 {
		maxEntries = DefaultFaceCacheSize
	}
	return &FontFaceCache{faces: lru.New(maxEntries)}
}

// Len returns the number of faces kept
func (cache *FontFaceCache) Len() int {
	return cache.faces.Len()
}

// LoadFont implements FontLoader
func (cache *FontFaceCache) LoadFont(dir string, name string, size float64) (font.Face, error) {
	key := faceKey{name: name, size: fixed.Int26_6(size * 64)}
	if _, builtin := builtinFonts[name]; !builtin {
		key.dir = dir
	}
	if v, found := cache.faces.Get(key); found {
		return v.(font.Face), nil
	}
	fontFace, err := loadFont(dir, name, float64(key.size)/64)
	if err != nil {
		return nil, err
	}
	cache.faces.Add(key, fontFace)
	return fontFace, nil
}
