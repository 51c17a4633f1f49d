package resources

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/typecase/core"
	xfont "golang.org/x/image/font"
)

// FileScheme is the face identifier prefix of fonts loaded from files.
const FileScheme = "file"

// System locates fonts installed on the system, by their file names.
// Besides the platform's font directories, additional directories may be
// searched.
type System struct {
	dirs  []string
	once  sync.Once
	files []string
}

var _ Locator = &System{}

// NewSystem creates a locator for system fonts. Fonts in dirs are searched
// in addition to the platform's font directories.
func NewSystem(dirs ...string) *System {
	return &System{dirs: dirs}
}

// Files lists the font files found, in the order they are searched.
// TrueType collections are not supported and skipped.
func (sys *System) Files() []string {
	sys.once.Do(func() {
		for _, dir := range sys.dirs {
			_ = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					tracer().Debugf("skipping font directory %s: %v", p, err)
					return nil
				}
				if !d.IsDir() && isFontFile(p) {
					sys.files = append(sys.files, p)
				}
				return nil
			})
		}
		for _, p := range findfont.List() {
			if isFontFile(p) {
				sys.files = append(sys.files, p)
			}
		}
		tracer().Infof("found %d system font files", len(sys.files))
	})
	return sys.files
}

func isFontFile(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".ttf", ".otf":
		return true
	}
	return false
}

// Locate is part of interface Locator.
//
// A file matching family, style and weight exactly is preferred. Otherwise
// the closest variant amongst the files containing the family name is
// selected.
func (sys *System) Locate(ctx context.Context, family string, style xfont.Style, weight xfont.Weight) (Face, error) {
	var candidates []FontFile
	pattern := strings.ToLower(strings.ReplaceAll(family, " ", ""))
	if pattern == "" {
		return Face{}, NotFound(family)
	}
	for _, p := range sys.Files() {
		if Matches(p, family, style, weight) {
			return sys.load(p, family, VariantName(style, weight))
		}
		base := strings.ToLower(strings.ReplaceAll(filepath.Base(p), " ", ""))
		if strings.Contains(base, pattern) {
			s, w := GuessStyleAndWeight(p)
			candidates = append(candidates, FontFile{
				Family:   family,
				Variants: []string{VariantName(s, w)},
				Path:     p,
			})
		}
	}
	if match, variant, c := ClosestMatch(candidates, quoteFamily(family), style, weight); c > NoConfidence {
		return sys.load(match.Path, family, variant)
	}
	if p, err := findfont.Find(family + ".ttf"); err == nil && p != "" {
		return sys.load(p, family, VariantName(GuessStyleAndWeight(p)))
	}
	return Face{}, NotFound(family)
}

func (sys *System) load(p, family, variant string) (Face, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return Face{}, core.WrapError(err, core.EINVALID, "cannot read font file %s", p)
	}
	tracer().Debugf("%s is a system font at %s", family, p)
	return Face{ID: FileScheme + ":" + p, Family: family, Variant: variant, Data: data}, nil
}

// Load is part of interface Locator.
func (sys *System) Load(ctx context.Context, faceID string) (Face, error) {
	s, p := scheme(faceID)
	if s != FileScheme {
		return Face{}, NotFound(faceID)
	}
	if _, err := os.Stat(p); err != nil {
		return Face{}, NotFound(faceID)
	}
	s2, w := GuessStyleAndWeight(p)
	return sys.load(p, strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)), VariantName(s2, w))
}
