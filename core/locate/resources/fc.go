package resources

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/typecase/core"
	xfont "golang.org/x/image/font"
)

// FontConfig searches for locally installed font variants using the fontconfig
// system (https://www.freedesktop.org/wiki/Software/fontconfig/).
// fontconfig has to be configured in the application configuration by
// setting key 'fontconfig' to the absolute path of the 'fc-list' binary.
//
// FontConfig will copy the output of fc-list to the user's config
// directory once. Subsequent searches will use the cached entries to search for
// a font, given a name pattern, a style and a weight.
//
// We call the binary instead of using the C library because of possible version
// issues. If fontconfig is not configured, FontConfig will not find any fonts.
type FontConfig struct {
	conf  schuko.Configuration
	once  sync.Once
	files []FontFile
	err   error
}

var _ Locator = &FontConfig{}

// NewFontConfig creates a fontconfig locator, configured by conf.
func NewFontConfig(conf schuko.Configuration) *FontConfig {
	return &FontConfig{conf: conf}
}

// NewFontConfigFromList creates a fontconfig locator for the output of
// fc-list, read from r.
func NewFontConfigFromList(r io.Reader) (*FontConfig, error) {
	fc := &FontConfig{}
	fc.once.Do(func() {
		fc.files, fc.err = parseFontConfigList(r)
	})
	return fc, fc.err
}

func (fc *FontConfig) fontFiles() ([]FontFile, error) {
	fc.once.Do(func() {
		var fclist string
		if fclist, fc.err = cacheFontConfigList(fc.conf, false); fc.err != nil {
			return
		}
		f, err := os.Open(fclist)
		if err != nil {
			fc.err = core.WrapError(err, core.EINVALID,
				"fontconfig font list cannot be opened: %s", fclist)
			return
		}
		defer f.Close()
		fc.files, fc.err = parseFontConfigList(f)
		tracer().Infof("loaded fontconfig list with %d fonts", len(fc.files))
	})
	return fc.files, fc.err
}

// Locate is part of interface Locator.
func (fc *FontConfig) Locate(ctx context.Context, family string, style xfont.Style, weight xfont.Weight) (Face, error) {
	files, err := fc.fontFiles()
	if err != nil {
		tracer().Debugf("fontconfig unavailable: %v", err)
		return Face{}, NotFound(family)
	}
	match, variant, confidence := ClosestMatch(files, quoteFamily(family), style, weight)
	tracer().Debugf("closest fontconfig match confidence for %s|%s = %d", match.Family, variant, confidence)
	if confidence == NoConfidence {
		return Face{}, NotFound(family)
	}
	data, err := os.ReadFile(match.Path)
	if err != nil {
		return Face{}, core.WrapError(err, core.EINVALID, "cannot read font file %s", match.Path)
	}
	return Face{ID: FileScheme + ":" + match.Path, Family: match.Family, Variant: variant, Data: data}, nil
}

// Load is part of interface Locator.
func (fc *FontConfig) Load(ctx context.Context, faceID string) (Face, error) {
	s, p := scheme(faceID)
	if s != FileScheme {
		return Face{}, NotFound(faceID)
	}
	files, _ := fc.fontFiles()
	for _, ff := range files {
		if ff.Path == p {
			data, err := os.ReadFile(p)
			if err != nil {
				return Face{}, core.WrapError(err, core.EINVALID, "cannot read font file %s", p)
			}
			return Face{ID: faceID, Family: ff.Family, Variant: ff.Variants[0], Data: data}, nil
		}
	}
	return Face{}, NotFound(faceID)
}

func findFontConfigBinary(conf schuko.Configuration) (path string, err error) {
	if conf != nil {
		path = conf.GetString("fontconfig")
	}
	if path == "" {
		tracer().Infof("fontconfig not configured: key 'fontconfig' should point location of 'fc-list' binary")
		err = core.WrapError(errors.New("fontconfig not configured"), core.EMISSING,
			"fontconfig not configured")
	}
	return
}

func cacheFontConfigList(conf schuko.Configuration, update bool) (string, error) {
	fcpath, err := findFontConfigBinary(conf)
	if err != nil {
		return "", err
	}
	dir, err := ConfigDirPath(conf)
	if err != nil {
		return "", err
	}
	fcListFilename := filepath.Join(dir, "fontlist.txt")
	if _, err := os.Stat(fcListFilename); err == nil && !update {
		return fcListFilename, nil // fontlist already exists
	}
	if !path.IsAbs(fcpath) {
		return "", core.Error(core.EINVALID, "fontconfig binary fc-list must point to absolute path: %s", fcpath)
	}
	if fi, err := os.Stat(fcpath); err != nil || (fi.Mode().Perm()&0100) == 0 {
		return "", core.WrapError(err, core.EINVALID,
			"fontconfig configuration points to an invalid binary: %s", fcpath)
	}
	fontlistFile, err := os.Create(fcListFilename)
	if err == nil {
		defer fontlistFile.Close()
		fccmd := exec.Command(fcpath)
		fccmd.Stdout = fontlistFile
		err = fccmd.Run()
	}
	if err != nil {
		return "", core.WrapError(err, core.EINVALID,
			"fontconfig output file cannot be created: %s", fcListFilename)
	}
	return fcListFilename, nil
}

// parseFontConfigList reads lines of fc-list output, in the format
//
//	/path/to/font.ttf: Family[,Other Names]:style=Variant[,Other Names]
func parseFontConfigList(r io.Reader) ([]FontFile, error) {
	var files []FontFile
	scanner := bufio.NewScanner(r)
	ttc := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ":")
		if len(fields) < 3 {
			continue
		}
		fontpath := strings.TrimSpace(fields[0])
		fontname, _, _ := strings.Cut(fields[1], ",")
		fontname = strings.TrimPrefix(strings.TrimSpace(fontname), ".")
		fontvari := strings.ToLower(fields[2])
		if strings.HasSuffix(fontpath, ".ttc") {
			ttc++
			continue
		}
		files = append(files, FontFile{
			Family:   fontname,
			Variants: []string{fontConfigVariant(fontvari)},
			Path:     fontpath,
		})
	}
	if err := scanner.Err(); err != nil {
		return files, core.WrapError(err, core.EINVALID,
			"encountered a problem during reading of fontconfig font list")
	}
	if ttc > 0 {
		tracer().Infof("skipping %d platform fonts: TTC not yet supported", ttc)
	}
	return files, nil
}

// fontConfigVariant converts a fontconfig style to a variant name.
func fontConfigVariant(fontvari string) string {
	fontvari = strings.TrimPrefix(strings.TrimSpace(fontvari), "style=")
	fontvari, _, _ = strings.Cut(fontvari, ",")
	style := xfont.StyleNormal
	if strings.Contains(fontvari, "italic") || strings.Contains(fontvari, "oblique") {
		style = xfont.StyleItalic
	}
	weight := xfont.WeightNormal
	switch {
	case strings.Contains(fontvari, "extralight"), strings.Contains(fontvari, "ultralight"):
		weight = xfont.WeightExtraLight
	case strings.Contains(fontvari, "light"):
		weight = xfont.WeightLight
	case strings.Contains(fontvari, "thin"):
		weight = xfont.WeightThin
	case strings.Contains(fontvari, "semibold"), strings.Contains(fontvari, "demibold"):
		weight = xfont.WeightSemiBold
	case strings.Contains(fontvari, "extrabold"), strings.Contains(fontvari, "ultrabold"):
		weight = xfont.WeightExtraBold
	case strings.Contains(fontvari, "bold"):
		weight = xfont.WeightBold
	case strings.Contains(fontvari, "black"), strings.Contains(fontvari, "heavy"):
		weight = xfont.WeightBlack
	case strings.Contains(fontvari, "medium"):
		weight = xfont.WeightMedium
	}
	return VariantName(style, weight)
}
