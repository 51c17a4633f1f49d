/*
Package parameters holds the engine parameters of an application.

Parameters are read from a schuko configuration. Keys not set in the
configuration keep their defaults:

   font.platform          ximage         font handle implementation
   font.shaper            harfbuzz       text shaper
   font.fallback-advance  10             advance in px for unmeasurable glyphs
   font.default-family    Go             family for unresolvable styles
   font.dirs              (none)         additional font directories, ':'-separated
   shaping.language       (guessed)      BCP 47 language tag
   shaping.script         (guessed)      ISO 15924 script code
   render.backend         raster         drawing backend
   app-key                typecase       application key for user directories

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parameters

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/typecase/core"
	"golang.org/x/text/language"
)

// Configuration keys
const (
	KeyPlatform        = "font.platform"
	KeyShaper          = "font.shaper"
	KeyFallbackAdvance = "font.fallback-advance"
	KeyDefaultFamily   = "font.default-family"
	KeyFontDirs        = "font.dirs"
	KeyLanguage        = "shaping.language"
	KeyScript          = "shaping.script"
	KeyBackend         = "render.backend"
	KeyAppKey          = "app-key"
)

// Known names for platforms, shapers and backends.
var (
	Platforms = []string{"ximage", "gotext", "tdewolff"}
	Shapers   = []string{"harfbuzz", "gotext", "monospace", "simple"}
	Backends  = []string{"raster", "recording"}
)

// Params are the engine parameters.
type Params struct {
	Platform        string
	Shaper          string
	FallbackAdvance float64
	DefaultFamily   string
	FontDirs        []string
	Language        language.Tag
	Script          language.Script
	Backend         string
	AppKey          string
}

// Defaults returns the default parameters.
func Defaults() Params {
	return Params{
		Platform:        "ximage",
		Shaper:          "harfbuzz",
		FallbackAdvance: 10,
		DefaultFamily:   "Go",
		Language:        language.Und,
		Backend:         "raster",
		AppKey:          "typecase",
	}
}

// FromConfig reads parameters from a configuration. Keys which are not set
// keep their default values. Invalid values result in an error with code
// core.EINVALID.
func FromConfig(conf schuko.Configuration) (Params, error) {
	p := Defaults()
	if conf == nil {
		return p, nil
	}
	var err error
	if p.Platform, err = oneOf(conf, KeyPlatform, p.Platform, Platforms); err != nil {
		return p, err
	}
	if p.Shaper, err = oneOf(conf, KeyShaper, p.Shaper, Shapers); err != nil {
		return p, err
	}
	if p.Backend, err = oneOf(conf, KeyBackend, p.Backend, Backends); err != nil {
		return p, err
	}
	if s := get(conf, KeyFallbackAdvance); s != "" {
		adv, err := strconv.ParseFloat(s, 64)
		if err != nil || adv < 0 {
			return p, core.Error(core.EINVALID, "invalid value for %s: %q", KeyFallbackAdvance, s)
		}
		p.FallbackAdvance = adv
	}
	if s := get(conf, KeyDefaultFamily); s != "" {
		p.DefaultFamily = s
	}
	if s := get(conf, KeyFontDirs); s != "" {
		for _, dir := range filepath.SplitList(s) {
			if dir = strings.TrimSpace(dir); dir != "" {
				p.FontDirs = append(p.FontDirs, dir)
			}
		}
	}
	if s := get(conf, KeyLanguage); s != "" {
		if p.Language, err = language.Parse(s); err != nil {
			return p, core.WrapError(err, core.EINVALID, "invalid value for %s: %q", KeyLanguage, s)
		}
	}
	if s := get(conf, KeyScript); s != "" {
		if p.Script, err = language.ParseScript(s); err != nil {
			return p, core.WrapError(err, core.EINVALID, "invalid value for %s: %q", KeyScript, s)
		}
	}
	if s := get(conf, KeyAppKey); s != "" {
		p.AppKey = s
	}
	return p, nil
}

func get(conf schuko.Configuration, key string) string {
	return strings.TrimSpace(conf.GetString(key))
}

func oneOf(conf schuko.Configuration, key, dflt string, names []string) (string, error) {
	s := strings.ToLower(get(conf, key))
	if s == "" {
		return dflt, nil
	}
	for _, name := range names {
		if s == name {
			return s, nil
		}
	}
	return dflt, core.Error(core.EINVALID, "invalid value for %s: %q, expected one of %v", key, s, names)
}
