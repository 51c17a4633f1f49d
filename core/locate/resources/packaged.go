package resources

import (
	"context"
	"strings"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/gofont/gosmallcapsitalic"
)

// PackagedScheme is the face identifier prefix of packaged fonts.
const PackagedScheme = "packaged"

// FallbackFaceID identifies the face used if no other font can be found.
const FallbackFaceID = PackagedScheme + ":goregular"

// FallbackFamily is the family name of the fallback face.
const FallbackFamily = "Go"

type packagedFace struct {
	name    string
	family  string
	variant string
	data    []byte
}

var packagedFaces = []packagedFace{
	{"goregular", "Go", "regular", goregular.TTF},
	{"goitalic", "Go", "italic", goitalic.TTF},
	{"gomedium", "Go", "500", gomedium.TTF},
	{"gomediumitalic", "Go", "500italic", gomediumitalic.TTF},
	{"gobold", "Go", "600", gobold.TTF},
	{"gobolditalic", "Go", "600italic", gobolditalic.TTF},
	{"gomono", "Go Mono", "regular", gomono.TTF},
	{"gomonoitalic", "Go Mono", "italic", gomonoitalic.TTF},
	{"gomonobold", "Go Mono", "600", gomonobold.TTF},
	{"gomonobolditalic", "Go Mono", "600italic", gomonobolditalic.TTF},
	{"gosmallcaps", "Go Smallcaps", "regular", gosmallcaps.TTF},
	{"gosmallcapsitalic", "Go Smallcaps", "italic", gosmallcapsitalic.TTF},
}

// genericFamilies maps CSS generic family names to packaged families.
var genericFamilies = map[string]string{
	"serif":      "Go",
	"sans-serif": "Go",
	"system-ui":  "Go",
	"cursive":    "Go",
	"fantasy":    "Go",
	"monospace":  "Go Mono",
}

// Packaged locates the Go fonts, which are compiled into the application
// and therefore always available. CSS generic family names are mapped to
// one of the Go fonts.
type Packaged struct{}

var _ Locator = Packaged{}

// Families lists the packaged font families.
func (Packaged) Families() []FontFile {
	var files []FontFile
	index := make(map[string]int)
	for _, pf := range packagedFaces {
		i, ok := index[pf.family]
		if !ok {
			i = len(files)
			index[pf.family] = i
			files = append(files, FontFile{Family: pf.family})
		}
		files[i].Variants = append(files[i].Variants, pf.variant)
	}
	return files
}

// Locate is part of interface Locator.
func (p Packaged) Locate(ctx context.Context, family string, style xfont.Style, weight xfont.Weight) (Face, error) {
	if generic, ok := genericFamilies[strings.ToLower(strings.TrimSpace(family))]; ok {
		family = generic
	}
	match, variant, confidence := ClosestMatch(p.Families(), quoteFamily(family), style, weight)
	if confidence == NoConfidence {
		return Face{}, NotFound(family)
	}
	for _, pf := range packagedFaces {
		if pf.family == match.Family && pf.variant == variant {
			tracer().Debugf("packaged font %s matches %s with confidence %d", pf.name, family, confidence)
			return pf.face(), nil
		}
	}
	return Face{}, NotFound(family)
}

// Load is part of interface Locator.
func (Packaged) Load(ctx context.Context, faceID string) (Face, error) {
	s, name := scheme(faceID)
	if s != PackagedScheme {
		return Face{}, NotFound(faceID)
	}
	for _, pf := range packagedFaces {
		if pf.name == name {
			return pf.face(), nil
		}
	}
	return Face{}, NotFound(faceID)
}

// Fallback returns the face of last resort.
func Fallback() Face {
	return packagedFaces[0].face()
}

func (pf packagedFace) face() Face {
	return Face{
		ID:      PackagedScheme + ":" + pf.name,
		Family:  pf.family,
		Variant: pf.variant,
		Data:    pf.data,
	}
}
