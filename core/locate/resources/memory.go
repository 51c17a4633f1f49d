package resources

import (
	"context"
	"sync"

	"github.com/npillmayer/typecase/core"
	"github.com/npillmayer/typecase/core/font/platform"
	tdfont "github.com/tdewolff/font"
	xfont "golang.org/x/image/font"
)

// Memory is a locator for font binaries handed to the application at
// runtime, e.g. web fonts. Family names and variants are read from the
// fonts' name tables.
type Memory struct {
	mu    sync.RWMutex
	faces map[string]Face
	files []FontFile
}

var _ Locator = &Memory{}

// NewMemory creates an empty memory locator.
func NewMemory() *Memory {
	return &Memory{faces: make(map[string]Face)}
}

// Add registers a font binary. If faceID is empty, a face identifier is
// derived from the binary. Add returns the face of the binary.
func (m *Memory) Add(faceID string, data []byte) (Face, error) {
	sf, err := tdfont.ParseSFNT(data, 0)
	if err != nil {
		return Face{}, core.WrapError(err, core.EINVALID, "cannot register font binary")
	}
	family := nameOf(sf, tdfont.NameFontFamily)
	if family == "" {
		return Face{}, core.Error(core.EINVALID, "font binary has no family name")
	}
	style, weight := xfont.StyleNormal, platform.WeightFromName(nameOf(sf, tdfont.NameFontSubfamily))
	if sf.OS2 != nil {
		weight = platform.WeightFromClass(int(sf.OS2.UsWeightClass))
	}
	if (sf.Head != nil && sf.Head.MacStyle[1]) || platform.IsItalicName(nameOf(sf, tdfont.NameFontSubfamily)) {
		style = xfont.StyleItalic
	}
	face := Face{
		ID:      platform.FaceIdentifier(data, faceID),
		Family:  family,
		Variant: VariantName(style, weight),
		Data:    data,
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.faces[face.ID]; ok {
		return face, nil
	}
	m.faces[face.ID] = face
	m.addVariant(face)
	tracer().Infof("registered in-memory font %s", face)
	return face, nil
}

func (m *Memory) addVariant(face Face) {
	for i, ff := range m.files {
		if ff.Family == face.Family {
			m.files[i].Variants = append(m.files[i].Variants, face.Variant)
			return
		}
	}
	m.files = append(m.files, FontFile{Family: face.Family, Variants: []string{face.Variant}})
}

// Locate is part of interface Locator.
func (m *Memory) Locate(ctx context.Context, family string, style xfont.Style, weight xfont.Weight) (Face, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	match, variant, confidence := ClosestMatch(m.files, quoteFamily(family), style, weight)
	if confidence == NoConfidence {
		return Face{}, NotFound(family)
	}
	for _, face := range m.faces {
		if face.Family == match.Family && face.Variant == variant {
			return face, nil
		}
	}
	return Face{}, NotFound(family)
}

// Load is part of interface Locator.
func (m *Memory) Load(ctx context.Context, faceID string) (Face, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if face, ok := m.faces[faceID]; ok {
		return face, nil
	}
	return Face{}, NotFound(faceID)
}

func nameOf(sf *tdfont.SFNT, id tdfont.NameID) string {
	if sf.Name == nil {
		return ""
	}
	for _, rec := range sf.Name.Get(id) {
		if s := rec.String(); s != "" {
			return s
		}
	}
	return ""
}
