package resources

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/typecase/core"
	xfont "golang.org/x/image/font"
)

// Face is a located font binary.
type Face struct {
	ID      string // face identifier, unique per font binary and stable across tasks
	Family  string // family name as known to the locator
	Variant string // variant located, e.g. "regular" or "700italic"
	Data    []byte // font binary
}

func (f Face) String() string {
	return fmt.Sprintf("face{%s %s/%s}", f.ID, f.Family, f.Variant)
}

// Locator is an interface for font sources.
//
// Locate searches for the closest variant of a font family. If the family is
// unknown to the locator, an error with code core.EMISSING is returned.
//
// Load re-loads a face from its identifier, as found by a previous call to
// Locate, possibly in another task. If the identifier is not handled by the
// locator, an error with code core.EMISSING is returned.
type Locator interface {
	Locate(ctx context.Context, family string, style xfont.Style, weight xfont.Weight) (Face, error)
	Load(ctx context.Context, faceID string) (Face, error)
}

// NotFound returns an application error for a missing font.
func NotFound(res string) error {
	e := fmt.Errorf("resource missing: %v", res)
	return core.WrapError(e, core.EMISSING, "font not found: %s", res)
}

// IsNotFound is true if err signals a missing resource.
func IsNotFound(err error) bool {
	return err != nil && core.Code(err) == core.EMISSING
}

// scheme splits a face identifier into scheme and rest.
func scheme(faceID string) (string, string) {
	s, rest, found := strings.Cut(faceID, ":")
	if !found {
		return "", faceID
	}
	return s, rest
}

// --- Chain -----------------------------------------------------------------

// Chain is a locator querying a list of locators in order. The first
// locator able to find a font wins.
type Chain []Locator

var _ Locator = Chain{}

// Locate is part of interface Locator.
func (ch Chain) Locate(ctx context.Context, family string, style xfont.Style, weight xfont.Weight) (Face, error) {
	for _, loc := range ch {
		if err := ctx.Err(); err != nil {
			return Face{}, err
		}
		face, err := loc.Locate(ctx, family, style, weight)
		if err == nil {
			return face, nil
		}
		if !IsNotFound(err) {
			tracer().Errorf("locating font %s: %v", family, err)
		}
	}
	return Face{}, NotFound(family)
}

// Load is part of interface Locator.
func (ch Chain) Load(ctx context.Context, faceID string) (Face, error) {
	for _, loc := range ch {
		face, err := loc.Load(ctx, faceID)
		if err == nil {
			return face, nil
		}
		if !IsNotFound(err) {
			return Face{}, err
		}
	}
	return Face{}, NotFound(faceID)
}

// --- Promises --------------------------------------------------------------

type facePlusErr struct {
	face Face
	err  error
}

// FacePromise is the result of an asynchronous font lookup. A promise must
// not be awaited from more than one goroutine.
type FacePromise interface {
	Face() (Face, error)
	Await(ctx context.Context) (Face, error)
}

type faceLoader struct {
	await func(ctx context.Context) (Face, error)
}

func (loader faceLoader) Face() (Face, error) {
	return loader.await(context.Background())
}

func (loader faceLoader) Await(ctx context.Context) (Face, error) {
	return loader.await(ctx)
}

// ResolveFace starts a search for a font in the background and returns a
// promise for it. Cancelling ctx aborts the search.
func ResolveFace(ctx context.Context, loc Locator, family string, style xfont.Style,
	weight xfont.Weight) FacePromise {
	//
	ch := make(chan facePlusErr, 1)
	go func(ch chan<- facePlusErr) {
		result := facePlusErr{}
		result.face, result.err = loc.Locate(ctx, family, style, weight)
		ch <- result
		close(ch)
	}(ch)
	return promise(ch)
}

// ResolveFaceID re-loads a face in the background and returns a promise
// for it.
func ResolveFaceID(ctx context.Context, loc Locator, faceID string) FacePromise {
	ch := make(chan facePlusErr, 1)
	go func(ch chan<- facePlusErr) {
		result := facePlusErr{}
		result.face, result.err = loc.Load(ctx, faceID)
		ch <- result
		close(ch)
	}(ch)
	return promise(ch)
}

func promise(ch <-chan facePlusErr) FacePromise {
	var result *facePlusErr
	return faceLoader{
		await: func(ctx context.Context) (Face, error) {
			if result != nil {
				return result.face, result.err
			}
			select {
			case <-ctx.Done():
				return Face{}, ctx.Err()
			case r, ok := <-ch:
				if !ok {
					return Face{}, errors.New("face promise already consumed")
				}
				result = &r
				return r.face, r.err
			}
		},
	}
}
