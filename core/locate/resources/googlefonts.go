package resources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/typecase/core"
	xfont "golang.org/x/image/font"
)

// WebfontScheme is the face identifier prefix of fonts from the Google
// Fonts service.
const WebfontScheme = "webfont"

// GoogleFontInfo is an entry of the Google Fonts directory.
type GoogleFontInfo struct {
	Family   string            `json:"family"`
	Version  string            `json:"version"`
	Variants []string          `json:"variants"`
	Subsets  []string          `json:"subsets"`
	Files    map[string]string `json:"files"`
}

type googleFontsList struct {
	Items []GoogleFontInfo `json:"items"`
}

// GoogleFontsAPI is the endpoint of the Google Fonts developer API.
const GoogleFontsAPI = `https://www.googleapis.com/webfonts/v1/webfonts?`

// GoogleFonts locates fonts with the Google Fonts service and caches them
// in the user's cache directory. The API key is taken from configuration
// key 'google-api-key' or from environment variable GOOGLE_API_KEY.
type GoogleFonts struct {
	conf   schuko.Configuration
	api    string
	client *http.Client
	once   sync.Once
	dir    googleFontsList
	err    error
}

var _ Locator = &GoogleFonts{}

// NewGoogleFonts creates a locator for the Google Fonts service. If api is
// empty, GoogleFontsAPI is used. If client is nil, http.DefaultClient is
// used.
func NewGoogleFonts(conf schuko.Configuration, api string, client *http.Client) *GoogleFonts {
	if api == "" {
		api = GoogleFontsAPI
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &GoogleFonts{conf: conf, api: api, client: client}
}

func (gf *GoogleFonts) setupDirectory(ctx context.Context) error {
	gf.once.Do(func() {
		apikey := gf.conf.GetString("google-api-key")
		if apikey == "" {
			apikey = os.Getenv("GOOGLE_API_KEY")
		}
		if apikey == "" {
			tracer().Infof("Google API key not set")
			gf.err = core.Error(core.EMISSING,
				`Google Fonts API-key must be set in configuration or as GOOGLE_API_KEY in environment;
      please refer to https://developers.google.com/fonts/docs/developer_api`)
			return
		}
		values := url.Values{
			"sort": []string{"alpha"},
			"key":  []string{apikey},
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, gf.api+values.Encode(), nil)
		if err != nil {
			gf.err = core.WrapError(err, core.EINVALID, "invalid Google Fonts API endpoint")
			return
		}
		resp, err := gf.client.Do(req)
		if err != nil {
			tracer().Errorf("Google Fonts API request not OK: %s", err.Error())
			gf.err = core.WrapError(err, core.ECONNECTION,
				"could not get fonts-directory from Google font service")
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			tracer().Errorf("Google Fonts API request not OK: %v", resp.Status)
			gf.err = core.Error(core.ECONNECTION,
				"could not get fonts-directory from Google font service: %v", resp.Status)
			return
		}
		dec := json.NewDecoder(resp.Body)
		if err = dec.Decode(&gf.dir); err != nil {
			gf.err = core.WrapError(err, core.EINVALID,
				"could not decode fonts-list from Google font service")
		}
		tracer().Infof("loaded directory of %d Google fonts", len(gf.dir.Items))
	})
	return gf.err
}

// Locate is part of interface Locator.
func (gf *GoogleFonts) Locate(ctx context.Context, family string, style xfont.Style, weight xfont.Weight) (Face, error) {
	if err := gf.setupDirectory(ctx); err != nil {
		if IsNotFound(err) {
			return Face{}, NotFound(family)
		}
		return Face{}, err
	}
	files := make([]FontFile, len(gf.dir.Items))
	for i, info := range gf.dir.Items {
		files[i] = FontFile{Family: info.Family, Variants: info.Variants}
	}
	match, variant, confidence := ClosestMatch(files, quoteFamily(family), style, weight)
	if confidence == NoConfidence {
		return Face{}, NotFound(family)
	}
	return gf.fetch(ctx, match.Family, variant)
}

// Load is part of interface Locator.
func (gf *GoogleFonts) Load(ctx context.Context, faceID string) (Face, error) {
	s, rest := scheme(faceID)
	if s != WebfontScheme {
		return Face{}, NotFound(faceID)
	}
	family, variant, ok := strings.Cut(rest, "/")
	if !ok {
		return Face{}, core.Error(core.EINVALID, "malformed webfont identifier %q", faceID)
	}
	if err := gf.setupDirectory(ctx); err != nil {
		return Face{}, err
	}
	return gf.fetch(ctx, family, variant)
}

// fetch returns a font variant from the cache, downloading it if
// necessary.
func (gf *GoogleFonts) fetch(ctx context.Context, family, variant string) (Face, error) {
	var fileURL string
	for _, info := range gf.dir.Items {
		if info.Family == family {
			fileURL = info.Files[variant]
			break
		}
	}
	if fileURL == "" {
		return Face{}, NotFound(family + "/" + variant)
	}
	cachedir, err := CacheDirPath(gf.conf, "fonts")
	if err != nil {
		return Face{}, err
	}
	fname := strings.ReplaceAll(family, " ", "_") + "-" + variant + filepath.Ext(fileURL)
	fpath := filepath.Join(cachedir, fname)
	if _, err := os.Stat(fpath); err != nil {
		tracer().Infof("downloading Google font %s/%s", family, variant)
		if err = DownloadCachedFile(ctx, gf.client, fpath, fileURL); err != nil {
			os.Remove(fpath)
			return Face{}, err
		}
	}
	data, err := os.ReadFile(fpath)
	if err != nil {
		return Face{}, core.WrapError(err, core.EINVALID, "cannot read cached font %s", fpath)
	}
	return Face{
		ID:      WebfontScheme + ":" + family + "/" + variant,
		Family:  family,
		Variant: variant,
		Data:    data,
	}, nil
}

// ---------------------------------------------------------------------------

// ListGoogleFonts produces a listing of available fonts from the Google webfont
// service, with font-family names matching a given pattern.
//
// If not aleady done, the list of fonts will be downloaded from Google.
func (gf *GoogleFonts) ListGoogleFonts(ctx context.Context, pattern string) error {
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	defer tracer().SetTraceLevel(level)
	if err := gf.setupDirectory(ctx); err != nil {
		return err
	}
	return listGoogleFonts(gf.dir, pattern)
}

func listGoogleFonts(list googleFontsList, pattern string) error {
	r, err := regexp.Compile(pattern)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "cannot list Google fonts: invalid pattern")
	}
	tracer().Infof("%d fonts in list", len(list.Items))
	tracer().Infof("======================================")
	for i, finfo := range list.Items {
		if r.MatchString(finfo.Family) {
			tracer().Infof("[%4d] %-20s: %s", i, finfo.Family, finfo.Version)
			tracer().Infof("       subsets: %v", finfo.Subsets)
			for k, v := range finfo.Files {
				tracer().Infof("       - %-18s: %s", k, path.Ext(v))
			}
		}
	}
	return nil
}
