package resources

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/typecase/core"
)

// DownloadCachedFile will download a url to a local file (usually located in the
// user's cache directory).
func DownloadCachedFile(ctx context.Context, client *http.Client, filepath string, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "invalid download URL %s", url)
	}
	resp, err := client.Do(req)
	if err != nil {
		return core.WrapError(err, core.ECONNECTION, "cannot download %s", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return core.Error(core.ECONNECTION, "download of %s: %s", url, resp.Status)
	}
	out, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, resp.Body)
	return err
}

// CacheDirPath checks and possibly creates a folder in the user's cache
// directory. The base cache directory is taken from `os.UserCacheDir()`, plus
// an application specific key, taken as `app-key` from the configuration.
// Configuration key `cache-dir` overrides the base cache directory.
// Clients may specify a sequence of folder names, which will be appended to
// the base cache path. Non-existing sub-folders will be created as necessary
// (with permissions 755).
func CacheDirPath(conf schuko.Configuration, subfolders ...string) (string, error) {
	return appDirPath(conf, "cache-dir", os.UserCacheDir, subfolders...)
}

// ConfigDirPath is like CacheDirPath, but for the user's configuration
// directory, with configuration key `config-dir` overriding it.
func ConfigDirPath(conf schuko.Configuration, subfolders ...string) (string, error) {
	return appDirPath(conf, "config-dir", os.UserConfigDir, subfolders...)
}

func appDirPath(conf schuko.Configuration, key string, base func() (string, error),
	subfolders ...string) (string, error) {
	//
	appkey := conf.GetString("app-key")
	tracer().Debugf("config[app-key] = %s", appkey)
	if appkey == "" {
		return "", core.Error(core.EMISSING, "application key is not set")
	}
	dir := conf.GetString(key)
	if dir == "" {
		var err error
		if dir, err = base(); err != nil {
			return "", core.WrapError(err, core.EMISSING, "user directory not set")
		}
	}
	dir = filepath.Join(append([]string{dir, appkey}, subfolders...)...)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err = os.MkdirAll(dir, 0755); err != nil {
			return "", core.WrapError(err, core.EINVALID,
				"user directory cannot be created: %s", dir)
		}
	}
	return dir, nil
}
