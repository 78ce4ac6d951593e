package provider

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/sdmp3/sdmp3/filesystem"
	"github.com/sdmp3/sdmp3/log"
	"github.com/sdmp3/sdmp3/network"
	"github.com/sdmp3/sdmp3/where"
)

const maxScriptSize = 1 << 20

// Install downloads a Lua provider from rawURL into the sources directory.
//
// The file is replaced atomically and only when its content changed;
// updated reports whether anything was written.
func Install(ctx context.Context, rawURL string) (dest string, updated bool, err error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false, fmt.Errorf("invalid script url %q", rawURL)
	}

	name := path.Base(u.Path)
	if !strings.HasSuffix(name, ".lua") || name == ".lua" {
		return "", false, fmt.Errorf("%s does not point at a .lua file", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", false, err
	}

	resp, err := network.Client.Do(req)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("download %s: unexpected status %s", name, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScriptSize))
	if err != nil {
		return "", false, err
	}

	dest = filepath.Join(where.Sources(), name)
	fs := filesystem.API()

	if local, err := fs.ReadFile(dest); err == nil && sha256.Sum256(local) == sha256.Sum256(body) {
		log.Infof("provider %s is up to date", name)
		return dest, false, nil
	}

	tmp := dest + ".tmp"
	if err := fs.WriteFile(tmp, body, 0o644); err != nil {
		return "", false, err
	}

	if err := fs.Rename(tmp, dest); err != nil {
		_ = fs.Remove(tmp)
		return "", false, err
	}

	log.Infof("installed provider %s", name)
	return dest, true, nil
}
