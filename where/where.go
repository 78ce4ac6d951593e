// Package where resolves the filesystem locations sdmp3 reads from and writes to.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/sdmp3/sdmp3/constant"
	"github.com/sdmp3/sdmp3/filesystem"
	"github.com/sdmp3/sdmp3/key"
	"github.com/spf13/viper"
)

// EnvConfigPath overrides the default configuration directory.
const EnvConfigPath = "SDMP3_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the configuration directory, honoring SDMP3_CONFIG_PATH first
// and the platform user config directory (XDG_CONFIG_HOME on Linux) otherwise.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Cache resolves the persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

// Logs resolves the directory daily log files are written to.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Sources resolves the directory holding custom Lua providers.
func Sources() string {
	return ensureDir(filepath.Join(Config(), "sources"))
}

// History resolves the download history file.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Queries resolves the title suggestion store.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}

// Downloads resolves the destination directory for audio files.
//
// Unlike the other locations it is never created here: the batch pipeline
// creates it once per run and treats a failure as fatal.
func Downloads() string {
	path := viper.GetString(key.DownloadsPath)
	if path == "" {
		path = "downloads"
	}

	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// Temp resolves a scratch directory.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.App))
}
