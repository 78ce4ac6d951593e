// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sdmp3/sdmp3/constant"
	"github.com/sdmp3/sdmp3/filesystem"
	"github.com/sdmp3/sdmp3/key"
	"github.com/sdmp3/sdmp3/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer is a strings.Replacer used to normalize configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// DotEnvFile is the dotenv file consulted in the working directory before env bindings are resolved.
var DotEnvFile = ".env"

// legacyEnv maps keys to the unprefixed variable names older deployments used in their .env files.
var legacyEnv = map[string]string{
	key.SpotifyClientID:     "SPOTIFY_CLIENT_ID",
	key.SpotifyClientSecret: "SPOTIFY_CLIENT_SECRET",
	key.SpotifyRedirectURI:  "SPOTIFY_REDIRECT_URI",
}

// Setup initializes the global configuration state, including defaults, environment bindings, and localized file resolution.
func Setup() error {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	viper.SetConfigName(constant.App)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.App)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		if legacy, ok := legacyEnv[env]; ok {
			prefixed := strings.ToUpper(constant.App + "_" + EnvKeyReplacer.Replace(env))
			if err := viper.BindEnv(env, prefixed, legacy); err != nil {
				return err
			}
			continue
		}
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}
