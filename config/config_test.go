package config

import (
	"os"
	"testing"

	"github.com/sdmp3/sdmp3/filesystem"
	"github.com/sdmp3/sdmp3/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.IsSet(name) || viper.Get(name) != nil, ShouldBeTrue)
			}
			So(viper.GetString(key.DownloadsPath), ShouldEqual, "downloads")
			So(viper.GetStringSlice(key.DefaultSources), ShouldResemble, []string{"youtube"})
		})

		Convey("Should parse duration defaults", func() {
			_ = Setup()
			So(viper.GetDuration(key.NetworkSearchTimeout).Seconds(), ShouldEqual, 30)
		})

		Convey("Should read unprefixed spotify variables", func() {
			t.Setenv("SPOTIFY_CLIENT_ID", "legacy-id")
			_ = Setup()
			So(viper.GetString(key.SpotifyClientID), ShouldEqual, "legacy-id")
		})

		Convey("Should prefer prefixed spotify variables", func() {
			t.Setenv("SPOTIFY_CLIENT_ID", "legacy-id")
			t.Setenv("SDMP3_SPOTIFY_CLIENT_ID", "prefixed-id")
			_ = Setup()
			So(viper.GetString(key.SpotifyClientID), ShouldEqual, "prefixed-id")
		})

		Convey("Should load a dotenv file", func() {
			dir := t.TempDir()
			DotEnvFile = dir + "/.env"
			defer func() { DotEnvFile = ".env" }()

			So(os.WriteFile(DotEnvFile, []byte("SPOTIFY_CLIENT_SECRET=from-dotenv\n"), 0o600), ShouldBeNil)
			defer os.Unsetenv("SPOTIFY_CLIENT_SECRET")

			So(Setup(), ShouldBeNil)
			So(viper.GetString(key.SpotifyClientSecret), ShouldEqual, "from-dotenv")
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("network.search_timeout")
			So(result, ShouldEqual, "network_search_timeout")
		})
	})
}

func TestFieldEnv(t *testing.T) {
	Convey("Field.Env", t, func() {
		f := Field{Key: key.DownloadsPath}
		So(f.Env(), ShouldEqual, "SDMP3_DOWNLOADS_PATH")
	})
}
