package version

import (
	"context"
	"fmt"
	"time"

	"github.com/sdmp3/sdmp3/constant"
	"github.com/sdmp3/sdmp3/icon"
	"github.com/sdmp3/sdmp3/key"
	"github.com/sdmp3/sdmp3/log"
	"github.com/sdmp3/sdmp3/style"
	"github.com/sdmp3/sdmp3/util"
	"github.com/spf13/viper"
)

// Notify prints a hint when a newer release exists. Failures are only logged.
func Notify(ctx context.Context) {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	latest, err := Latest(ctx)
	erase()

	if err != nil {
		log.Debugf("version check: %v", err)
		return
	}

	if comp, err := Compare(latest, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(style.SuccessColor)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/sdmp3/sdmp3/releases/tag/v"+latest),
	)
}
