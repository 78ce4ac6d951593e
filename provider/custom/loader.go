// Package custom runs Lua provider scripts as search sources.
package custom

import (
	"crypto/sha256"
	"fmt"

	"github.com/sdmp3/sdmp3/constant"
	"github.com/sdmp3/sdmp3/source"
	"github.com/sdmp3/sdmp3/util"
	libs "github.com/metafates/mangal-lua-libs"
	lua "github.com/yuin/gopher-lua"
)

// IDfromName generates a canonical provider identifier for a given Lua script basename.
func IDfromName(name string) string {
	return name + " custom"
}

// LoadSource executes the script at path and validates that it defines SearchTracks.
func LoadSource(path string) (source.Source, error) {
	state := lua.NewState()
	libs.Preload(state)
	registerHTTP(state)

	if err := compileAndRun(state, path); err != nil {
		state.Close()
		return nil, err
	}

	name := util.FileStem(path)

	if state.GetGlobal(constant.SearchTracksFn).Type() != lua.LTFunction {
		state.Close()
		return nil, fmt.Errorf("function %s is required but not defined in %s", constant.SearchTracksFn, name)
	}

	return newLuaSource(name, state), nil
}

func sha(content []byte) [32]byte {
	return sha256.Sum256(content)
}
