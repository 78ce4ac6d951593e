package custom

import (
	"bytes"
	"sync"

	"github.com/sdmp3/sdmp3/filesystem"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

type compiled struct {
	hash  [32]byte
	proto *lua.FunctionProto
}

// protos caches compiled scripts by path, invalidated when the file content changes.
var protos sync.Map

// compileAndRun loads the script at path into L and executes its top level.
func compileAndRun(L *lua.LState, path string) error {
	content, err := filesystem.API().ReadFile(path)
	if err != nil {
		return err
	}

	hash := sha(content)
	proto, ok := cachedProto(path, hash)
	if !ok {
		chunk, err := parse.Parse(bytes.NewReader(content), path)
		if err != nil {
			return err
		}

		proto, err = lua.Compile(chunk, path)
		if err != nil {
			return err
		}

		protos.Store(path, &compiled{hash: hash, proto: proto})
	}

	L.Push(L.NewFunctionFromProto(proto))
	return L.PCall(0, lua.MultRet, nil)
}

func cachedProto(path string, hash [32]byte) (*lua.FunctionProto, bool) {
	value, ok := protos.Load(path)
	if !ok {
		return nil, false
	}

	c := value.(*compiled)
	if c.hash != hash {
		return nil, false
	}
	return c.proto, true
}
