package custom

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sdmp3/sdmp3/network"
	lua "github.com/yuin/gopher-lua"
)

// maxBody caps what a script may read into memory.
const maxBody = 16 << 20

// registerHTTP installs the "fetch" global backed by the shared network client:
//
//	fetch.get(url [, headers])                  -> body
//	fetch.request{method, url, headers, body}   -> {status, body, headers}
//
// Requests follow the context of the running search, so they stop on timeout.
func registerHTTP(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "get", L.NewFunction(fetchGet))
	L.SetField(mod, "request", L.NewFunction(fetchRequest))
	L.SetGlobal("fetch", mod)
}

func fetchGet(L *lua.LState) int {
	url := L.CheckString(1)
	headers := tableToMap(L.OptTable(2, nil))

	status, body, _, err := do(L.Context(), http.MethodGet, url, headers, "")
	if err != nil {
		L.RaiseError("fetch.get: %s", err.Error())
		return 0
	}

	if status < 200 || status >= 300 {
		L.RaiseError("fetch.get: unexpected status %d", status)
		return 0
	}

	L.Push(lua.LString(body))
	return 1
}

func fetchRequest(L *lua.LState) int {
	opts := L.CheckTable(1)

	url := getString(opts, "url")
	if url == "" {
		L.RaiseError("fetch.request: url is required")
		return 0
	}

	method := getString(opts, "method")
	if method == "" {
		method = http.MethodGet
	}

	var headers map[string]string
	if tbl, ok := opts.RawGetString("headers").(*lua.LTable); ok {
		headers = tableToMap(tbl)
	}

	status, body, respHeaders, err := do(L.Context(), strings.ToUpper(method), url, headers, getString(opts, "body"))
	if err != nil {
		L.RaiseError("fetch.request: %s", err.Error())
		return 0
	}

	headerTbl := L.NewTable()
	for k := range respHeaders {
		headerTbl.RawSetString(k, lua.LString(respHeaders.Get(k)))
	}

	result := L.NewTable()
	L.SetField(result, "status", lua.LNumber(status))
	L.SetField(result, "body", lua.LString(body))
	L.SetField(result, "headers", headerTbl)
	L.Push(result)
	return 1
}

func tableToMap(tbl *lua.LTable) map[string]string {
	m := make(map[string]string)
	if tbl == nil {
		return m
	}

	tbl.ForEach(func(k, v lua.LValue) {
		m[k.String()] = v.String()
	})
	return m
}

func do(ctx context.Context, method, url string, headers map[string]string, body string) (int, string, http.Header, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return 0, "", nil, fmt.Errorf("create request: %w", err)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := network.Client.Do(req)
	if err != nil {
		return 0, "", nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return resp.StatusCode, "", nil, fmt.Errorf("read body: %w", err)
	}

	return resp.StatusCode, string(data), resp.Header, nil
}
