package custom

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sdmp3/sdmp3/source"
	lua "github.com/yuin/gopher-lua"
)

func getString(table *lua.LTable, key string) string {
	val := table.RawGetString(key)
	if val.Type() == lua.LTString {
		return val.String()
	}
	return ""
}

// getDuration accepts seconds as a number or text such as "3:45" and "225".
func getDuration(table *lua.LTable, key string) time.Duration {
	switch val := table.RawGetString(key).(type) {
	case lua.LNumber:
		return time.Duration(float64(val) * float64(time.Second))
	case lua.LString:
		var total int
		for _, part := range strings.Split(string(val), ":") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return 0
			}
			total = total*60 + n
		}
		return time.Duration(total) * time.Second
	default:
		return 0
	}
}

func candidateFromTable(table *lua.LTable) (*source.Candidate, error) {
	title := getString(table, "title")
	url := getString(table, "url")

	if title == "" || url == "" {
		return nil, fmt.Errorf("track must have title and url")
	}

	id := getString(table, "id")
	if id == "" {
		id = url
	}

	return &source.Candidate{
		Title:    title,
		URL:      url,
		ID:       id,
		Duration: getDuration(table, "duration"),
	}, nil
}
