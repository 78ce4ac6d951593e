package custom

import (
	"context"
	"sort"

	"github.com/sdmp3/sdmp3/constant"
	"github.com/sdmp3/sdmp3/source"
	lua "github.com/yuin/gopher-lua"
)

// Search calls SearchTracks(query) and keeps the script's ordering.
func (s *luaSource) Search(ctx context.Context, query string) ([]*source.Candidate, error) {
	val, err := s.call(ctx, constant.SearchTracksFn, lua.LTTable, lua.LString(query))
	if err != nil {
		return nil, err
	}

	type ranked struct {
		rank      int
		candidate *source.Candidate
	}

	var (
		entries []ranked
		errs    []error
	)

	val.(*lua.LTable).ForEach(func(k, v lua.LValue) {
		rank, ok := k.(lua.LNumber)
		if !ok || v.Type() != lua.LTTable {
			return
		}

		candidate, err := candidateFromTable(v.(*lua.LTable))
		if err != nil {
			errs = append(errs, err)
			return
		}

		candidate.Source = s
		entries = append(entries, ranked{rank: int(rank), candidate: candidate})
	})

	if len(entries) == 0 && len(errs) > 0 {
		return nil, errs[0]
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].rank < entries[j].rank
	})

	candidates := make([]*source.Candidate, len(entries))
	for i, entry := range entries {
		entry.candidate.Index = uint16(i)
		candidates[i] = entry.candidate
	}

	return candidates, nil
}
