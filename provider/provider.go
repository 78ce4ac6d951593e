// Package provider manages built-in and custom search providers.
package provider

import (
	"path/filepath"

	"github.com/samber/lo"
	"github.com/sdmp3/sdmp3/filesystem"
	"github.com/sdmp3/sdmp3/network"
	"github.com/sdmp3/sdmp3/provider/custom"
	"github.com/sdmp3/sdmp3/provider/youtube"
	"github.com/sdmp3/sdmp3/source"
	"github.com/sdmp3/sdmp3/util"
	"github.com/sdmp3/sdmp3/where"
)

// Provider describes a search source that can be instantiated on demand.
type Provider struct {
	ID           string
	Name         string
	IsCustom     bool
	CreateSource func() (source.Source, error)
}

func (p *Provider) String() string {
	return p.Name
}

// Builtins returns providers compiled into the binary.
func Builtins() []*Provider {
	return []*Provider{
		{
			ID:   youtube.ID,
			Name: youtube.Name,
			CreateSource: func() (source.Source, error) {
				return youtube.NewSource(network.Client), nil
			},
		},
	}
}

// Customs returns all Lua providers found in where.Sources().
func Customs() []*Provider {
	providers, _ := CustomProviders()
	return providers
}

// Get finds a provider by name, preferring built-ins.
func Get(name string) (*Provider, bool) {
	return lo.Find(append(Builtins(), Customs()...), func(p *Provider) bool {
		return p.Name == name
	})
}

// CustomProviders lists Lua scripts in the sources directory.
func CustomProviders() ([]*Provider, error) {
	dir := where.Sources()
	files, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var providers []*Provider
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".lua" {
			continue
		}

		path := filepath.Join(dir, f.Name())
		name := util.FileStem(f.Name())

		providers = append(providers, &Provider{
			ID:       custom.IDfromName(name),
			Name:     name,
			IsCustom: true,
			CreateSource: func() (source.Source, error) {
				return custom.LoadSource(path)
			},
		})
	}

	return providers, nil
}
