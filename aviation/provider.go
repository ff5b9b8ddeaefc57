// aviation/provider.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package aviation

import (
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// AirportProvider looks up airports and their runways by ICAO code.
type AirportProvider interface {
	Airport(icao string) (Airport, error)
}

// ProcedureProvider looks up SIDs, STARs and approaches by numeric id.
type ProcedureProvider interface {
	Procedure(id int) (Procedure, error)
}

type NavDataProvider interface {
	AirportProvider
	ProcedureProvider
}

// CachingProvider fronts a possibly slow NavDataProvider (e.g. one backed
// by a database) with expiring LRU caches. Concurrent lookups of the same
// key are coalesced. Failed lookups are not cached.
type CachingProvider struct {
	src        NavDataProvider
	airports   *expirable.LRU[string, Airport]
	procedures *expirable.LRU[int, Procedure]
	group      singleflight.Group
}

func NewCachingProvider(src NavDataProvider, size int, ttl time.Duration) *CachingProvider {
	if size <= 0 {
		size = 64
	}
	return &CachingProvider{
		src:        src,
		airports:   expirable.NewLRU[string, Airport](size, nil, ttl),
		procedures: expirable.NewLRU[int, Procedure](size, nil, ttl),
	}
}

func (c *CachingProvider) Airport(icao string) (Airport, error) {
	if ap, ok := c.airports.Get(icao); ok {
		return ap, nil
	}

	v, err, _ := c.group.Do("airport:"+icao, func() (any, error) {
		ap, err := c.src.Airport(icao)
		if err == nil {
			c.airports.Add(icao, ap)
		}
		return ap, err
	})
	if err != nil {
		return Airport{}, err
	}
	return v.(Airport), nil
}

func (c *CachingProvider) Procedure(id int) (Procedure, error) {
	if p, ok := c.procedures.Get(id); ok {
		return p, nil
	}

	v, err, _ := c.group.Do("procedure:"+strconv.Itoa(id), func() (any, error) {
		p, err := c.src.Procedure(id)
		if err == nil {
			c.procedures.Add(id, p)
		}
		return p, err
	})
	if err != nil {
		return Procedure{}, err
	}
	return v.(Procedure), nil
}

