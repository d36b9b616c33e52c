// Package catalog puts the persistent cache in front of the API client.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/pders01/dex/internal/config"
	"github.com/pders01/dex/internal/debuglog"
	"github.com/pders01/dex/internal/pokeapi"
	"github.com/pders01/dex/internal/storage"
)

var _ pokeapi.Fetcher = (*Service)(nil)

// UpdateListener is notified with every batch of items fetched from upstream.
type UpdateListener interface {
	OnItemsUpdated(items []pokeapi.ListItem)
}

// Service is a cache-first Fetcher. Concurrent identical requests share one
// upstream call.
type Service struct {
	upstream pokeapi.Fetcher
	store    *storage.Store
	cache    config.CacheConfig
	group    singleflight.Group
	now      func() time.Time

	mu        sync.RWMutex
	listeners []UpdateListener
}

// NewService wraps upstream. store may be nil, which disables caching.
func NewService(upstream pokeapi.Fetcher, store *storage.Store, cache config.CacheConfig) *Service {
	return &Service{
		upstream: upstream,
		store:    store,
		cache:    cache,
		now:      time.Now,
	}
}

func (s *Service) AddListener(l UpdateListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Service) notify(items []pokeapi.ListItem) {
	if len(items) == 0 {
		return
	}
	s.mu.RLock()
	ls := append([]UpdateListener(nil), s.listeners...)
	s.mu.RUnlock()
	for _, l := range ls {
		l.OnItemsUpdated(items)
	}
}

func (s *Service) caching() bool {
	return s.store != nil && s.cache.Enabled
}

func (s *Service) fresh(fetchedAt time.Time) bool {
	if s.cache.TTL <= 0 {
		return true
	}
	return s.now().Sub(fetchedAt) < s.cache.TTL
}

func (s *Service) FetchList(ctx context.Context, q pokeapi.ListQuery) (*pokeapi.ListResult, error) {
	key := q.Key()
	if s.caching() {
		entry, err := s.store.GetList(key)
		switch {
		case err == nil && s.fresh(entry.FetchedAt):
			debuglog.Debugf("catalog: cache hit %s", key)
			res := entry.Result
			return &res, nil
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			debuglog.Warnf("catalog: reading cache %s: %v", key, err)
		}
	}
	return s.reloadList(ctx, q)
}

// ReloadList skips the cache read but still writes through.
func (s *Service) ReloadList(ctx context.Context, q pokeapi.ListQuery) (*pokeapi.ListResult, error) {
	return s.reloadList(ctx, q)
}

func (s *Service) reloadList(ctx context.Context, q pokeapi.ListQuery) (*pokeapi.ListResult, error) {
	key := q.Key()
	v, err, shared := s.group.Do("list:"+key, func() (any, error) {
		res, err := s.upstream.FetchList(ctx, q)
		if err != nil {
			return nil, err
		}
		if s.caching() {
			if saveErr := s.store.SaveList(key, res); saveErr != nil {
				debuglog.Warnf("catalog: caching %s: %v", key, saveErr)
			}
		}
		s.notify(res.Items)
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		debuglog.Debugf("catalog: shared upstream call for %s", key)
	}
	return v.(*pokeapi.ListResult), nil
}

func (s *Service) FetchDetail(ctx context.Context, id int) (*pokeapi.Detail, error) {
	if s.caching() {
		entry, err := s.store.GetDetail(id)
		switch {
		case err == nil && s.fresh(entry.FetchedAt):
			if entry.Missing {
				return nil, nil
			}
			return entry.Detail, nil
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			debuglog.Warnf("catalog: reading detail %d: %v", id, err)
		}
	}

	v, err, _ := s.group.Do(fmt.Sprintf("detail:%d", id), func() (any, error) {
		d, err := s.upstream.FetchDetail(ctx, id)
		if err != nil {
			return nil, err
		}
		if s.caching() {
			if saveErr := s.store.SaveDetail(id, d); saveErr != nil {
				debuglog.Warnf("catalog: caching detail %d: %v", id, saveErr)
			}
		}
		if d != nil {
			s.notify([]pokeapi.ListItem{d.ListItem})
		}
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*pokeapi.Detail), nil
}

// CrawlOptions controls Crawl. Zero Pages means every page.
type CrawlOptions struct {
	Pages    int
	PageSize int
	Workers  int
	Progress func(done, total int)
}

// Crawl walks the unfiltered catalog page by page so the local index has
// something to search offline. It returns the number of items fetched.
func (s *Service) Crawl(ctx context.Context, opts CrawlOptions) (int, error) {
	if opts.PageSize <= 0 {
		opts.PageSize = 100
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}

	first, err := s.ReloadList(ctx, pokeapi.ListQuery{Pattern: pokeapi.MatchAll, Limit: opts.PageSize})
	if err != nil {
		return 0, fmt.Errorf("crawling first page: %w", err)
	}

	pages := (first.TotalCount + opts.PageSize - 1) / opts.PageSize
	if pages < 1 {
		pages = 1
	}
	if opts.Pages > 0 && opts.Pages < pages {
		pages = opts.Pages
	}

	var (
		mu    sync.Mutex
		done  = 1
		count = len(first.Items)
	)
	if opts.Progress != nil {
		opts.Progress(done, pages)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for p := 1; p < pages; p++ {
		offset := p * opts.PageSize
		g.Go(func() error {
			res, err := s.ReloadList(gctx, pokeapi.ListQuery{
				Pattern: pokeapi.MatchAll,
				Limit:   opts.PageSize,
				Offset:  offset,
			})
			if err != nil {
				return fmt.Errorf("crawling offset %d: %w", offset, err)
			}
			mu.Lock()
			done++
			count += len(res.Items)
			d := done
			mu.Unlock()
			if opts.Progress != nil {
				opts.Progress(d, pages)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return count, err
	}

	debuglog.Infof("catalog: crawled %d pages, %d items", pages, count)
	return count, nil
}
