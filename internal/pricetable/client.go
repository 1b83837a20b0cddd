package pricetable

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/piwi3910/RailCraft/internal/monitoring"
)

// DefaultLoadTimeout bounds one shared price table load.
const DefaultLoadTimeout = time.Minute

// Client loads the price table at most once. Concurrent Loads share one
// in-flight fetch; a failed load is not cached so the next call retries.
type Client struct {
	src     Source
	timeout time.Duration
	group   singleflight.Group

	mu    sync.RWMutex
	table *Table
}

// NewClient returns a client reading from src.
func NewClient(src Source) *Client {
	return &Client{src: src, timeout: DefaultLoadTimeout}
}

// SetTimeout changes the bound of the shared load. Call it before the first
// Load; d <= 0 restores DefaultLoadTimeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultLoadTimeout
	}
	c.timeout = d
}

// Load returns the cached table, fetching the four sheets in parallel on
// first use. The shared fetch is bounded by the client timeout, not by ctx:
// a caller whose ctx ends stops waiting, the others still get the table.
func (c *Client) Load(ctx context.Context) (*Table, error) {
	if t := c.cached(); t != nil {
		return t, nil
	}
	ch := c.group.DoChan("load", func() (interface{}, error) {
		if t := c.cached(); t != nil {
			return t, nil
		}
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		t, err := c.fetch(fetchCtx)
		if err != nil {
			monitoring.Logf("pricetable: load from %s failed: %v", c.src, err)
			return nil, err
		}
		c.mu.Lock()
		c.table = t
		c.mu.Unlock()
		monitoring.Logf("pricetable: loaded %s from %s", t, c.src)
		return t, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Table), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("load price table: %w", ctx.Err())
	}
}

// Loaded reports whether a table is cached.
func (c *Client) Loaded() bool {
	return c.cached() != nil
}

// Invalidate drops the cached table so the next Load fetches again.
func (c *Client) Invalidate() {
	c.mu.Lock()
	c.table = nil
	c.mu.Unlock()
}

func (c *Client) cached() *Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.table
}

func (c *Client) fetch(ctx context.Context) (*Table, error) {
	monitoring.Logf("pricetable: loading from %s", c.src)
	results := make([][]Row, len(Resources))

	g, gctx := errgroup.WithContext(ctx)
	for i, res := range Resources {
		g.Go(func() error {
			rows, err := c.src.Fetch(gctx, res)
			if err != nil {
				return err
			}
			monitoring.Logf("pricetable: %s: %d rows", res, len(rows))
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load price table: %w", err)
	}

	sheets := make(map[Resource][]Row, len(Resources))
	for i, res := range Resources {
		sheets[res] = results[i]
	}
	return NewTable(sheets), nil
}
