package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// glamour.TermRenderer must not Render concurrently. Each distinct Options
// value gets its own sync.Pool and callers borrow a renderer for one call.
type rendererCache struct {
	mu    sync.Mutex
	pools map[Options]*sync.Pool
}

var renderers = &rendererCache{pools: make(map[Options]*sync.Pool)}

func (c *rendererCache) pool(opts Options) *sync.Pool {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pools[opts]
	if !ok {
		p = &sync.Pool{}
		c.pools[opts] = p
	}
	return p
}

// borrow returns a renderer for opts and the func that hands it back.
// Construction errors (usually a bad style path) are not cached.
func (c *rendererCache) borrow(opts Options) (*glamour.TermRenderer, func(), error) {
	p := c.pool(opts)
	r, ok := p.Get().(*glamour.TermRenderer)
	if !ok {
		var err error
		if r, err = newTermRenderer(opts); err != nil {
			return nil, nil, err
		}
	}
	return r, func() { p.Put(r) }, nil
}

func (c *rendererCache) reset() {
	c.mu.Lock()
	c.pools = make(map[Options]*sync.Pool)
	c.mu.Unlock()
}

func (c *rendererCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pools)
}

func newTermRenderer(opts Options) (*glamour.TermRenderer, error) {
	ropts := []glamour.TermRendererOption{
		glamour.WithStylePath(ResolveStyle(opts.Style)),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
		glamour.WithInlineTableLinks(opts.InlineTableLinks),
	}
	if opts.EnableEmoji {
		ropts = append(ropts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		ropts = append(ropts, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(ropts...)
}

// ClearCache drops all pooled renderers
func ClearCache() {
	renderers.reset()
}

// CacheSize returns the number of option sets with a pool
func CacheSize() int {
	return renderers.size()
}
