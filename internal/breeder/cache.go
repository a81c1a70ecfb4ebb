package breeder

import (
	"strconv"
	"time"
)

const cacheBustParam = "_"

// GenerationCache hands out cache-busting tokens per generation. A token stays
// stable until the generation is invalidated, so unchanged generations can be
// served from cache while changed ones are fetched again.
type GenerationCache struct {
	tokens map[int]string
	now    func() time.Time
	last   int64
}

func NewGenerationCache(now func() time.Time) *GenerationCache {
	if now == nil {
		now = time.Now
	}
	return &GenerationCache{tokens: map[int]string{}, now: now}
}

// TokenFor returns the token for generation, minting one when absent.
func (c *GenerationCache) TokenFor(generation int) string {
	if token, ok := c.tokens[generation]; ok {
		return token
	}
	token := c.mint()
	c.tokens[generation] = token
	return token
}

// Query is the URL suffix carrying the token for generation.
func (c *GenerationCache) Query(generation int) string {
	return "?" + cacheBustParam + "=" + c.TokenFor(generation)
}

func (c *GenerationCache) Has(generation int) bool {
	_, ok := c.tokens[generation]
	return ok
}

func (c *GenerationCache) Invalidate(generation int) {
	delete(c.tokens, generation)
}

// Refresh mints new tokens for every generation in [from, to].
func (c *GenerationCache) Refresh(from, to int) {
	for gen := from; gen <= to; gen++ {
		c.tokens[gen] = c.mint()
	}
}

func (c *GenerationCache) Reset() {
	c.tokens = map[int]string{}
}

// mint derives a token from wall-clock milliseconds, bumped past the previous
// token so two tokens never collide within a process.
func (c *GenerationCache) mint() string {
	stamp := c.now().UnixMilli()
	if stamp <= c.last {
		stamp = c.last + 1
	}
	c.last = stamp
	return strconv.FormatInt(stamp, 10)
}
