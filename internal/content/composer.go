package content

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"time"

	"github.com/patrickmn/go-cache"

	"geojournal/internal/db"
)

type composed struct {
	blocks []Block
	err    error
}

// Composer memoizes Compose on the description and the identity of each media
// row (id, type, url, caption, position). It is safe for concurrent use.
type Composer struct {
	cache *cache.Cache
}

// NewComposer returns a Composer whose entries expire after ttl
func NewComposer(ttl time.Duration) *Composer {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Composer{cache: cache.New(ttl, 2*ttl)}
}

// Compose returns the blocks for description and media, from the cache when
// the same inputs were composed before. The returned slice is the caller's.
func (c *Composer) Compose(description *string, media []db.Media) ([]Block, error) {
	key := cacheKey(description, media)
	if v, ok := c.cache.Get(key); ok {
		hit := v.(composed)
		return append([]Block(nil), hit.blocks...), hit.err
	}
	blocks, err := Compose(description, media)
	c.cache.SetDefault(key, composed{blocks: blocks, err: err})
	return append([]Block(nil), blocks...), err
}

// Len reports the number of cached entries
func (c *Composer) Len() int {
	return c.cache.ItemCount()
}

// Flush drops every cached entry
func (c *Composer) Flush() {
	c.cache.Flush()
}

func cacheKey(description *string, media []db.Media) string {
	h := sha256.New()
	writeOptional(h, description)
	for _, m := range media {
		writeString(h, m.ID)
		writeString(h, m.MediaType)
		writeString(h, m.URL)
		writeOptional(h, m.Caption)
		if m.Position == nil {
			h.Write([]byte{0})
		} else {
			h.Write([]byte{1})
			var buf [8]byte
			binary.BigEndian.PutUint64(buf[:], uint64(int64(*m.Position)))
			h.Write(buf[:])
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// writeString length-prefixes s so adjacent fields cannot run together
func writeString(h hash.Hash, s string) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(len(s)))
	h.Write(buf[:])
	h.Write([]byte(s))
}

func writeOptional(h hash.Hash, s *string) {
	if s == nil {
		h.Write([]byte{0})
		return
	}
	h.Write([]byte{1})
	writeString(h, *s)
}
