// Package qrcache holds the bounded-validity pairing QR code for each chat
// session. Process-scoped only: it starts empty and nothing survives a
// restart. All access goes through Put/Get/Clear so eviction-on-read stays
// consistent.
package qrcache

import (
	"encoding/base64"
	"sync"
	"time"

	"funnel_backend/platform/config"
	"funnel_backend/platform/logger"

	qrcode "github.com/skip2/go-qrcode"
)

// Entry is one live QR artifact.
type Entry struct {
	Raw       string
	Image     string // PNG data URL
	CreatedAt time.Time
}

// AgeMs returns the entry age in milliseconds at the given instant.
func (e Entry) AgeMs(now time.Time) int64 {
	return now.Sub(e.CreatedAt).Milliseconds()
}

// Cache keeps at most one live entry per session id. Last write wins; an
// entry past validity+grace is treated as absent and evicted on read.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]Entry
	validity time.Duration
	grace    time.Duration
	size     int
	now      func() time.Time
	log      *logger.Logger
}

// New creates an empty cache.
func New(cfg config.QRConfig, log *logger.Logger) *Cache {
	validity := cfg.GetQRValidity()
	if validity <= 0 {
		validity = 2 * time.Minute
	}
	grace := cfg.GetQRGrace()
	if grace <= 0 {
		grace = 3 * time.Second
	}
	size := cfg.GetQRImageSize()
	if size <= 0 {
		size = 256
	}

	return &Cache{
		entries:  make(map[string]Entry),
		validity: validity,
		grace:    grace,
		size:     size,
		now:      time.Now,
		log:      log,
	}
}

// Put renders the raw pairing payload into a scannable PNG and stores it,
// replacing any prior entry for the session. A render failure never
// propagates: it is logged and the previous entry (if any) stays untouched.
func (c *Cache) Put(sessionID, raw string) (string, bool) {
	png, err := qrcode.Encode(raw, qrcode.Medium, c.size)
	if err != nil {
		c.log.Error("qr render failed", "session", sessionID, "error", err)
		return "", false
	}

	image := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	c.mu.Lock()
	c.entries[sessionID] = Entry{
		Raw:       raw,
		Image:     image,
		CreatedAt: c.now(),
	}
	count := len(c.entries)
	c.mu.Unlock()

	c.log.Info("qr stored", "session", sessionID, "active", count)
	return image, true
}

// Get returns the live entry for the session. An expired entry is evicted
// under the same lock so a concurrent reader cannot observe a torn state.
func (c *Cache) Get(sessionID string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[sessionID]
	if !ok {
		return Entry{}, false
	}

	if c.now().Sub(entry.CreatedAt) > c.validity+c.grace {
		delete(c.entries, sessionID)
		c.log.Info("qr expired", "session", sessionID)
		return Entry{}, false
	}

	return entry, true
}

// Clear removes the entry unconditionally. Called when the session pairs.
func (c *Cache) Clear(sessionID string) {
	c.mu.Lock()
	_, existed := c.entries[sessionID]
	delete(c.entries, sessionID)
	count := len(c.entries)
	c.mu.Unlock()

	if existed {
		c.log.Info("qr cleared", "session", sessionID, "active", count)
	}
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
