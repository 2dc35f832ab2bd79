package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
)

// ImageCache caches decoded images and their luminance form by file path.
//
// Screenshots are often inspected more than once (match, then annotate), and
// the MCP server answers several tool calls about the same file. The cache
// keeps the decoded color image and, lazily, its grayscale conversion.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Entries remain in memory until removed via Evict() or Clear(). Batch
// callers processing thousands of screenshots should not route them through
// a shared cache; use Open directly instead.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*cacheEntry
}

type cacheEntry struct {
	img  image.Image
	gray *image.Gray
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*cacheEntry),
	}
}

// Load retrieves an image from the cache or decodes it from disk.
//
// The image is cached using the exact path string provided. Different paths
// to the same file (relative vs absolute) produce separate entries.
func (c *ImageCache) Load(path string) (image.Image, error) {
	e, err := c.entry(path)
	if err != nil {
		return nil, err
	}
	return e.img, nil
}

// LoadGray returns the luminance form of the image at path, converting and
// caching it on first use.
func (c *ImageCache) LoadGray(path string) (*image.Gray, error) {
	e, err := c.entry(path)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	gray := e.gray
	c.mu.RUnlock()
	if gray != nil {
		return gray, nil
	}

	gray = ToGray(e.img)
	c.mu.Lock()
	if e.gray == nil {
		e.gray = gray
	}
	gray = e.gray
	c.mu.Unlock()

	return gray, nil
}

func (c *ImageCache) entry(path string) (*cacheEntry, error) {
	c.mu.RLock()
	if e, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return e, nil
	}
	c.mu.RUnlock()

	img, err := Open(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.images[path]; ok {
		return e, nil
	}
	e := &cacheEntry{img: img}
	c.images[path] = e
	return e, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Open decodes the image file at path. PNG, JPEG and GIF are supported.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}
	return img, nil
}

// OpenGray decodes the image file at path and converts it to luminance.
func OpenGray(path string) (*image.Gray, error) {
	img, err := Open(path)
	if err != nil {
		return nil, err
	}
	return ToGray(img), nil
}

// IsImageFile reports whether name has an extension Open can decode.
func IsImageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}
