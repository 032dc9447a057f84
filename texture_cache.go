package lightviz

import "sync"

// TextureCache shares icon textures between helpers, keyed by Icon.Key.
// The first successful load of a key is kept for the life of the process;
// failed loads are not cached and will be retried by the next caller.
type TextureCache struct {
	mu       sync.Mutex
	textures map[string]Texture
}

func NewTextureCache() *TextureCache {
	return &TextureCache{textures: make(map[string]Texture)}
}

var defaultTextureCache = NewTextureCache()

// DefaultTextureCache is the process-wide cache helpers use unless told otherwise.
func DefaultTextureCache() *TextureCache {
	return defaultTextureCache
}

// Load returns the cached texture for icon, loading it on first use.
func (c *TextureCache) Load(loader TextureLoader, icon Icon) (Texture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tex, ok := c.textures[icon.Key]; ok {
		return tex, nil
	}
	tex, err := loader.LoadTexture(icon.Path)
	if err != nil {
		return nil, err
	}
	if tex == nil {
		return nil, nil
	}
	c.textures[icon.Key] = tex
	return tex, nil
}

func (c *TextureCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.textures)
}
