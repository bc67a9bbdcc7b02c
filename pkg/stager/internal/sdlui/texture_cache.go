package sdlui

import "github.com/veandco/go-sdl2/sdl"

// TextureCache shares textures between screens loaded from the same path.
// Screen nodes keep drawing their texture for the life of the stager, so
// nothing is evicted; Destroy frees every texture at shutdown.
type TextureCache struct {
	textures map[string]*sdl.Texture
	order    []string // insertion order, destroyed newest first
}

func NewTextureCache() *TextureCache {
	return &TextureCache{
		textures: make(map[string]*sdl.Texture),
	}
}

func (c *TextureCache) Get(key string) *sdl.Texture {
	return c.textures[key]
}

// Set stores texture under key. A texture already cached under key is destroyed.
func (c *TextureCache) Set(key string, texture *sdl.Texture) {
	if old, exists := c.textures[key]; exists {
		if old != texture {
			old.Destroy()
		}
		c.textures[key] = texture
		return
	}

	c.textures[key] = texture
	c.order = append(c.order, key)
}

func (c *TextureCache) Len() int {
	return len(c.textures)
}

func (c *TextureCache) Destroy() {
	for i := len(c.order) - 1; i >= 0; i-- {
		if texture := c.textures[c.order[i]]; texture != nil {
			texture.Destroy()
		}
	}
	c.textures = make(map[string]*sdl.Texture)
	c.order = c.order[:0]
}
