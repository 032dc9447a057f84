package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var ErrUnknownAsset = errors.New("unknown asset")

type AssetId string

type TextureFormat uint32

// Values match wgpu.TextureFormat so render code can cast directly.
const (
	TextureFormatR8Uint     TextureFormat = 0x00000003
	TextureFormatRGBA8Unorm TextureFormat = 0x00000012
	TextureFormatRGBA8Uint  TextureFormat = 0x00000015
)

// Texture is a decoded, CPU side texture. Version bumps whenever texels are
// replaced so GPU caches know to re-upload.
type Texture struct {
	Id      AssetId
	Path    string
	Texels  []uint8
	Width   uint32
	Height  uint32
	Format  TextureFormat
	Version uint
}

func (t *Texture) Size() (uint32, uint32) {
	return t.Width, t.Height
}

// Server owns every texture the scene and helpers reference. Relative paths
// are resolved against Root.
type Server struct {
	Root string

	mu       sync.RWMutex
	textures map[AssetId]*Texture
	byPath   map[string]*Texture
}

func NewServer(root string) *Server {
	return &Server{
		Root:     root,
		textures: make(map[AssetId]*Texture),
		byPath:   make(map[string]*Texture),
	}
}

func (server *Server) CreateTexture(texels []uint8, width, height uint32, format TextureFormat) *Texture {
	tex := &Texture{
		Id:     makeAssetId(),
		Texels: texels,
		Width:  width,
		Height: height,
		Format: format,
	}
	server.put(tex)
	return tex
}

// LoadTexture decodes a PNG, JPEG, BMP or WebP file into straight alpha RGBA8
// texels. Each path is decoded once; later loads and paths registered with
// Register are served without touching the disk.
func (server *Server) LoadTexture(path string) (*Texture, error) {
	server.mu.RLock()
	tex, ok := server.byPath[path]
	server.mu.RUnlock()
	if ok {
		return tex, nil
	}

	full := server.resolve(path)
	file, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("open texture %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}

	nrgba := toNRGBA(img)
	bounds := nrgba.Bounds()
	tex = &Texture{
		Id:     makeAssetId(),
		Path:   path,
		Texels: nrgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
		Format: TextureFormatRGBA8Unorm,
	}

	server.mu.Lock()
	defer server.mu.Unlock()
	if loaded, ok := server.byPath[path]; ok {
		return loaded, nil
	}
	server.byPath[path] = tex
	server.textures[tex.Id] = tex
	return tex, nil
}

// UpdateTexture swaps the texels of an existing texture and bumps its version.
func (server *Server) UpdateTexture(id AssetId, texels []uint8) error {
	server.mu.Lock()
	defer server.mu.Unlock()
	tex, ok := server.textures[id]
	if !ok {
		return fmt.Errorf("update texture %s: %w", id, ErrUnknownAsset)
	}
	tex.Texels = texels
	tex.Version++
	return nil
}

func (server *Server) Texture(id AssetId) (*Texture, bool) {
	server.mu.RLock()
	defer server.mu.RUnlock()
	tex, ok := server.textures[id]
	return tex, ok
}

func (server *Server) Len() int {
	server.mu.RLock()
	defer server.mu.RUnlock()
	return len(server.textures)
}

func (server *Server) put(tex *Texture) {
	server.mu.Lock()
	server.textures[tex.Id] = tex
	server.mu.Unlock()
}

func (server *Server) resolve(path string) string {
	if server.Root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(server.Root, path)
}

func toNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Bounds().Min == (image.Point{}) {
		return nrgba
	}
	bounds := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	return nrgba
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
