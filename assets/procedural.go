package assets

import (
	"image"
	"image/color"
	"math"
)

// CreateChecker builds a size x size RGBA texture of cells x cells squares
// alternating between a and b.
func (server *Server) CreateChecker(size, cells uint32, a, b color.RGBA) *Texture {
	return server.CreateTexture(checkerTexels(size, cells, 0, a, b), size, size, TextureFormatRGBA8Unorm)
}

// UpdateChecker redraws a checker texture with its pattern moved shift cells
// along x.
func (server *Server) UpdateChecker(tex *Texture, cells, shift uint32, a, b color.RGBA) error {
	return server.UpdateTexture(tex.Id, checkerTexels(tex.Width, cells, shift, a, b))
}

func checkerTexels(size, cells, shift uint32, a, b color.RGBA) []uint8 {
	if cells == 0 {
		cells = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, int(size), int(size)))
	cell := int(size / cells)
	if cell == 0 {
		cell = 1
	}
	for y := 0; y < int(size); y++ {
		for x := 0; x < int(size); x++ {
			c := a
			if (x/cell+int(shift)+y/cell)%2 == 1 {
				c = b
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img.Pix
}

// CreateDisc builds an antialiased filled disc, optionally hollowed out to a
// ring when inner > 0. inner and outer are fractions of the half size.
// Texels are straight alpha: coverage only scales A.
func (server *Server) CreateDisc(size uint32, inner, outer float64, c color.RGBA) *Texture {
	img := image.NewRGBA(image.Rect(0, 0, int(size), int(size)))
	half := float64(size) / 2
	edge := 1.5 / half
	for y := 0; y < int(size); y++ {
		for x := 0; x < int(size); x++ {
			dx := (float64(x) + 0.5 - half) / half
			dy := (float64(y) + 0.5 - half) / half
			d := math.Sqrt(dx*dx + dy*dy)
			a := smoothstep(outer, outer-edge, d)
			if inner > 0 {
				a *= smoothstep(inner-edge, inner, d)
			}
			img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: uint8(float64(c.A) * a)})
		}
	}
	return server.CreateTexture(img.Pix, size, size, TextureFormatRGBA8Unorm)
}

// Register makes tex loadable under path, taking precedence over files on
// disk. Hosts use it for generated icons.
func (server *Server) Register(path string, tex *Texture) {
	server.mu.Lock()
	defer server.mu.Unlock()
	tex.Path = path
	server.byPath[path] = tex
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := (x - edge0) / (edge1 - edge0)
	t = math.Max(0, math.Min(1, t))
	return t * t * (3 - 2*t)
}
