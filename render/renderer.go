package render

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/petalsim/petalfall/camera"
	"github.com/petalsim/petalfall/config"
	"github.com/petalsim/petalfall/petal"
)

// Renderer owns the GPU-side state: petal atlas textures, the variant
// table, and (when export is enabled) an off-screen render target plus
// a reusable frame buffer for pixel readback.
type Renderer struct {
	textures []rl.Texture2D
	variants []petal.Variant

	exportTarget rl.RenderTexture2D
	exportW      int
	exportH      int
	hasExport    bool
}

// New loads the petal textures and, if exporting, creates the
// off-screen render target. Must be called after rl.InitWindow.
func New(cfg *config.Config) (*Renderer, error) {
	variants, paths := BuildVariants(cfg.Textures)

	r := &Renderer{variants: variants}
	for _, path := range paths {
		img := rl.LoadImage(path)
		if img.Width == 0 {
			r.Unload()
			return nil, fmt.Errorf("loading texture %q failed", path)
		}
		// Premultiplied alpha avoids dark fringes where translucent
		// petal edges overlap.
		rl.ImageAlphaPremultiply(img)
		tex := rl.LoadTextureFromImage(img)
		rl.UnloadImage(img)
		if tex.ID == 0 {
			r.Unload()
			return nil, fmt.Errorf("uploading texture %q failed", path)
		}
		rl.SetTextureFilter(tex, rl.FilterBilinear)
		r.textures = append(r.textures, tex)
	}

	if cfg.Export.Enabled {
		r.exportW = cfg.Export.Width
		r.exportH = cfg.Export.Height
		r.exportTarget = rl.LoadRenderTexture(int32(r.exportW), int32(r.exportH))
		if r.exportTarget.ID == 0 {
			r.Unload()
			return nil, fmt.Errorf("creating %dx%d export render target failed", r.exportW, r.exportH)
		}
		r.hasExport = true
	}

	return r, nil
}

// Variants returns the variant table built from configuration.
func (r *Renderer) Variants() []petal.Variant {
	return r.variants
}

// DrawWorld renders the petals into the current framebuffer from the
// given camera. Petals must already be in back-to-front order.
func (r *Renderer) DrawWorld(petals []petal.Petal, cam *camera.Camera) {
	rl.BeginMode3D(toCamera3D(cam))
	r.drawPetals(petals)
	rl.EndMode3D()
}

// drawPetals emits one textured quad per petal through the immediate
// mode API. Petals are double-sided, so backface culling is off while
// they draw.
func (r *Renderer) drawPetals(petals []petal.Petal) {
	rl.BeginBlendMode(rl.BlendAlphaPremultiply)
	rl.DisableBackfaceCulling()

	for i := range petals {
		p := &petals[i]
		v := r.variants[p.Variant]

		axis, angle := toAxisAngle(p.Pose.Orientation)
		pos := p.Pose.Position
		sy := float32(p.Pose.Scale)
		sx := sy * float32(p.Pose.AspectRatio)

		rl.PushMatrix()
		rl.Translatef(float32(pos.X), float32(pos.Y), float32(pos.Z))
		rl.Rotatef(float32(angle*180/math.Pi), float32(axis.X), float32(axis.Y), float32(axis.Z))
		rl.Scalef(sx, sy, 1)

		rl.SetTexture(r.textures[v.Texture].ID)
		rl.Begin(rl.RLQuads)
		rl.Color4ub(255, 255, 255, 255)
		rl.Normal3f(0, 0, 1)

		u0, v0 := float32(v.U), float32(v.V)
		u1, v1 := float32(v.U+v.W), float32(v.V+v.H)
		rl.TexCoord2f(u0, v1)
		rl.Vertex3f(-0.5, -0.5, 0)
		rl.TexCoord2f(u1, v1)
		rl.Vertex3f(0.5, -0.5, 0)
		rl.TexCoord2f(u1, v0)
		rl.Vertex3f(0.5, 0.5, 0)
		rl.TexCoord2f(u0, v0)
		rl.Vertex3f(-0.5, 0.5, 0)

		rl.End()
		rl.SetTexture(0)
		rl.PopMatrix()
	}

	rl.EnableBackfaceCulling()
	rl.EndBlendMode()
}

// CaptureFrame renders the scene into the export target and reads the
// pixels back as tightly packed BGRA rows, top row first. The returned
// buffer is freshly allocated so it can be handed off to the encoder
// pipeline without copying.
func (r *Renderer) CaptureFrame(petals []petal.Petal, cam *camera.Camera) ([]byte, error) {
	if !r.hasExport {
		return nil, fmt.Errorf("renderer has no export target")
	}

	rl.BeginTextureMode(r.exportTarget)
	rl.ClearBackground(rl.Black)
	rl.BeginMode3D(toCamera3D(cam))
	r.drawPetals(petals)
	rl.EndMode3D()
	rl.EndTextureMode()

	img := rl.LoadImageFromTexture(r.exportTarget.Texture)
	if img.Width == 0 {
		return nil, fmt.Errorf("export target readback failed")
	}
	defer rl.UnloadImage(img)

	colors := rl.LoadImageColors(img)
	if len(colors) < r.exportW*r.exportH {
		return nil, fmt.Errorf("export target readback returned %d pixels, want %d", len(colors), r.exportW*r.exportH)
	}
	defer rl.UnloadImageColors(colors)

	w, h := r.exportW, r.exportH
	frame := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		// Render textures are stored bottom-up (OpenGL convention).
		src := (h - 1 - y) * w
		dst := y * w * 4
		for x := 0; x < w; x++ {
			c := colors[src+x]
			frame[dst] = c.B
			frame[dst+1] = c.G
			frame[dst+2] = c.R
			frame[dst+3] = c.A
			dst += 4
		}
	}
	return frame, nil
}

// Unload releases all GPU resources.
func (r *Renderer) Unload() {
	for _, tex := range r.textures {
		rl.UnloadTexture(tex)
	}
	r.textures = nil
	if r.hasExport {
		rl.UnloadRenderTexture(r.exportTarget)
		r.hasExport = false
	}
}

// toCamera3D converts the simulation camera to raylib's camera struct.
// Raylib derives the aspect ratio from the active framebuffer, so the
// same camera works for both the window and the export target.
func toCamera3D(c *camera.Camera) rl.Camera3D {
	target := r3.Add(c.Location, c.Forward())
	up := c.Up()
	return rl.Camera3D{
		Position:   rl.Vector3{X: float32(c.Location.X), Y: float32(c.Location.Y), Z: float32(c.Location.Z)},
		Target:     rl.Vector3{X: float32(target.X), Y: float32(target.Y), Z: float32(target.Z)},
		Up:         rl.Vector3{X: float32(up.X), Y: float32(up.Y), Z: float32(up.Z)},
		Fovy:       float32(c.FovY * 180 / math.Pi),
		Projection: rl.CameraPerspective,
	}
}

// toAxisAngle decomposes a unit quaternion into its rotation axis and
// angle in radians. The identity rotation maps to a zero angle about
// an arbitrary axis.
func toAxisAngle(q quat.Number) (r3.Vec, float64) {
	w := q.Real
	if w > 1 {
		w = 1
	} else if w < -1 {
		w = -1
	}
	angle := 2 * math.Acos(w)
	s := math.Sqrt(1 - w*w)
	if s < 1e-9 {
		return r3.Vec{X: 1}, 0
	}
	return r3.Vec{X: q.Imag / s, Y: q.Jmag / s, Z: q.Kmag / s}, angle
}
