// Package render draws the petal field with raylib and captures
// off-screen frames for video export.
package render

import (
	"github.com/petalsim/petalfall/config"
	"github.com/petalsim/petalfall/petal"
)

// BuildVariants flattens the configured texture tables into the
// variant list plus the texture paths to load, in matching index
// order.
func BuildVariants(textures []config.TextureConfig) ([]petal.Variant, []string) {
	var variants []petal.Variant
	paths := make([]string, 0, len(textures))
	for texIdx, tex := range textures {
		paths = append(paths, tex.File)
		scale := tex.Scale
		if scale == 0 {
			scale = 1
		}
		for _, rect := range tex.Rects {
			variants = append(variants, petal.Variant{
				Texture:  texIdx,
				U:        rect[0],
				V:        rect[1],
				W:        rect[2],
				H:        rect[3],
				ScaleMul: scale,
			})
		}
	}
	return variants, paths
}
