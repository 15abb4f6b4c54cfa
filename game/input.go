package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Right click toggles mouse look; the cursor is captured while
	// active so the view can turn without limit.
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		g.mouseLook = !g.mouseLook
		if g.mouseLook {
			rl.DisableCursor()
		} else {
			rl.EnableCursor()
		}
	}

	g.handleCameraInput()
}

// handleResize propagates a changed window size to the camera aspect.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := rl.GetScreenWidth()
	h := rl.GetScreenHeight()
	if h > 0 {
		g.cam.Aspect = float64(w) / float64(h)
	}
}

// handleCameraInput applies mouse look and keyboard movement.
func (g *Game) handleCameraInput() {
	if g.mouseLook {
		turn := g.cfg.Camera.TurnSpeedDegrees * math.Pi / 180
		delta := rl.GetMouseDelta()
		// Mouse right pans the view right, mouse up tilts it up.
		g.cam.PanAndTilt(-float64(delta.X)*turn, -float64(delta.Y)*turn)
	}

	speed := g.cfg.Camera.MovementSpeed
	var forward, right, up float64
	if rl.IsKeyDown(rl.KeyW) {
		forward += speed
	}
	if rl.IsKeyDown(rl.KeyS) {
		forward -= speed
	}
	if rl.IsKeyDown(rl.KeyD) {
		right += speed
	}
	if rl.IsKeyDown(rl.KeyA) {
		right -= speed
	}
	if rl.IsKeyDown(rl.KeyE) {
		up += speed
	}
	if rl.IsKeyDown(rl.KeyQ) {
		up -= speed
	}
	if forward != 0 || right != 0 || up != 0 {
		g.cam.MoveRelativeToPan(forward, right, up)
	}
}
