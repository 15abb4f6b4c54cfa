package render

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDState is the snapshot of live status the overlay displays.
type HUDState struct {
	Tick          int
	FPS           int32
	PetalCount    int
	Paused        bool
	MouseLook     bool
	Exporting     bool
	ExportSeconds float64
	SubmitWaitMs  float64
}

// DrawHUD renders the status overlay and returns whether the pause
// button was clicked this frame. Call between BeginDrawing and
// EndDrawing, after the 3D scene.
func DrawHUD(s HUDState) (togglePause bool) {
	rl.DrawRectangle(5, 5, 240, 120, rl.Color{R: 0, G: 0, B: 0, A: 160})

	y := int32(12)
	rl.DrawText(fmt.Sprintf("FPS: %d", s.FPS), 15, y, 16, rl.RayWhite)
	y += 20
	rl.DrawText(fmt.Sprintf("Tick: %d  Petals: %d", s.Tick, s.PetalCount), 15, y, 16, rl.RayWhite)
	y += 20
	if s.Exporting {
		line := fmt.Sprintf("Recording: %.1fs  wait %.2fms", s.ExportSeconds, s.SubmitWaitMs)
		rl.DrawText(line, 15, y, 16, rl.Color{R: 230, G: 80, B: 80, A: 255})
	} else {
		rl.DrawText("Recording: off", 15, y, 16, rl.Gray)
	}
	y += 20
	if s.MouseLook {
		rl.DrawText("Right click to release mouse", 15, y, 16, rl.Gray)
	} else {
		rl.DrawText("Right click to look around", 15, y, 16, rl.Gray)
	}
	y += 24

	label := "Pause"
	if s.Paused {
		label = "Resume"
	}
	return gui.Button(rl.Rectangle{X: 15, Y: float32(y), Width: 100, Height: 24}, label)
}
