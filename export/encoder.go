// Package export streams rendered frames into an external video
// encoder through a bounded hand-off channel and a dedicated worker
// goroutine.
package export

import (
	"fmt"
	"io"
	"os/exec"
	"strconv"
)

// Config describes the raw video stream handed to the encoder.
type Config struct {
	OutputFile string
	Width      int
	Height     int
	FrameRate  int
}

// FrameBytes returns the size of one frame: width*height pixels, 4
// bytes each (BGRA8), row-major with no padding.
func (c Config) FrameBytes() int { return c.Width * c.Height * 4 }

// Encoder abstracts the external encoding process so the pipeline can
// be exercised in tests without spawning ffmpeg.
type Encoder interface {
	// Start launches the encoder for the given stream parameters and
	// returns the writable end of its frame input.
	Start(cfg Config) (io.WriteCloser, error)
	// Wait blocks until the encoder has consumed all written input and
	// exited, and returns its final status. Call only after closing
	// the writer returned by Start.
	Wait() error
}

// FFmpeg runs the ffmpeg binary as a child process, reading raw BGRA
// frames on stdin and writing an H.264 MP4. ffmpeg must be resolvable
// on PATH; if it is not, Start fails and export is unavailable while
// live rendering continues.
type FFmpeg struct {
	cmd *exec.Cmd
}

// Start spawns ffmpeg configured for raw video input at the stream's
// resolution, frame rate and pixel format. Output settings follow the
// usual streaming-platform recommendations: yuv420p, a GOP of half the
// frame rate, at most 2 consecutive B-frames, and the MOOV atom at the
// start of the file.
func (f *FFmpeg) Start(cfg Config) (io.WriteCloser, error) {
	cmd := exec.Command("ffmpeg",
		// Global options
		"-y", // overwrite existing output
		// Input options
		"-f", "rawvideo",
		"-pix_fmt", "bgra",
		"-s", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"-r", strconv.Itoa(cfg.FrameRate),
		"-i", "-", // frames arrive on stdin
		// Output options
		"-c:v", "libx264",
		"-preset", "slow",
		"-crf", "18",
		"-pix_fmt", "yuv420p",
		"-g", strconv.Itoa(cfg.FrameRate/2),
		"-bf", "2",
		"-movflags", "+faststart",
		"-an",
		cfg.OutputFile,
	)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("opening encoder stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting ffmpeg: %w", err)
	}
	f.cmd = cmd
	return stdin, nil
}

// Wait reaps the ffmpeg process and reports its exit status.
func (f *FFmpeg) Wait() error {
	if err := f.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}
