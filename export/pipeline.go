package export

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// ErrStopped is returned by Submit when the worker goroutine has
// already exited. Under normal shutdown the producer closes first, so
// hitting this means the encoder died mid-stream.
var ErrStopped = errors.New("export: encoder stopped before Close")

// Pipeline streams frames to an encoder from a dedicated goroutine.
//
// The hand-off channel has capacity 1. If the encoder has not drained
// the previous frame, Submit blocks the caller until it does: at most
// one frame is ever buffered ahead of the encoder, bounding memory use
// regardless of relative producer and consumer speeds. An unbounded
// channel would instead grow without limit whenever encoding falls
// behind rendering.
//
// There is no timeout on the hand-off: a hung encoder stalls the
// producer indefinitely.
//
// A Pipeline is not restartable: once Close returns it stays stopped.
type Pipeline struct {
	frames     chan []byte
	result     chan error
	frameBytes int
	frameRate  int

	// Producer-side bookkeeping. The pipeline has a single producer,
	// so no locking is needed.
	closed   bool
	finalErr error
	finished bool
}

// Start spawns the encoder and the worker goroutine that feeds it. A
// spawn failure is returned immediately and leaves nothing running:
// the caller can disable export and keep rendering live.
func Start(cfg Config, enc Encoder) (*Pipeline, error) {
	sink, err := enc.Start(cfg)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	p := &Pipeline{
		frames:     make(chan []byte, 1),
		result:     make(chan error, 1),
		frameBytes: cfg.FrameBytes(),
		frameRate:  cfg.FrameRate,
	}
	go p.run(sink, enc)

	slog.Info("video export started",
		"file", cfg.OutputFile,
		"resolution", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"fps", cfg.FrameRate,
	)
	return p, nil
}

// run is the consumer loop: receive frames until the channel is closed
// and empty, write each one whole to the encoder, then close the
// encoder's input and wait for it to finish. The single value sent on
// p.result is the pipeline's final status.
func (p *Pipeline) run(sink io.WriteCloser, enc Encoder) {
	defer close(p.result)

	count := 0
	for frame := range p.frames {
		if _, err := sink.Write(frame); err != nil {
			sink.Close()
			enc.Wait() // reap; the write error takes precedence
			p.result <- fmt.Errorf("export: writing frame %d: %w", count, err)
			return
		}
		count++
		if p.frameRate > 0 && count%p.frameRate == 0 {
			slog.Debug("export progress", "seconds", count/p.frameRate)
		}
	}

	// Channel closed: flush the final frames by closing the encoder's
	// input, then surface its exit status.
	if err := sink.Close(); err != nil {
		enc.Wait()
		p.result <- fmt.Errorf("export: closing encoder input: %w", err)
		return
	}
	p.result <- enc.Wait()
}

// Submit hands one frame to the encoder goroutine, blocking while the
// previous frame is still being consumed. The pipeline owns the buffer
// once Submit returns nil; the caller must not reuse it.
//
// If the worker has exited early (encoder crash), Submit surfaces that
// instead of blocking forever.
func (p *Pipeline) Submit(frame []byte) error {
	if p.closed {
		return ErrStopped
	}
	if len(frame) != p.frameBytes {
		return fmt.Errorf("export: frame is %d bytes, want %d", len(frame), p.frameBytes)
	}

	select {
	case p.frames <- frame:
		return nil
	case err, ok := <-p.result:
		if !ok || err == nil {
			err = ErrStopped
		}
		if !p.finished {
			// Remember the first failure so Close reports it too.
			p.finished = true
			p.finalErr = err
		}
		return p.finalErr
	}
}

// Close ends the stream: it closes the hand-off channel, which is the
// sole shutdown signal the worker needs, then waits for the worker to
// flush remaining frames and for the encoder to exit. The encoder's
// final status is returned and must not be ignored - an export that
// fails at the end has produced a broken file.
//
// Close is idempotent; repeated calls return the same result.
func (p *Pipeline) Close() error {
	if p.closed {
		return p.finalErr
	}
	p.closed = true
	close(p.frames)
	if !p.finished {
		p.finalErr = <-p.result
		p.finished = true
	}
	if p.finalErr != nil {
		slog.Error("video export failed", "error", p.finalErr)
	} else {
		slog.Info("video export finished")
	}
	return p.finalErr
}
