// Package display opens a glfw window with the best OpenGL context the
// driver offers and exposes it as an output surface with a vsync frame
// callback.
package display

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/achilleasa/stereocam/gpu"
	"github.com/achilleasa/stereocam/gpu/gl21"
	"github.com/achilleasa/stereocam/gpu/gl33"
	"github.com/achilleasa/stereocam/log"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var logger = log.New("display")

func init() {
	// glfw and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

// Options configures the window.
type Options struct {
	Width  int
	Height int
	Title  string

	// Skip the OpenGL 3.3 core attempt and create a 2.1 context.
	ForceBaseline bool

	// Create the window without showing it.
	Hidden bool
}

type backend interface {
	gpu.Device
	Release()
}

// Window is a glfw window together with the device for its GL context. All
// methods except Post must be called from the main thread.
type Window struct {
	win *glfw.Window
	dev backend

	pending func() bool
	onKey   func(glfw.Key, glfw.ModifierKey)

	postMu sync.Mutex
	posted chan func()
	closed bool
}

// Open creates the window and its GL context.
func Open(opts Options) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("display: failed to initialize glfw: %s", err.Error())
	}

	if opts.Title == "" {
		opts.Title = "stereocam"
	}

	w := &Window{posted: make(chan func(), 16)}
	var err error
	if !opts.ForceBaseline {
		w.win, err = createWindow(opts, 3, 3)
		if err == nil {
			w.win.MakeContextCurrent()
			w.dev, err = newBackend(gpu.TierExtended)
		}
		if err != nil {
			logger.Infof("opengl 3.3 core context unavailable (%s); falling back to 2.1", err.Error())
			if w.win != nil {
				w.win.Destroy()
				w.win = nil
			}
			w.dev = nil
		}
	}

	if w.dev == nil {
		w.win, err = createWindow(opts, 2, 1)
		if err != nil {
			glfw.Terminate()
			return nil, fmt.Errorf("display: could not create opengl window: %s", err.Error())
		}
		w.win.MakeContextCurrent()
		if w.dev, err = newBackend(gpu.TierBaseline); err != nil {
			w.win.Destroy()
			glfw.Terminate()
			return nil, err
		}
	}

	glfw.SwapInterval(1)
	w.win.SetKeyCallback(w.onKeyEvent)
	logger.Noticef("created %s context", w.dev.Name())
	return w, nil
}

func createWindow(opts Options, major, minor int) (*glfw.Window, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, major)
	glfw.WindowHint(glfw.ContextVersionMinor, minor)
	if major >= 3 {
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	}
	if opts.Hidden {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}
	return glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
}

func newBackend(tier gpu.Tier) (backend, error) {
	if tier == gpu.TierExtended {
		dev, err := gl33.New()
		if err != nil {
			return nil, err
		}
		return dev, nil
	}
	dev, err := gl21.New()
	if err != nil {
		return nil, err
	}
	return dev, nil
}

// Device returns the GPU device bound to the window's context.
func (w *Window) Device() gpu.Device {
	return w.dev
}

// ClientSize returns the window size in screen coordinates and the ratio
// between framebuffer pixels and screen coordinates.
func (w *Window) ClientSize() (int, int, float32) {
	cw, ch := w.win.GetSize()
	fw, _ := w.win.GetFramebufferSize()
	ratio := float32(1)
	if cw > 0 && fw > 0 {
		ratio = float32(fw) / float32(cw)
	}
	return cw, ch, ratio
}

// ResizeBacking is a no-op: the default framebuffer follows the window.
func (w *Window) ResizeBacking(width, height int) {
	logger.Debugf("framebuffer is now %dx%d", width, height)
}

// RequestFrame arranges for fn to run before the next buffer swap. The
// buffers are only swapped when fn returns true.
func (w *Window) RequestFrame(fn func() bool) {
	w.pending = fn
}

// CancelFrame drops the pending frame callback.
func (w *Window) CancelFrame() {
	w.pending = nil
}

// OnKey registers a handler for key presses and repeats.
func (w *Window) OnKey(fn func(glfw.Key, glfw.ModifierKey)) {
	w.onKey = fn
}

// RequestClose makes Run return after the current iteration.
func (w *Window) RequestClose() {
	w.win.SetShouldClose(true)
}

// SetTitle replaces the window title.
func (w *Window) SetTitle(title string) {
	w.win.SetTitle(title)
}

// Post queues fn to run on the main thread and wakes up Run. It is safe to
// call from any goroutine. It returns false if the window is closed or the
// queue is full, in which case fn is dropped.
func (w *Window) Post(fn func()) bool {
	w.postMu.Lock()
	defer w.postMu.Unlock()
	if w.closed {
		return false
	}
	select {
	case w.posted <- fn:
	default:
		return false
	}
	glfw.PostEmptyEvent()
	return true
}

// Run processes window events and frame callbacks until the window is closed
// or ctx is cancelled.
func (w *Window) Run(ctx context.Context) error {
	for !w.win.ShouldClose() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		w.drainPosted()
		if fn := w.pending; fn != nil {
			w.pending = nil
			if fn() {
				w.win.SwapBuffers()
			}
			glfw.PollEvents()
			continue
		}

		// Nothing scheduled; sleep until something happens.
		glfw.WaitEventsTimeout(0.1)
	}
	return nil
}

func (w *Window) drainPosted() {
	for {
		select {
		case fn := <-w.posted:
			fn()
		default:
			return
		}
	}
}

func (w *Window) onKeyEvent(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press && action != glfw.Repeat {
		return
	}
	if key == glfw.KeyEscape {
		w.RequestClose()
		return
	}
	if w.onKey != nil {
		w.onKey(key, mods)
	}
}

// Close releases the device and destroys the window. Later calls to Post
// are dropped.
func (w *Window) Close() {
	w.postMu.Lock()
	w.closed = true
	w.postMu.Unlock()

	if w.dev != nil {
		w.dev.Release()
		w.dev = nil
	}
	if w.win != nil {
		w.win.Destroy()
		w.win = nil
	}
	glfw.Terminate()
}
