// Package tray shows the notification-area icon with its single Quit item.
//
// Run must be called from the main goroutine; fyne.io/systray locks it to
// the main OS thread in its own init.
package tray

import (
	"sync"

	"fyne.io/systray"

	"github.com/rescale/twitch-live-opener/internal/logging"
)

// Options configures the tray icon.
type Options struct {
	// Title is shown next to the icon where the platform supports it
	Title string

	// Tooltip is shown on hover, e.g. "Twitch Watcher - somestreamer"
	Tooltip string

	// Icon is PNG data (default: DefaultIcon())
	Icon []byte

	Logger *logging.Logger
}

// Controller owns the tray icon. Quit may be called from any goroutine.
type Controller struct {
	opts   Options
	logger *logging.Logger
	quitFn func()

	mu            sync.Mutex
	ready         bool
	quitRequested bool
	quitOnce      sync.Once
}

// New creates a tray controller. Nothing is shown until Run.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	if len(opts.Icon) == 0 {
		opts.Icon = DefaultIcon()
	}
	return &Controller{
		opts:   opts,
		logger: logger.Component("tray"),
		quitFn: systray.Quit,
	}
}

// Run shows the icon and blocks until the tray quits. When the user picks
// Quit, onQuit is called before the tray loop is asked to stop.
func (c *Controller) Run(onQuit func()) {
	systray.Run(func() { c.onReady(onQuit) }, c.onExit)
}

// Quit removes the icon and makes Run return. A Quit issued before the
// tray is ready takes effect as soon as it is.
func (c *Controller) Quit() {
	c.mu.Lock()
	if !c.ready {
		c.quitRequested = true
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.quitOnce.Do(c.quitFn)
}

func (c *Controller) onReady(onQuit func()) {
	systray.SetIcon(c.opts.Icon)
	systray.SetTitle(c.opts.Title)
	systray.SetTooltip(c.opts.Tooltip)

	mQuit := systray.AddMenuItem("Quit", "Stop watching and exit")

	go watchQuit(mQuit.ClickedCh, c.logger, onQuit, c.Quit)

	c.logger.Debug().Str("tooltip", c.opts.Tooltip).Msg("Tray icon ready")
	c.markReady()
}

// markReady flips the ready flag and honours a Quit that arrived early.
func (c *Controller) markReady() {
	c.mu.Lock()
	c.ready = true
	pending := c.quitRequested
	c.mu.Unlock()

	if pending {
		c.quitOnce.Do(c.quitFn)
	}
}

func (c *Controller) onExit() {
	c.logger.Debug().Msg("Tray icon removed")
}

// watchQuit waits for the first Quit click, stops the watcher, then
// tears the tray down.
func watchQuit(clicked <-chan struct{}, logger *logging.Logger, stop, quit func()) {
	if _, ok := <-clicked; !ok {
		return
	}
	logger.Info().Msg("Quit requested from tray icon. Stopping watcher...")
	if stop != nil {
		stop()
	}
	quit()
}
