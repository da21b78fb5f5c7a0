// Package display owns the OS window, the render target and the presentation
// texture, and keeps the logical resolution in step with the physical window
// size and the user's scale setting.
package display

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/praetor-game/praetor/internal/core"
	"github.com/praetor-game/praetor/internal/cursor"
	"github.com/praetor-game/praetor/internal/platform"
)

// ErrNoSurface is returned when an operation needs a window that does not exist.
var ErrNoSurface = errors.New("display: no surface")

// Settings persists the display mode, the logical window size and the
// requested scale.
type Settings interface {
	Fullscreen() bool
	WindowSize() (width, height int)
	// SetDisplay stores the mode; the size is only kept when not fullscreen.
	SetDisplay(fullscreen bool, width, height int)
	SetDisplayScale(pct int)
}

// Pointer supplies the position for the software cursor.
type Pointer interface {
	Position() (x, y int)
	IsTouch() bool
}

type windowPosition struct {
	x, y     int
	centered bool
}

// Manager is the display surface. It is not safe for concurrent use; the
// event loop goroutine owns it.
type Manager struct {
	driver   platform.Driver
	caps     platform.Capabilities
	settings Settings
	logger   *log.Logger

	window   platform.Window
	renderer platform.Renderer
	texture  platform.Texture
	cursors  [cursor.Count]cursorTexture

	scale  scaleState
	pos    windowPosition
	width  int
	height int
	fb     *core.Framebuffer

	pointer      Pointer
	shape        cursor.Shape
	onResolution func(width, height int)
}

// New creates a manager without a window. Call Create to open one.
func New(driver platform.Driver, settings Settings, logger *log.Logger) *Manager {
	density := driver.Density()
	if density <= 0 {
		density = 1
	}
	return &Manager{
		driver:   driver,
		caps:     driver.Capabilities(),
		settings: settings,
		logger:   logger,
		scale:    scaleState{requested: 100, effective: 100, density: density},
		pos:      windowPosition{centered: true},
	}
}

// OnResolution registers a callback run after the logical resolution changed.
func (m *Manager) OnResolution(fn func(width, height int)) {
	m.onResolution = fn
}

// SetPointer sets the source of the software cursor position.
func (m *Manager) SetPointer(p Pointer) {
	m.pointer = p
}

// SetCursorShape selects the software cursor shape.
func (m *Manager) SetCursorShape(s cursor.Shape) {
	if s >= 0 && s < cursor.Count {
		m.shape = s
	}
}

// Size returns the logical resolution.
func (m *Manager) Size() (width, height int) {
	return m.width, m.height
}

// Framebuffer returns the buffer the simulation draws into, or nil before Create.
func (m *Manager) Framebuffer() *core.Framebuffer {
	return m.fb
}

// Scale returns the effective scale percentage.
func (m *Manager) Scale() int {
	return m.scale.effective
}

// RequestedScale returns the scale percentage the user asked for.
func (m *Manager) RequestedScale() int {
	return m.scale.requested
}

// Window returns the OS window, or nil.
func (m *Manager) Window() platform.Window {
	return m.window
}

func (m *Manager) setScalePercentage(pct, pixelW, pixelH int) {
	if !m.caps.InteractiveScaling {
		m.scale.requested = 100
	} else {
		m.scale.requested = core.Clamp(pct, MinScale, MaxScale)
		if m.scale.requested != pct {
			m.logger.Warn("scale out of range, clamped", "requested", pct, "scale", m.scale.requested)
		}
	}
	m.scale.effective = m.scale.requested
	if pixelW <= 0 || pixelH <= 0 {
		return
	}
	m.applyMaxScale(pixelW, pixelH)

	if m.window != nil {
		m.window.SetMinimumSize(m.scale.toPixels(MinLogicalWidth), m.scale.toPixels(MinLogicalHeight))
	}
	quality := platform.ScaleLinear
	if !m.caps.PreferLinearScaling && m.scale.effective%100 == 0 {
		quality = platform.ScaleNearest
	}
	m.driver.SetScaleQuality(quality)
}

func (m *Manager) applyMaxScale(pixelW, pixelH int) {
	effective := EffectiveScale(m.scale.requested, pixelW, pixelH, m.scale.density)
	if effective != m.scale.effective && effective < m.scale.requested {
		m.logger.Info("maximum scale applied", "scale", effective, "requested", m.scale.requested)
	}
	m.scale.effective = effective
}

// Create opens the window and render target, replacing any existing surface.
func (m *Manager) Create(title string, scalePct, display int) error {
	m.setScalePercentage(scalePct, 0, 0)

	fullscreen := m.caps.FixedResolution || m.settings.Fullscreen()
	var width, height int
	if fullscreen {
		mode, err := m.driver.DesktopMode(0)
		if err != nil {
			return fmt.Errorf("display: query desktop mode: %w", err)
		}
		width, height = mode.W, mode.H
	} else {
		lw, lh := m.settings.WindowSize()
		width, height = m.scale.toPixels(lw), m.scale.toPixels(lh)
	}

	m.Destroy()

	if n := m.driver.NumDisplays(); display < 0 || display >= n {
		m.logger.Warn("display not available, using display 0", "display", display, "displays", n)
		display = 0
	}

	m.logger.Info("creating screen",
		"width", width, "height", height, "display", display,
		"fullscreen", fullscreen, "driver", m.driver.VideoDriver())

	window, err := m.driver.CreateWindow(platform.WindowConfig{
		Title:      title,
		Width:      width,
		Height:     height,
		Display:    display,
		Fullscreen: fullscreen,
		Resizable:  true,
		HighDPI:    true,
	})
	if err != nil {
		return fmt.Errorf("display: create window: %w", err)
	}
	m.window = window

	if m.caps.FixedResolution {
		width, height = window.Size()
	}

	renderer, err := m.driver.CreateRenderer(window, false)
	if err != nil {
		m.logger.Warn("unable to create renderer, trying software renderer", "error", err)
		renderer, err = m.driver.CreateRenderer(window, true)
		if err != nil {
			return fmt.Errorf("display: create renderer: %w", err)
		}
	}
	m.renderer = renderer

	if fullscreen {
		window.SetGrab(true)
	}

	m.setScalePercentage(scalePct, width, height)
	return m.Resize(width, height)
}

// Resize recomputes the logical resolution for a physical size and rebuilds
// the presentation texture when it changed.
func (m *Manager) Resize(pixelW, pixelH int) error {
	if m.renderer == nil {
		return ErrNoSurface
	}
	if pixelW <= 0 || pixelH <= 0 {
		m.logger.Debug("ignoring empty window size", "width", pixelW, "height", pixelH)
		return nil
	}
	m.applyMaxScale(pixelW, pixelH)

	width := m.scale.toLogical(pixelW)
	height := m.scale.toLogical(pixelH)

	if m.texture != nil {
		if width == m.width && height == m.height {
			return nil
		}
		m.destroyTexture()
	}

	if err := m.renderer.SetLogicalSize(width, height); err != nil {
		m.logger.Warn("unable to set logical size", "width", width, "height", height, "error", err)
	}
	m.settings.SetDisplay(m.settings.Fullscreen(), width, height)

	if err := m.createTexture(width, height); err != nil {
		return err
	}
	m.setResolution(width, height)
	return nil
}

func (m *Manager) createTexture(width, height int) error {
	tex, err := m.renderer.CreateTexture(width, height, platform.TextureStreaming)
	if err != nil {
		return fmt.Errorf("display: create %dx%d texture: %w", width, height, err)
	}
	m.texture = tex
	m.logger.Info("texture created", "width", width, "height", height, "scale", m.scale.effective)
	return nil
}

func (m *Manager) setResolution(width, height int) {
	m.width, m.height = width, height
	if m.fb == nil {
		m.fb = core.NewFramebuffer(width, height)
	} else {
		m.fb.Resize(width, height)
	}
	if m.onResolution != nil {
		m.onResolution(width, height)
	}
}

func (m *Manager) destroyTexture() {
	if m.texture != nil {
		m.texture.Destroy()
		m.texture = nil
	}
}

// Destroy releases the texture, the cursor textures, the renderer and the
// window, in that order. It is safe to call repeatedly.
func (m *Manager) Destroy() {
	m.destroyTexture()
	m.destroyCursors()
	if m.renderer != nil {
		m.renderer.Destroy()
		m.renderer = nil
	}
	if m.window != nil {
		m.window.Destroy()
		m.window = nil
	}
}

// SetFullscreen switches the window to the desktop mode of its display.
func (m *Manager) SetFullscreen() {
	if m.window == nil {
		return
	}
	m.pos.x, m.pos.y = m.window.Position()

	display := m.window.DisplayIndex()
	mode, err := m.driver.DesktopMode(display)
	if err != nil {
		m.logger.Warn("unable to query desktop mode", "display", display, "error", err)
		return
	}
	m.logger.Info("switching to fullscreen", "width", mode.W, "height", mode.H, "display", display)

	if err := m.window.SetFullscreen(true); err != nil {
		m.logger.Warn("unable to enter fullscreen", "error", err)
		return
	}
	if err := m.window.SetDisplayMode(mode); err != nil {
		m.logger.Warn("unable to set display mode", "error", err)
	}
	m.window.SetGrab(true)
	m.settings.SetDisplay(true, mode.W, mode.H)
}

// SetWindowed leaves fullscreen and restores the saved logical window size.
func (m *Manager) SetWindowed() {
	if m.caps.FixedResolution || m.window == nil {
		return
	}
	width, height := m.settings.WindowSize()
	pixelW, pixelH := m.scale.toPixels(width), m.scale.toPixels(height)

	if err := m.window.SetFullscreen(false); err != nil {
		m.logger.Warn("unable to leave fullscreen", "error", err)
	}
	m.window.SetSize(pixelW, pixelH)
	m.restorePosition()
	m.logger.Info("switching to windowed", "width", pixelW, "height", pixelH)

	if m.window.Grabbed() {
		m.window.SetGrab(false)
	}
	m.settings.SetDisplay(false, width, height)
}

// SetWindowSize resizes the window to a logical size, leaving fullscreen first.
func (m *Manager) SetWindowSize(width, height int) {
	if m.caps.FixedResolution || m.window == nil {
		return
	}
	pixelW, pixelH := m.scale.toPixels(width), m.scale.toPixels(height)

	if m.settings.Fullscreen() {
		if err := m.window.SetFullscreen(false); err != nil {
			m.logger.Warn("unable to leave fullscreen", "error", err)
		}
	} else {
		m.pos.x, m.pos.y = m.window.Position()
	}
	if m.window.Maximized() {
		m.window.Restore()
	}
	m.window.SetSize(pixelW, pixelH)
	if m.pos.centered {
		m.CenterWindow()
	}
	m.logger.Info("window resized", "width", pixelW, "height", pixelH)

	if m.window.Grabbed() {
		m.window.SetGrab(false)
	}
	m.settings.SetDisplay(false, width, height)
}

func (m *Manager) restorePosition() {
	if m.pos.centered {
		m.CenterWindow()
		return
	}
	m.window.SetPosition(m.pos.x, m.pos.y)
}

// CenterWindow centers the window on its display and keeps it centered on
// later mode changes.
func (m *Manager) CenterWindow() {
	if m.window == nil {
		return
	}
	m.window.Center()
	m.pos.centered = true
}

// Move records a user move of the window. Moves in fullscreen are ignored.
func (m *Manager) Move(x, y int) {
	if m.settings.Fullscreen() {
		return
	}
	m.pos = windowPosition{x: x, y: y}
}

// Fullscreen reports whether the surface is in fullscreen mode.
func (m *Manager) Fullscreen() bool {
	return m.caps.FixedResolution || m.settings.Fullscreen()
}

// Centered reports whether the window is kept centered.
func (m *Manager) Centered() bool {
	return m.pos.centered
}

// ScaleDisplay applies a new scale percentage and returns the effective one.
// The requested percentage is stored in the settings; platforms pinned to
// 100% leave the stored value alone.
func (m *Manager) ScaleDisplay(pct int) int {
	if m.window == nil {
		m.setScalePercentage(pct, 0, 0)
	} else {
		width, height := m.window.Size()
		m.setScalePercentage(pct, width, height)
		if err := m.Resize(width, height); err != nil {
			m.logger.Error("unable to apply scale", "scale", m.scale.effective, "error", err)
			return m.scale.effective
		}
	}
	if m.caps.InteractiveScaling {
		m.settings.SetDisplayScale(m.scale.requested)
	}
	return m.scale.effective
}

// CanScale reports whether the user may change the scale, and the range.
func (m *Manager) CanScale() (minPct, maxPct int, ok bool) {
	if !m.caps.InteractiveScaling {
		return 0, 0, false
	}
	if m.caps.FixedResolution && !m.caps.VariableOrientation {
		return 0, 0, false
	}
	if m.window == nil {
		return 0, 0, false
	}
	width, height := m.window.Size()
	maxPct = MaxScalePercentage(width, height, m.scale.density)
	if m.caps.VariableOrientation {
		rotated := MaxScalePercentage(height, width, m.scale.density)
		if maxPct < 100 && rotated < 100 {
			m.logger.Info("display too small to scale", "width", width, "height", height)
			return 0, 0, false
		}
	}
	return MinScale, core.Min(maxPct, MaxScale), true
}

// WarpPointer moves the OS pointer to a logical position, clamped to the
// screen, and returns the position used.
func (m *Manager) WarpPointer(x, y int) (int, int) {
	x = core.Clamp(x, 0, core.Max(m.width-1, 0))
	y = core.Clamp(y, 0, core.Max(m.height-1, 0))
	if m.window != nil {
		m.window.WarpPointer(m.scale.toPixels(x), m.scale.toPixels(y))
	}
	return x, y
}

// RecoverTexture recreates a presentation texture the OS discarded. It runs
// once per frame on platforms that lose textures in fullscreen.
func (m *Manager) RecoverTexture() {
	if !m.caps.RecoverLostTexture || m.texture != nil || m.renderer == nil || m.window == nil {
		return
	}
	if !m.settings.Fullscreen() {
		return
	}
	mode, err := m.window.DisplayMode()
	if err != nil {
		m.logger.Warn("unable to query window display mode", "error", err)
		return
	}
	width, height := m.scale.toLogical(mode.W), m.scale.toLogical(mode.H)
	if err := m.createTexture(width, height); err != nil {
		m.logger.Error("unable to recover texture", "error", err)
		return
	}
	m.setResolution(width, height)
}

// LoseTexture drops the presentation texture as a device reset would.
func (m *Manager) LoseTexture() {
	m.destroyTexture()
}

// Update uploads the framebuffer and draws it, with the software cursor on top.
func (m *Manager) Update() {
	if m.renderer == nil {
		return
	}
	m.syncTexture()
	if err := m.renderer.Clear(); err != nil {
		m.logger.Debug("clear failed", "error", err)
	}
	if m.texture != nil && m.fb != nil {
		if err := m.texture.Update(m.fb.Pixels(), m.fb.Pitch()); err != nil {
			m.logger.Debug("texture upload failed", "error", err)
		}
		if err := m.renderer.Copy(m.texture, nil); err != nil {
			m.logger.Debug("texture copy failed", "error", err)
		}
	}
	if m.caps.SoftwareCursor {
		m.drawSoftwareCursor()
	}
}

// syncTexture rebuilds a texture whose size no longer matches the resolution.
func (m *Manager) syncTexture() {
	if m.texture == nil {
		return
	}
	if w, h := m.texture.Size(); w == m.width && h == m.height {
		return
	}
	m.destroyTexture()
	if err := m.createTexture(m.width, m.height); err != nil {
		m.logger.Error("unable to rebuild texture", "error", err)
	}
}

// Present shows the frame.
func (m *Manager) Present() {
	if m.renderer != nil {
		m.renderer.Present()
	}
}
