package display

import (
	"github.com/praetor-game/praetor/internal/core"
	"github.com/praetor-game/praetor/internal/cursor"
	"github.com/praetor-game/praetor/internal/platform"
)

type cursorTexture struct {
	texture    platform.Texture
	size       int
	hotX, hotY int
}

// InitCursors renders every cursor shape at scalePct and uploads it.
// Only platforms drawing a software cursor need textures.
func (m *Manager) InitCursors(scalePct int) {
	if !m.caps.SoftwareCursor {
		return
	}
	for s := cursor.Shape(0); s < cursor.Count; s++ {
		img, err := cursor.Render(s, scalePct)
		if err != nil {
			m.logger.Warn("unable to render cursor", "shape", s, "error", err)
			continue
		}
		m.GenerateCursorTexture(img)
	}
}

// GenerateCursorTexture uploads img as the texture for its shape. On failure
// the shape is left without a texture and is not drawn.
func (m *Manager) GenerateCursorTexture(img *cursor.Image) {
	if m.renderer == nil || img.Shape < 0 || img.Shape >= cursor.Count {
		return
	}
	m.destroyCursor(img.Shape)

	size := cursor.TextureSize(img.Width(), img.Height())
	tex, err := m.renderer.CreateTexture(size, size, platform.TextureStatic)
	if err != nil {
		m.logger.Warn("unable to create cursor texture", "shape", img.Shape, "error", err)
		return
	}
	if err := tex.Update(img.Pixels(size), size*4); err != nil {
		m.logger.Warn("unable to upload cursor texture", "shape", img.Shape, "error", err)
		tex.Destroy()
		return
	}
	if err := tex.SetBlend(true); err != nil {
		m.logger.Debug("cursor blending unavailable", "error", err)
	}
	m.cursors[img.Shape] = cursorTexture{texture: tex, size: size, hotX: img.HotX, hotY: img.HotY}
}

func (m *Manager) destroyCursor(s cursor.Shape) {
	if m.cursors[s].texture != nil {
		m.cursors[s].texture.Destroy()
	}
	m.cursors[s] = cursorTexture{}
}

func (m *Manager) destroyCursors() {
	for s := cursor.Shape(0); s < cursor.Count; s++ {
		m.destroyCursor(s)
	}
}

// The texture is shrunk by the display scale so the cursor keeps its
// physical size whatever the logical resolution.
func (m *Manager) drawSoftwareCursor() {
	if m.pointer == nil || m.pointer.IsTouch() {
		return
	}
	ct := m.cursors[m.shape]
	if ct.texture == nil {
		return
	}
	size := ct.size * (100 * 100 / m.scale.effective) / 100
	x, y := m.pointer.Position()
	dst := core.NewRect(x-ct.hotX, y-ct.hotY, size, size)
	if err := m.renderer.Copy(ct.texture, &dst); err != nil {
		m.logger.Debug("cursor copy failed", "error", err)
	}
}
