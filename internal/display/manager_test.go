package display

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/praetor-game/praetor/internal/core"
	"github.com/praetor-game/praetor/internal/platform"
	"github.com/praetor-game/praetor/internal/platform/headless"
)

type fakeSettings struct {
	fullscreen bool
	w, h       int
	scale      int
	saves      int
}

func (s *fakeSettings) SetDisplayScale(pct int) { s.scale = pct }

func (s *fakeSettings) Fullscreen() bool       { return s.fullscreen }
func (s *fakeSettings) WindowSize() (int, int) { return s.w, s.h }
func (s *fakeSettings) SetDisplay(fs bool, w, h int) {
	s.fullscreen = fs
	if !fs {
		s.w, s.h = w, h
	}
	s.saves++
}

type fakePointer struct {
	x, y  int
	touch bool
}

func (p *fakePointer) Position() (int, int) { return p.x, p.y }
func (p *fakePointer) IsTouch() bool        { return p.touch }

func desktopCaps() platform.Capabilities {
	return platform.Capabilities{InteractiveScaling: true}
}

func newManager(t *testing.T, opts headless.Options, settings *fakeSettings) (*Manager, *headless.Driver) {
	t.Helper()
	d := headless.New(opts)
	if err := d.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return New(d, settings, log.New(io.Discard)), d
}

func TestCreateWindowed(t *testing.T) {
	settings := &fakeSettings{w: 1024, h: 768}
	m, d := newManager(t, headless.Options{Capabilities: desktopCaps()}, settings)

	if err := m.Create("test", 100, 0); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if w, h := d.Window().Size(); w != 1024 || h != 768 {
		t.Errorf("window size = %dx%d, expected 1024x768", w, h)
	}
	if w, h := m.Size(); w != 1024 || h != 768 {
		t.Errorf("logical size = %dx%d, expected 1024x768", w, h)
	}
	fb := m.Framebuffer()
	if fb == nil || fb.Width() != 1024 || fb.Height() != 768 {
		t.Fatalf("framebuffer = %v, expected 1024x768", fb)
	}
	if w, h := d.Renderer().LogicalSize(); w != 1024 || h != 768 {
		t.Errorf("renderer logical size = %dx%d", w, h)
	}
	if d.Window().Grabbed() {
		t.Error("windowed mode should not grab input")
	}
	if d.Window().Title() != "test" {
		t.Errorf("Title() = %q", d.Window().Title())
	}
}

func TestCreateFullscreenAt150(t *testing.T) {
	settings := &fakeSettings{fullscreen: true, w: 800, h: 600}
	m, d := newManager(t, headless.Options{Capabilities: desktopCaps()}, settings)

	if err := m.Create("test", 150, 0); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if w, h := m.Size(); w != 1280 || h != 720 {
		t.Errorf("logical size = %dx%d, expected 1280x720", w, h)
	}
	if m.Scale() != 150 {
		t.Errorf("Scale() = %d, expected 150", m.Scale())
	}
	if !d.Window().Grabbed() {
		t.Error("fullscreen should grab input")
	}
	if settings.w != 800 || settings.h != 600 {
		t.Errorf("fullscreen resize must not overwrite the window size, got %dx%d", settings.w, settings.h)
	}
}

func TestResizeIsIdempotent(t *testing.T) {
	m, d := newManager(t, headless.Options{Capabilities: desktopCaps()}, &fakeSettings{w: 800, h: 600})
	if err := m.Create("test", 100, 0); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	created := d.Stats().TexturesCreated

	for i := 0; i < 3; i++ {
		if err := m.Resize(800, 600); err != nil {
			t.Fatalf("Resize() error = %v", err)
		}
	}
	if got := d.Stats().TexturesCreated; got != created {
		t.Errorf("TexturesCreated = %d after identical resizes, expected %d", got, created)
	}

	if err := m.Resize(1000, 700); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	s := d.Stats()
	if s.TexturesCreated != created+1 || s.LiveTextures() != 1 {
		t.Errorf("stats after real resize = %+v", s)
	}
	if w, h := m.Size(); w != 1000 || h != 700 {
		t.Errorf("logical size = %dx%d, expected 1000x700", w, h)
	}
}

func TestSingleSurfaceAfterAnySequence(t *testing.T) {
	settings := &fakeSettings{w: 800, h: 600}
	m, d := newManager(t, headless.Options{
		Capabilities: desktopCaps(),
		Displays:     []platform.DisplayMode{{W: 1920, H: 1080}, {W: 1280, H: 1024}},
	}, settings)

	steps := []struct {
		name string
		fn   func() error
	}{
		{"create", func() error { return m.Create("a", 100, 0) }},
		{"recreate", func() error { return m.Create("b", 200, 1) }},
		{"fullscreen", func() error { m.SetFullscreen(); return nil }},
		{"resize", func() error { return m.Resize(1920, 1080) }},
		{"windowed", func() error { m.SetWindowed(); return nil }},
		{"scale", func() error { m.ScaleDisplay(300); return nil }},
		{"window size", func() error { m.SetWindowSize(700, 500); return nil }},
		{"recreate fullscreen", func() error { settings.fullscreen = true; return m.Create("c", 100, 0) }},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			t.Fatalf("%s: error = %v", step.name, err)
		}
		s := d.Stats()
		if s.LiveWindows() != 1 || s.LiveRenderers() != 1 || s.LiveTextures() != 1 {
			t.Fatalf("%s: live windows=%d renderers=%d textures=%d, expected one each",
				step.name, s.LiveWindows(), s.LiveRenderers(), s.LiveTextures())
		}
	}

	m.Destroy()
	m.Destroy()
	s := d.Stats()
	if s.LiveWindows() != 0 || s.LiveRenderers() != 0 || s.LiveTextures() != 0 {
		t.Errorf("leaked after Destroy: %+v", s)
	}
}

func TestDisplayIndexClamped(t *testing.T) {
	m, d := newManager(t, headless.Options{Capabilities: desktopCaps()}, &fakeSettings{w: 800, h: 600})
	if err := m.Create("test", 100, 5); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if d.Window().DisplayIndex() != 0 {
		t.Errorf("DisplayIndex() = %d, expected 0", d.Window().DisplayIndex())
	}
}

func TestRendererFallback(t *testing.T) {
	m, d := newManager(t, headless.Options{Capabilities: desktopCaps(), FailRenderers: 1}, &fakeSettings{w: 800, h: 600})
	if err := m.Create("test", 100, 0); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !d.Renderer().Software() {
		t.Error("expected the software renderer after an accelerated failure")
	}
}

func TestCreateFailures(t *testing.T) {
	tests := []struct {
		name string
		opts headless.Options
	}{
		{"window", headless.Options{FailWindow: true}},
		{"both renderers", headless.Options{FailRenderers: 1, FailSoftwareRenderer: true}},
		{"texture", headless.Options{FailTextures: 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.opts.Capabilities = desktopCaps()
			m, _ := newManager(t, tc.opts, &fakeSettings{w: 800, h: 600})
			if err := m.Create("test", 100, 0); err == nil {
				t.Error("Create() should fail")
			}
			m.Destroy()
		})
	}
}

func TestResizeWithoutSurface(t *testing.T) {
	m, _ := newManager(t, headless.Options{}, &fakeSettings{w: 800, h: 600})
	if err := m.Resize(800, 600); !errors.Is(err, ErrNoSurface) {
		t.Errorf("Resize() error = %v, expected ErrNoSurface", err)
	}
}

func TestScaleDisplayRespectsMax(t *testing.T) {
	settings := &fakeSettings{w: 1024, h: 768}
	m, _ := newManager(t, headless.Options{Capabilities: desktopCaps()}, settings)
	if err := m.Create("test", 100, 0); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if got := m.ScaleDisplay(300); got != 160 {
		t.Errorf("ScaleDisplay(300) = %d, expected 160", got)
	}
	if w, h := m.Size(); w != 640 || h != 480 {
		t.Errorf("logical size = %dx%d, expected 640x480", w, h)
	}
	if m.RequestedScale() != 300 {
		t.Errorf("RequestedScale() = %d, expected 300", m.RequestedScale())
	}
	if settings.scale != 300 {
		t.Errorf("stored scale = %d, expected the requested 300", settings.scale)
	}

	if got := m.ScaleDisplay(1000); got != 160 {
		t.Errorf("ScaleDisplay(1000) = %d, expected 160", got)
	}
	if m.RequestedScale() != MaxScale {
		t.Errorf("RequestedScale() = %d, expected clamp to %d", m.RequestedScale(), MaxScale)
	}
	if settings.scale != MaxScale {
		t.Errorf("stored scale = %d, expected %d", settings.scale, MaxScale)
	}
}

func TestTinyWindowFloorsScale(t *testing.T) {
	m, _ := newManager(t, headless.Options{Capabilities: desktopCaps()}, &fakeSettings{w: 800, h: 600})
	if err := m.Create("test", 100, 0); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := m.Resize(200, 150); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if m.Scale() != MinScale {
		t.Errorf("Scale() = %d, expected %d", m.Scale(), MinScale)
	}
	if w, h := m.Size(); w != 400 || h != 300 {
		t.Errorf("logical size = %dx%d, expected 400x300", w, h)
	}
}

func TestNonInteractiveScalingForces100(t *testing.T) {
	settings := &fakeSettings{w: 800, h: 600, scale: 200}
	m, _ := newManager(t, headless.Options{}, settings)
	if err := m.Create("test", 200, 0); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if m.Scale() != 100 {
		t.Errorf("Scale() = %d, expected 100", m.Scale())
	}
	if got := m.ScaleDisplay(250); got != 100 {
		t.Errorf("ScaleDisplay(250) = %d, expected 100", got)
	}
	if settings.scale != 200 {
		t.Errorf("stored scale = %d, a pinned platform must keep the user's value", settings.scale)
	}
}

func TestCanScale(t *testing.T) {
	tests := []struct {
		name     string
		caps     platform.Capabilities
		display  platform.DisplayMode
		ok       bool
		expected int
	}{
		{"desktop", desktopCaps(), platform.DisplayMode{W: 1920, H: 1080}, true, 225},
		{"forced 100", platform.Capabilities{}, platform.DisplayMode{W: 1920, H: 1080}, false, 0},
		{"fixed resolution", platform.Capabilities{FixedResolution: true, InteractiveScaling: true},
			platform.DisplayMode{W: 1920, H: 1080}, false, 0},
		{"rotating large", platform.Capabilities{FixedResolution: true, InteractiveScaling: true, VariableOrientation: true},
			platform.DisplayMode{W: 1920, H: 1080}, true, 225},
		{"rotating small", platform.Capabilities{FixedResolution: true, InteractiveScaling: true, VariableOrientation: true},
			platform.DisplayMode{W: 600, H: 400}, false, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, _ := newManager(t, headless.Options{
				Capabilities: tc.caps,
				Displays:     []platform.DisplayMode{tc.display},
			}, &fakeSettings{fullscreen: true, w: 640, h: 480})
			if err := m.Create("test", 100, 0); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			minPct, maxPct, ok := m.CanScale()
			if ok != tc.ok {
				t.Fatalf("CanScale() ok = %v, expected %v", ok, tc.ok)
			}
			if ok && (minPct != MinScale || maxPct != tc.expected) {
				t.Errorf("CanScale() = (%d, %d), expected (%d, %d)", minPct, maxPct, MinScale, tc.expected)
			}
		})
	}
}

func TestFixedResolutionIgnoresWindowModes(t *testing.T) {
	caps := platform.Capabilities{FixedResolution: true, InteractiveScaling: true}
	settings := &fakeSettings{w: 800, h: 600}
	m, d := newManager(t, headless.Options{Capabilities: caps}, settings)
	if err := m.Create("test", 100, 0); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !d.Window().Fullscreen() {
		t.Fatal("fixed-resolution platforms always start fullscreen")
	}
	saves := settings.saves

	m.SetWindowed()
	m.SetWindowSize(800, 600)

	if !d.Window().Fullscreen() {
		t.Error("SetWindowed must not leave fullscreen on fixed-resolution platforms")
	}
	if w, h := d.Window().Size(); w != 1920 || h != 1080 {
		t.Errorf("window size = %dx%d, expected unchanged 1920x1080", w, h)
	}
	if settings.saves != saves {
		t.Error("settings must not be touched")
	}
}

func TestFullscreenRoundTrip(t *testing.T) {
	settings := &fakeSettings{w: 800, h: 600}
	m, d := newManager(t, headless.Options{Capabilities: desktopCaps()}, settings)
	if err := m.Create("test", 100, 0); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	m.SetFullscreen()
	if !settings.fullscreen || !d.Window().Grabbed() || !d.Window().Fullscreen() {
		t.Fatalf("after SetFullscreen: settings=%v grabbed=%v", settings.fullscreen, d.Window().Grabbed())
	}
	mode, _ := d.Window().DisplayMode()
	if mode.W != 1920 || mode.H != 1080 {
		t.Errorf("display mode = %dx%d, expected the desktop mode", mode.W, mode.H)
	}

	m.SetWindowed()
	if settings.fullscreen || d.Window().Grabbed() || d.Window().Fullscreen() {
		t.Fatal("SetWindowed should leave fullscreen and release the grab")
	}
	if w, h := d.Window().Size(); w != 800 || h != 600 {
		t.Errorf("window size = %dx%d, expected 800x600", w, h)
	}
	if x, y := d.Window().Position(); x != 560 || y != 240 {
		t.Errorf("position = (%d, %d), expected the centered (560, 240)", x, y)
	}
}

func TestFullscreenFailureKeepsWindowed(t *testing.T) {
	settings := &fakeSettings{w: 800, h: 600}
	m, d := newManager(t, headless.Options{Capabilities: desktopCaps(), FailFullscreen: true}, settings)
	if err := m.Create("test", 100, 0); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	m.SetFullscreen()
	if settings.fullscreen || d.Window().Grabbed() {
		t.Error("a failed fullscreen switch must not change settings or grab input")
	}
}

func TestSetWindowSize(t *testing.T) {
	settings := &fakeSettings{w: 800, h: 600}
	m, d := newManager(t, headless.Options{Capabilities: desktopCaps()}, settings)
	if err := m.Create("test", 150, 0); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	d.Window().Maximize()

	m.SetWindowSize(700, 500)

	if d.Window().Maximized() {
		t.Error("SetWindowSize should restore a maximized window")
	}
	if w, h := d.Window().Size(); w != 1050 || h != 750 {
		t.Errorf("window size = %dx%d, expected 1050x750", w, h)
	}
	if settings.w != 700 || settings.h != 500 || settings.fullscreen {
		t.Errorf("settings = %+v, expected windowed 700x500", settings)
	}
}

func TestMoveTracksWindowedPosition(t *testing.T) {
	settings := &fakeSettings{w: 800, h: 600}
	m, d := newManager(t, headless.Options{Capabilities: desktopCaps()}, settings)
	if err := m.Create("test", 100, 0); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	d.Window().SetPosition(10, 20)
	m.Move(10, 20)
	if m.Centered() {
		t.Error("a user move should stop centering")
	}
	m.SetFullscreen()
	m.Move(0, 0)
	m.SetWindowed()
	if x, y := d.Window().Position(); x != 10 || y != 20 {
		t.Errorf("position = (%d, %d), expected (10, 20)", x, y)
	}

	m.CenterWindow()
	if !m.Centered() {
		t.Error("CenterWindow should mark the window centered")
	}
}

func TestScaleQualityAndMinimumSize(t *testing.T) {
	tests := []struct {
		name       string
		caps       platform.Capabilities
		scale      int
		quality    platform.ScaleQuality
		minW, minH int
	}{
		{"whole scale", desktopCaps(), 200, platform.ScaleNearest, 1280, 960},
		{"fractional scale", desktopCaps(), 150, platform.ScaleLinear, 960, 720},
		{"prefers linear", platform.Capabilities{InteractiveScaling: true, PreferLinearScaling: true},
			100, platform.ScaleLinear, 640, 480},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, d := newManager(t, headless.Options{Capabilities: tc.caps}, &fakeSettings{w: 640, h: 480})
			if err := m.Create("test", tc.scale, 0); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if d.ScaleQuality() != tc.quality {
				t.Errorf("ScaleQuality() = %v, expected %v", d.ScaleQuality(), tc.quality)
			}
			if w, h := d.Window().MinimumSize(); w != tc.minW || h != tc.minH {
				t.Errorf("MinimumSize() = %dx%d, expected %dx%d", w, h, tc.minW, tc.minH)
			}
		})
	}
}

func TestUpdateUploadsFramebuffer(t *testing.T) {
	m, d := newManager(t, headless.Options{Capabilities: desktopCaps()}, &fakeSettings{w: 640, h: 480})
	if err := m.Create("test", 100, 0); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	m.Framebuffer().SetPixel(3, 2, core.ColorRed)
	m.Update()
	m.Present()

	copies := d.Renderer().Copies()
	if len(copies) != 1 || copies[0].Dst != nil {
		t.Fatalf("copies = %+v, expected one full-target copy", copies)
	}
	pix := copies[0].Texture.Pixels()
	if pix[2*640+3] != core.ColorRed {
		t.Error("uploaded texture should contain the framebuffer pixels")
	}
	if d.Stats().Presents != 1 {
		t.Errorf("Presents = %d, expected 1", d.Stats().Presents)
	}
}

func TestUpdateRebuildsMismatchedTexture(t *testing.T) {
	m, d := newManager(t, headless.Options{Capabilities: desktopCaps()}, &fakeSettings{w: 640, h: 480})
	if err := m.Create("test", 100, 0); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	created := d.Stats().TexturesCreated
	uploads := d.Stats().Uploads

	// The logical resolution moves on while the texture keeps the old size.
	m.setResolution(800, 600)
	m.Update()

	stats := d.Stats()
	if stats.TexturesCreated != created+1 || stats.LiveTextures() != 1 {
		t.Errorf("textures created %d (live %d), expected one rebuild", stats.TexturesCreated-created, stats.LiveTextures())
	}
	copies := d.Renderer().Copies()
	if len(copies) != 1 {
		t.Fatalf("len(copies) = %d, expected 1", len(copies))
	}
	if w, h := copies[0].Texture.Size(); w != 800 || h != 600 {
		t.Errorf("texture size = %dx%d, expected 800x600", w, h)
	}
	if m.Framebuffer().Pitch() != 800*4 || stats.Uploads != uploads+1 {
		t.Errorf("pitch %d, uploads %d: expected one upload at pitch 3200", m.Framebuffer().Pitch(), stats.Uploads-uploads)
	}

	m.Update()
	if d.Stats().TexturesCreated != created+1 {
		t.Error("a matching texture must not be rebuilt again")
	}
}

func TestSoftwareCursor(t *testing.T) {
	caps := platform.Capabilities{SoftwareCursor: true, InteractiveScaling: true}
	m, d := newManager(t, headless.Options{Capabilities: caps}, &fakeSettings{w: 640, h: 480})
	if err := m.Create("test", 200, 0); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	m.InitCursors(100)
	pointer := &fakePointer{x: 100, y: 50}
	m.SetPointer(pointer)

	m.Update()
	copies := d.Renderer().Copies()
	if len(copies) != 2 {
		t.Fatalf("len(copies) = %d, expected frame and cursor", len(copies))
	}
	cur := copies[1]
	if !cur.Texture.Blend() {
		t.Error("cursor texture should blend")
	}
	if cur.Dst == nil || *cur.Dst != core.NewRect(100, 50, 16, 16) {
		t.Errorf("cursor dst = %+v, expected 16x16 at (100, 50)", cur.Dst)
	}

	pointer.touch = true
	m.Update()
	if len(d.Renderer().Copies()) != 1 {
		t.Error("cursor must not be drawn for touch input")
	}
}

func TestCursorTextureFailureDegrades(t *testing.T) {
	caps := platform.Capabilities{SoftwareCursor: true, InteractiveScaling: true}
	m, d := newManager(t, headless.Options{Capabilities: caps}, &fakeSettings{w: 640, h: 480})
	if err := m.Create("test", 100, 0); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	d.FailNextTextures(1)
	m.InitCursors(100)
	m.SetPointer(&fakePointer{x: 1, y: 1})

	m.Update()
	if len(d.Renderer().Copies()) != 1 {
		t.Error("a shape without texture should simply not be drawn")
	}
}

func TestRecoverLostTexture(t *testing.T) {
	caps := platform.Capabilities{InteractiveScaling: true, RecoverLostTexture: true}
	settings := &fakeSettings{fullscreen: true, w: 800, h: 600}
	m, d := newManager(t, headless.Options{Capabilities: caps}, settings)
	if err := m.Create("test", 100, 0); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	m.LoseTexture()
	m.RecoverTexture()

	if d.Stats().LiveTextures() != 1 {
		t.Errorf("LiveTextures() = %d, expected the texture to be recreated", d.Stats().LiveTextures())
	}
	if w, h := m.Size(); w != 1920 || h != 1080 {
		t.Errorf("logical size = %dx%d, expected 1920x1080", w, h)
	}
}

func TestWarpPointerClamps(t *testing.T) {
	m, d := newManager(t, headless.Options{Capabilities: desktopCaps()}, &fakeSettings{w: 640, h: 480})
	if err := m.Create("test", 200, 0); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	x, y := m.WarpPointer(5000, -3)
	if x != 639 || y != 0 {
		t.Errorf("WarpPointer() = (%d, %d), expected (639, 0)", x, y)
	}
	if px, py := d.Window().LastWarp(); px != 1278 || py != 0 {
		t.Errorf("physical warp = (%d, %d), expected (1278, 0)", px, py)
	}
}

func TestResolutionCallback(t *testing.T) {
	m, _ := newManager(t, headless.Options{Capabilities: desktopCaps()}, &fakeSettings{w: 640, h: 480})
	var gotW, gotH int
	m.OnResolution(func(w, h int) { gotW, gotH = w, h })

	if err := m.Create("test", 100, 0); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if gotW != 640 || gotH != 480 {
		t.Errorf("callback got %dx%d, expected 640x480", gotW, gotH)
	}
}
