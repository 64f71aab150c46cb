package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	portmocks "github.com/bnema/folio/internal/application/port/mocks"
	"github.com/bnema/folio/internal/application/usecase"
	"github.com/bnema/folio/internal/domain/entity"
	"github.com/bnema/folio/internal/ui/mainloop"
)

const (
	androidChromeUA = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Mobile Safari/537.36"
	desktopUA       = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"
)

type viewportFixture struct {
	page    *fakePage
	env     *portmocks.MockEnvironment
	clock   *mainloop.ManualClock
	loop    *mainloop.Loop
	panel   *usecase.SettingsPanelUseCase
	watcher *usecase.ViewportWatcher
}

func newViewportFixture(t *testing.T, ua string, touch bool) viewportFixture {
	t.Helper()
	page := newPortfolioPage()
	env := portmocks.NewMockEnvironment(t)
	env.EXPECT().UserAgent().Return(ua).Maybe()
	env.EXPECT().TouchCapable().Return(touch).Maybe()

	clock := mainloop.NewManualClock(time.Unix(0, 0))
	loop := mainloop.NewLoop()
	scheduler := mainloop.NewScheduler(clock, func(fn func()) { loop.Post(fn) })
	panel := usecase.NewSettingsPanelUseCase(usecase.BindControls(testContext(), page, usecase.DefaultElementIDs()))

	return viewportFixture{
		page:    page,
		env:     env,
		clock:   clock,
		loop:    loop,
		panel:   panel,
		watcher: usecase.NewViewportWatcher(page, env, scheduler, panel, usecase.DefaultViewportOptions()),
	}
}

func TestViewportWatcher_SetupAndroid(t *testing.T) {
	ctx := testContext()
	f := newViewportFixture(t, androidChromeUA, true)
	f.env.EXPECT().Viewport().Return(entity.Viewport{InnerWidth: 412, InnerHeight: 800, ScreenHeight: 915})

	prefs := entity.DefaultPreferences()
	prefs.EnableAnimations = false
	device := f.watcher.Setup(ctx, prefs)

	assert.Equal(t, entity.DeviceProfile{Mobile: true, Android: true, Chrome: true}, device)
	body := f.page.body
	assert.True(t, body.HasClass("android-device"))
	assert.True(t, body.HasClass("android-chrome"))
	assert.True(t, body.HasClass("reduced-motion"))
	assert.Equal(t, "manipulation", body.Style("touch-action"))
	assert.Equal(t, "contain", body.Style("overscroll-behavior"))
	assert.Equal(t, "8px", f.page.root.Style("--vh"))
}

func TestViewportWatcher_SetupDesktop(t *testing.T) {
	ctx := testContext()
	f := newViewportFixture(t, desktopUA, false)
	f.env.EXPECT().Viewport().Return(entity.Viewport{InnerWidth: 1440, InnerHeight: 900, ScreenHeight: 900})

	device := f.watcher.Setup(ctx, entity.DefaultPreferences())

	assert.False(t, device.Mobile)
	assert.Empty(t, f.page.body.Classes())
	assert.Empty(t, f.page.body.Style("touch-action"))
	assert.Equal(t, "9px", f.page.root.Style("--vh"))
}

func TestViewportWatcher_ResizeBurstIsDebounced(t *testing.T) {
	ctx := testContext()
	f := newViewportFixture(t, androidChromeUA, true)

	calls := 0
	f.env.EXPECT().Viewport().RunAndReturn(func() entity.Viewport {
		calls++
		return entity.Viewport{InnerWidth: 412, InnerHeight: 500, ScreenHeight: 915}
	})
	f.watcher.Setup(ctx, entity.DefaultPreferences())
	setupCalls := calls

	for i := 0; i < 10; i++ {
		f.watcher.HandleResize(ctx)
		f.clock.Advance(5 * time.Millisecond)
	}
	f.loop.RunPending()
	assert.False(t, f.page.body.HasClass("keyboard-visible"))

	f.clock.Advance(200 * time.Millisecond)
	f.loop.RunPending()
	assert.False(t, f.page.body.HasClass("keyboard-visible"), "still inside the quiet interval")

	f.clock.Advance(50 * time.Millisecond)
	require.Equal(t, 1, f.loop.RunPending(), "handler runs exactly once")
	assert.True(t, f.page.body.HasClass("keyboard-visible"))
	assert.Equal(t, "5px", f.page.root.Style("--vh"))
	// one read for --vh, one for the keyboard check
	assert.Equal(t, setupCalls+2, calls)
}

func TestViewportWatcher_KeyboardClassOnlyOnAndroid(t *testing.T) {
	ctx := testContext()
	f := newViewportFixture(t, desktopUA, false)
	f.env.EXPECT().Viewport().Return(entity.Viewport{InnerWidth: 1440, InnerHeight: 300, ScreenHeight: 900})

	f.watcher.Setup(ctx, entity.DefaultPreferences())
	f.watcher.ViewportChanged(ctx)

	assert.False(t, f.page.body.HasClass("keyboard-visible"))
}

func TestViewportWatcher_OrientationChangeIsDeferredAndClosesPanel(t *testing.T) {
	ctx := testContext()
	f := newViewportFixture(t, androidChromeUA, true)
	f.env.EXPECT().Viewport().Return(entity.Viewport{InnerWidth: 915, InnerHeight: 400, ScreenHeight: 412})
	f.watcher.Setup(ctx, entity.DefaultPreferences())
	f.panel.Open(ctx)

	f.watcher.HandleOrientationChange(ctx, 90)
	f.clock.Advance(99 * time.Millisecond)
	f.loop.RunPending()
	assert.True(t, f.panel.IsOpen())

	f.clock.Advance(time.Millisecond)
	f.loop.RunPending()
	assert.False(t, f.panel.IsOpen())
	assert.True(t, f.page.body.HasClass("landscape"))
	assert.False(t, f.page.body.HasClass("portrait"))
	assert.Equal(t, entity.OrientationLandscape, f.watcher.Orientation())

	f.watcher.OrientationChanged(ctx, 0)
	assert.True(t, f.page.body.HasClass("portrait"))
	assert.False(t, f.page.body.HasClass("landscape"))
}

func TestViewportWatcher_NoPageNoEnvironment(t *testing.T) {
	ctx := testContext()
	scheduler := mainloop.NewScheduler(mainloop.NewManualClock(time.Unix(0, 0)), func(fn func()) { fn() })
	w := usecase.NewViewportWatcher(nil, nil, scheduler, nil, usecase.ViewportOptions{})

	assert.NotPanics(t, func() {
		w.Setup(ctx, entity.DefaultPreferences())
		w.ViewportChanged(ctx)
		w.OrientationChanged(ctx, -90)
	})
}
