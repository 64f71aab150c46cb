package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/folio/internal/application/port"
	"github.com/bnema/folio/internal/bootstrap"
	"github.com/bnema/folio/internal/domain/entity"
	"github.com/bnema/folio/internal/infrastructure/config"
	"github.com/bnema/folio/internal/infrastructure/jsdom"
	"github.com/bnema/folio/internal/logging"
)

const androidAgent = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Mobile Safari/537.36"

func testContext() context.Context {
	return logging.WithContext(context.Background(), logging.NewFromConfigValues("warn", "console"))
}

func memoryConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Storage.Driver = config.StorageMemory
	cfg.Storage.Path = ""
	return cfg
}

func androidRenderer(cfg *config.Config, engine bootstrap.Engine) *pageRenderer {
	return &pageRenderer{
		cfg:    cfg,
		engine: engine,
		env: port.StaticEnvironment{
			Agent:    androidAgent,
			Geometry: entity.Viewport{InnerWidth: 412, InnerHeight: 800, ScreenHeight: 915},
			Touch:    true,
		},
	}
}

func TestPageRenderer_HTMLEngine(t *testing.T) {
	r := androidRenderer(memoryConfig(), bootstrap.EngineHTML)

	var buf bytes.Buffer
	require.NoError(t, r.render(testContext(), &buf))

	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "width-container")
	assert.Contains(t, out, "android-device")
	assert.Contains(t, out, "settingsPanel")
}

func TestPageRenderer_ScriptEngineWritesSnapshot(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "contrast.js")
	require.NoError(t, os.WriteFile(script, []byte(`document.body.classList.add("scripted"); "ok"`), 0o644))

	r := androidRenderer(memoryConfig(), bootstrap.EngineScript)
	r.scriptPath = script

	var buf bytes.Buffer
	require.NoError(t, r.render(testContext(), &buf))

	var snap jsdom.PageSnapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &snap))
	assert.True(t, slices.Contains(snap.Body.Classes, "width-container"))
	assert.True(t, slices.Contains(snap.Body.Classes, "android-device"))
	assert.True(t, slices.Contains(snap.Body.Classes, "scripted"))
}

func TestPageRenderer_RenderToKeepsOutputOnFailure(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(out, []byte("previous"), 0o644))

	r := androidRenderer(memoryConfig(), bootstrap.EngineHTML)
	r.htmlPath = filepath.Join(dir, "missing.html")

	require.Error(t, r.renderTo(testContext(), out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))

	r.htmlPath = ""
	require.NoError(t, r.renderTo(testContext(), out))
	data, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "width-container")
}

func TestPageRenderer_WatchedFiles(t *testing.T) {
	cfg := memoryConfig()
	cfg.Page.HTML = "/srv/site/page.html"
	r := &pageRenderer{cfg: cfg, scriptPath: "tweak.js"}
	assert.Equal(t, []string{"/srv/site/page.html", "tweak.js"}, r.watchedFiles())

	sqliteCfg := memoryConfig()
	sqliteCfg.Storage.Driver = config.StorageSQLite
	sqliteCfg.Storage.Path = "/var/lib/folio/folio.sqlite"
	r.setConfig(sqliteCfg)
	r.htmlPath = "index.html"
	r.scriptPath = ""
	assert.Equal(t, []string{"index.html", "/var/lib/folio/folio.sqlite"}, r.watchedFiles())

	localCfg := memoryConfig()
	localCfg.Storage.Driver = config.StorageLocalStorage
	localCfg.Storage.Path = "/var/lib/folio/localstorage.json"
	r.setConfig(localCfg)
	assert.Equal(t, []string{"index.html"}, r.watchedFiles())
}

func TestNewPageRenderer_ScriptNeedsScriptEngine(t *testing.T) {
	saved := renderFlags
	t.Cleanup(func() { renderFlags = saved })

	renderFlags.engine = string(bootstrap.EngineHTML)
	renderFlags.script = "tweak.js"
	_, err := newPageRenderer(memoryConfig())
	require.Error(t, err)

	renderFlags.engine = string(bootstrap.EngineScript)
	renderFlags.height = 640
	renderFlags.screen = 0
	r, err := newPageRenderer(memoryConfig())
	require.NoError(t, err)
	assert.Equal(t, 640, r.env.Geometry.ScreenHeight)
}

func TestPageRenderer_ReplaysClientEvents(t *testing.T) {
	r := androidRenderer(memoryConfig(), bootstrap.EngineHTML)
	r.orientation = entity.OrientationLandscape
	r.visible = []string{"projects", "about"}

	var buf bytes.Buffer
	require.NoError(t, r.render(testContext(), &buf))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	body := doc.Find("body")
	assert.True(t, body.HasClass("landscape"))
	assert.False(t, body.HasClass("portrait"))

	assert.True(t, doc.Find("#projects").HasClass("visible"))
	assert.True(t, doc.Find("#about").HasClass("visible"))
	assert.False(t, doc.Find("#contact").HasClass("visible"))

	current, _ := doc.Find(`a[href="#projects"]`).Attr("style")
	assert.Contains(t, current, "opacity: 0.5")
	other, _ := doc.Find(`a[href="#about"]`).Attr("style")
	assert.Contains(t, other, "opacity: 1")
}

func TestPageRenderer_NoClientEventsLeavesOrientationAlone(t *testing.T) {
	r := androidRenderer(memoryConfig(), bootstrap.EngineHTML)

	var buf bytes.Buffer
	require.NoError(t, r.render(testContext(), &buf))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.False(t, doc.Find("body").HasClass("landscape"))
	assert.Equal(t, 0, doc.Find("section.visible").Length())
}

func TestNewPageRenderer_Orientation(t *testing.T) {
	saved := renderFlags
	t.Cleanup(func() { renderFlags = saved })

	renderFlags.engine = string(bootstrap.EngineHTML)
	renderFlags.script = ""
	renderFlags.orientation = "sideways"
	_, err := newPageRenderer(memoryConfig())
	require.Error(t, err)

	renderFlags.orientation = "Landscape"
	r, err := newPageRenderer(memoryConfig())
	require.NoError(t, err)
	assert.Equal(t, entity.OrientationLandscape, r.orientation)
}

func TestPageName(t *testing.T) {
	cfg := memoryConfig()
	assert.Equal(t, "embedded", pageName("", cfg))
	cfg.Page.HTML = "/srv/site/page.html"
	assert.Equal(t, "/srv/site/page.html", pageName("", cfg))
	assert.Equal(t, "index.html", pageName("index.html", cfg))
}
