// Command sare is the reference driver wiring the terminal core together:
// a PTY-hosted shell feeding an ANSI parser into a screen model, rendered
// through the CPU fallback path, with its single pane persisted on exit.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/blang/semver"
	"github.com/dustin/go-humanize"
	goerrors "github.com/go-errors/errors"
	isatty "github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"

	"github.com/sare/sare/internal/ansi"
	"github.com/sare/sare/internal/config"
	"github.com/sare/sare/internal/layout"
	"github.com/sare/sare/internal/pty"
	"github.com/sare/sare/internal/render"
	"github.com/sare/sare/internal/render/cpu"
	"github.com/sare/sare/internal/screen"
	"github.com/sare/sare/internal/sessionstore"
)

var (
	flagVersion   = flag.Bool("version", false, "Show the version number and exit")
	flagCols      = flag.Int("cols", 80, "Initial terminal width in columns")
	flagRows      = flag.Int("rows", 24, "Initial terminal height in rows")
	flagCommand   = flag.String("command", "", "Command to run instead of the user's shell")
	flagSessionID = flag.String("session", "", "Session id to persist the final screen text under on exit (default: a generated id)")
	flagConfigDir = flag.String("config-dir", "", "Override the settings config directory")
)

// version is the semantic version -version reports.
var version = semver.MustParse("0.1.0")

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Println("sare", version.String())
		return
	}

	if *flagConfigDir != "" {
		os.Setenv("SARE_CONFIG_HOME", *flagConfigDir)
	}
	settings := config.LoadSettings()

	watcher, err := config.WatchSettings(func(s *config.Settings) {
		log.Printf("sare: settings reloaded from disk (scrollback=%d)", s.Terminal.ScrollbackLines)
	})
	if err != nil {
		log.Printf("sare: config hot-reload disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) {
		log.Println("sare: stdin is not a tty, running non-interactively")
	}

	session, err := pty.Open(pty.Options{
		Size:    pty.Size{Cols: uint16(*flagCols), Rows: uint16(*flagRows)},
		Command: *flagCommand,
	})
	if err != nil {
		log.Fatalf("sare: open pty: %v", err)
	}
	defer session.Close()

	scr := screen.New(*flagCols, *flagRows, settings.Terminal.ScrollbackLines)
	scr.WriteResponse = func(b []byte) {
		if _, err := session.Write(b); err != nil {
			log.Printf("sare: write response: %v", err)
		}
	}

	paneID := layout.NewPaneID()
	tree := layout.NewLeaf(paneID)
	constraints := layout.LayoutConstraints{
		MinWidth:  settings.Layout.MinPaneWidth,
		MinHeight: settings.Layout.MinPaneHeight,
		Spacing:   settings.Layout.Spacing,
		MaxPerDim: 4,
	}
	_ = tree.Rect(0, 0, *flagCols, *flagRows, constraints)

	font := &cpu.BitmapFontSource{}
	rendererCfg := render.Config{
		UnicodeSupport:       settings.Renderer.UnicodeSupport,
		BidirectionalText:    settings.Renderer.BidirectionalText,
		LigatureSupport:      settings.Renderer.LigatureSupport,
		GPUAcceleration:      settings.Renderer.GPUAcceleration,
		TextureAtlasing:      settings.Renderer.TextureAtlasing,
		MemoryPooling:        settings.Renderer.MemoryPooling,
		MaxAtlasSize:         settings.Renderer.MaxAtlasSize,
		MaxMemoryUsage:       settings.Renderer.MaxMemoryUsage,
		LineWrappingWidth:    settings.Renderer.LineWrappingWidth,
		SubpixelAntialiasing: settings.Renderer.SubpixelAntialiasing,
	}
	log.Printf("sare: pane %s renderer memory budget %s (atlas %dx%d)",
		paneID, humanize.Bytes(uint64(rendererCfg.MaxMemoryUsage)), rendererCfg.MaxAtlasSize, rendererCfg.MaxAtlasSize)

	var renderer render.Renderer = cpu.New(font, rendererCfg, *flagCols, *flagRows)
	defer renderer.Close()

	cellW, cellH := font.Metrics()

	sigwinch := make(chan os.Signal, 1)
	signal.Notify(sigwinch, syscall.SIGWINCH)
	go watchResize(sigwinch, session, scr, renderer, cellW, cellH)

	parser := ansi.NewParser()
	buf := make([]byte, 4096)
	for {
		n, err := session.Read(buf)
		if n > 0 {
			parser.Parse(buf[:n], scr.Apply)
			cols, rows := scr.Size()
			if err := renderer.Present(render.Frame{Screen: scr, Cols: cols, Rows: rows}, false); err != nil {
				log.Printf("sare: present: %v", err)
			}
		}
		if err != nil {
			break
		}
	}

	sessionID := *flagSessionID
	if sessionID == "" {
		sessionID = layout.NewPaneID()
	}
	persistSession(sessionID, scr)
}

// watchResize applies SIGWINCH-driven terminal size changes to the screen
// and renderer. It runs as its own goroutine for the process's lifetime,
// so a panic here would otherwise take the whole program down silently;
// recover wraps it with a captured stack trace instead.
func watchResize(sigwinch chan os.Signal, session *pty.Session, scr *screen.Screen, renderer render.Renderer, cellW, cellH int) {
	defer func() {
		if r := recover(); r != nil {
			wrapped := goerrors.Wrap(r, 1)
			log.Printf("sare: resize watcher panicked: %v\n%s", wrapped.Error(), wrapped.ErrorStack())
		}
	}()
	for range sigwinch {
		ws, err := unix.IoctlGetWinsize(int(os.Stdin.Fd()), unix.TIOCGWINSZ)
		if err != nil {
			log.Printf("sare: read terminal size: %v", err)
			continue
		}
		size := pty.Size{Cols: ws.Col, Rows: ws.Row}
		if err := session.Resize(size); err != nil {
			log.Printf("sare: resize pty: %v", err)
		}
		scr.Resize(int(size.Cols), int(size.Rows))
		if err := renderer.Resize(int(size.Cols), int(size.Rows), cellW, cellH); err != nil {
			log.Printf("sare: resize renderer: %v", err)
		}
	}
}

// persistSession snapshots the pane's visible grid as plain text (one byte
// per cell, the low byte of its rune, and a newline per row) and saves it
// under id; scrollback, colors, cursor and the pane tree are not saved.
func persistSession(id string, scr *screen.Screen) {
	dir := config.GetConfigDir()
	store, err := sessionstore.Open(dir)
	if err != nil {
		log.Printf("sare: open session store: %v", err)
		return
	}
	defer store.Close()

	cols, rows := scr.Size()
	blob := make([]byte, 0, cols*rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			blob = append(blob, byte(scr.Cell(x, y).Rune))
		}
		blob = append(blob, '\n')
	}
	if err := store.Save(id, blob); err != nil {
		log.Printf("sare: save session: %v", err)
	}
}
