//go:build android

package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ThatOtherAndrew/Horologe/internal/draw"
	"github.com/ThatOtherAndrew/Horologe/internal/logger"
	"github.com/ThatOtherAndrew/Horologe/internal/mobilegl"
	"github.com/ThatOtherAndrew/Horologe/internal/texture"
	"golang.org/x/mobile/app"
	"golang.org/x/mobile/asset"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
	"golang.org/x/mobile/event/touch"
	"golang.org/x/mobile/gl"
)

// Both can be changed at link time, e.g.
// -ldflags "-X main.faceName=inferno -X main.displayShape=square".
var (
	faceName     = "sundial"
	displayShape = "round"
)

// tick is posted once a second by the clock goroutine.
type tick struct{}

func assets(name string) (io.ReadCloser, error) {
	return asset.Open(name)
}

func main() {
	logger.Set(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	face, err := draw.NewFace(faceName, draw.FaceOptions{
		Provider: texture.Builtin{Files: texture.FileProvider{Open: assets}},
	})
	if err != nil {
		logger.Get().Error("failed to create face", "error", err)
		os.Exit(1)
	}
	square, known := squareDisplay(displayShape)
	if !known {
		logger.Get().Warn("unknown display shape, using round", "shape", displayShape)
	}
	driver := draw.NewDriver(face, draw.WithSquare(square))

	app.Main(func(a app.App) {
		var glctx, ready gl.Context
		var sz size.Event
		ambient := false

		go func() {
			for range time.Tick(time.Second) {
				a.Send(tick{})
			}
		}()

		surface := func() {
			if glctx == nil || sz.WidthPx <= 0 || sz.HeightPx <= 0 {
				return
			}
			if err := driver.SurfaceReady(sz.WidthPx, sz.HeightPx); err != nil {
				panic(err)
			}
		}

		for e := range a.Events() {
			switch e := a.Filter(e).(type) {
			case lifecycle.Event:
				switch e.Crosses(lifecycle.StageVisible) {
				case lifecycle.CrossOn:
					ctx, ok := e.DrawContext.(gl.Context)
					if !ok {
						continue
					}
					glctx = ctx
					if glctx != ready {
						if err := driver.ContextReady(mobilegl.New(glctx)); err != nil {
							panic(err)
						}
						ready = glctx
					}
					surface()
					driver.SetVisible(true)
					a.Send(paint.Event{})
				case lifecycle.CrossOff:
					driver.SetVisible(false)
					glctx = nil
				}
				// Losing focus is the closest a phone gets to a watch dimming.
				switch e.Crosses(lifecycle.StageFocused) {
				case lifecycle.CrossOn:
					driver.SetAmbient(ambient)
				case lifecycle.CrossOff:
					driver.SetAmbient(true)
				}
				if e.To == lifecycle.StageDead {
					return
				}

			case size.Event:
				sz = e
				surface()
				a.Send(paint.Event{})

			case touch.Event:
				if e.Type == touch.TypeBegin {
					ambient = !ambient
					driver.SetAmbient(ambient)
					a.Send(paint.Event{})
				}

			case tick:
				driver.Tick()
				if driver.NeedsFrame() {
					a.Send(paint.Event{})
				}

			case paint.Event:
				if glctx == nil || e.External || !driver.NeedsFrame() {
					continue
				}
				driver.Draw()
				a.Publish()
				if driver.NeedsFrame() {
					a.Send(paint.Event{})
				}
			}
		}
	})
}
