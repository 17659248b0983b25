package cmd

import (
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/ThatOtherAndrew/Horologe/internal/draw"
	"github.com/ThatOtherAndrew/Horologe/internal/logger"
	"github.com/ThatOtherAndrew/Horologe/internal/opengl"
	"github.com/ThatOtherAndrew/Horologe/internal/texture"
	"github.com/ThatOtherAndrew/Horologe/pkg/window"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spf13/cobra"
)

var (
	faceName     string
	startAmbient bool
	squareShape  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open a window showing a clock face",
	Run:   Run,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runtime.LockOSThread()

	runCmd.Flags().StringVar(&faceName, "face", "", "clock face to show (see list)")
	runCmd.Flags().BoolVar(&startAmbient, "ambient", false, "start in ambient mode")
	runCmd.Flags().BoolVar(&squareShape, "square", false, "treat the display as square")
	runCmd.RegisterFlagCompletionFunc("face", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return draw.FaceNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

func selectedFace() string {
	if faceName != "" {
		return faceName
	}
	return settings.Face
}

// seeded returns a source derived from the configured seed, or nil when the
// seed is zero so callers pick a random one.
func seeded(stream uint64) *rand.Rand {
	if settings.Seed == 0 {
		return nil
	}
	return rand.New(rand.NewPCG(settings.Seed, stream))
}

func faceOptions() draw.FaceOptions {
	return draw.FaceOptions{
		Provider: texture.Builtin{Files: texture.FileProvider{}},
		Decal:    settings.Decal,
		Sprite:   settings.Sprite,
		Rand:     seeded(1),
	}
}

func Run(cmd *cobra.Command, args []string) {
	face, err := draw.NewFace(selectedFace(), faceOptions())
	if err != nil {
		log.Fatal("Failed to create face: ", err)
	}

	win, err := window.NewWindow("Horologe", settings.Width, settings.Height)
	if err != nil {
		log.Fatal("Failed to create window: ", err)
	}
	defer win.Destroy()

	opts := []draw.Option{
		draw.WithTimezone(settings.Timezone),
		draw.WithSquare(squareShape || settings.Square()),
	}
	if r := seeded(2); r != nil {
		opts = append(opts, draw.WithRand(r))
	}
	driver := draw.NewDriver(face, opts...)

	dev, err := opengl.InitGL()
	if err != nil {
		log.Fatal("Failed to initialize OpenGL: ", err)
	}
	if err := driver.ContextReady(dev); err != nil {
		log.Fatal("Failed to prepare face: ", err)
	}
	width, height := win.GetSize()
	if err := driver.SurfaceReady(width, height); err != nil {
		log.Fatal("Failed to prepare surface: ", err)
	}

	ambient := startAmbient
	driver.SetAmbient(ambient)
	driver.SetVisible(true)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)
	go func() {
		if _, ok := <-interrupt; ok {
			win.Close()
			win.Wake()
		}
	}()

	focused := true
	lastTick := time.Now()
	for !win.ShouldClose() {
		if driver.NeedsFrame() {
			win.PollEvents()
		} else {
			win.WaitEvents(time.Until(lastTick.Add(time.Second)))
		}

		if key, action, hasKey := win.GetLastKey(); hasKey {
			if action == glfw.Press {
				switch key {
				case glfw.KeyEscape, glfw.KeyQ:
					win.Close()
				case glfw.KeyA:
					ambient = !ambient
					driver.SetAmbient(ambient)
				}
			}
			win.ClearLastKey()
		}

		if f := win.Focused(); f != focused {
			focused = f
			// Unfocused windows idle in ambient; focus restores the chosen mode.
			driver.SetAmbient(ambient || !focused)
		}
		driver.SetVisible(!win.Iconified())

		if win.TakeResize() {
			if w, h := win.GetSize(); w > 0 && h > 0 {
				if err := driver.SurfaceReady(w, h); err != nil {
					log.Fatal("Failed to resize surface: ", err)
				}
			}
		}

		if time.Since(lastTick) >= time.Second {
			lastTick = time.Now()
			driver.Tick()
		}

		if driver.NeedsFrame() {
			driver.Draw()
			win.SwapBuffers()
		}
	}
	logger.Get().Info("window closed", "face", face.Name())
}
