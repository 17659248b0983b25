package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/ThatOtherAndrew/Horologe/internal/clock"
	"github.com/ThatOtherAndrew/Horologe/internal/draw"
	"github.com/ThatOtherAndrew/Horologe/internal/models"
	"github.com/ThatOtherAndrew/Horologe/internal/snapshot"
	"github.com/spf13/cobra"
)

var (
	snapshotOut     string
	snapshotAt      string
	snapshotScale   float64
	snapshotElapsed time.Duration
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Render one frame to a PNG without a GPU",
	Run:   takeSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringVar(&faceName, "face", "", "clock face to render (see list)")
	snapshotCmd.Flags().BoolVar(&startAmbient, "ambient", false, "render the ambient variant")
	snapshotCmd.Flags().BoolVar(&squareShape, "square", false, "treat the display as square")
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "horologe.png", "output PNG file")
	snapshotCmd.Flags().StringVar(&snapshotAt, "at", "", "clock time as HH:MM:SS (default now in the configured timezone)")
	snapshotCmd.Flags().Float64Var(&snapshotScale, "scale", 1, "resize the rendered frame by this factor")
	snapshotCmd.Flags().DurationVar(&snapshotElapsed, "elapsed", 2*time.Second, "time since the entrance animation began")
	snapshotCmd.RegisterFlagCompletionFunc("face", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return draw.FaceNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

func parseClock(s string) (models.ClockTime, error) {
	if s == "" {
		sampler := clock.NewSampler(nil)
		if err := sampler.Refresh(settings.Timezone); err != nil {
			return models.ClockTime{}, err
		}
		return sampler.Sample(), nil
	}
	t, err := time.Parse(time.TimeOnly, s)
	if err != nil {
		return models.ClockTime{}, fmt.Errorf("invalid --at %q, want HH:MM:SS", s)
	}
	return models.FromTime(t), nil
}

func takeSnapshot(cmd *cobra.Command, args []string) {
	at, err := parseClock(snapshotAt)
	if err != nil {
		log.Fatal(err)
	}
	if snapshotScale <= 0 {
		log.Fatalf("Invalid --scale %v, must be positive", snapshotScale)
	}

	o := faceOptions()
	img, err := snapshot.Render(snapshot.Options{
		Face:     selectedFace(),
		Provider: o.Provider,
		Decal:    o.Decal,
		Sprite:   o.Sprite,
		Width:    settings.Width,
		Height:   settings.Height,
		Ambient:  startAmbient,
		Square:   squareShape || settings.Square(),
		Time:     at,
		Elapsed:  snapshotElapsed,
		Rand:     o.Rand,
	})
	if err != nil {
		log.Fatal("Failed to render snapshot: ", err)
	}

	if err := snapshot.WritePNG(snapshotOut, snapshot.Scale(img, snapshotScale)); err != nil {
		log.Fatal("Failed to save snapshot: ", err)
	}
	fmt.Println("Saved", snapshotOut)
}
