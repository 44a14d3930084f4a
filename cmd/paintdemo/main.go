// Command paintdemo drives a paintengine.Engine from the command line:
// "run" starts an engine and feeds it synthetic strokes for a fixed
// duration, "replay" does the same but logs a correlation id on the
// session's start line and on its closing summary line.
package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gogpu/paintengine"
	"github.com/gogpu/paintengine/message"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "paintdemo",
		Short: "Drives a paintengine.Engine for manual testing and demos",
	}

	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().Int("width", 1920, "canvas width in pixels")
	root.PersistentFlags().Int("height", 1080, "canvas height in pixels")
	root.PersistentFlags().Int("render-workers", 0, "render worker goroutines (0 = GOMAXPROCS)")
	root.PersistentFlags().Int("multidab-area", paintengine.MaxMultidabArea, "per-batch dab-area cap, for tuning experiments")

	viper.SetEnvPrefix("PAINTDEMO")
	viper.AutomaticEnv()
	_ = viper.BindPFlags(root.PersistentFlags())

	root.AddCommand(newRunCmd(), newReplayCmd())
	return root
}

func configureLogger() {
	level := slog.LevelInfo
	switch viper.GetString("log-level") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	paintengine.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func newRunCmd() *cobra.Command {
	var strokes int
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start an engine, feed it synthetic strokes, print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogger()
			return runDemo(viper.GetInt("width"), viper.GetInt("height"), viper.GetInt("render-workers"),
				viper.GetInt("multidab-area"), strokes, duration, uuid.Nil)
		},
	}
	cmd.Flags().IntVar(&strokes, "strokes", 200, "number of synthetic draw-dabs messages to feed")
	cmd.Flags().DurationVar(&duration, "duration", 2*time.Second, "how long to tick the engine afterward")
	return cmd
}

func newReplayCmd() *cobra.Command {
	var strokes int
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Like run, but stamps the session with a correlation id for log correlation",
		RunE: func(cmd *cobra.Command, args []string) error {
			configureLogger()
			runID := uuid.New()
			paintengine.Logger().Info("replay session starting", slog.String("run_id", runID.String()))
			return runDemo(viper.GetInt("width"), viper.GetInt("height"), viper.GetInt("render-workers"),
				viper.GetInt("multidab-area"), strokes, duration, runID)
		},
	}
	cmd.Flags().IntVar(&strokes, "strokes", 200, "number of synthetic draw-dabs messages to feed")
	cmd.Flags().DurationVar(&duration, "duration", 2*time.Second, "how long to tick the engine afterward")
	return cmd
}

func runDemo(width, height, renderWorkers, multidabArea, strokeCount int, tickFor time.Duration, runID uuid.UUID) error {
	engine := paintengine.NewEngine(width, height,
		paintengine.WithRenderWorkers(renderWorkers), paintengine.WithMultidabArea(multidabArea))
	defer engine.Close()

	rng := rand.New(rand.NewSource(42))
	const layerID = 1

	msgs := make([]*message.Message, 0, strokeCount)
	for i := 0; i < strokeCount; i++ {
		msgs = append(msgs, message.New(message.TypeDrawDabsClassic, 1, message.DrawDabsClassic{
			Layer: layerID,
			X:     int32(rng.Intn(width)),
			Y:     int32(rng.Intn(height)),
			Fill:  0xff000000 | uint32(rng.Intn(1<<24)),
			Dabs: []message.ClassicDab{
				{X: 0, Y: 0, Size: int32(256 * (4 + rng.Intn(20)))},
			},
		}))
	}

	engine.HandleInc(true, msgs, paintengine.IntakeCallbacks{})

	deadline := time.Now().Add(tickFor)
	tiles := 0
	for time.Now().Before(deadline) {
		engine.PrepareRender()
		engine.Tick(paintengine.EmitCallbacks{
			TileChanged: func(x, y int) { tiles++ },
		})
		time.Sleep(10 * time.Millisecond)
	}
	engine.RenderEverything()

	fields := []any{slog.Int("strokes", strokeCount), slog.Int("tile_events", tiles)}
	if runID != uuid.Nil {
		fields = append(fields, slog.String("run_id", runID.String()))
	}
	paintengine.Logger().Info("demo complete", fields...)
	return nil
}
