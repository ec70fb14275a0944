package main

import (
	"fmt"
	"image"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/Garsondee/Scope-Sense/internal/game"
	"github.com/spf13/cobra"
)

type runStats struct {
	runIndex int
	seed     int64

	firstFire   time.Duration
	firstReload time.Duration
	firstReady  time.Duration

	stats      game.CycleStats
	cues       int
	frames     int
	maxShakeAt float64 // largest shake seen while idle
	final      game.Snapshot
}

var (
	runs       int
	duration   time.Duration
	step       time.Duration
	seedBase   int64
	seedStep   int64
	assetDir   string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "headless-report",
	Short: "Drive the scope without a window and report fire-cycle timing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if runs <= 0 {
			return fmt.Errorf("--runs must be > 0")
		}
		if step <= 0 || duration <= 0 {
			return fmt.Errorf("--step and --duration must be > 0")
		}
		cfg, err := game.LoadConfig(configPath)
		if err != nil {
			return err
		}
		layers := loadLayers(cfg)

		fmt.Printf("=== Headless Scope Report ===\n")
		fmt.Printf("runs=%d duration=%v step=%v seed_base=%d seed_step=%d\n\n", runs, duration, step, seedBase, seedStep)

		all := make([]runStats, 0, runs)
		for i := 0; i < runs; i++ {
			seed := seedBase + int64(i)*seedStep
			rs := runScenarioSweep(i+1, seed, cfg, layers)
			all = append(all, rs)
			printRun(rs, cfg)
		}
		printAggregate(all, cfg)
		return nil
	},
}

func init() {
	rootCmd.Flags().IntVar(&runs, "runs", 5, "number of headless runs")
	rootCmd.Flags().DurationVar(&duration, "duration", 20*time.Second, "scene time per run")
	rootCmd.Flags().DurationVar(&step, "step", time.Second/60, "frame length")
	rootCmd.Flags().Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	rootCmd.Flags().Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	rootCmd.Flags().StringVar(&assetDir, "assets", "", "optional asset directory; procedural layers are used otherwise")
	rootCmd.Flags().StringVar(&configPath, "config", "", "optional JSON tuning overrides")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// loadLayers returns the decoded layer images, from disk when --assets is
// set, otherwise generated ridges at increasing depth.
func loadLayers(cfg game.Config) map[int]image.Image {
	out := map[int]image.Image{}
	if assetDir != "" {
		assets := game.LoadAssets(os.DirFS(assetDir), cfg)
		assets.Wait()
		for i := range cfg.Layers {
			if img, ok := assets.LayerImage(i); ok {
				out[i] = img
			}
		}
		return out
	}
	for i := range cfg.Layers {
		horizon := 0.35 + 0.12*float64(i)
		out[i] = game.RidgeLayer(cfg.Width, cfg.Height, horizon, uint8(40+30*i))
	}
	return out
}

// runScenarioSweep sweeps the pointer in a slow figure-eight and holds the
// trigger every frame, so each shot fires as soon as the rifle is ready.
func runScenarioSweep(runIndex int, seed int64, cfg game.Config, layers map[int]image.Image) runStats {
	opts := []game.SimOption{
		game.WithConfig(cfg),
		game.WithSeed(seed),
		game.WithStep(step),
	}
	for i, img := range layers {
		opts = append(opts, game.WithLayerImage(i, img))
	}
	ts := game.NewTestSim(opts...)

	rs := runStats{runIndex: runIndex, seed: seed}
	w, h := float64(cfg.Width), float64(cfg.Height)
	for ts.Scene.Now() < duration {
		t := ts.Scene.Now().Seconds()
		ts.Scene.MovePointer(w/2+0.35*w*math.Sin(t*0.7), h/2+0.25*h*math.Sin(t*1.4))
		ts.Scene.Trigger()
		ts.Tick()
		if ts.Scene.State() == game.StateIdle && ts.Scene.Shake() > rs.maxShakeAt {
			rs.maxShakeAt = ts.Scene.Shake()
		}
	}

	rs.firstFire = firstAt(ts.Log, "state", "fire")
	rs.firstReload = firstAt(ts.Log, "state", "reload_start")
	rs.firstReady = firstAt(ts.Log, "state", "reload_done")
	rs.stats = ts.Scene.Stats()
	rs.cues = len(ts.Cues.Played)
	rs.frames = ts.Scene.Frames()
	rs.final = ts.Scene.Snapshot()
	return rs
}

func firstAt(el *game.EventLog, category, key string) time.Duration {
	entries := el.Filter(category, key)
	if len(entries) == 0 {
		return -1
	}
	return entries[0].At
}

// detectAnomalies flags measured phase lengths that drift from the
// configured ones by more than a frame, excessive placement fallbacks, and
// shake left over once the rifle is ready.
func detectAnomalies(rs runStats, cfg game.Config, frame time.Duration) []string {
	var out []string
	check := func(name string, got, want time.Duration) {
		if got == 0 {
			return
		}
		if d := got - want; d > frame || d < -frame {
			out = append(out, fmt.Sprintf("%s_drift(%v vs %v)", name, got, want))
		}
	}
	check("recoil", rs.stats.MeanRecoil(), cfg.RecoilDuration())
	check("chamber", rs.stats.MeanChamber(), cfg.ReloadDelay())
	check("cycle", rs.stats.MeanCycle(), cfg.ReloadDuration())
	if rs.stats.Placements > 0 && rs.stats.PlacementFallbacks*2 > rs.stats.Placements {
		out = append(out, fmt.Sprintf("placement_fallbacks(%d/%d)", rs.stats.PlacementFallbacks, rs.stats.Placements))
	}
	if rs.maxShakeAt > 0 {
		out = append(out, fmt.Sprintf("residual_shake(%.2f)", rs.maxShakeAt))
	}
	return out
}

func printRun(rs runStats, cfg game.Config) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("phase_markers: first_fire=%s first_reload=%s first_ready=%s\n",
		msString(rs.firstFire), msString(rs.firstReload), msString(rs.firstReady))
	fmt.Printf("cycle_stats: %s\n", rs.stats)
	fmt.Printf("frames=%d cues_played=%d\n", rs.frames, rs.cues)
	anomalies := detectAnomalies(rs, cfg, step)
	if len(anomalies) == 0 {
		fmt.Println("anomalies: none")
	} else {
		fmt.Printf("anomalies: %s\n", strings.Join(anomalies, ","))
	}
	fmt.Print(rs.final)
	fmt.Println()
}

func printAggregate(all []runStats, cfg game.Config) {
	totalShots := 0
	totalReloads := 0
	totalIgnored := 0
	totalFallbacks := 0
	totalPlacements := 0
	flagged := 0
	for _, rs := range all {
		totalShots += rs.stats.Shots
		totalReloads += rs.stats.Reloads
		totalIgnored += rs.stats.IgnoredTriggers
		totalFallbacks += rs.stats.PlacementFallbacks
		totalPlacements += rs.stats.Placements
		if len(detectAnomalies(rs, cfg, step)) > 0 {
			flagged++
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d flagged=%d\n", len(all), flagged)
	fmt.Printf("avg_per_run: shots=%.1f reloads=%.1f ignored_triggers=%.1f\n",
		avg(totalShots, len(all)), avg(totalReloads, len(all)), avg(totalIgnored, len(all)))
	fmt.Printf("placement: total=%d fallbacks=%d\n", totalPlacements, totalFallbacks)
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func msString(d time.Duration) string {
	if d < 0 {
		return "n/a"
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}
