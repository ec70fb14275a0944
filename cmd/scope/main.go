package main

import (
	"log"
	"os"

	"github.com/Garsondee/Scope-Sense/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
)

var (
	assetDir   string
	configPath string
	scale      float64
	seed       int64
)

var rootCmd = &cobra.Command{
	Use:   "scope",
	Short: "Interactive sniper scope overlay",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := game.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if scale <= 0 {
			scale = 1
		}
		ebiten.SetWindowTitle("Scope Sense")
		ebiten.SetWindowSize(int(float64(cfg.Width)*scale), int(float64(cfg.Height)*scale))
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
		return ebiten.RunGame(game.New(game.Options{
			Assets: os.DirFS(assetDir),
			Config: cfg,
			Seed:   seed,
		}))
	},
}

func init() {
	rootCmd.Flags().StringVar(&assetDir, "assets", "public", "directory holding layer, scope and sfx files")
	rootCmd.Flags().StringVar(&configPath, "config", "", "optional JSON tuning overrides")
	rootCmd.Flags().Float64Var(&scale, "scale", 1, "window scale relative to the 800x600 surface")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed (0 = time based)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
