package game

import (
	"fmt"
	"image/color"
	"io/fs"
	"log"
	"math/rand"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Options configures a windowed Game.
type Options struct {
	Assets fs.FS
	Config Config
	Seed   int64
}

// Game is the ebiten host: it gates the scene on asset readiness, feeds it
// input once per refresh and composites each frame.
type Game struct {
	cfg    Config
	seed   int64
	assets *Assets
	audio  *audio.Context
	sounds *SoundBank
	input  InputSource
	scene  *Scene
	recent *RecentLog

	// Offscreen frame: shake is applied when it is blitted to the screen.
	frameBuf *ebiten.Image

	showHUD  bool
	paused   bool
	closing  bool
	prevKeys map[ebiten.Key]bool
}

// New starts loading assets and returns a Game that draws a loading screen
// until they are ready.
func New(opts Options) *Game {
	cfg := opts.Config
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Game{
		cfg:      cfg,
		seed:     seed,
		assets:   LoadAssets(opts.Assets, cfg),
		audio:    audio.NewContext(audioSampleRate),
		input:    newEbitenInput(cfg.Width, cfg.Height),
		recent:   NewRecentLog(),
		frameBuf: ebiten.NewImage(cfg.Width, cfg.Height),
		showHUD:  true,
		prevKeys: make(map[ebiten.Key]bool),
	}
}

// start builds the scene once the asset barrier is satisfied.
func (g *Game) start() {
	g.sounds = NewSoundBank(g.audio, g.assets.CuePCM())
	rng := rand.New(rand.NewSource(g.seed)) // #nosec G404 -- cosmetic only
	g.scene = NewScene(g.cfg, g.assets, g.sounds, rng)
	g.scene.AddSink(g.recent)
	done, total := g.assets.Progress()
	log.Printf("Assets ready (%d/%d), seed %d", done, total, g.seed)
}

// Close tears the game down at the next Update.
func (g *Game) Close() {
	g.closing = true
}

func (g *Game) Update() error {
	if g.closing {
		if g.scene != nil && !g.scene.Closed() {
			g.scene.Close()
		}
		if g.sounds != nil {
			g.sounds.Close()
		}
		return ebiten.Termination
	}
	if !g.assets.Ready() {
		return nil
	}
	if g.scene == nil {
		g.start()
	}

	g.handleKeys()
	if g.paused {
		return nil
	}
	if x, y, ok := g.input.Pointer(); ok {
		g.scene.MovePointer(x, y)
	}
	if g.input.Triggered() {
		g.scene.Trigger()
	}
	g.scene.Tick(time.Second / time.Duration(ebiten.TPS()))
	return nil
}

// handleKeys processes the edge-triggered debug keys.
func (g *Game) handleKeys() {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !g.prevKeys[k]
	}

	// H: toggle HUD.
	if pressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	// P: pause/resume the scene.
	if pressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	// C: copy a snapshot of the scene.
	if pressed(ebiten.KeyC) {
		if err := clipboard.WriteAll(g.scene.Snapshot().String()); err != nil {
			log.Printf("Clipboard copy failed: %v", err)
		}
	}
	// Escape: tear down.
	if pressed(ebiten.KeyEscape) {
		g.Close()
	}

	g.prevKeys = currentKeys
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	if g.scene == nil {
		done, total := g.assets.Progress()
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("loading %d/%d", done, total), 8, 8)
		return
	}

	g.frameBuf.Clear()
	g.drawFrame(g.frameBuf)

	shake := g.scene.ShakeOffset()
	var blit ebiten.DrawImageOptions
	blit.GeoM.Translate(shake.X, shake.Y)
	screen.DrawImage(g.frameBuf, &blit)

	if g.showHUD {
		g.drawHUD(screen)
	}
}

// drawHUD prints the state label, the control hint and recent events.
func (g *Game) drawHUD(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, hudLabel(g.scene, g.paused), 8, 8)
	ebitenutil.DebugPrintAt(screen, "Left click to fire  [H] HUD  [P] pause  [C] copy state", 8, g.cfg.Height-20)
	g.recent.Draw(screen, g.cfg.Width)
}

// hudLabel is the top-left state line.
func hudLabel(s *Scene, paused bool) string {
	label := "STATE: " + s.State().String()
	if s.Chambering() {
		label += " (chambering)"
	}
	label += fmt.Sprintf("  frame %d", s.Frames())
	if paused {
		label += " (paused)"
	}
	return label
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}
