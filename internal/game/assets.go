package game

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"log"
	"math"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	_ "golang.org/x/image/webp"
)

// Asset is one raster image. src is written by its loader goroutine before
// the barrier counter is bumped and read only after the barrier is satisfied.
type Asset struct {
	Name  string
	src   image.Image
	tex   *ebiten.Image
	err   error
	ready bool
}

// cueAsset is one sound cue decoded to PCM at audioSampleRate.
type cueAsset struct {
	cue   Cue
	name  string
	pcm   []byte
	ready bool
}

// Assets loads layer and scope images and the sound cues in the background.
// The scene must not start until Ready reports every load finished,
// successfully or not.
type Assets struct {
	layers []*Asset
	scope  *Asset
	cues   []*cueAsset

	total  int32
	loaded atomic.Int32
	wg     sync.WaitGroup
}

// LoadAssets starts decoding every image and cue named by cfg from fsys.
func LoadAssets(fsys fs.FS, cfg Config) *Assets {
	a := &Assets{
		layers: make([]*Asset, len(cfg.Layers)),
		scope:  &Asset{Name: cfg.ScopeSrc},
		cues: []*cueAsset{
			{cue: CueShot, name: cfg.ShotSrc},
			{cue: CueReload, name: cfg.ReloadSrc},
		},
	}
	for i, l := range cfg.Layers {
		a.layers[i] = &Asset{Name: l.Src}
	}
	all := append(append([]*Asset(nil), a.layers...), a.scope)
	a.total = int32(len(all) + len(a.cues))
	for _, as := range all {
		a.wg.Add(1)
		go a.load(fsys, as)
	}
	for _, ca := range a.cues {
		a.wg.Add(1)
		go a.loadCue(fsys, ca)
	}
	return a
}

func (a *Assets) loadCue(fsys fs.FS, ca *cueAsset) {
	defer a.wg.Done()
	defer a.loaded.Add(1)

	pcm, err := decodeCue(audioSampleRate, fsys, ca.name)
	if err != nil {
		log.Printf("Warning: could not load %s cue: %v", ca.cue, err)
		return
	}
	ca.pcm = pcm
	ca.ready = true
}

func (a *Assets) load(fsys fs.FS, as *Asset) {
	defer a.wg.Done()
	defer a.loaded.Add(1)

	img, err := decodeImage(fsys, as.Name)
	if err != nil {
		as.err = err
		log.Printf("Warning: could not load %s: %v", as.Name, err)
		if as == a.scope {
			as.src = proceduralScope(1600, 1200, 230)
			as.ready = true
		}
		return
	}
	as.src = img
	as.ready = true
}

func decodeImage(fsys fs.FS, name string) (image.Image, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}

// Ready reports whether every load has finished.
func (a *Assets) Ready() bool {
	return a.loaded.Load() == a.total
}

// Progress returns finished and total load counts.
func (a *Assets) Progress() (int, int) {
	return int(a.loaded.Load()), int(a.total)
}

// Wait blocks until every load has finished.
func (a *Assets) Wait() {
	a.wg.Wait()
}

// LayerImage returns the decoded layer i if it loaded.
func (a *Assets) LayerImage(i int) (image.Image, bool) {
	if !a.Ready() || i < 0 || i >= len(a.layers) || !a.layers[i].ready {
		return nil, false
	}
	return a.layers[i].src, true
}

// ScopeImage returns the decoded scope sprite (or its procedural stand-in).
func (a *Assets) ScopeImage() (image.Image, bool) {
	if !a.Ready() || !a.scope.ready {
		return nil, false
	}
	return a.scope.src, true
}

// CuePCM returns the decoded PCM of every cue that loaded.
func (a *Assets) CuePCM() map[Cue][]byte {
	out := make(map[Cue][]byte, len(a.cues))
	if !a.Ready() {
		return out
	}
	for _, ca := range a.cues {
		if ca.ready {
			out[ca.cue] = ca.pcm
		}
	}
	return out
}

// LayerTexture returns the GPU image for layer i, creating it on first use.
// Call from the game goroutine only.
func (a *Assets) LayerTexture(i int) (*ebiten.Image, bool) {
	if _, ok := a.LayerImage(i); !ok {
		return nil, false
	}
	return a.layers[i].texture(), true
}

// ScopeTexture returns the GPU image for the scope sprite.
func (a *Assets) ScopeTexture() (*ebiten.Image, bool) {
	if _, ok := a.ScopeImage(); !ok {
		return nil, false
	}
	return a.scope.texture(), true
}

func (as *Asset) texture() *ebiten.Image {
	if as.tex == nil {
		as.tex = ebiten.NewImageFromImage(as.src)
	}
	return as.tex
}

// proceduralScope draws a black mask with a clear round lens, a thin rim and a
// crosshair, centred in a w×h sprite.
func proceduralScope(w, h int, lens float64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	cx, cy := float64(w)/2, float64(h)/2
	black := color.NRGBA{A: 255}
	rim := color.NRGBA{R: 20, G: 20, B: 20, A: 255}
	hair := color.NRGBA{A: 220}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			d := math.Hypot(dx, dy)
			switch {
			case d > lens+6:
				img.SetNRGBA(x, y, black)
			case d > lens:
				img.SetNRGBA(x, y, rim)
			case math.Abs(dx) < 1 || math.Abs(dy) < 1:
				img.SetNRGBA(x, y, hair)
			case (math.Abs(dx) < 3 && d > lens*0.55) || (math.Abs(dy) < 3 && d > lens*0.55):
				// Thick posts toward the rim.
				img.SetNRGBA(x, y, hair)
			}
		}
	}
	return img
}

// StaticLayers is a LayerSource over in-memory images.
type StaticLayers map[int]image.Image

// LayerImage implements LayerSource.
func (sl StaticLayers) LayerImage(i int) (image.Image, bool) {
	img, ok := sl[i]
	return img, ok && img != nil
}
