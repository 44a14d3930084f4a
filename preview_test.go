package paintengine

import (
	"testing"

	"github.com/gogpu/paintengine/canvas"
	"github.com/gogpu/paintengine/message"
)

func stateWithLayer(id int, w, h int) *canvas.State {
	s := canvas.NewState(w, h)
	s.Root = canvas.NewLayerList([]*canvas.LayerEntry{
		{Content: &canvas.LayerContent{ID: id, Tiles: make([]*canvas.Tile, s.TilesX()*s.TilesY())}},
	})
	s.LayerProps = canvas.NewLayerPropsList([]*canvas.LayerProps{{ID: id, Opacity: canvas.Bit15}})
	return s
}

func TestNullPreviewRenderIsNoop(t *testing.T) {
	s := stateWithLayer(1, 64, 64)
	p := NewNullPreview()
	if got := p.Render(s, &DrawContext{}, 0, 0); got != s {
		t.Fatal("NewNullPreview().Render should return its input unchanged")
	}
	if !isNullPreview(p) {
		t.Fatal("isNullPreview should recognize the sentinel")
	}
}

func TestCutPreviewFillsRectWithFullAlphaWhenUnmasked(t *testing.T) {
	s := stateWithLayer(1, 128, 128)
	p := NewCutPreview(1, 10, 10, 20, 20, nil, 0, 0)

	next := p.Render(s, &DrawContext{}, 0, 0)
	content := next.FindContent(1)
	if content == nil {
		t.Fatal("expected layer 1 to still exist")
	}

	var sub *canvas.Sublayer
	for _, sl := range content.Sublayers {
		if sl.ID == PreviewSublayerID {
			sub = sl
		}
	}
	if sub == nil {
		t.Fatal("expected a preview sublayer to be installed")
	}
	if sub.Blend != canvas.BlendErase {
		t.Fatalf("cut preview sublayer blend = %v, want BlendErase", sub.Blend)
	}

	tile := sub.Content.TileAt(0, 0, next.TilesX())
	if tile == nil {
		t.Fatal("expected the cut rectangle's tile to be populated")
	}
	px := tile.Pixels[10*canvas.TileSize+10]
	if px.A != canvas.Bit15 {
		t.Fatalf("pixel inside the cut rect has alpha %d, want %d (fully opaque erase)", px.A, canvas.Bit15)
	}
	outside := tile.Pixels[0]
	if outside.A != 0 {
		t.Fatalf("pixel outside the cut rect has alpha %d, want 0", outside.A)
	}
}

func TestCutPreviewAppliesMaskAlpha(t *testing.T) {
	s := stateWithLayer(1, 128, 128)
	mask := make([]uint8, 4*4)
	mask[0] = 255 // (0,0) relative to the rect origin
	p := NewCutPreview(1, 5, 5, 4, 4, mask, 0, 0)

	next := p.Render(s, &DrawContext{}, 0, 0)
	content := next.FindContent(1)
	sub := content.Sublayers[0]
	tile := sub.Content.TileAt(0, 0, next.TilesX())
	stamped := tile.Pixels[5*canvas.TileSize+5]
	if stamped.A != canvas.Bit15 {
		t.Fatalf("masked pixel alpha = %d, want %d for a 255 mask byte", stamped.A, canvas.Bit15)
	}
	unstamped := tile.Pixels[6*canvas.TileSize+6]
	if unstamped.A != 0 {
		t.Fatalf("unmasked pixel alpha = %d, want 0", unstamped.A)
	}
}

func TestCutPreviewUnknownLayerClonesState(t *testing.T) {
	s := stateWithLayer(1, 64, 64)
	p := NewCutPreview(999, 0, 0, 10, 10, nil, 0, 0)
	next := p.Render(s, &DrawContext{}, 0, 0)
	if next == s {
		t.Fatal("expected a cloned state, not the same pointer, for an unknown layer id")
	}
	if next.Width != s.Width || next.Height != s.Height {
		t.Fatal("expected the clone to preserve dimensions")
	}
}

func TestDabsPreviewPaintsDirectlyWhenNotIndirect(t *testing.T) {
	s := stateWithLayer(1, 128, 128)
	msgs := []*message.Message{
		message.New(message.TypeDrawDabsPixel, 1, message.DrawDabsPixel{
			Layer: 1, X: 20, Y: 20, Fill: 0xffff0000,
			Dabs: []message.PixelDab{{X: 0, Y: 0, Size: 3}},
		}),
	}
	p := NewDabsPreview(1, msgs, 0, 0)
	next := p.Render(s, &DrawContext{}, 0, 0)
	content := next.FindContent(1)
	if len(content.Sublayers) != 0 {
		t.Fatal("a non-indirect dabs preview should paint the layer directly, not via a sublayer")
	}
	tile := content.TileAt(0, 0, next.TilesX())
	if tile == nil {
		t.Fatal("expected the target layer's tile to be painted")
	}
	px := tile.Pixels[20*canvas.TileSize+20]
	if px.A == 0 {
		t.Fatal("expected the dab's center pixel to be painted")
	}
}

func TestDabsPreviewIndirectUsesSublayer(t *testing.T) {
	s := stateWithLayer(1, 128, 128)
	msgs := []*message.Message{
		message.New(message.TypeDrawDabsPixel, 1, message.DrawDabsPixel{
			Layer: 1, X: 20, Y: 20, Fill: 0xffff0000, Indirect: true, Mode: int(canvas.BlendNormal),
			Dabs: []message.PixelDab{{X: 0, Y: 0, Size: 3}},
		}),
	}
	p := NewDabsPreview(1, msgs, 0, 0)
	next := p.Render(s, &DrawContext{}, 0, 0)
	content := next.FindContent(1)
	if len(content.Tiles) > 0 && content.TileAt(0, 0, next.TilesX()) != nil {
		t.Fatal("an indirect dabs preview must not paint the base content directly")
	}
	var sub *canvas.Sublayer
	for _, sl := range content.Sublayers {
		if sl.ID == PreviewSublayerID {
			sub = sl
		}
	}
	if sub == nil {
		t.Fatal("expected an indirect preview sublayer")
	}
	tile := sub.Content.TileAt(0, 0, next.TilesX())
	if tile == nil || tile.Pixels[20*canvas.TileSize+20].A == 0 {
		t.Fatal("expected the indirect sublayer's tile to carry the painted dab")
	}
}

func TestDabsPreviewOffsetShiftsOrigin(t *testing.T) {
	s := stateWithLayer(1, 128, 128)
	msgs := []*message.Message{
		message.New(message.TypeDrawDabsPixel, 1, message.DrawDabsPixel{
			Layer: 1, X: 20, Y: 20, Fill: 0xffff0000,
			Dabs: []message.PixelDab{{X: 0, Y: 0, Size: 2}},
		}),
	}
	p := NewDabsPreview(1, msgs, 0, 0)
	next := p.Render(s, &DrawContext{}, 10, 5)
	content := next.FindContent(1)
	tile := content.TileAt(0, 0, next.TilesX())
	shifted := tile.Pixels[25*canvas.TileSize+30]
	if shifted.A == 0 {
		t.Fatal("expected the dab to be painted at the delta-shifted origin (30,25)")
	}
}
