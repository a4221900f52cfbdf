package scenes

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/gonewx/timeline/pkg/cards"
	"github.com/gonewx/timeline/pkg/components"
	"github.com/gonewx/timeline/pkg/systems"
)

// 卡片配色
var (
	cardBackgroundColor = color.RGBA{R: 38, G: 42, B: 54, A: 255}
	placeholderColor    = color.RGBA{R: 58, G: 64, B: 82, A: 255}
	labelBandColor      = color.RGBA{R: 12, G: 14, B: 20, A: 220}
	labelTextColor      = color.RGBA{R: 236, G: 236, B: 240, A: 255}
	yearTextColor       = color.RGBA{R: 255, G: 196, B: 92, A: 255}
	activeBorderColor   = color.RGBA{R: 255, G: 196, B: 92, A: 255}
)

const (
	activeBorderWidth    = 3
	labelLineHeight      = 15
	labelPadding         = 4
	basicFontGlyphWidth  = 7
	labelBandMaxFraction = 3 // 标签条最多占卡片高度的 1/3
)

// faceKey 卡片贴图缓存键
type faceKey struct {
	logical int
	width   int
	height  int
}

// cardRenderer 绘制卡片贴图，并按投影四边形把贴图画到屏幕上
//
// 贴图按 (逻辑序号, 尺寸) 缓存：同一张卡片的三个副本共用一张贴图，
// 尺寸变化（窗口缩放）时整体失效。
type cardRenderer struct {
	face    text.Face
	faces   map[faceKey]*ebiten.Image
	sources map[int]*ebiten.Image
	width   int
	height  int

	vertices [4]ebiten.Vertex
	indices  []uint16
}

func newCardRenderer() *cardRenderer {
	return &cardRenderer{
		face:    text.NewGoXFace(basicfont.Face7x13),
		faces:   make(map[faceKey]*ebiten.Image),
		sources: make(map[int]*ebiten.Image),
		indices: []uint16{0, 1, 2, 0, 2, 3},
	}
}

// faceFor 返回卡片贴图，尺寸变化时重建缓存
func (r *cardRenderer) faceFor(logical int, card cards.Card, width, height int) *ebiten.Image {
	if width <= 0 || height <= 0 {
		return nil
	}
	if width != r.width || height != r.height {
		for _, img := range r.faces {
			img.Deallocate()
		}
		r.faces = make(map[faceKey]*ebiten.Image)
		r.width, r.height = width, height
	}

	key := faceKey{logical: logical, width: width, height: height}
	if img, ok := r.faces[key]; ok {
		return img
	}
	img := r.renderFace(logical, card, width, height)
	r.faces[key] = img
	return img
}

// renderFace 绘制一张卡片：图片（cover 方式裁剪）+ 底部年份/标题标签
func (r *cardRenderer) renderFace(logical int, card cards.Card, width, height int) *ebiten.Image {
	img := ebiten.NewImage(width, height)

	bandHeight := min(2*labelLineHeight+2*labelPadding, height/labelBandMaxFraction)
	pictureHeight := height - bandHeight

	if card.Image != nil {
		img.Fill(cardBackgroundColor)
		drawCover(img, r.source(logical, card.Image), width, pictureHeight)
	} else {
		img.Fill(placeholderColor)
	}

	vector.DrawFilledRect(img, 0, float32(pictureHeight), float32(width), float32(bandHeight), labelBandColor, false)

	maxChars := (width - 2*labelPadding) / basicFontGlyphWidth
	r.drawLabel(img, fitLabel(card.Year, maxChars), labelPadding, pictureHeight+labelPadding, yearTextColor)
	if bandHeight >= 2*labelLineHeight {
		r.drawLabel(img, fitLabel(card.Title, maxChars), labelPadding, pictureHeight+labelPadding+labelLineHeight, labelTextColor)
	}
	return img
}

// source 返回卡片原图的 ebiten 图像（按逻辑序号缓存）
func (r *cardRenderer) source(logical int, picture image.Image) *ebiten.Image {
	if img, ok := r.sources[logical]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(picture)
	r.sources[logical] = img
	return img
}

func (r *cardRenderer) drawLabel(dst *ebiten.Image, label string, x, y int, clr color.Color) {
	if label == "" {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, label, r.face, op)
}

// drawSlot 把卡片贴图按投影四边形绘制到屏幕
// 顶点 alpha 即卡片透明度；居中卡片额外描边
func (r *cardRenderer) drawSlot(screen, face *ebiten.Image, quad [4]systems.Point, tr components.TransformComponent) {
	if face == nil {
		return
	}
	w, h := face.Bounds().Dx(), face.Bounds().Dy()
	src := [4][2]float32{{0, 0}, {float32(w), 0}, {float32(w), float32(h)}, {0, float32(h)}}
	alpha := float32(tr.Opacity)

	for i, p := range quad {
		r.vertices[i] = ebiten.Vertex{
			DstX:   float32(p.X),
			DstY:   float32(p.Y),
			SrcX:   src[i][0],
			SrcY:   src[i][1],
			ColorR: 1,
			ColorG: 1,
			ColorB: 1,
			ColorA: alpha,
		}
	}

	op := &ebiten.DrawTrianglesOptions{}
	op.AntiAlias = true
	op.Filter = ebiten.FilterLinear
	screen.DrawTriangles(r.vertices[:], r.indices, face, op)

	if tr.Active {
		border := activeBorderColor
		border.A = uint8(math.Round(255 * tr.Opacity))
		for i := range quad {
			a, b := quad[i], quad[(i+1)%4]
			vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), activeBorderWidth, border, true)
		}
	}
}

// drawCover 按 cover 方式把 src 缩放裁剪到 dst 左上角 width×height 区域
func drawCover(dst, src *ebiten.Image, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	sw, sh := src.Bounds().Dx(), src.Bounds().Dy()
	if sw == 0 || sh == 0 {
		return
	}
	scale := math.Max(float64(width)/float64(sw), float64(height)/float64(sh))

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate((float64(width)-float64(sw)*scale)/2, (float64(height)-float64(sh)*scale)/2)
	op.Filter = ebiten.FilterLinear

	area := dst.SubImage(image.Rect(0, 0, width, height)).(*ebiten.Image)
	area.DrawImage(src, op)
}

// labelReplacer 把位图字体没有的排版字符换成 ASCII
var labelReplacer = strings.NewReplacer("’", "'", "‘", "'", "–", "-", "—", "-", "“", "\"", "”", "\"")

// fitLabel 转换为 ASCII 并截断到 maxChars 个字符
func fitLabel(label string, maxChars int) string {
	label = labelReplacer.Replace(label)
	if maxChars <= 0 {
		return ""
	}
	runes := []rune(label)
	if len(runes) <= maxChars {
		return label
	}
	if maxChars <= 3 {
		return string(runes[:maxChars])
	}
	return string(runes[:maxChars-3]) + "..."
}
