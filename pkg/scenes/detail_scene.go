package scenes

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/skip2/go-qrcode"

	"github.com/gonewx/timeline/pkg/cards"
	"github.com/gonewx/timeline/pkg/game"
	"github.com/gonewx/timeline/pkg/navigation"
	"github.com/gonewx/timeline/pkg/utils"
)

const (
	detailFadeSeconds = 0.3
	detailMargin      = 32
	shareCodeSize     = 192
)

var (
	detailBackgroundColor = color.RGBA{R: 245, G: 243, B: 236, A: 255}
	detailTextColor       = color.RGBA{R: 30, G: 32, B: 40, A: 255}
	detailHintColor       = color.RGBA{R: 110, G: 112, B: 120, A: 255}
)

// ShareCode 生成分享地址的二维码图片
func ShareCode(content string, size int) (image.Image, error) {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to encode share code for %q: %w", content, err)
	}
	return q.Image(size), nil
}

// DetailScene 卡片详情页
//
// 显示卡片图片、年份、标题、目标页面路径和分享二维码。
// 点击、Esc 或 Backspace 返回时间轴（时间轴会恢复离开时的滚动位置）。
type DetailScene struct {
	sceneManager *game.SceneManager
	card         cards.Card
	destination  string
	shareURL     string

	pointer *PointerTracker
	face    text.Face
	picture *ebiten.Image
	qr      *ebiten.Image
	elapsed float64
	leaving bool
	width   int
	height  int
}

// NewDetailScene 创建详情场景
func NewDetailScene(sm *game.SceneManager, destination string, card cards.Card, shareBaseURL string, input PointerInput) *DetailScene {
	s := &DetailScene{
		sceneManager: sm,
		card:         card,
		destination:  destination,
		shareURL:     navigation.ShareURL(shareBaseURL, destination),
		pointer:      NewPointerTracker(input, 0),
		face:         newCardRenderer().face,
	}

	if card.Image != nil {
		s.picture = ebiten.NewImageFromImage(card.Image)
	}
	if code, err := ShareCode(s.shareURL, shareCodeSize); err != nil {
		log.Printf("[DetailScene] Warning: %v", err)
	} else {
		s.qr = ebiten.NewImageFromImage(code)
	}
	return s
}

// Destination 返回目标页面路径
func (s *DetailScene) Destination() string {
	return s.destination
}

// ShareURL 返回分享地址
func (s *DetailScene) ShareURL() string {
	return s.shareURL
}

// Resize 实现 game.Resizable
func (s *DetailScene) Resize(width, height int) {
	s.width, s.height = width, height
}

// Update 处理返回操作
func (s *DetailScene) Update(deltaTime float64) {
	s.elapsed += deltaTime
	if s.leaving {
		return
	}

	input := s.pointer.Input()
	back := input.IsKeyJustPressed(ebiten.KeyEscape) || input.IsKeyJustPressed(ebiten.KeyBackspace)

	events, _ := s.pointer.Poll(s.width, s.height)
	for _, ev := range events {
		if ev.Kind == PointerReleased {
			back = true
		}
	}

	if back && s.sceneManager != nil {
		s.leaving = true
		s.sceneManager.ShowTimeline()
	}
}

// Draw 绘制详情页（淡入）
func (s *DetailScene) Draw(screen *ebiten.Image) {
	screen.Fill(detailBackgroundColor)
	alpha := float32(utils.EaseOutCubic(math.Min(s.elapsed/detailFadeSeconds, 1)))

	x := float64(detailMargin)
	if s.picture != nil {
		maxW := float64(s.width)/2 - 2*detailMargin
		maxH := float64(s.height) - 2*detailMargin
		pw, ph := float64(s.picture.Bounds().Dx()), float64(s.picture.Bounds().Dy())
		scale := math.Min(maxW/pw, maxH/ph)
		if scale > 0 {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(scale, scale)
			op.GeoM.Translate(detailMargin, detailMargin)
			op.ColorScale.ScaleAlpha(alpha)
			op.Filter = ebiten.FilterLinear
			screen.DrawImage(s.picture, op)
			x = pw*scale + 2*detailMargin
		}
	}

	y := float64(detailMargin)
	maxChars := int((float64(s.width) - x - detailMargin) / basicFontGlyphWidth)
	hint := "Click, Esc or Backspace to return"
	if utils.IsMobile() {
		hint = "Tap to return"
	}
	lines := []struct {
		text  string
		color color.Color
	}{
		{s.card.Year, yearTextColor},
		{s.card.Title, detailTextColor},
		{"", nil},
		{s.destination, detailHintColor},
		{hint, detailHintColor},
	}
	for _, line := range lines {
		if line.text != "" {
			op := &text.DrawOptions{}
			op.GeoM.Translate(x, y)
			op.ColorScale.ScaleWithColor(line.color)
			op.ColorScale.ScaleAlpha(alpha)
			text.Draw(screen, fitLabel(line.text, maxChars), s.face, op)
		}
		y += 2 * labelLineHeight
	}

	if s.qr != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(x, y)
		op.ColorScale.ScaleAlpha(alpha)
		screen.DrawImage(s.qr, op)
	}
}
