package tui

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/gonewx/timeline/pkg/components"
	"github.com/gonewx/timeline/pkg/ecs"
	"github.com/gonewx/timeline/pkg/systems"
)

const hintText = "drag / wheel / ←→ scroll   click / Enter open   q quit"

var (
	backgroundStyle = tcell.StyleDefault.Background(tcell.NewRGBColor(18, 20, 28)).Foreground(tcell.NewRGBColor(236, 236, 240))
	hintStyle       = backgroundStyle.Foreground(tcell.NewRGBColor(110, 112, 120))
	captionStyle    = backgroundStyle.Bold(true)
	detailStyle     = tcell.StyleDefault.Background(tcell.NewRGBColor(245, 243, 236)).Foreground(tcell.NewRGBColor(30, 32, 40))
	yearColor       = tcell.NewRGBColor(255, 196, 92)
)

// cardPalette 卡片底色，按逻辑序号循环使用
var cardPalette = [][3]int32{
	{70, 96, 150},
	{150, 82, 70},
	{72, 130, 96},
	{140, 110, 60},
	{104, 80, 140},
	{60, 120, 136},
}

// cardColor 按透明度把卡片底色混合到背景上
func cardColor(logical int, opacity float64) tcell.Color {
	base := cardPalette[(logical-1+len(cardPalette))%len(cardPalette)]
	bg := [3]int32{18, 20, 28}
	mix := func(i int) int32 {
		return int32(math.Round(float64(bg[i]) + (float64(base[i])-float64(bg[i]))*opacity))
	}
	return tcell.NewRGBColor(mix(0), mix(1), mix(2))
}

// Draw 绘制一帧
func (a *App) Draw() {
	a.screen.Fill(' ', backgroundStyle)
	if a.detail != nil {
		a.drawDetail()
	} else {
		a.drawTimeline()
	}
	a.screen.Show()
}

// drawTimeline 按远到近的顺序把每个槽位的投影四边形填充到字符格
func (a *App) drawTimeline() {
	c := a.carousel
	if !c.Controller().Initialized() {
		return
	}

	offset := c.Offset()
	transforms := c.Transforms()
	em := c.EntityManager()

	for _, id := range transforms.DrawOrder() {
		quad, ok := transforms.ScreenQuad(id, offset)
		if !ok {
			continue
		}
		tr, ok := transforms.Transform(id)
		if !ok || tr.Opacity <= 0 {
			continue
		}
		slot, ok := ecs.GetComponent[*components.SlotComponent](em, id)
		if !ok {
			continue
		}
		a.fillQuad(quad, tcell.StyleDefault.Background(cardColor(slot.LogicalIndex, tr.Opacity)))
		a.drawCardLabel(id, quad, tr)
	}

	a.drawCenteredText(0, hintText, hintStyle)
	if id, ok := transforms.ActiveSlot(); ok {
		if card, ok := c.Track().Card(id); ok {
			caption := card.Title
			if card.Year != "" {
				caption = card.Year + "  " + card.Title
			}
			a.drawCenteredText(a.rows-1, caption, captionStyle)
		}
	}
}

// quadCells 返回四边形包围盒覆盖的字符格范围（已裁剪到屏幕）
func (a *App) quadCells(quad [4]systems.Point) (x0, y0, x1, y1 int) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range quad {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	x0 = max(0, int(math.Floor(minX/a.cellW)))
	y0 = max(0, int(math.Floor(minY/a.cellH)))
	x1 = min(a.cols-1, int(math.Ceil(maxX/a.cellW)))
	y1 = min(a.rows-1, int(math.Ceil(maxY/a.cellH)))
	return x0, y0, x1, y1
}

// fillQuad 填充格中心落在四边形内的字符格
func (a *App) fillQuad(quad [4]systems.Point, style tcell.Style) {
	x0, y0, x1, y1 := a.quadCells(quad)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			px, py := a.toPixels(x, y)
			if systems.PointInQuad(px, py, quad) {
				a.screen.SetContent(x, y, ' ', nil, style)
			}
		}
	}
}

// drawCardLabel 在卡片下部写年份和标题
func (a *App) drawCardLabel(id ecs.EntityID, quad [4]systems.Point, tr components.TransformComponent) {
	card, ok := a.carousel.Track().Card(id)
	if !ok {
		return
	}
	x0, y0, x1, y1 := a.quadCells(quad)
	width := x1 - x0 - 1
	if width <= 0 || y1-y0 < 3 {
		return
	}

	bg := cardColor(a.logicalIndex(id), tr.Opacity)
	style := tcell.StyleDefault.Background(bg).Foreground(tcell.NewRGBColor(236, 236, 240))
	if tr.Active {
		style = style.Bold(true)
	}
	row := y1 - 2
	a.drawText(x0+1, row-1, runewidth.Truncate(card.Year, width, "…"), style.Foreground(yearColor))
	a.drawText(x0+1, row, runewidth.Truncate(card.Title, width, "…"), style)
}

// logicalIndex 返回槽位的逻辑序号
func (a *App) logicalIndex(id ecs.EntityID) int {
	slot, ok := ecs.GetComponent[*components.SlotComponent](a.carousel.EntityManager(), id)
	if !ok {
		return 1
	}
	return slot.LogicalIndex
}

// drawDetail 详情覆盖层
func (a *App) drawDetail() {
	d := a.detail
	lines := []string{
		d.card.Year,
		d.card.Title,
		"",
		d.destination,
	}
	if d.shareURL != d.destination {
		lines = append(lines, d.shareURL)
	}
	lines = append(lines, "", "click / Esc / Enter to return")

	width := 0
	for _, line := range lines {
		width = max(width, runewidth.StringWidth(line))
	}
	width = min(width+4, a.cols)
	height := min(len(lines)+2, a.rows)
	left := (a.cols - width) / 2
	top := (a.rows - height) / 2

	for y := top; y < top+height; y++ {
		for x := left; x < left+width; x++ {
			a.screen.SetContent(x, y, ' ', nil, detailStyle)
		}
	}
	for i, line := range lines {
		style := detailStyle
		if i == 0 {
			style = style.Foreground(yearColor).Bold(true)
		}
		a.drawText(left+2, top+1+i, runewidth.Truncate(line, width-4, "…"), style)
	}
}

// drawCenteredText 在指定行居中写一行文字
func (a *App) drawCenteredText(row int, s string, style tcell.Style) {
	if row < 0 || row >= a.rows {
		return
	}
	s = runewidth.Truncate(s, a.cols, "…")
	a.drawText((a.cols-runewidth.StringWidth(s))/2, row, s, style)
}

// drawText 从 (x, y) 开始写文字，超出屏幕的部分丢弃
func (a *App) drawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		if x >= a.cols {
			return
		}
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x >= 0 {
			a.screen.SetContent(x, y, r, nil, style)
		}
		x += w
	}
}
