package components

// GeometryComponent 槽位几何（轨道坐标系，像素）
// 每次布局都会重新计算，不会重建实体
type GeometryComponent struct {
	X      float64 // 距轨道起点的左边缘位置
	Y      float64 // 距视口顶部的上边缘位置
	Width  float64
	Height float64
}

// CenterX 返回槽位中心的轨道坐标
func (g *GeometryComponent) CenterX() float64 {
	return g.X + g.Width/2
}

// CenterY 返回槽位中心的纵坐标
func (g *GeometryComponent) CenterY() float64 {
	return g.Y + g.Height/2
}
