package components

// TransformComponent 槽位当前帧的视觉变换
// 由距视口中心的距离推导，每帧重算，不持久化
type TransformComponent struct {
	Scale      float64
	Opacity    float64
	RotateY    float64 // 绕Y轴旋转角（度）
	TranslateY float64 // 上抬量（像素，负值向上）

	DistanceInSlots float64 // 距视口中心的距离（以槽位为单位）
	Side            float64 // 槽位在中心左侧为 +1，否则为 -1
	Active          bool    // 是否为居中卡片
}
