package systems

// DelayTimer 可取消的一次性延迟计时器
//
// 由游戏循环的 deltaTime 推进，不依赖系统定时器。
// Schedule 同时完成"取消旧任务 + 安排新任务"，同一时刻最多只有一个待执行任务。
type DelayTimer struct {
	remaining float64
	pending   bool
	fn        func()
}

// Schedule 取消已安排的任务，并在 delay 秒后执行 fn
func (t *DelayTimer) Schedule(delay float64, fn func()) {
	if delay < 0 {
		delay = 0
	}
	t.remaining = delay
	t.fn = fn
	t.pending = fn != nil
}

// Cancel 取消已安排的任务，重复调用无副作用
func (t *DelayTimer) Cancel() {
	t.pending = false
	t.fn = nil
	t.remaining = 0
}

// Pending 是否有待执行的任务
func (t *DelayTimer) Pending() bool {
	return t.pending
}

// Remaining 返回距离执行还剩的秒数
func (t *DelayTimer) Remaining() float64 {
	if !t.pending {
		return 0
	}
	return t.remaining
}

// Advance 推进计时器，到期时执行任务
// 任务执行前已清除待执行状态，任务内部可以重新 Schedule
func (t *DelayTimer) Advance(deltaTime float64) {
	if !t.pending {
		return
	}
	t.remaining -= deltaTime
	if t.remaining > 1e-9 {
		return
	}
	fn := t.fn
	t.pending = false
	t.fn = nil
	fn()
}

// FrameRequest 每帧最多一次的重算请求
//
// 同一帧内的多次 Request 合并为一次；Take 在回调开始时清除标志。
type FrameRequest struct {
	pending bool
}

// Request 请求下一帧重算，返回本次是否新建了请求
func (f *FrameRequest) Request() bool {
	if f.pending {
		return false
	}
	f.pending = true
	return true
}

// Pending 是否有待处理的请求
func (f *FrameRequest) Pending() bool {
	return f.pending
}

// Take 取出并清除请求
func (f *FrameRequest) Take() bool {
	if !f.pending {
		return false
	}
	f.pending = false
	return true
}
