package monitor

import "time"

// RateWindow 滑动窗口内的按键时间戳。
// 不变式：保留的时间戳都满足 now - t <= window，每次 Observe 时裁剪旧条目。
type RateWindow struct {
	window    time.Duration
	threshold int
	stamps    []time.Time
}

func NewRateWindow(window time.Duration, threshold int) *RateWindow {
	return &RateWindow{window: window, threshold: threshold}
}

// Observe 记录一次按下，返回窗口内按键数以及是否超过阈值 (count > threshold)
func (w *RateWindow) Observe(now time.Time) (int, bool) {
	w.stamps = append(w.stamps, now)

	cut := 0
	for cut < len(w.stamps) && now.Sub(w.stamps[cut]) > w.window {
		cut++
	}
	if cut > 0 {
		w.stamps = append(w.stamps[:0], w.stamps[cut:]...)
	}

	n := len(w.stamps)
	return n, n > w.threshold
}

func (w *RateWindow) Len() int {
	return len(w.stamps)
}
