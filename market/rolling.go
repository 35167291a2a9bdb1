package market

import (
	"errors"
	"math"
)

// ErrInsufficientHistory 表示滚动窗口观测数不足，暖机期内属预期情况。
var ErrInsufficientHistory = errors.New("insufficient history")

// RollingWindow 保存单个 instrument 最近 N 个中间价观测（FIFO 淘汰）。
// 这是引擎唯一跨 tick 的状态，随 traderData 序列化往返。
type RollingWindow struct {
	Values []float64 `json:"values"`
	Cap    int       `json:"cap"`
}

func NewRollingWindow(capacity int) *RollingWindow {
	if capacity <= 0 {
		capacity = 5
	}
	return &RollingWindow{
		Values: make([]float64, 0, capacity),
		Cap:    capacity,
	}
}

// Observe 追加一个观测，超出容量时淘汰最老的一个。
func (w *RollingWindow) Observe(v float64) {
	w.Values = append(w.Values, v)
	if w.Cap > 0 && len(w.Values) > w.Cap {
		w.Values = w.Values[1:]
	}
}

func (w *RollingWindow) Len() int {
	return len(w.Values)
}

// Last returns up to the n most recent observations, oldest first.
func (w *RollingWindow) Last(n int) []float64 {
	if n <= 0 || len(w.Values) == 0 {
		return nil
	}
	if n > len(w.Values) {
		n = len(w.Values)
	}
	out := make([]float64, n)
	copy(out, w.Values[len(w.Values)-n:])
	return out
}

// Estimate 返回窗口内观测的均值与样本标准差（n-1）。
// 样本标准差至少需要 2 个观测，minObs 低于 2 时按 2 处理。
// 结果只依赖窗口当前内容。
func (w *RollingWindow) Estimate(minObs int) (mean, stdDev float64, err error) {
	if minObs < 2 {
		minObs = 2
	}
	n := len(w.Values)
	if n < minObs {
		return 0, 0, ErrInsufficientHistory
	}

	for _, v := range w.Values {
		mean += v
	}
	mean /= float64(n)

	var sumSq float64
	for _, v := range w.Values {
		d := v - mean
		sumSq += d * d
	}
	stdDev = math.Sqrt(sumSq / float64(n-1))
	return mean, stdDev, nil
}
