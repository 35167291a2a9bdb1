// Package state 定义跨 tick 往返的持久化状态及其序列化边界。
// 引擎本身无其他跨 tick 状态；撮合器按字节原样回传上一期的输出。
package state

import (
	"fmt"

	json "github.com/goccy/go-json"

	"tickmaker-go/market"
)

// Snapshot 按 instrument 保存滚动窗口。显式类型化，
// 不使用无结构的动态容器。
type Snapshot struct {
	Mids    map[string]*market.RollingWindow `json:"mids"`
	Spreads map[string]*market.RollingWindow `json:"spreads"`
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		Mids:    make(map[string]*market.RollingWindow),
		Spreads: make(map[string]*market.RollingWindow),
	}
}

// MidWindow 返回指定 instrument 的中间价窗口，缺失时按容量新建。
func (s *Snapshot) MidWindow(instrument string, capacity int) *market.RollingWindow {
	if w, ok := s.Mids[instrument]; ok && w != nil {
		return w
	}
	w := market.NewRollingWindow(capacity)
	s.Mids[instrument] = w
	return w
}

// SpreadWindow 返回指定 instrument 的价差窗口，缺失时按容量新建。
func (s *Snapshot) SpreadWindow(instrument string, capacity int) *market.RollingWindow {
	if w, ok := s.Spreads[instrument]; ok && w != nil {
		return w
	}
	w := market.NewRollingWindow(capacity)
	s.Spreads[instrument] = w
	return w
}

// Decode 还原上一期状态；空输入返回全新快照（引擎启动首期）。
func Decode(raw []byte) (*Snapshot, error) {
	if len(raw) == 0 {
		return NewSnapshot(), nil
	}
	s := NewSnapshot()
	if err := json.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("decode trader state: %w", err)
	}
	if s.Mids == nil {
		s.Mids = make(map[string]*market.RollingWindow)
	}
	if s.Spreads == nil {
		s.Spreads = make(map[string]*market.RollingWindow)
	}
	return s, nil
}

// Encode 序列化当期状态，交由撮合器透传到下一 tick。
func (s *Snapshot) Encode() ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode trader state: %w", err)
	}
	return raw, nil
}
