// Package gateway 实现与撮合器的边界协议：每 tick 一条 JSON 快照进，
// 一条 JSON 决策出。盘口数量必须为正，违反视为对方的契约错误。
package gateway

import (
	"fmt"

	json "github.com/goccy/go-json"

	"tickmaker-go/engine"
	"tickmaker-go/market"
)

// Level 单个价位档。
type Level struct {
	Price int `json:"price"`
	Qty   int `json:"qty"`
}

// BookMessage 双边盘口。Asks 的 Qty 表示该价位可买到的卖量（正数）。
type BookMessage struct {
	Bids []Level `json:"bids"`
	Asks []Level `json:"asks"`
}

// TickSnapshot 撮合器每 tick 下发的输入。
type TickSnapshot struct {
	Timestamp  int64                  `json:"timestamp"`
	Books      map[string]BookMessage `json:"books"`
	Positions  map[string]int         `json:"positions"`
	TraderData string                 `json:"traderData"`
}

// OrderMessage 回传给撮合器的单笔限价单，quantity 带符号。
type OrderMessage struct {
	Price    int `json:"price"`
	Quantity int `json:"quantity"`
}

// TickDecision 当期决策回包。
type TickDecision struct {
	Orders      map[string][]OrderMessage `json:"orders"`
	Conversions int                       `json:"conversions"`
	TraderData  string                    `json:"traderData"`
}

// DecodeSnapshot 解析并严格校验快照。负数量、重复档位
// 均按契约违规返回错误，不做静默修复。
func DecodeSnapshot(raw []byte) (*TickSnapshot, error) {
	var snap TickSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode tick snapshot: %w", err)
	}
	if snap.Timestamp < 0 {
		return nil, fmt.Errorf("tick snapshot: negative timestamp %d", snap.Timestamp)
	}
	for inst, book := range snap.Books {
		if err := validateSide(inst, "bids", book.Bids); err != nil {
			return nil, err
		}
		if err := validateSide(inst, "asks", book.Asks); err != nil {
			return nil, err
		}
	}
	return &snap, nil
}

func validateSide(instrument, side string, levels []Level) error {
	seen := make(map[int]bool, len(levels))
	for _, lv := range levels {
		if lv.Qty <= 0 {
			return fmt.Errorf("%s %s: non-positive qty %d at price %d", instrument, side, lv.Qty, lv.Price)
		}
		if seen[lv.Price] {
			return fmt.Errorf("%s %s: duplicate price level %d", instrument, side, lv.Price)
		}
		seen[lv.Price] = true
	}
	return nil
}

// ToTickInput 把线上快照转换为引擎输入。
func (t *TickSnapshot) ToTickInput() engine.TickInput {
	books := make(map[string]*market.OrderBook, len(t.Books))
	for inst, msg := range t.Books {
		ob := market.NewOrderBook()
		for _, lv := range msg.Bids {
			ob.Bids[lv.Price] = lv.Qty
		}
		for _, lv := range msg.Asks {
			ob.Asks[lv.Price] = lv.Qty
		}
		books[inst] = ob
	}
	return engine.TickInput{
		Timestamp:  t.Timestamp,
		Books:      books,
		Positions:  t.Positions,
		TraderData: []byte(t.TraderData),
	}
}

// EmptyDecision 构造一个不下单的回包：当期无法决策时仍要应答，
// 维持撮合器一问一答的节奏，状态原样带回。
func EmptyDecision(traderData []byte) ([]byte, error) {
	raw, err := json.Marshal(TickDecision{
		Orders:     map[string][]OrderMessage{},
		TraderData: string(traderData),
	})
	if err != nil {
		return nil, fmt.Errorf("encode empty decision: %w", err)
	}
	return raw, nil
}

// EncodeDecision 把引擎输出编码为回包。
func EncodeDecision(res engine.TickResult) ([]byte, error) {
	dec := TickDecision{
		Orders:      make(map[string][]OrderMessage, len(res.Orders)),
		Conversions: res.Conversions,
		TraderData:  string(res.TraderData),
	}
	for inst, orders := range res.Orders {
		msgs := make([]OrderMessage, 0, len(orders))
		for _, o := range orders {
			msgs = append(msgs, OrderMessage{Price: o.Price, Quantity: o.Quantity})
		}
		dec.Orders[inst] = msgs
	}
	raw, err := json.Marshal(dec)
	if err != nil {
		return nil, fmt.Errorf("encode tick decision: %w", err)
	}
	return raw, nil
}
