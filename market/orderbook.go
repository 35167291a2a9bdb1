package market

import "sort"

// OrderBook 维护简单的价格->数量映射，价格为整数档位。
// Bids/Asks 的数量均为正数；Asks 的数量表示该价位可买到的卖量。
type OrderBook struct {
	Bids map[int]int // price -> qty
	Asks map[int]int
}

func NewOrderBook() *OrderBook {
	return &OrderBook{
		Bids: make(map[int]int),
		Asks: make(map[int]int),
	}
}

// Clone 返回独立的工作副本。吃单阶段会消耗档位，
// 不能直接改写撮合器下发的原始盘口。
func (ob *OrderBook) Clone() *OrderBook {
	cp := &OrderBook{
		Bids: make(map[int]int, len(ob.Bids)),
		Asks: make(map[int]int, len(ob.Asks)),
	}
	for p, q := range ob.Bids {
		cp.Bids[p] = q
	}
	for p, q := range ob.Asks {
		cp.Asks[p] = q
	}
	return cp
}

// BidVolume 返回买盘总挂单量。
func (ob *OrderBook) BidVolume() int {
	total := 0
	for _, q := range ob.Bids {
		total += q
	}
	return total
}

// AskVolume 返回卖盘总挂单量。
func (ob *OrderBook) AskVolume() int {
	total := 0
	for _, q := range ob.Asks {
		total += q
	}
	return total
}

// SortedBids returns bid prices ordered best-first (descending).
func (ob *OrderBook) SortedBids() []int {
	prices := make([]int, 0, len(ob.Bids))
	for p := range ob.Bids {
		prices = append(prices, p)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(prices)))
	return prices
}

// SortedAsks returns ask prices ordered best-first (ascending).
func (ob *OrderBook) SortedAsks() []int {
	prices := make([]int, 0, len(ob.Asks))
	for p := range ob.Asks {
		prices = append(prices, p)
	}
	sort.Ints(prices)
	return prices
}
