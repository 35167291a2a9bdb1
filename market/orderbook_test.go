package market

import "testing"

func TestBestPrices(t *testing.T) {
	ob := NewOrderBook()
	ob.Bids[98] = 5
	ob.Bids[99] = 3
	ob.Asks[101] = 4
	ob.Asks[103] = 2

	bid, ask, hasBid, hasAsk := ob.BestPrices()
	if !hasBid || !hasAsk {
		t.Fatalf("expected both sides present, got hasBid=%v hasAsk=%v", hasBid, hasAsk)
	}
	if bid != 99 {
		t.Errorf("expected best bid 99, got %d", bid)
	}
	if ask != 101 {
		t.Errorf("expected best ask 101, got %d", ask)
	}

	// Idempotence: reading an unmutated book twice must return the same view.
	bid2, ask2, _, _ := ob.BestPrices()
	if bid2 != bid || ask2 != ask {
		t.Errorf("second read differs: (%d,%d) vs (%d,%d)", bid2, ask2, bid, ask)
	}
}

func TestBestPricesEmptySides(t *testing.T) {
	ob := NewOrderBook()
	if _, _, hasBid, hasAsk := ob.BestPrices(); hasBid || hasAsk {
		t.Error("empty book should report both sides missing")
	}

	ob.Bids[50] = 1
	bid, _, hasBid, hasAsk := ob.BestPrices()
	if !hasBid || hasAsk {
		t.Fatalf("expected only bid side, got hasBid=%v hasAsk=%v", hasBid, hasAsk)
	}
	if bid != 50 {
		t.Errorf("expected bid 50, got %d", bid)
	}
}

func TestFarthestPrices(t *testing.T) {
	ob := NewOrderBook()
	ob.Bids[95] = 1
	ob.Bids[99] = 1
	ob.Asks[101] = 1
	ob.Asks[110] = 1

	farBid, farAsk, hasBid, hasAsk := ob.FarthestPrices()
	if !hasBid || !hasAsk {
		t.Fatal("expected both sides present")
	}
	if farBid != 95 || farAsk != 110 {
		t.Errorf("expected (95,110), got (%d,%d)", farBid, farAsk)
	}
}

func TestMidAndSpread(t *testing.T) {
	ob := NewOrderBook()
	ob.Bids[99] = 1
	ob.Asks[102] = 1

	mid, ok := ob.Mid()
	if !ok || mid != 100.5 {
		t.Errorf("expected mid 100.5, got %f ok=%v", mid, ok)
	}
	spread, ok := ob.Spread()
	if !ok || spread != 3 {
		t.Errorf("expected spread 3, got %d ok=%v", spread, ok)
	}

	empty := NewOrderBook()
	if _, ok := empty.Mid(); ok {
		t.Error("empty book should have no mid")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	ob := NewOrderBook()
	ob.Bids[99] = 5
	ob.Asks[101] = 7

	cp := ob.Clone()
	cp.Asks[101] -= 7
	delete(cp.Asks, 101)
	cp.Bids[99] = 1

	if ob.Asks[101] != 7 {
		t.Errorf("original ask mutated: %d", ob.Asks[101])
	}
	if ob.Bids[99] != 5 {
		t.Errorf("original bid mutated: %d", ob.Bids[99])
	}
}

func TestSortedSides(t *testing.T) {
	ob := NewOrderBook()
	ob.Bids[97] = 1
	ob.Bids[99] = 1
	ob.Bids[98] = 1
	ob.Asks[103] = 1
	ob.Asks[101] = 1

	bids := ob.SortedBids()
	if len(bids) != 3 || bids[0] != 99 || bids[2] != 97 {
		t.Errorf("expected bids best-first [99 98 97], got %v", bids)
	}
	asks := ob.SortedAsks()
	if len(asks) != 2 || asks[0] != 101 || asks[1] != 103 {
		t.Errorf("expected asks best-first [101 103], got %v", asks)
	}
}
