package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/salesreport/internal/domain/models"
	"github.com/guttosm/salesreport/internal/gateway"
)

var errDown = &gateway.UpstreamError{Source: "test", Path: "/", Status: 503, Err: errors.New("down")}

func up[T any](v T) gateway.Outcome[T] { return gateway.Outcome[T]{Value: v, OK: true} }

func down[T any](fallback T) gateway.Outcome[T] {
	return gateway.Outcome[T]{Value: fallback, Err: errDown}
}

// fakeSales implements gateway.SalesSource over an in-memory list.
type fakeSales struct {
	all       []models.Sale
	allDown   bool
	statsDown bool
	stats     json.RawMessage
	byIDCalls atomic.Int32
}

func (f *fakeSales) FetchAll(context.Context) gateway.Outcome[[]models.Sale] {
	if f.allDown {
		return down([]models.Sale{})
	}
	return up(append([]models.Sale(nil), f.all...))
}

func (f *fakeSales) FetchByID(_ context.Context, id int64) gateway.Outcome[models.Sale] {
	f.byIDCalls.Add(1)
	for _, s := range f.all {
		if s.ID == id {
			return up(s)
		}
	}
	return gateway.Outcome[models.Sale]{Err: &gateway.UpstreamError{Source: "sales", Status: 404, Err: errors.New("Not Found")}}
}

func (f *fakeSales) FetchByCustomer(_ context.Context, customerID int64) gateway.Outcome[[]models.Sale] {
	out := []models.Sale{}
	for _, s := range f.all {
		if s.CustomerID == customerID {
			out = append(out, s)
		}
	}
	return up(out)
}

func (f *fakeSales) FetchStatistics(context.Context) gateway.Outcome[json.RawMessage] {
	if f.statsDown {
		return down[json.RawMessage](nil)
	}
	return up(f.stats)
}

// fakeItems implements gateway.LineItemSource; saleIDs listed in failing come back down,
// and delay slows every FetchBySale to exercise concurrency.
type fakeItems struct {
	bySale    map[int64][]models.LineItem
	failing   map[int64]bool
	delay     time.Duration
	statsDown bool
	stats     json.RawMessage

	mu          sync.Mutex
	calls       []int64
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (f *fakeItems) FetchAll(context.Context) gateway.Outcome[[]models.LineItem] {
	out := []models.LineItem{}
	for _, items := range f.bySale {
		out = append(out, items...)
	}
	return up(out)
}

func (f *fakeItems) FetchByID(_ context.Context, id int64) gateway.Outcome[models.LineItem] {
	for _, items := range f.bySale {
		for _, li := range items {
			if li.ID == id {
				return up(li)
			}
		}
	}
	return down(models.LineItem{})
}

func (f *fakeItems) FetchBySale(_ context.Context, saleID int64) gateway.Outcome[[]models.LineItem] {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		cur := f.maxInFlight.Load()
		if n <= cur || f.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, saleID)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.failing[saleID] {
		return down([]models.LineItem{})
	}
	items := f.bySale[saleID]
	if items == nil {
		items = []models.LineItem{}
	}
	return up(items)
}

func (f *fakeItems) FetchStatistics(context.Context) gateway.Outcome[json.RawMessage] {
	if f.statsDown {
		return down[json.RawMessage](nil)
	}
	return up(f.stats)
}

func (f *fakeItems) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var (
	_ gateway.SalesSource    = (*fakeSales)(nil)
	_ gateway.LineItemSource = (*fakeItems)(nil)
)
