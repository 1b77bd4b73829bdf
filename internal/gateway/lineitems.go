package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/guttosm/salesreport/internal/domain/models"
)

// LineItemSource is the read contract over the upstream line-item service.
type LineItemSource interface {
	FetchAll(ctx context.Context) Outcome[[]models.LineItem]
	FetchByID(ctx context.Context, id int64) Outcome[models.LineItem]
	FetchBySale(ctx context.Context, saleID int64) Outcome[[]models.LineItem]
	FetchStatistics(ctx context.Context) Outcome[json.RawMessage]
}

// LineItemGateway is the HTTP implementation of LineItemSource, over
// /items, /items/{id}, /items/sale/{saleId} and /items/stats.
type LineItemGateway struct {
	c client
}

var _ LineItemSource = (*LineItemGateway)(nil)

func NewLineItemGateway(baseURL string, timeout time.Duration, hc *http.Client) *LineItemGateway {
	return &LineItemGateway{c: newClient("line_items", baseURL, timeout, hc)}
}

func (g *LineItemGateway) FetchAll(ctx context.Context) Outcome[[]models.LineItem] {
	return fetchPage[models.LineItem](ctx, g.c, "fetch_all", "/items")
}

func (g *LineItemGateway) FetchByID(ctx context.Context, id int64) Outcome[models.LineItem] {
	return fetchOne[models.LineItem](ctx, g.c, "fetch_by_id", "/items/"+strconv.FormatInt(id, 10))
}

func (g *LineItemGateway) FetchBySale(ctx context.Context, saleID int64) Outcome[[]models.LineItem] {
	return fetchPage[models.LineItem](ctx, g.c, "fetch_by_sale", "/items/sale/"+strconv.FormatInt(saleID, 10))
}

func (g *LineItemGateway) FetchStatistics(ctx context.Context) Outcome[json.RawMessage] {
	return fetchRaw(ctx, g.c, "fetch_statistics", "/items/stats")
}
