package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/guttosm/salesreport/internal/domain/models"
)

// SalesSource is the read contract over the upstream sales service.
// Implementations never return errors; failures come back as a non-OK Outcome.
type SalesSource interface {
	FetchAll(ctx context.Context) Outcome[[]models.Sale]
	FetchByID(ctx context.Context, id int64) Outcome[models.Sale]
	FetchByCustomer(ctx context.Context, customerID int64) Outcome[[]models.Sale]
	FetchStatistics(ctx context.Context) Outcome[json.RawMessage]
}

// SalesGateway is the HTTP implementation of SalesSource.
//
// Routes (relative to the base URL):
//   - GET /sales                       paginated sales
//   - GET /sales/{id}                  one sale
//   - GET /sales/customer/{customerId} paginated sales of a customer
//   - GET /sales/stats                 opaque statistics payload
type SalesGateway struct {
	c client
}

var _ SalesSource = (*SalesGateway)(nil)

// NewSalesGateway builds a gateway for baseURL. A nil hc gets a default client.
// A positive timeout bounds each request; zero leaves only the caller's context.
func NewSalesGateway(baseURL string, timeout time.Duration, hc *http.Client) *SalesGateway {
	return &SalesGateway{c: newClient("sales", baseURL, timeout, hc)}
}

func (g *SalesGateway) FetchAll(ctx context.Context) Outcome[[]models.Sale] {
	return fetchPage[models.Sale](ctx, g.c, "fetch_all", "/sales")
}

func (g *SalesGateway) FetchByID(ctx context.Context, id int64) Outcome[models.Sale] {
	return fetchOne[models.Sale](ctx, g.c, "fetch_by_id", "/sales/"+strconv.FormatInt(id, 10))
}

func (g *SalesGateway) FetchByCustomer(ctx context.Context, customerID int64) Outcome[[]models.Sale] {
	return fetchPage[models.Sale](ctx, g.c, "fetch_by_customer", "/sales/customer/"+strconv.FormatInt(customerID, 10))
}

func (g *SalesGateway) FetchStatistics(ctx context.Context) Outcome[json.RawMessage] {
	return fetchRaw(ctx, g.c, "fetch_statistics", "/sales/stats")
}
