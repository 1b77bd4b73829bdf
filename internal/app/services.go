package app

import (
	"net/http"

	"github.com/guttosm/salesreport/config"
	"github.com/guttosm/salesreport/internal/api"
	"github.com/guttosm/salesreport/internal/domain/dto"
	"github.com/guttosm/salesreport/internal/gateway"
	"github.com/guttosm/salesreport/internal/service"
)

// Version is reported by GET /api/v1/reports/info.
const Version = "1.0.0"

// NewReportService builds both upstream gateways from cfg and the engine on top.
// The gateways share one http.Client so connections to the same host are pooled.
func NewReportService(cfg config.Config) service.ReportService {
	hc := &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}

	sales := gateway.NewSalesGateway(cfg.Sales.BaseURL, cfg.Sales.Timeout, hc)
	items := gateway.NewLineItemGateway(cfg.LineItems.BaseURL, cfg.LineItems.Timeout, hc)

	return service.NewReportService(sales, items, cfg.Report.FanoutLimit)
}

// ServiceInfo describes this deployment for the info endpoint.
func ServiceInfo(cfg config.Config) dto.ServiceInfo {
	return dto.ServiceInfo{
		Service: "salesreport",
		Version: Version,
		Upstreams: map[string]string{
			"sales":      cfg.Sales.BaseURL,
			"line_items": cfg.LineItems.BaseURL,
		},
		Endpoints: api.Endpoints(),
	}
}
