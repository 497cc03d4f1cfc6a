package services

import (
	portsrepo "github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/ports/repositories"
	portssvc "github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/ports/services"
	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, observer portssvc.RunObserver) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.PriceReport = NewPriceReportService(
		repos.Orders,
		repos.Quotations,
		cfg.HomeCurrency,
		WithReportWriter(repos.Reports),
		WithLookupWindowDays(cfg.RateWindowDays),
		WithRunObserver(observer),
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.PriceReportSvc  = (*priceReportService)(nil)
	_ portssvc.RateResolverSvc = (*rateResolver)(nil)
)
