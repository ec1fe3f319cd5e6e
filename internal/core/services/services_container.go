package services

import (
	"github.com/SscSPs/erp_lite/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/erp_lite/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/erp_lite/internal/core/ports/services"
	"github.com/SscSPs/erp_lite/internal/platform/config"
)

// Infrastructure bundles the adapters the services use besides the repositories. Any of them
// may be nil, which disables the corresponding feature.
type Infrastructure struct {
	Publisher     gateways.EventPublisher
	Locker        gateways.Locker
	Cache         gateways.Cache
	SweepRecorder gateways.SweepRecorder
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, infra Infrastructure) (*portssvc.ServiceContainer, error) {
	settings, err := NewDocumentSettings(cfg)
	if err != nil {
		return nil, err
	}

	documentOptions := []DocumentOption{
		WithDocumentSettings(settings),
		WithClientLookup(repos.ClientRepo),
		WithUserLookup(repos.UserRepo),
		WithEventPublisher(infra.Publisher),
	}

	container := &portssvc.ServiceContainer{}
	container.Number = NewNumberService(repos.TxManager, settings)
	container.Conversion = NewConversionService(repos.TxManager, container.Number, documentOptions...)
	container.Quote = NewQuoteService(repos.QuoteRepo, repos.TxManager, container.Number, documentOptions...)
	container.Invoice = NewInvoiceService(repos.InvoiceRepo, repos.TxManager, container.Number, container.Conversion, documentOptions...)
	var clientOptions []ClientServiceOption
	if infra.Cache != nil {
		clientOptions = append(clientOptions, WithClientCacheInvalidation(infra.Cache))
	}
	container.Client = NewClientService(repos.ClientRepo, clientOptions...)
	container.User = NewUserService(repos.UserRepo)

	sweeperOptions := []SweeperOption{
		WithSweepDocumentOptions(WithDocumentSettings(settings), WithEventPublisher(infra.Publisher)),
		WithSweepRecorder(infra.SweepRecorder),
	}
	if infra.Locker != nil {
		sweeperOptions = append(sweeperOptions, WithSweepLocker(infra.Locker, cfg.SweepLockTTL))
	}
	container.Sweeper = NewSweeperService(repos.QuoteRepo, repos.InvoiceRepo, sweeperOptions...)

	var reportingOptions []ReportingServiceOption
	if infra.Cache != nil {
		reportingOptions = append(reportingOptions, WithReportingCache(infra.Cache, cfg.DashboardCacheTTL))
	}
	container.Reporting = NewReportingService(repos.ReportingRepo, reportingOptions...)

	return container, nil
}
