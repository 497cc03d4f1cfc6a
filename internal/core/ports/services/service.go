package services

// ServiceContainer holds instances of all the application services.
// It is handed to the HTTP handlers in serve mode.
type ServiceContainer struct {
	PriceReport PriceReportSvc
}
