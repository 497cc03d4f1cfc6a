package services

import (
	"context"

	"github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/domain"
	portssvc "github.com/Rodrigohgt/teste-tecnico-butantan/internal/core/ports/services"
)

// NopObserver ignores every notification.
type NopObserver struct{}

var _ portssvc.RunObserver = NopObserver{}

func (NopObserver) OrdersLoaded(context.Context, int, int)                    {}
func (NopObserver) OrdersJoined(context.Context, domain.JoinStats)            {}
func (NopObserver) EventDropped(context.Context, domain.PurchaseEvent, error) {}
func (NopObserver) MaterialsSelected(context.Context, int)                    {}
func (NopObserver) RateLookup(context.Context, string, string)                {}
func (NopObserver) Progress(context.Context, int, int)                        {}
func (NopObserver) ReportCompleted(context.Context, *domain.PriceReport)      {}
