package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// OrdersPlacedTotal counts order placement attempts by outcome.
	OrdersPlacedTotal *prometheus.CounterVec
	// OrderDiscountTotal accumulates the discount granted across orders.
	OrderDiscountTotal prometheus.Counter
	// OrderValue records discounted order totals.
	OrderValue prometheus.Histogram
	// PromotionsAppliedTotal counts applied promotions by name.
	PromotionsAppliedTotal *prometheus.CounterVec
	// BasketRejectionsTotal counts items refused by a basket.
	BasketRejectionsTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		OrdersPlacedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Count of order placement outcomes.",
		}, []string{"result"})
		OrderDiscountTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_discount_total",
			Help:      "Sum of discounts granted on placed orders.",
		})
		OrderValue = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_value",
			Help:      "Discounted order totals.",
			Buckets:   []float64{1, 2.5, 5, 10, 25, 50, 100},
		})
		PromotionsAppliedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promotions_applied_total",
			Help:      "Count of promotions applied to placed orders.",
		}, []string{"promotion"})
		BasketRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "basket_rejections_total",
			Help:      "Count of items a basket refused.",
		}, []string{"reason"})

		OrdersPlacedTotal = register(reg, OrdersPlacedTotal)
		OrderDiscountTotal = register(reg, OrderDiscountTotal)
		OrderValue = register(reg, OrderValue)
		PromotionsAppliedTotal = register(reg, PromotionsAppliedTotal)
		BasketRejectionsTotal = register(reg, BasketRejectionsTotal)
	})
}
