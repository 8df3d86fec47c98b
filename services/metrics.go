package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "numbermart",
		Name:      "orders_total",
		Help:      "Order requests by acquisition kind and outcome.",
	}, []string{"kind", "outcome"})

	paymentReviewsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "numbermart",
		Name:      "payment_reviews_total",
		Help:      "Admin payment status changes by resulting status and effect.",
	}, []string{"status", "effect"})

	kycReviewsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "numbermart",
		Name:      "kyc_reviews_total",
		Help:      "Admin KYC decisions by resulting status.",
	}, []string{"status"})
)

func outcomeLabel(err error) string {
	if err == nil {
		return "created"
	}
	if kind := KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}
