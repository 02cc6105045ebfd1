// Package metrics содержит счётчики prometheus для наблюдения за доставкой
// уведомлений и работой ограничителя частоты запросов.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationsDelivered — количество уведомлений, признанных доставляемыми.
	NotificationsDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_delivered_total",
		Help: "Number of notifications accepted for delivery.",
	})

	// NotificationsRejected — количество отклонённых уведомлений по причинам.
	NotificationsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_rejected_total",
		Help: "Number of rejected notifications by reason.",
	}, []string{"reason"})

	// RateLimitRejections — количество запросов, отклонённых ограничителем.
	RateLimitRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_rejections_total",
		Help: "Number of requests rejected by the rate limiter.",
	})
)
