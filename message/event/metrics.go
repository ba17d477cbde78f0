package event

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var notificationsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "funpass",
	Name:      "price_notifications_total",
	Help:      "Price change notifications published to in-process subscribers.",
})
