package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookstore",
		Subsystem: "auth",
		Name:      "login_attempts_total",
		Help:      "Login attempts by result.",
	}, []string{"result"})

	TokenRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookstore",
		Subsystem: "auth",
		Name:      "token_refreshes_total",
		Help:      "Refresh token exchanges by result.",
	}, []string{"result"})

	Registrations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bookstore",
		Subsystem: "auth",
		Name:      "registrations_total",
		Help:      "Successfully registered users.",
	})

	AuthzDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookstore",
		Subsystem: "authz",
		Name:      "denials_total",
		Help:      "Authorization denials by failed check.",
	}, []string{"check"})
)
