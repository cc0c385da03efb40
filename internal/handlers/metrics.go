package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	budgetsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "funmoney_budgets_created_total",
			Help: "Total number of budgets created",
		},
	)

	expensesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "funmoney_expenses_created_total",
			Help: "Total number of expenses created",
		},
	)

	rolloversPerformed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "funmoney_rollovers_performed_total",
			Help: "Total number of pay periods closed by rollover",
		},
	)

	savingsArchived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "funmoney_savings_archived_total",
			Help: "Total number of savings entries produced by rollover",
		},
	)
)
