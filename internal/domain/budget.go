package domain

import "fmt"

// BudgetAlert is one warning produced by a budget evaluation pass.
// Threshold is the crossed percentage, or 0 for the daily-average alert.
type BudgetAlert struct {
	Kind      NotificationKind
	Message   string
	Threshold int
}

// Display duration for budget toasts.
const BudgetAlertTimeoutMs = 5000

var budgetThresholds = []BudgetAlert{
	{Kind: KindWarning, Threshold: 90, Message: "Critical: You have used 90% of your budget!"},
	{Kind: KindWarning, Threshold: 75, Message: "Warning: You have used 75% of your budget."},
	{Kind: KindInfo, Threshold: 50, Message: "You have used 50% of your budget."},
	{Kind: KindInfo, Threshold: 25, Message: "You have used 25% of your budget."},
}

// EvaluateBudget returns the alerts for one evaluation pass: at most one
// threshold alert, for the highest threshold crossed, plus a daily-average
// alert when the mean spend per expense day exceeds the budget spread over
// those days. A zero budget produces no alerts.
func EvaluateBudget(expenses []Expense, budget float64) []BudgetAlert {
	if budget <= 0 {
		return nil
	}

	var total float64
	days := make(map[string]struct{})
	for _, e := range expenses {
		total += e.Amount
		days[e.Date.UTC().Format("2006-01-02")] = struct{}{}
	}

	var alerts []BudgetAlert
	pct := total / budget * 100
	for _, th := range budgetThresholds {
		if pct >= float64(th.Threshold) {
			alerts = append(alerts, th)
			break // only the highest crossed threshold
		}
	}

	if n := len(days); n > 0 {
		daily := budget / float64(n)
		avg := total / float64(n)
		if avg > daily {
			alerts = append(alerts, BudgetAlert{
				Kind: KindWarning,
				Message: fmt.Sprintf("Daily spending (€%.2f) exceeds daily budget (€%.2f)",
					avg, daily),
			})
		}
	}
	return alerts
}
