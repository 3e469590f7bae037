package handler

import (
	"strconv"

	"subscription-ledger/internal/adapter/http/dto"
	"subscription-ledger/internal/core/domain"
	"subscription-ledger/internal/core/ports"
	"subscription-ledger/pkg/apperror"
	"subscription-ledger/pkg/response"

	"github.com/gin-gonic/gin"
)

const dayLayout = "2006-01-02"

// DashboardHandler serves the calling merchant's analytics.
type DashboardHandler struct {
	analyticsSvc ports.AnalyticsService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(analyticsSvc ports.AnalyticsService) *DashboardHandler {
	return &DashboardHandler{analyticsSvc: analyticsSvc}
}

// Summary handles GET /api/v1/merchants/me/analytics/:currency.
func (h *DashboardHandler) Summary(c *gin.Context) {
	merchant, ok := principal(c)
	if !ok {
		return
	}

	summary, err := h.analyticsSvc.Summary(c.Request.Context(), merchant, c.Param("currency"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.MerchantSummaryResponse{
		Merchant:                summary.Merchant,
		Currency:                summary.Currency,
		TotalRevenue:            summary.TotalRevenue,
		ActiveSubscribers:       summary.ActiveSubscribers,
		TotalPlans:              summary.TotalPlans,
		MonthlyRecurringRevenue: summary.MonthlyRecurringRevenue,
		Plans:                   toPlanPerformanceResponses(summary.Plans),
	})
}

// Revenue handles GET /api/v1/merchants/me/analytics/:currency/revenue?days=N.
func (h *DashboardHandler) Revenue(c *gin.Context) {
	merchant, ok := principal(c)
	if !ok {
		return
	}
	days, ok := queryDays(c)
	if !ok {
		return
	}

	points, err := h.analyticsSvc.RevenueChart(c.Request.Context(), merchant, c.Param("currency"), days)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.RevenuePointResponse, 0, len(points))
	for _, p := range points {
		items = append(items, dto.RevenuePointResponse{Date: p.Day.Format(dayLayout), Revenue: p.Revenue})
	}
	response.OK(c, items)
}

// Growth handles GET /api/v1/merchants/me/analytics/:currency/growth?days=N.
func (h *DashboardHandler) Growth(c *gin.Context) {
	merchant, ok := principal(c)
	if !ok {
		return
	}
	days, ok := queryDays(c)
	if !ok {
		return
	}

	points, err := h.analyticsSvc.SubscriberGrowth(c.Request.Context(), merchant, c.Param("currency"), days)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.GrowthPointResponse, 0, len(points))
	for _, p := range points {
		items = append(items, dto.GrowthPointResponse{Date: p.Day.Format(dayLayout), Subscribers: p.Subscribers})
	}
	response.OK(c, items)
}

// Churn handles GET /api/v1/merchants/me/analytics/:currency/churn.
func (h *DashboardHandler) Churn(c *gin.Context) {
	merchant, ok := principal(c)
	if !ok {
		return
	}

	stats, err := h.analyticsSvc.Churn(c.Request.Context(), merchant, c.Param("currency"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ChurnResponse{
		TotalSubscriptions:     stats.Total,
		CancelledSubscriptions: stats.Cancelled,
		ChurnRate:              stats.Rate,
	})
}

// Plans handles GET /api/v1/merchants/me/analytics/:currency/plans.
func (h *DashboardHandler) Plans(c *gin.Context) {
	merchant, ok := principal(c)
	if !ok {
		return
	}

	perf, err := h.analyticsSvc.PlanPerformance(c.Request.Context(), merchant, c.Param("currency"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toPlanPerformanceResponses(perf))
}

// Customers handles GET /api/v1/merchants/me/customers.
func (h *DashboardHandler) Customers(c *gin.Context) {
	merchant, ok := principal(c)
	if !ok {
		return
	}

	customers, err := h.analyticsSvc.Customers(c.Request.Context(), merchant)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		cu := &customers[i]
		subs := make([]dto.SubscriptionResponse, 0, len(cu.Subscriptions))
		for j := range cu.Subscriptions {
			subs = append(subs, toSubscriptionResponse(&cu.Subscriptions[j]))
		}
		items = append(items, dto.CustomerResponse{
			User:                cu.User,
			TotalSpent:          cu.Spent,
			ActiveSubscriptions: cu.ActiveSubscriptions,
			Subscriptions:       subs,
		})
	}
	response.OK(c, items)
}

// queryDays reads ?days=N; absent means the service default.
func queryDays(c *gin.Context) (int, bool) {
	raw := c.Query("days")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		response.Error(c, apperror.Validation("days must be a positive integer"))
		return 0, false
	}
	return n, true
}

func toPlanPerformanceResponses(perf []domain.PlanPerformance) []dto.PlanPerformanceResponse {
	out := make([]dto.PlanPerformanceResponse, 0, len(perf))
	for _, p := range perf {
		out = append(out, dto.PlanPerformanceResponse{
			PlanKey:                 p.PlanKey.String(),
			PlanID:                  p.PlanID,
			PlanName:                p.PlanName,
			Active:                  p.Active,
			Subscribers:             p.Subscribers,
			Revenue:                 p.Revenue,
			AvgRevenuePerSubscriber: p.RevenuePerMember,
		})
	}
	return out
}
