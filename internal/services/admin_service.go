package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"hotfood/internal/models"
	"hotfood/internal/repositories"

	"github.com/gofiber/fiber/v2/log"
)

const (
	customerHistoryLimit = 50
	popularProductsLimit = 5
	recentActivityLimit  = 10
)

// RevenueBreakdown splits revenue between delivered orders and completed events.
type RevenueBreakdown struct {
	Orders int64 `json:"orders"`
	Events int64 `json:"events"`
}

// DashboardStats is the admin landing page summary.
type DashboardStats struct {
	TotalEvents      int              `json:"totalEvents"`
	PendingEvents    int              `json:"pendingEvents"`
	ConfirmedEvents  int              `json:"confirmedEvents"`
	TotalOrders      int              `json:"totalOrders"`
	PendingOrders    int              `json:"pendingOrders"`
	TotalRevenue     int64            `json:"totalRevenue"`
	RevenueBreakdown RevenueBreakdown `json:"revenueBreakdown"`
	MonthlyRevenue   int64            `json:"monthlyRevenue"`
	Customers        int64            `json:"customers"`
}

// OrderStats counts orders of a reporting period by status.
type OrderStats struct {
	Total     int `json:"total"`
	Delivered int `json:"delivered"`
	Pending   int `json:"pending"`
	Cancelled int `json:"cancelled"`
}

// EventStats counts events of a reporting period by status.
type EventStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
}

// PopularProduct is a product and the quantity ordered in a reporting period.
type PopularProduct struct {
	ProductID string `json:"productId"`
	Count     int    `json:"count"`
}

// Report summarizes activity since StartDate.
type Report struct {
	Period           string           `json:"period"`
	StartDate        time.Time        `json:"startDate"`
	EndDate          time.Time        `json:"endDate"`
	TotalRevenue     int64            `json:"totalRevenue"`
	RevenueBreakdown RevenueBreakdown `json:"revenueBreakdown"`
	OrderStats       OrderStats       `json:"orderStats"`
	EventStats       EventStats       `json:"eventStats"`
	PopularProducts  []PopularProduct `json:"popularProducts"`
	RecentOrders     []models.Order   `json:"recentOrders"`
	RecentEvents     []models.Event   `json:"recentEvents"`
}

// CustomerSummary is a user with spending totals for the admin customer list.
type CustomerSummary struct {
	models.User
	TotalSpent  int64  `json:"totalSpent"`
	AuthType    string `json:"authType"`
	HasPassword bool   `json:"hasPassword"`
	OrderCount  int    `json:"orderCount"`
	EventCount  int    `json:"eventCount"`
}

// CustomerProfile is a user with totals over its recent history.
type CustomerProfile struct {
	models.User
	TotalSpent  int64 `json:"totalSpent"`
	TotalOrders int   `json:"totalOrders"`
	TotalEvents int   `json:"totalEvents"`
}

// CustomerDetail is a customer with its most recent orders and events.
type CustomerDetail struct {
	Customer CustomerProfile `json:"customer"`
	Orders   []models.Order  `json:"orders"`
	Events   []models.Event  `json:"events"`
}

// AdminService serves the back-office reporting and customer management views.
type AdminService struct {
	userRepo  repositories.UserRepository
	orderRepo repositories.OrderRepository
	eventRepo repositories.EventRepository
	now       func() time.Time
}

// NewAdminService creates a new AdminService.
func NewAdminService(userRepo repositories.UserRepository, orderRepo repositories.OrderRepository, eventRepo repositories.EventRepository) *AdminService {
	return &AdminService{
		userRepo:  userRepo,
		orderRepo: orderRepo,
		eventRepo: eventRepo,
		now:       time.Now,
	}
}

// DashboardStats counts orders, events and customers and sums realized revenue.
// MonthlyRevenue covers records created during the last month.
func (s *AdminService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	orders, err := s.orderRepo.List(ctx, repositories.OrderFilter{})
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.List(ctx, repositories.EventFilter{})
	if err != nil {
		return nil, err
	}
	customers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	monthAgo := s.now().AddDate(0, -1, 0)
	stats := &DashboardStats{
		TotalOrders: len(orders),
		TotalEvents: len(events),
		Customers:   customers,
	}
	for _, o := range orders {
		switch o.Status {
		case models.OrderPending:
			stats.PendingOrders++
		case models.OrderDelivered:
			stats.RevenueBreakdown.Orders += o.Total
			if !o.CreatedAt.Before(monthAgo) {
				stats.MonthlyRevenue += o.Total
			}
		}
	}
	for _, e := range events {
		switch e.Status {
		case models.EventPending:
			stats.PendingEvents++
		case models.EventConfirmed:
			stats.ConfirmedEvents++
		case models.EventCompleted:
			stats.RevenueBreakdown.Events += e.TotalAmount
			if !e.CreatedAt.Before(monthAgo) {
				stats.MonthlyRevenue += e.TotalAmount
			}
		}
	}
	stats.TotalRevenue = stats.RevenueBreakdown.Orders + stats.RevenueBreakdown.Events
	return stats, nil
}

// PeriodStart returns the start of a reporting period ending at now. An empty period
// means month.
func PeriodStart(period string, now time.Time) (time.Time, error) {
	switch period {
	case "week":
		return now.AddDate(0, 0, -7), nil
	case "month", "":
		return now.AddDate(0, -1, 0), nil
	case "year":
		return now.AddDate(-1, 0, 0), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
}

// Reports summarizes orders and events created during period.
func (s *AdminService) Reports(ctx context.Context, period string) (*Report, error) {
	now := s.now()
	start, err := PeriodStart(period, now)
	if err != nil {
		return nil, err
	}
	if period == "" {
		period = "month"
	}

	orders, err := s.orderRepo.List(ctx, repositories.OrderFilter{Since: start})
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.List(ctx, repositories.EventFilter{Since: start})
	if err != nil {
		return nil, err
	}

	report := &Report{
		Period:          period,
		StartDate:       start,
		EndDate:         now,
		OrderStats:      OrderStats{Total: len(orders)},
		EventStats:      EventStats{Total: len(events)},
		PopularProducts: popularProducts(orders, popularProductsLimit),
		RecentOrders:    orders[:min(len(orders), recentActivityLimit)],
		RecentEvents:    events[:min(len(events), recentActivityLimit)],
	}
	for _, o := range orders {
		switch o.Status {
		case models.OrderDelivered:
			report.OrderStats.Delivered++
			report.RevenueBreakdown.Orders += o.Total
		case models.OrderPending:
			report.OrderStats.Pending++
		case models.OrderCancelled:
			report.OrderStats.Cancelled++
		}
	}
	for _, e := range events {
		switch e.Status {
		case models.EventCompleted:
			report.EventStats.Completed++
			report.RevenueBreakdown.Events += e.TotalAmount
		case models.EventPending:
			report.EventStats.Pending++
		case models.EventConfirmed:
			report.EventStats.Confirmed++
		case models.EventCancelled:
			report.EventStats.Cancelled++
		}
	}
	report.TotalRevenue = report.RevenueBreakdown.Orders + report.RevenueBreakdown.Events
	return report, nil
}

// popularProducts ranks products by ordered quantity, ties broken by product id.
func popularProducts(orders []models.Order, limit int) []PopularProduct {
	counts := make(map[string]int)
	for _, o := range orders {
		for _, item := range o.Items {
			counts[item.ProductID] += item.Quantity
		}
	}
	ranked := make([]PopularProduct, 0, len(counts))
	for id, n := range counts {
		ranked = append(ranked, PopularProduct{ProductID: id, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})
	return ranked[:min(len(ranked), limit)]
}

// ListCustomers returns every user with its non-cancelled order and event totals.
func (s *AdminService) ListCustomers(ctx context.Context) ([]CustomerSummary, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]CustomerSummary, 0, len(users))
	for _, u := range users {
		orders, err := s.orderRepo.List(ctx, repositories.OrderFilter{
			UserID:        u.ID,
			Email:         u.Email,
			EmailFold:     true,
			ExcludeStatus: models.OrderCancelled,
		})
		if err != nil {
			return nil, err
		}
		events, err := s.eventRepo.List(ctx, repositories.EventFilter{
			UserID:        u.ID,
			Email:         u.Email,
			EmailFold:     true,
			ExcludeStatus: models.EventCancelled,
		})
		if err != nil {
			return nil, err
		}

		authType := u.AuthProvider
		if authType == "" {
			authType = models.AuthProviderLocal
		}
		summaries = append(summaries, CustomerSummary{
			User:        u,
			TotalSpent:  sumOrders(orders) + sumEvents(events),
			AuthType:    authType,
			HasPassword: u.HasPassword(),
			OrderCount:  len(orders),
			EventCount:  len(events),
		})
	}
	return summaries, nil
}

// CustomerDetail returns a customer with its latest orders and events. TotalSpent only
// covers the returned, non-cancelled records.
func (s *AdminService) CustomerDetail(ctx context.Context, id string) (*CustomerDetail, error) {
	user, err := s.getCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.List(ctx, repositories.OrderFilter{
		UserID:    user.ID,
		Email:     user.Email,
		EmailFold: true,
		Limit:     customerHistoryLimit,
	})
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.List(ctx, repositories.EventFilter{
		UserID:    user.ID,
		Email:     user.Email,
		EmailFold: true,
		Limit:     customerHistoryLimit,
	})
	if err != nil {
		return nil, err
	}

	var spent int64
	for _, o := range orders {
		if o.Status != models.OrderCancelled {
			spent += o.Total
		}
	}
	for _, e := range events {
		if e.Status != models.EventCancelled {
			spent += e.TotalAmount
		}
	}

	return &CustomerDetail{
		Customer: CustomerProfile{
			User:        *user,
			TotalSpent:  spent,
			TotalOrders: len(orders),
			TotalEvents: len(events),
		},
		Orders: orders,
		Events: events,
	}, nil
}

// SetBlocked blocks or unblocks a customer. Blocked customers can neither log in nor use
// an existing token.
func (s *AdminService) SetBlocked(ctx context.Context, id string, blocked bool) (*models.User, error) {
	user, err := s.getCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	user.IsBlocked = blocked
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	log.Infof("customer %s blocked=%t", user.Email, blocked)
	return user, nil
}

func (s *AdminService) getCustomer(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return user, nil
}

func sumOrders(orders []models.Order) int64 {
	var sum int64
	for _, o := range orders {
		sum += o.Total
	}
	return sum
}

func sumEvents(events []models.Event) int64 {
	var sum int64
	for _, e := range events {
		sum += e.TotalAmount
	}
	return sum
}
