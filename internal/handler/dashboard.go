package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Naveedahmedtech/OLO-Backend/internal/billing"
	"github.com/Naveedahmedtech/OLO-Backend/internal/domain"
	"github.com/Naveedahmedtech/OLO-Backend/internal/repository"
	"github.com/Naveedahmedtech/OLO-Backend/internal/workflow"
)

type AdminOverview struct {
	RequestCounts   map[domain.ShiftRequestStatus]int64 `json:"requestCounts"`
	UserCounts      map[domain.Role]int64               `json:"userCounts"`
	WindowFrom      time.Time                           `json:"windowFrom"`
	WindowTo        time.Time                           `json:"windowTo"`
	RequestsCreated int64                               `json:"requestsCreated"`
	ShiftsCompleted int64                               `json:"shiftsCompleted"`
	BillableMinutes int64                               `json:"billableMinutes"`
}

type TrainerDashboard struct {
	RequestCounts        map[domain.ShiftRequestStatus]int64 `json:"requestCounts"`
	NextRequest          *domain.ShiftRequest                `json:"nextRequest"`
	ActiveShift          *domain.Shift                       `json:"activeShift"`
	CurrentWeekTimesheet *domain.Timesheet                   `json:"currentWeekTimesheet"`
}

type ParticipantDashboard struct {
	RequestCounts    map[domain.ShiftRequestStatus]int64 `json:"requestCounts"`
	UpcomingRequests []*domain.ShiftRequest              `json:"upcomingRequests"`
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	switch myInfo.Role {
	case domain.RoleAdmin:
		h.adminDashboard(w, r)
	case domain.RoleTrainer:
		h.trainerDashboard(w, r, myInfo)
	default:
		h.participantDashboard(w, r, myInfo)
	}
}

func (h *Handler) adminDashboard(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now

	if fromParam := r.URL.Query().Get("from"); fromParam != "" {
		if parsed, err := time.Parse(time.RFC3339, fromParam); err == nil {
			from = parsed
		}
	}
	if toParam := r.URL.Query().Get("to"); toParam != "" {
		if parsed, err := time.Parse(time.RFC3339, toParam); err == nil {
			to = parsed
		}
	}

	key := adminOverviewCacheKey(from, to)
	if overview, ok := h.cachedAdminOverview(r.Context(), key); ok {
		h.successResponse(w, r, "ok", overview)
		return
	}

	requestCounts, err := h.repository.CountShiftRequestsByStatus(nil, nil)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	userCounts, err := h.repository.CountUsersByRole()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	requestsCreated, err := h.repository.CountShiftRequestsCreatedBetween(from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	shiftsCompleted, billableMinutes, err := h.repository.CountShiftsCompletedBetween(from, to)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	overview := &AdminOverview{
		RequestCounts:   requestCounts,
		UserCounts:      userCounts,
		WindowFrom:      from,
		WindowTo:        to,
		RequestsCreated: requestsCreated,
		ShiftsCompleted: shiftsCompleted,
		BillableMinutes: billableMinutes,
	}

	h.storeAdminOverview(r.Context(), key, overview)
	h.successResponse(w, r, "ok", overview)
}

func (h *Handler) trainerDashboard(w http.ResponseWriter, r *http.Request, myInfo *domain.User) {
	dashboard := &TrainerDashboard{
		RequestCounts: map[domain.ShiftRequestStatus]int64{},
	}

	// a trainer without a profile yet still gets an (empty) dashboard
	trainer, err := h.repository.GetTrainerByUserID(myInfo.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.successResponse(w, r, "ok", dashboard)
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	counts, err := h.repository.CountShiftRequestsByStatus(nil, &trainer.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	dashboard.RequestCounts = counts

	now := time.Now()

	upcoming, err := h.repository.ListUpcomingApprovedByTrainer(trainer.ID, now, 10)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	active, err := h.repository.GetActiveShiftByTrainerID(trainer.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		h.internalServerError(w, r, err)
		return
	}

	dashboard.NextRequest, dashboard.ActiveShift = workflow.NextShift(upcoming, active, now)

	weekStart, _ := billing.WeekBounds(now)
	if ts, err := h.repository.GetTimesheetByTrainerAndWeek(trainer.ID, weekStart); err == nil {
		dashboard.CurrentWeekTimesheet = ts
	}

	h.successResponse(w, r, "ok", dashboard)
}

func (h *Handler) participantDashboard(w http.ResponseWriter, r *http.Request, myInfo *domain.User) {
	counts, err := h.repository.CountShiftRequestsByStatus(&myInfo.ID, nil)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	approved := domain.ShiftRequestStatusApproved
	upcoming, _, err := h.repository.ListShiftRequests(repository.ShiftRequestFilter{
		ParticipantUserID: &myInfo.ID,
		Status:            &approved,
		SortKey:           "start",
		Page:              1,
		Limit:             10,
	})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	now := time.Now()
	future := make([]*domain.ShiftRequest, 0, len(upcoming))
	for _, req := range upcoming {
		if req.StartTime.After(now) {
			future = append(future, req)
		}
	}

	h.successResponse(w, r, "ok", &ParticipantDashboard{
		RequestCounts:    counts,
		UpcomingRequests: future,
	})
}

// adminOverviewCacheKey keys on the full timestamps so two different windows
// on the same day never serve each other's cached overview.
func adminOverviewCacheKey(from, to time.Time) string {
	return fmt.Sprintf("dashboard_overview_%s_%s", from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
}

func (h *Handler) cachedAdminOverview(ctx context.Context, key string) (*AdminOverview, bool) {
	if h.redisClient == nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	payload, err := h.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Error("failed to read dashboard cache", "key", key, "error", err)
		}
		return nil, false
	}

	overview := &AdminOverview{}
	if err := json.Unmarshal(payload, overview); err != nil {
		return nil, false
	}

	return overview, true
}

func (h *Handler) storeAdminOverview(ctx context.Context, key string, overview *AdminOverview) {
	if h.redisClient == nil {
		return
	}

	payload, err := json.Marshal(overview)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	ttl := time.Duration(h.config.Redis.DashboardTTL) * time.Second
	if err := h.redisClient.Set(ctx, key, payload, ttl).Err(); err != nil {
		slog.Error("failed to write dashboard cache", "key", key, "error", err)
	}
}
