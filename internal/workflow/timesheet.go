package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/Naveedahmedtech/OLO-Backend/internal/apperrors"
	"github.com/Naveedahmedtech/OLO-Backend/internal/domain"
)

// timesheetTransitions lists the legal source statuses for each target
// status. Reopen is the only way back from SUBMITTED or APPROVED.
var timesheetTransitions = map[domain.TimesheetStatus][]domain.TimesheetStatus{
	domain.TimesheetStatusSubmitted: {domain.TimesheetStatusDraft, domain.TimesheetStatusReopened},
	domain.TimesheetStatusApproved:  {domain.TimesheetStatusSubmitted, domain.TimesheetStatusReopened},
	domain.TimesheetStatusReopened:  {domain.TimesheetStatusSubmitted, domain.TimesheetStatusApproved},
	domain.TimesheetStatusPaid:      {domain.TimesheetStatusApproved},
}

func checkTimesheetTransition(ts *domain.Timesheet, target domain.TimesheetStatus) error {
	allowed := timesheetTransitions[target]
	for _, status := range allowed {
		if ts.Status == status {
			return nil
		}
	}

	names := make([]string, len(allowed))
	for i, status := range allowed {
		names[i] = string(status)
	}
	return apperrors.Newf(apperrors.KindConflict, "timesheet can only move to %s from %s, current status is %s",
		target, strings.Join(names, " or "), ts.Status)
}

// SubmitTimesheet moves a trainer's own timesheet DRAFT|REOPENED -> SUBMITTED.
func SubmitTimesheet(ts *domain.Timesheet, trainer *domain.Trainer) error {
	if ts.TrainerID != trainer.ID {
		return apperrors.New(apperrors.KindForbidden, "timesheet belongs to another trainer")
	}
	if err := checkTimesheetTransition(ts, domain.TimesheetStatusSubmitted); err != nil {
		return err
	}

	ts.Status = domain.TimesheetStatusSubmitted
	return nil
}

// ApproveTimesheet moves SUBMITTED|REOPENED -> APPROVED.
func ApproveTimesheet(ts *domain.Timesheet) error {
	if err := checkTimesheetTransition(ts, domain.TimesheetStatusApproved); err != nil {
		return err
	}

	ts.Status = domain.TimesheetStatusApproved
	return nil
}

// ReopenTimesheet moves SUBMITTED|APPROVED -> REOPENED and appends an audit
// entry. The audit log is append-only and never truncated.
func ReopenTimesheet(ts *domain.Timesheet, admin *domain.User, reason string, now time.Time) error {
	if err := checkTimesheetTransition(ts, domain.TimesheetStatusReopened); err != nil {
		return err
	}

	ts.Status = domain.TimesheetStatusReopened
	ts.AuditLog = append(ts.AuditLog, domain.TimesheetAuditEntry{
		By:     admin.ID,
		At:     now,
		Reason: reason,
	})
	return nil
}

// MarkTimesheetPaid moves APPROVED -> PAID.
func MarkTimesheetPaid(ts *domain.Timesheet) error {
	if err := checkTimesheetTransition(ts, domain.TimesheetStatusPaid); err != nil {
		return err
	}

	ts.Status = domain.TimesheetStatusPaid
	return nil
}

// TimesheetExport is the fully computed, currency-agnostic payload handed to
// the external CSV/PDF renderer.
type TimesheetExport struct {
	Format      string                 `json:"format"`
	TimesheetID string                 `json:"timesheetID"`
	TrainerID   string                 `json:"trainerID"`
	TrainerName string                 `json:"trainerName"`
	WeekStart   string                 `json:"weekStart"`
	WeekEnd     string                 `json:"weekEnd"`
	Status      domain.TimesheetStatus `json:"status"`
	Items       []domain.TimesheetItem `json:"items"`
	Totals      domain.TimesheetTotals `json:"totals"`
}

// BuildTimesheetExport validates the requested format and assembles the
// export payload.
func BuildTimesheetExport(ts *domain.Timesheet, trainerName, format string) (*TimesheetExport, error) {
	if format != "csv" && format != "pdf" {
		return nil, apperrors.New(apperrors.KindValidation, fmt.Sprintf("unsupported export format %q, expected csv or pdf", format)).
			WithField("format", "must be csv or pdf")
	}

	items := ts.Items
	if items == nil {
		items = []domain.TimesheetItem{}
	}

	return &TimesheetExport{
		Format:      format,
		TimesheetID: ts.ID,
		TrainerID:   ts.TrainerID,
		TrainerName: trainerName,
		WeekStart:   ts.WeekStart.Format("2006-01-02"),
		WeekEnd:     ts.WeekEnd.Format("2006-01-02"),
		Status:      ts.Status,
		Items:       items,
		Totals:      ts.Totals,
	}, nil
}
