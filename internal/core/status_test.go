package core_test

import (
	"testing"
	"time"

	"textile-books/internal/core"
)

var statusNow = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func datePtr(t time.Time) *time.Time { return &t }

func TestOrderDisplayStatus(t *testing.T) {
	yesterday := statusNow.AddDate(0, 0, -1)
	today := statusNow
	tomorrow := statusNow.AddDate(0, 0, 1)

	tests := []struct {
		name    string
		status  core.OrderStatus
		dueDate *time.Time
		want    core.DisplayStatus
	}{
		{
			name:    "in progress past due is overdue",
			status:  core.OrderInProgress,
			dueDate: datePtr(yesterday),
			want:    core.DisplayOverdue,
		},
		{
			name:    "due today is not overdue",
			status:  core.OrderInProgress,
			dueDate: datePtr(today),
			want:    core.DisplayInProgress,
		},
		{
			name:    "due tomorrow is in progress",
			status:  core.OrderInProgress,
			dueDate: datePtr(tomorrow),
			want:    core.DisplayInProgress,
		},
		{
			name:    "no due date never goes overdue",
			status:  core.OrderInProgress,
			dueDate: nil,
			want:    core.DisplayInProgress,
		},
		{
			name:    "completed stays completed past due",
			status:  core.OrderCompleted,
			dueDate: datePtr(yesterday),
			want:    core.DisplayCompleted,
		},
		{
			name:    "cancelled stays cancelled past due",
			status:  core.OrderCancelled,
			dueDate: datePtr(yesterday),
			want:    core.DisplayCancelled,
		},
		{
			name:    "approval pending stays pending past due",
			status:  core.OrderApprovalPending,
			dueDate: datePtr(yesterday),
			want:    core.DisplayApprovalPending,
		},
		{
			name: "due late yesterday overdue even if less than 24h ago",
			// 23:59 yesterday is under 11 hours before statusNow, but a
			// calendar day earlier.
			status:  core.OrderInProgress,
			dueDate: datePtr(time.Date(2025, 6, 14, 23, 59, 0, 0, time.UTC)),
			want:    core.DisplayOverdue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.OrderDisplayStatus(tt.status, tt.dueDate, statusNow)
			if got.Status != tt.want {
				t.Errorf("OrderDisplayStatus = %s, want %s", got.Status, tt.want)
			}
			if got.Label == "" {
				t.Errorf("expected a non-empty label for %s", got.Status)
			}
		})
	}
}

func TestInvoiceDisplayStatus(t *testing.T) {
	yesterday := statusNow.AddDate(0, 0, -1)
	today := statusNow
	tomorrow := statusNow.AddDate(0, 0, 1)

	tests := []struct {
		name    string
		status  core.InvoiceStatus
		dueDate *time.Time
		want    core.DisplayStatus
	}{
		{
			name:    "open past due is overdue",
			status:  core.InvoiceOpen,
			dueDate: datePtr(yesterday),
			want:    core.DisplayOverdue,
		},
		{
			name:    "partially paid past due is overdue",
			status:  core.InvoicePartiallyPaid,
			dueDate: datePtr(yesterday),
			want:    core.DisplayOverdue,
		},
		{
			name:    "open due today is open",
			status:  core.InvoiceOpen,
			dueDate: datePtr(today),
			want:    core.DisplayOpen,
		},
		{
			name:    "partially paid before due keeps its status",
			status:  core.InvoicePartiallyPaid,
			dueDate: datePtr(tomorrow),
			want:    core.DisplayPartiallyPaid,
		},
		{
			name:    "paid never goes overdue",
			status:  core.InvoicePaid,
			dueDate: datePtr(yesterday),
			want:    core.DisplayPaid,
		},
		{
			name:    "cancelled never goes overdue",
			status:  core.InvoiceCancelled,
			dueDate: datePtr(yesterday),
			want:    core.DisplayCancelled,
		},
		{
			name:    "open with no due date stays open",
			status:  core.InvoiceOpen,
			dueDate: nil,
			want:    core.DisplayOpen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.InvoiceDisplayStatus(tt.status, tt.dueDate, statusNow)
			if got.Status != tt.want {
				t.Errorf("InvoiceDisplayStatus = %s, want %s", got.Status, tt.want)
			}
		})
	}
}

func TestDisplayStatus_ZonedClocksCompareUTCDates(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	// 03:00 IST on the 16th is still 21:30 UTC on the 15th: a due date of
	// the 15th (UTC) has not lapsed yet.
	zonedNow := time.Date(2025, 6, 16, 3, 0, 0, 0, ist)
	due := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	got := core.OrderDisplayStatus(core.OrderInProgress, &due, zonedNow)
	if got.Status != core.DisplayInProgress {
		t.Errorf("OrderDisplayStatus = %s, want %s", got.Status, core.DisplayInProgress)
	}

	// A due date carried in IST normalizes the same way: 02:00 IST on the
	// 15th is the 14th in UTC, so a UTC clock on the 15th sees it overdue.
	zonedDue := time.Date(2025, 6, 15, 2, 0, 0, 0, ist)
	got = core.InvoiceDisplayStatus(core.InvoiceOpen, &zonedDue, statusNow)
	if got.Status != core.DisplayOverdue {
		t.Errorf("InvoiceDisplayStatus = %s, want %s", got.Status, core.DisplayOverdue)
	}
}

func TestDisplayStatusLabels(t *testing.T) {
	badge := core.InvoiceDisplayStatus(core.InvoicePartiallyPaid, nil, statusNow)
	if badge.Label != "Partially Paid" {
		t.Errorf("label = %q, want %q", badge.Label, "Partially Paid")
	}
	badge = core.OrderDisplayStatus(core.OrderApprovalPending, nil, statusNow)
	if badge.Label != "Approval Pending" {
		t.Errorf("label = %q, want %q", badge.Label, "Approval Pending")
	}
}
