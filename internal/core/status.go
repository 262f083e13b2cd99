package core

import "time"

// OrderStatus is the persisted state of a sales or purchase order.
// State machine:
//
//	APPROVAL_PENDING → IN_PROGRESS → {COMPLETED | CANCELLED}
//	APPROVAL_PENDING → CANCELLED
type OrderStatus string

const (
	OrderApprovalPending OrderStatus = "approval_pending"
	OrderInProgress      OrderStatus = "in_progress"
	OrderCompleted       OrderStatus = "completed"
	OrderCancelled       OrderStatus = "cancelled"
)

// InvoiceStatus is the persisted state of an invoice. Overdue is never
// persisted; it is derived at read time from the due date.
type InvoiceStatus string

const (
	InvoiceOpen          InvoiceStatus = "open"
	InvoicePartiallyPaid InvoiceStatus = "partially_paid"
	InvoicePaid          InvoiceStatus = "paid"
	InvoiceCancelled     InvoiceStatus = "cancelled"
)

// DisplayStatus is a read-time status that overlays date-derived conditions
// (overdue) onto a persisted state. It is never written back to storage.
type DisplayStatus string

const (
	DisplayApprovalPending DisplayStatus = "approval_pending"
	DisplayInProgress      DisplayStatus = "in_progress"
	DisplayCompleted       DisplayStatus = "completed"
	DisplayCancelled       DisplayStatus = "cancelled"
	DisplayOpen            DisplayStatus = "open"
	DisplayPartiallyPaid   DisplayStatus = "partially_paid"
	DisplayPaid            DisplayStatus = "paid"
	DisplayOverdue         DisplayStatus = "overdue"
)

// StatusBadge pairs a display status with its human-readable label.
type StatusBadge struct {
	Status DisplayStatus `json:"status"`
	Label  string        `json:"label"`
}

var displayLabels = map[DisplayStatus]string{
	DisplayApprovalPending: "Approval Pending",
	DisplayInProgress:      "In Progress",
	DisplayCompleted:       "Completed",
	DisplayCancelled:       "Cancelled",
	DisplayOpen:            "Open",
	DisplayPartiallyPaid:   "Partially Paid",
	DisplayPaid:            "Paid",
	DisplayOverdue:         "Overdue",
}

func badge(s DisplayStatus) StatusBadge {
	return StatusBadge{Status: s, Label: displayLabels[s]}
}

// dateOnly truncates t to midnight UTC of its UTC calendar date, so that
// due-date comparisons ignore time of day and the zone the caller's clock
// happens to carry.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// OrderDisplayStatus resolves the display status of an order at the instant
// `now`. Completed, cancelled, and approval-pending orders keep their
// persisted status regardless of date. An in-progress order whose expected
// delivery date is strictly before today is shown as overdue; an order due
// today is still on time.
func OrderDisplayStatus(status OrderStatus, dueDate *time.Time, now time.Time) StatusBadge {
	switch status {
	case OrderCompleted:
		return badge(DisplayCompleted)
	case OrderCancelled:
		return badge(DisplayCancelled)
	case OrderApprovalPending:
		return badge(DisplayApprovalPending)
	case OrderInProgress:
		if dueDate != nil && dateOnly(*dueDate).Before(dateOnly(now)) {
			return badge(DisplayOverdue)
		}
		return badge(DisplayInProgress)
	}
	// Unknown persisted value: surface it verbatim rather than guessing.
	return StatusBadge{Status: DisplayStatus(status), Label: string(status)}
}

// InvoiceDisplayStatus resolves the display status of an invoice at the
// instant `now`. Paid and cancelled are absorbing; open and partially-paid
// invoices become overdue once the due date has passed (date-only
// comparison, due today is not overdue).
func InvoiceDisplayStatus(status InvoiceStatus, dueDate *time.Time, now time.Time) StatusBadge {
	switch status {
	case InvoicePaid:
		return badge(DisplayPaid)
	case InvoiceCancelled:
		return badge(DisplayCancelled)
	case InvoiceOpen, InvoicePartiallyPaid:
		if dueDate != nil && dateOnly(*dueDate).Before(dateOnly(now)) {
			return badge(DisplayOverdue)
		}
		if status == InvoicePartiallyPaid {
			return badge(DisplayPartiallyPaid)
		}
		return badge(DisplayOpen)
	}
	return StatusBadge{Status: DisplayStatus(status), Label: string(status)}
}
