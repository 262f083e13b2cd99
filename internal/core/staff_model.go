package core

import (
	"context"
	"time"
)

// StaffRole is the permission tier of a staff member within a company.
type StaffRole string

const (
	RoleOwner   StaffRole = "owner"
	RoleManager StaffRole = "manager"
	RoleWorker  StaffRole = "worker"
)

// Staff represents an authenticated user scoped to a company.
type Staff struct {
	ID           int       `json:"id"`
	CompanyID    int       `json:"company_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         StaffRole `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// InviteStatus is the lifecycle state of a staff invite.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteRevoked  InviteStatus = "revoked"
)

// StaffInvite is a pending invitation to join a company. The token is a
// single-use UUID embedded in the invite link; invites expire after a
// configurable window.
type StaffInvite struct {
	ID         int          `json:"id"`
	CompanyID  int          `json:"company_id"`
	Email      string       `json:"email"`
	Role       StaffRole    `json:"role"`
	Token      string       `json:"token"`
	Status     InviteStatus `json:"status"`
	ExpiresAt  time.Time    `json:"expires_at"`
	InvitedBy  int          `json:"invited_by"`
	AcceptedBy *int         `json:"accepted_by,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

// StaffService provides staff lookup and invite lifecycle operations.
type StaffService interface {
	// GetByUsername finds an active staff member by username.
	GetByUsername(ctx context.Context, username string) (*Staff, error)

	// GetByID returns a staff member by primary key.
	GetByID(ctx context.Context, staffID int) (*Staff, error)

	// ListStaff returns all staff for a company, active first.
	ListStaff(ctx context.Context, companyCode string) ([]Staff, error)

	// CreateInvite issues a pending invite with a fresh token. invitedBy is
	// the issuing staff member's ID.
	CreateInvite(ctx context.Context, companyCode, email string, role StaffRole, invitedBy int) (*StaffInvite, error)

	// AcceptInvite redeems a pending, unexpired token and creates the staff
	// account with the given credentials.
	AcceptInvite(ctx context.Context, token, username, password string) (*Staff, error)

	// RevokeInvite marks a pending invite revoked so its token can no longer
	// be redeemed.
	RevokeInvite(ctx context.Context, inviteID int) error

	// ListInvites returns invites for a company, newest first.
	ListInvites(ctx context.Context, companyCode string) ([]StaffInvite, error)
}
