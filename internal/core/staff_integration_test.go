package core_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"textile-books/internal/core"

	"golang.org/x/crypto/bcrypt"
)

func TestStaffInviteFlow(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	staff := core.NewStaffService(pool, nil)
	ctx := context.Background()

	invite, err := staff.CreateInvite(ctx, "TB", "worker@example.com", core.RoleWorker, 0)
	if err != nil {
		t.Fatalf("CreateInvite failed: %v", err)
	}
	if invite.Token == "" {
		t.Fatal("Expected invite token to be set")
	}
	if invite.Status != core.InvitePending {
		t.Errorf("Expected status pending, got %s", invite.Status)
	}

	// Only one pending invite per email per company.
	if _, err := staff.CreateInvite(ctx, "TB", "worker@example.com", core.RoleWorker, 0); err == nil {
		t.Fatal("Expected duplicate invite to be rejected")
	}

	account, err := staff.AcceptInvite(ctx, invite.Token, "ravi", "secret-password")
	if err != nil {
		t.Fatalf("AcceptInvite failed: %v", err)
	}
	if account.Role != core.RoleWorker {
		t.Errorf("Expected role worker, got %s", account.Role)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("secret-password")); err != nil {
		t.Errorf("Stored password hash does not match: %v", err)
	}

	// A token can only be redeemed once.
	if _, err := staff.AcceptInvite(ctx, invite.Token, "other", "password"); err == nil {
		t.Fatal("Expected second acceptance of the same token to fail")
	}

	found, err := staff.GetByUsername(ctx, "ravi")
	if err != nil {
		t.Fatalf("GetByUsername failed: %v", err)
	}
	if found.ID != account.ID {
		t.Errorf("Expected staff %d, got %d", account.ID, found.ID)
	}

	list, err := staff.ListStaff(ctx, "TB")
	if err != nil {
		t.Fatalf("ListStaff failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("Expected 1 staff member, got %d", len(list))
	}
}

func TestStaffInvite_Expiry(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	// Freeze the clock at creation, then accept with a clock 8 days later.
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	staff := core.NewStaffService(pool, func() time.Time { return created })
	ctx := context.Background()

	invite, err := staff.CreateInvite(ctx, "TB", "late@example.com", core.RoleManager, 0)
	if err != nil {
		t.Fatalf("CreateInvite failed: %v", err)
	}

	lateStaff := core.NewStaffService(pool, func() time.Time { return created.Add(8 * 24 * time.Hour) })
	_, err = lateStaff.AcceptInvite(ctx, invite.Token, "late", "password")
	if err == nil {
		t.Fatal("Expected expired invite to be rejected")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestStaffInvite_Revoke(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	staff := core.NewStaffService(pool, nil)
	ctx := context.Background()

	invite, err := staff.CreateInvite(ctx, "TB", "gone@example.com", core.RoleWorker, 0)
	if err != nil {
		t.Fatalf("CreateInvite failed: %v", err)
	}

	if err := staff.RevokeInvite(ctx, invite.ID); err != nil {
		t.Fatalf("RevokeInvite failed: %v", err)
	}

	if _, err := staff.AcceptInvite(ctx, invite.Token, "gone", "password"); err == nil {
		t.Fatal("Expected revoked invite to be rejected")
	}

	// Revoking twice fails: the invite is no longer pending.
	if err := staff.RevokeInvite(ctx, invite.ID); err == nil {
		t.Fatal("Expected second revoke to fail")
	}
}
