package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// inviteValidity is how long a staff invite token can be redeemed.
const inviteValidity = 7 * 24 * time.Hour

type staffService struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewStaffService constructs a StaffService backed by PostgreSQL.
// Pass nil for the system clock.
func NewStaffService(pool *pgxpool.Pool, now func() time.Time) StaffService {
	if now == nil {
		now = time.Now
	}
	return &staffService{pool: pool, now: now}
}

const staffColumns = "id, company_id, username, email, password_hash, role, is_active, created_at"

func scanStaff(row pgx.Row) (*Staff, error) {
	u := &Staff{}
	err := row.Scan(&u.ID, &u.CompanyID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *staffService) GetByUsername(ctx context.Context, username string) (*Staff, error) {
	u, err := scanStaff(s.pool.QueryRow(ctx, `
		SELECT `+staffColumns+`
		FROM staff
		WHERE username = $1 AND is_active = true
		LIMIT 1`, username))
	if err != nil {
		return nil, fmt.Errorf("staff %q not found: %w", username, err)
	}
	return u, nil
}

func (s *staffService) GetByID(ctx context.Context, staffID int) (*Staff, error) {
	u, err := scanStaff(s.pool.QueryRow(ctx, `
		SELECT `+staffColumns+`
		FROM staff
		WHERE id = $1`, staffID))
	if err != nil {
		return nil, fmt.Errorf("staff id=%d not found: %w", staffID, err)
	}
	return u, nil
}

func (s *staffService) ListStaff(ctx context.Context, companyCode string) ([]Staff, error) {
	companyID, err := resolveCompanyID(ctx, s.pool, companyCode)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+staffColumns+`
		FROM staff
		WHERE company_id = $1
		ORDER BY is_active DESC, username
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff: %w", err)
	}
	defer rows.Close()

	var staff []Staff
	for rows.Next() {
		u, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff: %w", err)
		}
		staff = append(staff, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating staff: %w", err)
	}
	return staff, nil
}

func (s *staffService) CreateInvite(ctx context.Context, companyCode, email string, role StaffRole, invitedBy int) (*StaffInvite, error) {
	if email == "" {
		return nil, errors.New("invite email is required")
	}
	switch role {
	case RoleOwner, RoleManager, RoleWorker:
	default:
		return nil, fmt.Errorf("unknown staff role %q", role)
	}

	companyID, err := resolveCompanyID(ctx, s.pool, companyCode)
	if err != nil {
		return nil, err
	}

	// One pending invite per email per company.
	var existing int
	err = s.pool.QueryRow(ctx,
		"SELECT count(*) FROM staff_invites WHERE company_id = $1 AND email = $2 AND status = 'pending' AND expires_at > NOW()",
		companyID, email,
	).Scan(&existing)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing invites: %w", err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("a pending invite already exists for %s", email)
	}

	inv := &StaffInvite{}
	err = s.pool.QueryRow(ctx, `
		INSERT INTO staff_invites (company_id, email, role, token, status, expires_at, invited_by)
		VALUES ($1, $2, $3, $4, 'pending', $5, $6)
		RETURNING id, company_id, email, role, token, status, expires_at, invited_by, accepted_by, created_at
	`, companyID, email, string(role), uuid.NewString(), s.now().Add(inviteValidity), invitedBy).Scan(
		&inv.ID, &inv.CompanyID, &inv.Email, &inv.Role, &inv.Token, &inv.Status,
		&inv.ExpiresAt, &inv.InvitedBy, &inv.AcceptedBy, &inv.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}
	return inv, nil
}

func (s *staffService) AcceptInvite(ctx context.Context, token, username, password string) (*Staff, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var inviteID, companyID int
	var email string
	var role StaffRole
	var status InviteStatus
	var expiresAt time.Time
	err = tx.QueryRow(ctx, `
		SELECT id, company_id, email, role, status, expires_at
		FROM staff_invites
		WHERE token = $1
		FOR UPDATE
	`, token).Scan(&inviteID, &companyID, &email, &role, &status, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("invite token not found")
		}
		return nil, fmt.Errorf("failed to fetch invite: %w", err)
	}
	if status != InvitePending {
		return nil, fmt.Errorf("invite is %s and cannot be accepted", status)
	}
	if s.now().After(expiresAt) {
		return nil, errors.New("invite has expired")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &Staff{}
	err = tx.QueryRow(ctx, `
		INSERT INTO staff (company_id, username, email, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5, true)
		RETURNING `+staffColumns+`
	`, companyID, username, email, string(hash), string(role)).Scan(
		&u.ID, &u.CompanyID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create staff account: %w", err)
	}

	_, err = tx.Exec(ctx,
		"UPDATE staff_invites SET status = 'accepted', accepted_by = $1 WHERE id = $2",
		u.ID, inviteID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to mark invite accepted: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit invite acceptance: %w", err)
	}
	return u, nil
}

func (s *staffService) RevokeInvite(ctx context.Context, inviteID int) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE staff_invites SET status = 'revoked' WHERE id = $1 AND status = 'pending'",
		inviteID,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke invite %d: %w", inviteID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invite %d not found or not pending", inviteID)
	}
	return nil
}

func (s *staffService) ListInvites(ctx context.Context, companyCode string) ([]StaffInvite, error) {
	companyID, err := resolveCompanyID(ctx, s.pool, companyCode)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, company_id, email, role, token, status, expires_at, invited_by, accepted_by, created_at
		FROM staff_invites
		WHERE company_id = $1
		ORDER BY id DESC
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invites: %w", err)
	}
	defer rows.Close()

	var invites []StaffInvite
	for rows.Next() {
		var inv StaffInvite
		if err := rows.Scan(&inv.ID, &inv.CompanyID, &inv.Email, &inv.Role, &inv.Token, &inv.Status,
			&inv.ExpiresAt, &inv.InvitedBy, &inv.AcceptedBy, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invite: %w", err)
		}
		invites = append(invites, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invites: %w", err)
	}
	return invites, nil
}
