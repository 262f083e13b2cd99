package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentService assigns gapless document numbers to orders, invoices, and
// warehouse movement notes. Numbers are generated only when a document is
// posted, inside the posting transaction, so a rolled-back operation never
// burns a number.
type DocumentService interface {
	CreateDraftDocument(ctx context.Context, companyID int, typeCode string, financialYear *int) (int, error)
	// PostDocument posts a document in its own transaction. Use for standalone calls.
	PostDocument(ctx context.Context, documentID int) error
	// PostDocumentTx posts a document using an existing transaction. Use when
	// the caller controls the transaction boundary (e.g. inside
	// Ledger.CommitInTx) so posting and the journal insert are fully atomic.
	PostDocumentTx(ctx context.Context, tx pgx.Tx, documentID int) error
}

type documentService struct {
	pool *pgxpool.Pool
}

func NewDocumentService(pool *pgxpool.Pool) DocumentService {
	return &documentService{pool: pool}
}

func (s *documentService) CreateDraftDocument(ctx context.Context, companyID int, typeCode string, financialYear *int) (int, error) {
	var id int
	err := s.pool.QueryRow(ctx, `
		INSERT INTO documents (company_id, type_code, status, financial_year)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, companyID, typeCode, string(DocumentStatusDraft), financialYear).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create draft document: %w", err)
	}
	return id, nil
}

func (s *documentService) PostDocument(ctx context.Context, documentID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := postDocumentWithTx(ctx, tx, documentID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *documentService) PostDocumentTx(ctx context.Context, tx pgx.Tx, documentID int) error {
	return postDocumentWithTx(ctx, tx, documentID)
}

func postDocumentWithTx(ctx context.Context, tx pgx.Tx, documentID int) error {
	var doc Document
	err := tx.QueryRow(ctx, `
		SELECT company_id, type_code, status, financial_year
		FROM documents
		WHERE id = $1
		FOR UPDATE
	`, documentID).Scan(&doc.CompanyID, &doc.TypeCode, &doc.Status, &doc.FinancialYear)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("document not found: %d", documentID)
		}
		return fmt.Errorf("failed to read document for update: %w", err)
	}

	if doc.Status != DocumentStatusDraft {
		return fmt.Errorf("document must be in DRAFT status to be posted, current status: %s", doc.Status)
	}

	var docType DocumentType
	err = tx.QueryRow(ctx, `
		SELECT numbering_strategy, resets_every_fy
		FROM document_types
		WHERE code = $1
	`, doc.TypeCode).Scan(&docType.NumberingStrategy, &docType.ResetsEveryFY)
	if err != nil {
		return fmt.Errorf("failed to get document type strategy: %w", err)
	}

	// Gapless, concurrency-safe: the upsert takes a row lock on the sequence,
	// serializing number assignment per (company, type, FY).
	var lastNumber int64
	err = tx.QueryRow(ctx, `
		INSERT INTO document_sequences (company_id, type_code, financial_year, last_number)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (company_id, type_code, (COALESCE(financial_year, -1)))
		DO UPDATE SET last_number = document_sequences.last_number + 1
		RETURNING last_number
	`, doc.CompanyID, doc.TypeCode, doc.FinancialYear).Scan(&lastNumber)
	if err != nil {
		return fmt.Errorf("failed to generate gapless sequence number: %w", err)
	}

	yearStr := "GLOBAL"
	if doc.FinancialYear != nil {
		yearStr = fmt.Sprintf("%d", *doc.FinancialYear)
	}
	formattedNum := fmt.Sprintf("%s-%s-%05d", doc.TypeCode, yearStr, lastNumber)

	_, err = tx.Exec(ctx, `
		UPDATE documents
		SET status = $1, document_number = $2, posted_at = NOW()
		WHERE id = $3
	`, string(DocumentStatusPosted), formattedNum, documentID)
	if err != nil {
		return fmt.Errorf("failed to update document status and number: %w", err)
	}

	return nil
}
