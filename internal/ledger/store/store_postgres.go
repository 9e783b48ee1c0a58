package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"skillpass/internal/ledger"
	id "skillpass/pkg/domain"
	"skillpass/pkg/sentinel"
)

// PostgresStore persists the ledger in PostgreSQL. ID allocation rides on a
// BIGSERIAL sequence, which is strictly increasing and never reuses values;
// sequence gaps from rolled-back transactions are acceptable.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed ledger store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Issue inserts the record in a single statement; the row either exists
// completely or not at all.
func (s *PostgresStore) Issue(ctx context.Context, params ledger.IssueParams) (ledger.Issued, error) {
	query := `
		INSERT INTO credentials (student, issuer, content_hash, store_address, expiry, issued_at, revoked)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)
		RETURNING id
	`
	var credID uint64
	err := s.db.QueryRowContext(ctx, query,
		params.Student.String(),
		params.Issuer.String(),
		params.ContentHash.String(),
		params.StoreAddress,
		params.Expiry,
		params.Now,
	).Scan(&credID)
	if err != nil {
		return ledger.Issued{}, fmt.Errorf("issue credential: %w", err)
	}

	record := ledger.Record{
		ID:           id.CredentialID(credID),
		Student:      params.Student,
		Issuer:       params.Issuer,
		ContentHash:  params.ContentHash,
		StoreAddress: params.StoreAddress,
		Expiry:       params.Expiry,
		IssuedAt:     params.Now,
		State:        ledger.StateActive,
	}
	return ledger.Issued{
		Record: record,
		TxHash: ledger.NewTxHash("issue", record.ID),
	}, nil
}

// Revoke applies the transition with a conditional UPDATE. When no row is
// affected, the current state is read back to classify the rejection; a
// concurrent revoke that lost the race therefore observes ErrAlreadyRevoked.
func (s *PostgresStore) Revoke(ctx context.Context, caller id.Address, credID id.CredentialID) (string, error) {
	update := `
		UPDATE credentials
		SET revoked = TRUE
		WHERE id = $1 AND issuer = $2 AND revoked = FALSE
	`
	result, err := s.db.ExecContext(ctx, update, uint64(credID), caller.String())
	if err != nil {
		return "", fmt.Errorf("revoke credential: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("revoke credential: %w", err)
	}
	if affected == 1 {
		return ledger.NewTxHash("revoke", credID), nil
	}

	var issuer string
	var revoked bool
	err = s.db.QueryRowContext(ctx,
		`SELECT issuer, revoked FROM credentials WHERE id = $1`, uint64(credID),
	).Scan(&issuer, &revoked)
	if errors.Is(err, sql.ErrNoRows) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("classify revoke rejection: %w", err)
	}
	if id.Address(issuer) != caller {
		return "", sentinel.ErrNotIssuer
	}
	if revoked {
		return "", sentinel.ErrAlreadyRevoked
	}
	// The conditional UPDATE found no row but the state reads as revocable;
	// treat the write outcome as unknown rather than claiming success.
	return "", sentinel.ErrUnavailable
}

// Get returns the record for the given ID or ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, credID id.CredentialID) (ledger.Record, error) {
	query := `
		SELECT id, student, issuer, content_hash, store_address, expiry, issued_at, revoked
		FROM credentials
		WHERE id = $1
	`
	var (
		rawID       uint64
		student     string
		issuer      string
		contentHash string
		record      ledger.Record
		revoked     bool
	)
	err := s.db.QueryRowContext(ctx, query, uint64(credID)).Scan(
		&rawID, &student, &issuer, &contentHash, &record.StoreAddress, &record.Expiry, &record.IssuedAt, &revoked,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Record{}, sentinel.ErrNotFound
	}
	if err != nil {
		return ledger.Record{}, fmt.Errorf("get credential: %w", err)
	}

	record.ID = id.CredentialID(rawID)
	record.Student = id.Address(student)
	record.Issuer = id.Address(issuer)
	record.ContentHash = id.ContentHash(contentHash)
	record.State = ledger.StateActive
	if revoked {
		record.State = ledger.StateRevoked
	}
	return record, nil
}

// CredentialsOf returns the IDs issued to a student in issuance order.
// Insertion order and id order coincide because IDs are allocated by the
// insert itself.
func (s *PostgresStore) CredentialsOf(ctx context.Context, student id.Address) ([]id.CredentialID, error) {
	query := `
		SELECT id FROM credentials
		WHERE student = $1
		ORDER BY id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, student.String())
	if err != nil {
		return nil, fmt.Errorf("list student credentials: %w", err)
	}
	defer rows.Close()

	ids := make([]id.CredentialID, 0)
	for rows.Next() {
		var credID uint64
		if err := rows.Scan(&credID); err != nil {
			return nil, fmt.Errorf("scan credential id: %w", err)
		}
		ids = append(ids, id.CredentialID(credID))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list student credentials: %w", err)
	}
	return ids, nil
}

var _ ledger.Store = (*PostgresStore)(nil)
