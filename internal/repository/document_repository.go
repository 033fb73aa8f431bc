package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/insured-person-service/internal/domain"
)

// DocumentRepository persists uploaded documents.
type DocumentRepository interface {
	Create(ctx context.Context, document *domain.Document) error
	ListByPolicyNumber(ctx context.Context, policyNumber string) ([]domain.Document, error)
	GetByPolicyNumberAndFileName(ctx context.Context, policyNumber, fileName string) (*domain.Document, error)
}

type documentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository constructs repository.
func NewDocumentRepository(pool *pgxpool.Pool) DocumentRepository {
	return &documentRepository{pool: pool}
}

func (r *documentRepository) Create(ctx context.Context, document *domain.Document) error {
	const query = `
        INSERT INTO documents (id, policy_number, file_name, file_type, size_bytes, data)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		document.ID,
		document.PolicyNumber,
		document.FileName,
		document.FileType,
		document.SizeBytes,
		document.Data,
	).Scan(&document.CreatedAt)
}

func (r *documentRepository) ListByPolicyNumber(ctx context.Context, policyNumber string) ([]domain.Document, error) {
	const query = `
        SELECT id, policy_number, file_name, file_type, size_bytes, created_at
        FROM documents WHERE policy_number=$1`
	rows, err := r.pool.Query(ctx, query, policyNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Document
	for rows.Next() {
		var document domain.Document
		if err := rows.Scan(
			&document.ID,
			&document.PolicyNumber,
			&document.FileName,
			&document.FileType,
			&document.SizeBytes,
			&document.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, document)
	}
	return result, rows.Err()
}

func (r *documentRepository) GetByPolicyNumberAndFileName(ctx context.Context, policyNumber, fileName string) (*domain.Document, error) {
	const query = `
        SELECT id, policy_number, file_name, file_type, size_bytes, data, created_at
        FROM documents WHERE policy_number=$1 AND file_name=$2`
	var document domain.Document
	if err := r.pool.QueryRow(ctx, query, policyNumber, fileName).Scan(
		&document.ID,
		&document.PolicyNumber,
		&document.FileName,
		&document.FileType,
		&document.SizeBytes,
		&document.Data,
		&document.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &document, nil
}
