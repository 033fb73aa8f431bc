package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/insured-person-service/internal/domain"
)

const personColumns = `
        policy_number, first_name, last_name, age, role, email, user_id, password_hash,
        phone_number, street, apartment, city, state, country, zipcode, type_of_insurance,
        created_at, updated_at`

// InsuredPersonRepository defines persistence access for insured persons.
type InsuredPersonRepository interface {
	Create(ctx context.Context, person *domain.InsuredPerson) error
	Update(ctx context.Context, person *domain.InsuredPerson) error
	UpdatePassword(ctx context.Context, policyNumber, passwordHash string) error
	Delete(ctx context.Context, policyNumber string) error
	GetByPolicyNumber(ctx context.Context, policyNumber string) (*domain.InsuredPerson, error)
	GetByUserID(ctx context.Context, userID string) (*domain.InsuredPerson, error)
	ExistsByPolicyNumber(ctx context.Context, policyNumber string) (bool, error)
	ExistsByUserID(ctx context.Context, userID string) (bool, error)
	List(ctx context.Context, offset, pageSize int) ([]domain.InsuredPerson, int64, error)
	FindByFirstName(ctx context.Context, firstName string) ([]domain.InsuredPerson, error)
	FindByLastName(ctx context.Context, lastName string) ([]domain.InsuredPerson, error)
	FindByFirstNameStartingWith(ctx context.Context, prefix string) ([]domain.InsuredPerson, error)
	FindByEmail(ctx context.Context, email string) ([]domain.InsuredPerson, error)
	FindByPhoneNumber(ctx context.Context, phoneNumber string) ([]domain.InsuredPerson, error)
	SaveProfilePicture(ctx context.Context, policyNumber string, picture []byte) error
	GetProfilePicture(ctx context.Context, policyNumber string) ([]byte, error)
}

type insuredPersonRepository struct {
	pool *pgxpool.Pool
}

// NewInsuredPersonRepository returns a Postgres-backed implementation.
func NewInsuredPersonRepository(pool *pgxpool.Pool) InsuredPersonRepository {
	return &insuredPersonRepository{pool: pool}
}

func (r *insuredPersonRepository) Create(ctx context.Context, person *domain.InsuredPerson) error {
	const query = `
        INSERT INTO insured_persons (policy_number, first_name, last_name, age, role, email,
            user_id, password_hash, phone_number, street, apartment, city, state, country,
            zipcode, type_of_insurance)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		person.PolicyNumber,
		person.FirstName,
		person.LastName,
		person.Age,
		person.Role,
		person.Email,
		person.UserID,
		person.PasswordHash,
		person.PhoneNumber,
		person.Street,
		person.Apartment,
		person.City,
		person.State,
		person.Country,
		person.Zipcode,
		person.TypeOfInsurance,
	).Scan(&person.CreatedAt, &person.UpdatedAt)
}

func (r *insuredPersonRepository) Update(ctx context.Context, person *domain.InsuredPerson) error {
	const query = `
        UPDATE insured_persons SET first_name=$1, last_name=$2, age=$3, role=$4, email=$5,
            user_id=$6, phone_number=$7, street=$8, apartment=$9, city=$10, state=$11,
            country=$12, zipcode=$13, type_of_insurance=$14, updated_at=NOW()
        WHERE policy_number=$15`

	cmd, err := r.pool.Exec(ctx, query,
		person.FirstName,
		person.LastName,
		person.Age,
		person.Role,
		person.Email,
		person.UserID,
		person.PhoneNumber,
		person.Street,
		person.Apartment,
		person.City,
		person.State,
		person.Country,
		person.Zipcode,
		person.TypeOfInsurance,
		person.PolicyNumber,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *insuredPersonRepository) UpdatePassword(ctx context.Context, policyNumber, passwordHash string) error {
	const query = `
        UPDATE insured_persons SET password_hash=$1, updated_at=NOW()
        WHERE policy_number=$2`

	cmd, err := r.pool.Exec(ctx, query, passwordHash, policyNumber)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *insuredPersonRepository) Delete(ctx context.Context, policyNumber string) error {
	const query = `DELETE FROM insured_persons WHERE policy_number=$1`

	cmd, err := r.pool.Exec(ctx, query, policyNumber)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *insuredPersonRepository) GetByPolicyNumber(ctx context.Context, policyNumber string) (*domain.InsuredPerson, error) {
	query := `SELECT ` + personColumns + ` FROM insured_persons WHERE policy_number=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, policyNumber))
}

func (r *insuredPersonRepository) GetByUserID(ctx context.Context, userID string) (*domain.InsuredPerson, error) {
	query := `SELECT ` + personColumns + ` FROM insured_persons WHERE user_id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, userID))
}

func (r *insuredPersonRepository) ExistsByPolicyNumber(ctx context.Context, policyNumber string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM insured_persons WHERE policy_number=$1)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, policyNumber).Scan(&exists)
	return exists, err
}

func (r *insuredPersonRepository) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM insured_persons WHERE user_id=$1)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, userID).Scan(&exists)
	return exists, err
}

func (r *insuredPersonRepository) List(ctx context.Context, offset, pageSize int) ([]domain.InsuredPerson, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM insured_persons`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + personColumns + `
        FROM insured_persons ORDER BY policy_number LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	persons, err := r.scanMany(rows)
	if err != nil {
		return nil, 0, err
	}
	return persons, total, nil
}

func (r *insuredPersonRepository) FindByFirstName(ctx context.Context, firstName string) ([]domain.InsuredPerson, error) {
	query := `SELECT ` + personColumns + ` FROM insured_persons WHERE first_name=$1`
	return r.queryMany(ctx, query, firstName)
}

func (r *insuredPersonRepository) FindByLastName(ctx context.Context, lastName string) ([]domain.InsuredPerson, error) {
	query := `SELECT ` + personColumns + ` FROM insured_persons WHERE last_name=$1`
	return r.queryMany(ctx, query, lastName)
}

func (r *insuredPersonRepository) FindByFirstNameStartingWith(ctx context.Context, prefix string) ([]domain.InsuredPerson, error) {
	query := `SELECT ` + personColumns + ` FROM insured_persons WHERE first_name LIKE $1 || '%'`
	return r.queryMany(ctx, query, prefix)
}

func (r *insuredPersonRepository) FindByEmail(ctx context.Context, email string) ([]domain.InsuredPerson, error) {
	query := `SELECT ` + personColumns + ` FROM insured_persons WHERE email=$1`
	return r.queryMany(ctx, query, email)
}

func (r *insuredPersonRepository) FindByPhoneNumber(ctx context.Context, phoneNumber string) ([]domain.InsuredPerson, error) {
	query := `SELECT ` + personColumns + ` FROM insured_persons WHERE phone_number=$1`
	return r.queryMany(ctx, query, phoneNumber)
}

func (r *insuredPersonRepository) SaveProfilePicture(ctx context.Context, policyNumber string, picture []byte) error {
	const query = `
        UPDATE insured_persons SET profile_picture=$1, updated_at=NOW()
        WHERE policy_number=$2`

	cmd, err := r.pool.Exec(ctx, query, picture, policyNumber)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *insuredPersonRepository) GetProfilePicture(ctx context.Context, policyNumber string) ([]byte, error) {
	const query = `SELECT profile_picture FROM insured_persons WHERE policy_number=$1`
	var picture []byte
	if err := r.pool.QueryRow(ctx, query, policyNumber).Scan(&picture); err != nil {
		return nil, err
	}
	return picture, nil
}

func (r *insuredPersonRepository) queryMany(ctx context.Context, query string, args ...any) ([]domain.InsuredPerson, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *insuredPersonRepository) scanOne(row pgx.Row) (*domain.InsuredPerson, error) {
	var person domain.InsuredPerson
	if err := row.Scan(
		&person.PolicyNumber,
		&person.FirstName,
		&person.LastName,
		&person.Age,
		&person.Role,
		&person.Email,
		&person.UserID,
		&person.PasswordHash,
		&person.PhoneNumber,
		&person.Street,
		&person.Apartment,
		&person.City,
		&person.State,
		&person.Country,
		&person.Zipcode,
		&person.TypeOfInsurance,
		&person.CreatedAt,
		&person.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *insuredPersonRepository) scanMany(rows pgx.Rows) ([]domain.InsuredPerson, error) {
	var result []domain.InsuredPerson
	for rows.Next() {
		person, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *person)
	}
	return result, rows.Err()
}
