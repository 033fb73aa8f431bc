package service

import (
	"context"
	"errors"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/insured-person-service/internal/domain"
)

// mockPersonRepo is an in-memory InsuredPersonRepository.
type mockPersonRepo struct {
	persons map[string]*domain.InsuredPerson
}

func newMockPersonRepo() *mockPersonRepo {
	return &mockPersonRepo{persons: make(map[string]*domain.InsuredPerson)}
}

func (r *mockPersonRepo) add(person *domain.InsuredPerson) {
	r.persons[person.PolicyNumber] = person
}

func (r *mockPersonRepo) Create(_ context.Context, person *domain.InsuredPerson) error {
	r.persons[person.PolicyNumber] = person
	return nil
}

func (r *mockPersonRepo) Update(_ context.Context, person *domain.InsuredPerson) error {
	if _, ok := r.persons[person.PolicyNumber]; !ok {
		return pgx.ErrNoRows
	}
	r.persons[person.PolicyNumber] = person
	return nil
}

func (r *mockPersonRepo) UpdatePassword(_ context.Context, policyNumber, passwordHash string) error {
	person, ok := r.persons[policyNumber]
	if !ok {
		return pgx.ErrNoRows
	}
	person.PasswordHash = passwordHash
	return nil
}

func (r *mockPersonRepo) Delete(_ context.Context, policyNumber string) error {
	if _, ok := r.persons[policyNumber]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.persons, policyNumber)
	return nil
}

func (r *mockPersonRepo) GetByPolicyNumber(_ context.Context, policyNumber string) (*domain.InsuredPerson, error) {
	person, ok := r.persons[policyNumber]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return person, nil
}

func (r *mockPersonRepo) GetByUserID(_ context.Context, userID string) (*domain.InsuredPerson, error) {
	for _, person := range r.persons {
		if person.UserID == userID {
			return person, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *mockPersonRepo) ExistsByPolicyNumber(_ context.Context, policyNumber string) (bool, error) {
	_, ok := r.persons[policyNumber]
	return ok, nil
}

func (r *mockPersonRepo) ExistsByUserID(_ context.Context, userID string) (bool, error) {
	for _, person := range r.persons {
		if person.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockPersonRepo) List(_ context.Context, offset, pageSize int) ([]domain.InsuredPerson, int64, error) {
	keys := make([]string, 0, len(r.persons))
	for key := range r.persons {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var items []domain.InsuredPerson
	for i := offset; i < len(keys) && len(items) < pageSize; i++ {
		items = append(items, *r.persons[keys[i]])
	}
	return items, int64(len(r.persons)), nil
}

func (r *mockPersonRepo) filter(match func(*domain.InsuredPerson) bool) []domain.InsuredPerson {
	var result []domain.InsuredPerson
	for _, person := range r.persons {
		if match(person) {
			result = append(result, *person)
		}
	}
	return result
}

func (r *mockPersonRepo) FindByFirstName(_ context.Context, firstName string) ([]domain.InsuredPerson, error) {
	return r.filter(func(p *domain.InsuredPerson) bool { return p.FirstName == firstName }), nil
}

func (r *mockPersonRepo) FindByLastName(_ context.Context, lastName string) ([]domain.InsuredPerson, error) {
	return r.filter(func(p *domain.InsuredPerson) bool { return p.LastName == lastName }), nil
}

func (r *mockPersonRepo) FindByFirstNameStartingWith(_ context.Context, prefix string) ([]domain.InsuredPerson, error) {
	return r.filter(func(p *domain.InsuredPerson) bool {
		return len(p.FirstName) >= len(prefix) && p.FirstName[:len(prefix)] == prefix
	}), nil
}

func (r *mockPersonRepo) FindByEmail(_ context.Context, email string) ([]domain.InsuredPerson, error) {
	return r.filter(func(p *domain.InsuredPerson) bool { return p.Email == email }), nil
}

func (r *mockPersonRepo) FindByPhoneNumber(_ context.Context, phoneNumber string) ([]domain.InsuredPerson, error) {
	return r.filter(func(p *domain.InsuredPerson) bool { return p.PhoneNumber == phoneNumber }), nil
}

func (r *mockPersonRepo) SaveProfilePicture(_ context.Context, policyNumber string, picture []byte) error {
	person, ok := r.persons[policyNumber]
	if !ok {
		return pgx.ErrNoRows
	}
	person.ProfilePicture = picture
	return nil
}

func (r *mockPersonRepo) GetProfilePicture(_ context.Context, policyNumber string) ([]byte, error) {
	person, ok := r.persons[policyNumber]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return person.ProfilePicture, nil
}

// mockDocumentRepo is an in-memory DocumentRepository.
type mockDocumentRepo struct {
	documents []*domain.Document
}

func newMockDocumentRepo() *mockDocumentRepo {
	return &mockDocumentRepo{}
}

func (r *mockDocumentRepo) Create(_ context.Context, document *domain.Document) error {
	r.documents = append(r.documents, document)
	return nil
}

func (r *mockDocumentRepo) ListByPolicyNumber(_ context.Context, policyNumber string) ([]domain.Document, error) {
	var result []domain.Document
	for _, doc := range r.documents {
		if doc.PolicyNumber == policyNumber {
			result = append(result, *doc)
		}
	}
	return result, nil
}

func (r *mockDocumentRepo) GetByPolicyNumberAndFileName(_ context.Context, policyNumber, fileName string) (*domain.Document, error) {
	for _, doc := range r.documents {
		if doc.PolicyNumber == policyNumber && doc.FileName == fileName {
			return doc, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// mockMailer records sends and can be forced to fail.
type mockMailer struct {
	sent []sentMail
	fail bool
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *mockMailer) Send(_ context.Context, to, subject, body string) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}
