package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/chatop/internal/common"
	"github.com/dmitrijs2005/chatop/internal/dbx"
	"github.com/dmitrijs2005/chatop/internal/server/models"
	messagesrepo "github.com/dmitrijs2005/chatop/internal/server/repositories/messages"
	rentalsrepo "github.com/dmitrijs2005/chatop/internal/server/repositories/rentals"
	usersrepo "github.com/dmitrijs2005/chatop/internal/server/repositories/users"
	"github.com/dmitrijs2005/chatop/internal/server/storage"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// --- users ---

type fakeUsersRepo struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
	nextID  int64
	creates int

	existsErr error
	createErr error
	getErr    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*models.User{}, nextID: 1}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[strings.ToLower(u.Email)]; ok {
		return nil, common.ErrDuplicateIdentity
	}
	f.creates++
	cp := *u
	cp.ID = f.nextID
	f.nextID++
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.byEmail[strings.ToLower(u.Email)] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUsersRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (f *fakeUsersRepo) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byEmail {
		if u.ID == id {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.byEmail[strings.ToLower(email)]
	return ok, nil
}

// --- rentals ---

type fakeRentalsRepo struct {
	rentals map[int64]*models.Rental
	nextID  int64
	updates int

	countOut  int64
	countErr  error
	listOut   []models.Rental
	listErr   error
	listArgs  [2]int
	createErr error
	getErr    error
	updateErr error
}

func newFakeRentalsRepo() *fakeRentalsRepo {
	return &fakeRentalsRepo{rentals: map[int64]*models.Rental{}, nextID: 1}
}

func (f *fakeRentalsRepo) Create(_ context.Context, r *models.Rental) (*models.Rental, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	cp := *r
	cp.ID = f.nextID
	f.nextID++
	f.rentals[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeRentalsRepo) GetByID(_ context.Context, id int64) (*models.Rental, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	r, ok := f.rentals[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *r
	return &out, nil
}

func (f *fakeRentalsRepo) List(_ context.Context, limit, offset int) ([]models.Rental, error) {
	f.listArgs = [2]int{limit, offset}
	return f.listOut, f.listErr
}

func (f *fakeRentalsRepo) Count(context.Context) (int64, error) {
	return f.countOut, f.countErr
}

func (f *fakeRentalsRepo) Update(_ context.Context, r *models.Rental) (*models.Rental, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if _, ok := f.rentals[r.ID]; !ok {
		return nil, common.ErrNotFound
	}
	f.updates++
	cp := *r
	f.rentals[r.ID] = &cp
	out := cp
	return &out, nil
}

// --- messages ---

type fakeMessagesRepo struct {
	created   []models.Message
	createErr error
}

func (f *fakeMessagesRepo) Create(_ context.Context, m *models.Message) (*models.Message, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	cp := *m
	cp.ID = int64(len(f.created) + 1)
	cp.CreatedAt = time.Now()
	f.created = append(f.created, cp)
	return &cp, nil
}

// --- repo manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRentalsRepo
	m *fakeMessagesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), r: newFakeRentalsRepo(), m: &fakeMessagesRepo{}}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository          { return m.u }
func (m *fakeRepoManager) Rentals(dbx.DBTX) rentalsrepo.Repository      { return m.r }
func (m *fakeRepoManager) Messages(dbx.DBTX) messagesrepo.Repository    { return m.m }

// --- object store ---

type fakeStore struct {
	objects map[string][]byte
	deleted []string
	n       int
	putErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) Put(_ context.Context, filename, _ string, body io.Reader, _ int64) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.n++
	key := storage.NewKey(filename)
	f.objects[key] = b
	return key, nil
}

func (f *fakeStore) Get(_ context.Context, key string) (*storage.Object, error) {
	b, ok := f.objects[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &storage.Object{Body: io.NopCloser(bytes.NewReader(b)), ContentType: "image/png", ContentLength: int64(len(b))}, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.objects, key)
	return nil
}

var errBoom = errors.New("boom")
