package rest

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/chatop/internal/common"
	"github.com/dmitrijs2005/chatop/internal/server/auth"
	"github.com/dmitrijs2005/chatop/internal/server/models"
	"github.com/dmitrijs2005/chatop/internal/server/services"
	"github.com/dmitrijs2005/chatop/internal/server/storage"
)

// memUsers is an in-memory user service that issues real tokens.
type memUsers struct {
	mu      sync.Mutex
	codec   *auth.TokenCodec
	now     func() time.Time
	byEmail map[string]*models.User
	nextID  int64
}

func newMemUsers(codec *auth.TokenCodec, now func() time.Time) *memUsers {
	return &memUsers{codec: codec, now: now, byEmail: map[string]*models.User{}}
}

func (m *memUsers) Register(_ context.Context, name, email, password string) (*models.User, *auth.IssuedToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = services.NormalizeLogin(email)
	if _, ok := m.byEmail[email]; ok {
		return nil, nil, common.ErrDuplicateIdentity
	}
	m.nextID++
	u := &models.User{ID: m.nextID, Name: name, Email: email, PasswordHash: password, CreatedAt: m.now(), UpdatedAt: m.now()}
	m.byEmail[email] = u

	tok, err := m.codec.Issue(email, m.now())
	if err != nil {
		return nil, nil, err
	}
	return u, tok, nil
}

func (m *memUsers) Login(_ context.Context, email, password string) (*auth.IssuedToken, error) {
	m.mu.Lock()
	u, ok := m.byEmail[services.NormalizeLogin(email)]
	m.mu.Unlock()
	if !ok || u.PasswordHash != password {
		return nil, common.ErrAuthenticationFailed
	}
	return m.codec.Issue(u.Email, m.now())
}

func (m *memUsers) CurrentIdentity(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[services.NormalizeLogin(email)]
	if !ok {
		return nil, common.NewError(common.ErrNotFound, "user not found")
	}
	return u, nil
}

func (m *memUsers) ResolveIdentity(ctx context.Context, login string) (*auth.Principal, error) {
	u, err := m.CurrentIdentity(ctx, login)
	if err != nil {
		return nil, err
	}
	return &auth.Principal{ID: u.ID, Name: u.Name, Email: u.Email, Roles: []string{common.RoleUser}}, nil
}

type fakeRentals struct {
	mu       sync.Mutex
	rentals  map[int64]*models.Rental
	pictures map[string][]byte
	nextID   int64
	updates  int
	listArgs [2]int
	listErr  error
}

func newFakeRentals() *fakeRentals {
	return &fakeRentals{rentals: map[int64]*models.Rental{}, pictures: map[string][]byte{}}
}

func (f *fakeRentals) List(_ context.Context, page, size int) (*services.RentalPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listArgs = [2]int{page, size}
	if f.listErr != nil {
		return nil, f.listErr
	}
	res := &services.RentalPage{Page: page, Size: size, TotalElements: int64(len(f.rentals)), TotalPages: 1}
	for _, r := range f.rentals {
		res.Content = append(res.Content, *r)
	}
	return res, nil
}

func (f *fakeRentals) Get(_ context.Context, id int64) (*models.Rental, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rentals[id]
	if !ok {
		return nil, common.NewError(common.ErrNotFound, "rental not found")
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRentals) Create(_ context.Context, owner *auth.Principal, in services.RentalInput, picture *services.Upload) (*models.Rental, error) {
	if picture == nil || picture.Size == 0 {
		return nil, common.NewError(common.ErrBadRequest, "picture is required")
	}
	data, err := io.ReadAll(picture.Body)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	key := storage.NewKey(picture.Filename)
	f.pictures[key] = data
	r := &models.Rental{
		ID: f.nextID, Name: in.Name, Surface: in.Surface, Price: in.Price, Description: in.Description,
		Picture: key, OwnerID: owner.ID, OwnerName: owner.Name,
	}
	f.rentals[r.ID] = r
	cp := *r
	return &cp, nil
}

func (f *fakeRentals) Update(_ context.Context, actor *auth.Principal, id int64, in services.RentalInput, _ *services.Upload) (*models.Rental, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rentals[id]
	if !ok {
		return nil, common.NewError(common.ErrNotFound, "rental not found")
	}
	if r.OwnerID != actor.ID {
		return nil, common.NewError(common.ErrForbidden, "you are not allowed to update this rental")
	}
	f.updates++
	r.Name, r.Surface, r.Price = in.Name, in.Surface, in.Price
	if in.Description == nil || strings.TrimSpace(*in.Description) != "" {
		r.Description = in.Description
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRentals) OpenPicture(_ context.Context, key string) (*storage.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.pictures[key]
	if !ok {
		return nil, common.NewError(common.ErrNotFound, "file not found")
	}
	return &storage.Object{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentType:   "image/png",
		ContentLength: int64(len(data)),
	}, nil
}

type fakeMessages struct {
	mu      sync.Mutex
	created []models.Message
}

func (f *fakeMessages) Create(_ context.Context, actor *auth.Principal, in services.MessageInput) (*models.Message, error) {
	if in.UserID != actor.ID {
		return nil, common.NewError(common.ErrForbidden, "you cannot send messages on behalf of another user")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m := models.Message{ID: int64(len(f.created) + 1), Message: in.Message, RentalID: in.RentalID, UserID: in.UserID}
	f.created = append(f.created, m)
	return &m, nil
}
