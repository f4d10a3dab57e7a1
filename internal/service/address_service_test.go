package service

import (
	"context"
	"math/rand/v2"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"secondhand/internal/errors"
	"secondhand/internal/model"
	"secondhand/internal/repository"
)

// fakeAddressRepository is an in-memory AddressRepository that enforces
// the unique default_owner index like the database does.
type fakeAddressRepository struct {
	rows   map[uint]model.Address
	users  map[uint]bool
	nextID uint
	clock  time.Time
}

func newFakeAddressRepository(userIDs ...uint) *fakeAddressRepository {
	f := &fakeAddressRepository{
		rows:  map[uint]model.Address{},
		users: map[uint]bool{},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, id := range userIDs {
		f.users[id] = true
	}
	return f
}

func (f *fakeAddressRepository) violatesDefault(a model.Address) bool {
	if !a.IsDefault {
		return false
	}
	for id, row := range f.rows {
		if id != a.ID && row.UserID == a.UserID && row.IsDefault {
			return true
		}
	}
	return false
}

func (f *fakeAddressRepository) Create(_ context.Context, a *model.Address) error {
	f.nextID++
	f.clock = f.clock.Add(time.Second)
	a.ID = f.nextID
	a.CreatedAt = f.clock
	a.UpdatedAt = f.clock
	a.SyncDefaultOwner()
	if f.violatesDefault(*a) {
		return gorm.ErrDuplicatedKey
	}
	f.rows[a.ID] = *a
	return nil
}

func (f *fakeAddressRepository) Save(_ context.Context, a *model.Address) error {
	a.SyncDefaultOwner()
	if f.violatesDefault(*a) {
		return gorm.ErrDuplicatedKey
	}
	f.rows[a.ID] = *a
	return nil
}

func (f *fakeAddressRepository) Delete(_ context.Context, id uint) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeAddressRepository) FindByID(_ context.Context, id uint) (*model.Address, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (f *fakeAddressRepository) byUser(userID uint) []model.Address {
	var out []model.Address
	for _, row := range f.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (f *fakeAddressRepository) ListByUser(_ context.Context, userID uint) ([]model.Address, error) {
	return f.byUser(userID), nil
}

func (f *fakeAddressRepository) FindDefault(_ context.Context, userID uint) (*model.Address, error) {
	for _, row := range f.byUser(userID) {
		if row.IsDefault {
			return &row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAddressRepository) FindLatest(_ context.Context, userID uint) (*model.Address, error) {
	var latest *model.Address
	for _, row := range f.rows {
		if row.UserID != userID {
			continue
		}
		if latest == nil || row.CreatedAt.After(latest.CreatedAt) {
			r := row
			latest = &r
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (f *fakeAddressRepository) CountByUser(_ context.Context, userID uint) (int64, error) {
	return int64(len(f.byUser(userID))), nil
}

func (f *fakeAddressRepository) ClearDefault(_ context.Context, userID uint) error {
	for id, row := range f.rows {
		if row.UserID == userID && row.IsDefault {
			row.IsDefault = false
			row.DefaultOwner = nil
			f.rows[id] = row
		}
	}
	return nil
}

func (f *fakeAddressRepository) MarkDefault(_ context.Context, id, userID uint) error {
	row, ok := f.rows[id]
	if !ok || row.UserID != userID {
		return nil
	}
	row.IsDefault = true
	row.SyncDefaultOwner()
	if f.violatesDefault(row) {
		return gorm.ErrDuplicatedKey
	}
	f.rows[id] = row
	return nil
}

func (f *fakeAddressRepository) LockOwner(_ context.Context, userID uint) error {
	if !f.users[userID] {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// WithTransaction restores the previous rows when fn fails.
func (f *fakeAddressRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.AddressRepository) error) error {
	snapshot := make(map[uint]model.Address, len(f.rows))
	for k, v := range f.rows {
		snapshot[k] = v
	}
	if err := fn(ctx, f); err != nil {
		f.rows = snapshot
		return err
	}
	return nil
}

func newAddressServiceForTest(repo *fakeAddressRepository) AddressService {
	users := new(MockUserRepository)
	for id := range repo.users {
		users.On("FindByID", mock.Anything, id).Return(&model.User{ID: id}, nil).Maybe()
	}
	users.On("FindByID", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound).Maybe()
	return NewAddressService(repo, users)
}

func assertSingleDefault(t *testing.T, repo *fakeAddressRepository, userID uint) {
	t.Helper()
	rows := repo.byUser(userID)
	defaults := 0
	for _, row := range rows {
		if row.IsDefault {
			defaults++
		}
	}
	if len(rows) == 0 {
		assert.Equal(t, 0, defaults)
		return
	}
	assert.Equal(t, 1, defaults, "user %d must have exactly one default address", userID)
}

func TestAddressService_FirstAddressBecomesDefault(t *testing.T) {
	repo := newFakeAddressRepository(1)
	svc := newAddressServiceForTest(repo)
	ctx := context.Background()

	first, err := svc.Save(ctx, 1, AddressInput{RecipientName: "A", RecipientPhone: "123", Address: "X"})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := svc.Save(ctx, 1, AddressInput{RecipientName: "B", RecipientPhone: "456", Address: "Y", IsDefault: true})
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	reloaded, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)
	assertSingleDefault(t, repo, 1)

	third, err := svc.Save(ctx, 1, AddressInput{RecipientName: "C", RecipientPhone: "789", Address: "Z"})
	require.NoError(t, err)
	assert.False(t, third.IsDefault)
}

func TestAddressService_Save_UnknownUser(t *testing.T) {
	svc := newAddressServiceForTest(newFakeAddressRepository())
	_, err := svc.Save(context.Background(), 9, AddressInput{RecipientName: "A"})
	assert.Equal(t, errors.ErrUserNotFound, err)
}

func TestAddressService_FindByUserID(t *testing.T) {
	repo := newFakeAddressRepository(1)
	svc := newAddressServiceForTest(repo)
	ctx := context.Background()

	_, err := svc.FindByUserID(ctx, 2)
	assert.Equal(t, errors.ErrUserNotFound, err)

	a, _ := svc.Save(ctx, 1, AddressInput{Address: "old"})
	b, _ := svc.Save(ctx, 1, AddressInput{Address: "mid"})
	c, _ := svc.Save(ctx, 1, AddressInput{Address: "new"})

	list, err := svc.FindByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, a.ID, list[0].ID, "default comes first")
	assert.Equal(t, c.ID, list[1].ID)
	assert.Equal(t, b.ID, list[2].ID)

	def, err := svc.FindDefaultByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, a.ID, def.ID)

	none, err := svc.FindDefaultByUserID(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestAddressService_SetDefault(t *testing.T) {
	repo := newFakeAddressRepository(1, 2)
	svc := newAddressServiceForTest(repo)
	ctx := context.Background()

	a, _ := svc.Save(ctx, 1, AddressInput{Address: "a"})
	b, _ := svc.Save(ctx, 1, AddressInput{Address: "b"})

	_, err := svc.SetDefault(ctx, b.ID, 2)
	assert.Equal(t, errors.ErrNotOwner, err)

	_, err = svc.SetDefault(ctx, 999, 1)
	assert.Equal(t, errors.ErrAddressNotFound, err)

	got, err := svc.SetDefault(ctx, b.ID, 1)
	require.NoError(t, err)
	assert.True(t, got.IsDefault)

	old, _ := repo.FindByID(ctx, a.ID)
	assert.False(t, old.IsDefault)
	assertSingleDefault(t, repo, 1)
}

func TestAddressService_DeleteDefaultReassigns(t *testing.T) {
	repo := newFakeAddressRepository(1)
	svc := newAddressServiceForTest(repo)
	ctx := context.Background()

	a, _ := svc.Save(ctx, 1, AddressInput{Address: "a"})
	_, _ = svc.Save(ctx, 1, AddressInput{Address: "b"})
	c, _ := svc.Save(ctx, 1, AddressInput{Address: "c"})

	require.NoError(t, svc.Delete(ctx, a.ID, 1))

	def, err := svc.FindDefaultByUserID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, c.ID, def.ID, "most recently created remaining address takes over")

	assert.Equal(t, errors.ErrNotOwner, svc.Delete(ctx, c.ID, 2))
	assert.Equal(t, errors.ErrAddressNotFound, svc.Delete(ctx, a.ID, 1))
}

func TestAddressService_UpdateKeepsOwnership(t *testing.T) {
	repo := newFakeAddressRepository(1, 2)
	svc := newAddressServiceForTest(repo)
	ctx := context.Background()

	a, _ := svc.Save(ctx, 1, AddressInput{Address: "a"})
	b, _ := svc.Save(ctx, 1, AddressInput{Address: "b"})

	_, err := svc.Update(ctx, b.ID, 2, AddressInput{Address: "stolen"})
	assert.Equal(t, errors.ErrNotOwner, err)

	updated, err := svc.Update(ctx, b.ID, 1, AddressInput{RecipientName: "Bee", RecipientPhone: "1", Address: "b2", IsDefault: true})
	require.NoError(t, err)
	assert.Equal(t, uint(1), updated.UserID)
	assert.Equal(t, "b2", updated.Address)
	assert.True(t, updated.IsDefault)

	old, _ := repo.FindByID(ctx, a.ID)
	assert.False(t, old.IsDefault)

	// clearing the flag on the only default is ignored
	kept, err := svc.Update(ctx, b.ID, 1, AddressInput{Address: "b3", IsDefault: false})
	require.NoError(t, err)
	assert.True(t, kept.IsDefault)
	assertSingleDefault(t, repo, 1)
}

func TestAddressService_RandomSequencesKeepSingleDefault(t *testing.T) {
	repo := newFakeAddressRepository(1, 2)
	svc := newAddressServiceForTest(repo)
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(7, 11))

	pick := func(userID uint) (uint, bool) {
		rows := repo.byUser(userID)
		if len(rows) == 0 {
			return 0, false
		}
		return rows[rng.IntN(len(rows))].ID, true
	}

	for step := 0; step < 400; step++ {
		userID := uint(1 + rng.IntN(2))
		switch rng.IntN(4) {
		case 0:
			_, err := svc.Save(ctx, userID, AddressInput{Address: "x", IsDefault: rng.IntN(2) == 0})
			require.NoError(t, err)
		case 1:
			if id, ok := pick(userID); ok {
				_, err := svc.SetDefault(ctx, id, userID)
				require.NoError(t, err)
			}
		case 2:
			if id, ok := pick(userID); ok {
				require.NoError(t, svc.Delete(ctx, id, userID))
			}
		case 3:
			if id, ok := pick(userID); ok {
				_, err := svc.Update(ctx, id, userID, AddressInput{Address: "y", IsDefault: rng.IntN(2) == 0})
				require.NoError(t, err)
			}
		}
		assertSingleDefault(t, repo, 1)
		assertSingleDefault(t, repo, 2)
	}
}
