package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"chatrelay/internal/domain/user"
	"chatrelay/internal/storage"
	relay_errors "chatrelay/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]user.Record
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{records: make(map[uuid.UUID]user.Record)}
}

func (r *fakeUserRepo) Create(_ context.Context, rec *user.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if existing.Email == rec.Email {
			return relay_errors.ErrEmailTaken
		}
	}
	r.records[rec.ID] = *rec
	return nil
}

func (r *fakeUserRepo) Find(_ context.Context) ([]user.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	records := make([]user.Record, 0, len(r.records))
	for _, rec := range r.records {
		records = append(records, rec)
	}
	return records, nil
}

func (r *fakeUserRepo) FindOneByID(_ context.Context, id uuid.UUID) (user.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return user.Record{}, relay_errors.ErrNotFound
	}
	return rec, nil
}

func (r *fakeUserRepo) FindOneByEmail(_ context.Context, email string) (user.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.Email == email {
			return rec, nil
		}
	}
	return user.Record{}, relay_errors.ErrNotFound
}

func (r *fakeUserRepo) FindOneAndUpdate(_ context.Context, id uuid.UUID, changes user.Changes) (user.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return user.Record{}, relay_errors.ErrNotFound
	}
	if changes.Email != nil {
		rec.Email = *changes.Email
	}
	if changes.DisplayName != nil {
		rec.DisplayName = *changes.DisplayName
	}
	if changes.PasswordHash != nil {
		rec.PasswordHash = *changes.PasswordHash
	}
	if changes.ImageURL != nil {
		rec.ImageURL = sql.NullString{String: *changes.ImageURL, Valid: true}
	}
	r.records[id] = rec
	return rec, nil
}

func (r *fakeUserRepo) FindOneAndDelete(_ context.Context, id uuid.UUID) (user.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return user.Record{}, relay_errors.ErrNotFound
	}
	delete(r.records, id)
	return rec, nil
}

type fakeStore struct {
	mu        sync.Mutex
	uploads   map[string][]byte
	uploadErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{uploads: make(map[string][]byte)}
}

func (s *fakeStore) Upload(_ context.Context, bucket, key string, body []byte) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads[bucket+"/"+key] = body
	return nil
}

func (s *fakeStore) ObjectURL(bucket, key string) string {
	return storage.ObjectURL(bucket, key)
}

func newTestUserService() (*UserService, *fakeUserRepo, *fakeStore) {
	repo := newFakeUserRepo()
	store := newFakeStore()
	return NewUserService(repo, store, "users-bucket", "jpg"), repo, store
}

func TestCreateHashesPasswordAndStripsIt(t *testing.T) {
	svc, repo, _ := newTestUserService()

	created, err := svc.Create(context.Background(), user.CreateInput{
		Email:       "a@example.com",
		DisplayName: "A",
		Password:    "secret-password",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "a@example.com", created.Email)

	rec := repo.records[created.ID]
	assert.NotEqual(t, "secret-password", rec.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte("secret-password")))

	// The entity's image URL is derived from the id even before any upload.
	assert.Equal(t, "https://users-bucket.s3.amazonaws.com/"+created.ID.String()+".jpg", created.ImageURL)
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()

	first, err := svc.Create(ctx, user.CreateInput{Email: "dup@example.com", Password: "password-1"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, user.CreateInput{Email: "dup@example.com", Password: "password-2"})
	assert.ErrorIs(t, err, relay_errors.ErrEmailTaken)

	second, err := svc.Create(ctx, user.CreateInput{Email: "other@example.com", Password: "password-3"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateRequiresEmailAndPassword(t *testing.T) {
	svc, _, _ := newTestUserService()
	_, err := svc.Create(context.Background(), user.CreateInput{Email: "", Password: ""})
	assert.ErrorIs(t, err, relay_errors.ErrInvalidInput)
}

func TestUploadImage(t *testing.T) {
	svc, repo, store := newTestUserService()
	ctx := context.Background()

	created, err := svc.Create(ctx, user.CreateInput{Email: "img@example.com", Password: "password-1"})
	require.NoError(t, err)

	url, err := svc.UploadImage(ctx, []byte{0xff, 0xd8}, created.ID)
	require.NoError(t, err)

	key := created.ID.String() + ".jpg"
	assert.Equal(t, "https://users-bucket.s3.amazonaws.com/"+key, url)
	assert.Equal(t, []byte{0xff, 0xd8}, store.uploads["users-bucket/"+key])

	rec := repo.records[created.ID]
	require.True(t, rec.ImageURL.Valid)
	assert.Equal(t, url, rec.ImageURL.String)
}

func TestUploadImageStorageFailureAborts(t *testing.T) {
	svc, repo, store := newTestUserService()
	ctx := context.Background()

	created, err := svc.Create(ctx, user.CreateInput{Email: "img2@example.com", Password: "password-1"})
	require.NoError(t, err)

	cause := errors.New("boom")
	store.uploadErr = &storage.Error{Bucket: "users-bucket", Key: created.ID.String() + ".jpg", Err: cause}

	_, err = svc.UploadImage(ctx, []byte("data"), created.ID)

	var storageErr *storage.Error
	require.ErrorAs(t, err, &storageErr)
	assert.False(t, repo.records[created.ID].ImageURL.Valid, "URL must not be persisted when the upload fails")
}

func TestUploadImageUnknownUser(t *testing.T) {
	svc, _, _ := newTestUserService()
	_, err := svc.UploadImage(context.Background(), []byte("data"), uuid.New())
	assert.ErrorIs(t, err, relay_errors.ErrNotFound)
}

func TestReadPathsNeverExposePassword(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()

	created, err := svc.Create(ctx, user.CreateInput{Email: "read@example.com", Password: "password-1"})
	require.NoError(t, err)

	found, err := svc.FindOne(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)

	all, err := svc.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, created, all[0])
}

func TestUpdateRehashesOnlyWhenPasswordSupplied(t *testing.T) {
	svc, repo, _ := newTestUserService()
	ctx := context.Background()

	created, err := svc.Create(ctx, user.CreateInput{Email: "up@example.com", Password: "password-1"})
	require.NoError(t, err)
	originalHash := repo.records[created.ID].PasswordHash

	_, err = svc.Update(ctx, created.ID, user.UpdateInput{DisplayName: "New Name"})
	require.NoError(t, err)
	assert.Equal(t, originalHash, repo.records[created.ID].PasswordHash)

	_, err = svc.Update(ctx, created.ID, user.UpdateInput{Password: "password-2"})
	require.NoError(t, err)
	newHash := repo.records[created.ID].PasswordHash
	assert.NotEqual(t, originalHash, newHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("password-2")))
}

func TestRemove(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()

	created, err := svc.Create(ctx, user.CreateInput{Email: "rm@example.com", Password: "password-1"})
	require.NoError(t, err)

	removed, err := svc.Remove(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)

	_, err = svc.Remove(ctx, created.ID)
	assert.ErrorIs(t, err, relay_errors.ErrNotFound)
}

func TestVerifyUser(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()

	created, err := svc.Create(ctx, user.CreateInput{Email: "v@example.com", Password: "right-password"})
	require.NoError(t, err)

	verified, err := svc.VerifyUser(ctx, "v@example.com", "right-password")
	require.NoError(t, err)
	assert.Equal(t, created.ID, verified.ID)

	_, wrongPass := svc.VerifyUser(ctx, "v@example.com", "wrong-password")
	_, unknownEmail := svc.VerifyUser(ctx, "nobody@example.com", "right-password")

	// Unknown email and bad password are indistinguishable to the caller.
	assert.ErrorIs(t, wrongPass, relay_errors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, relay_errors.ErrInvalidCredentials)
	assert.Equal(t, wrongPass, unknownEmail)
}
