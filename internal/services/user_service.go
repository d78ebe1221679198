package services

import (
	"context"
	"errors"
	"time"

	"chatrelay/internal/domain/user"
	"chatrelay/internal/repository"
	relay_errors "chatrelay/pkg/errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ObjectStore is the object-storage gateway the user service depends on.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key string, body []byte) error
	ObjectURL(bucket, key string) string
}

const passwordHashCost = 10

type UserService struct {
	repo     repository.UserRepository
	store    ObjectStore
	bucket   string
	imageExt string
}

func NewUserService(repo repository.UserRepository, store ObjectStore, bucket, imageExt string) *UserService {
	return &UserService{repo: repo, store: store, bucket: bucket, imageExt: imageExt}
}

func (s *UserService) Create(ctx context.Context, in user.CreateInput) (user.User, error) {
	if in.Email == "" || in.Password == "" {
		return user.User{}, relay_errors.ErrInvalidInput
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return user.User{}, err
	}

	now := time.Now()
	rec := user.Record{
		ID:           uuid.New(),
		Email:        in.Email,
		DisplayName:  in.DisplayName,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, &rec); err != nil {
		return user.User{}, err
	}
	return s.toEntity(rec), nil
}

// UploadImage stores the image bytes, derives the public URL and persists
// it on the user record. The three steps are not transactional: a persist
// failure after a successful upload leaves storage and the record out of
// sync, and each step's failure propagates unchanged.
func (s *UserService) UploadImage(ctx context.Context, data []byte, userID uuid.UUID) (string, error) {
	key := s.userImageKey(userID)

	if err := s.store.Upload(ctx, s.bucket, key, data); err != nil {
		return "", err
	}

	imageURL := s.store.ObjectURL(s.bucket, key)

	if _, err := s.repo.FindOneAndUpdate(ctx, userID, user.Changes{ImageURL: &imageURL}); err != nil {
		return "", err
	}
	return imageURL, nil
}

func (s *UserService) FindAll(ctx context.Context) ([]user.User, error) {
	records, err := s.repo.Find(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]user.User, len(records))
	for i, rec := range records {
		users[i] = s.toEntity(rec)
	}
	return users, nil
}

func (s *UserService) FindOne(ctx context.Context, id uuid.UUID) (user.User, error) {
	rec, err := s.repo.FindOneByID(ctx, id)
	if err != nil {
		return user.User{}, err
	}
	return s.toEntity(rec), nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, in user.UpdateInput) (user.User, error) {
	var changes user.Changes
	if in.Email != "" {
		changes.Email = &in.Email
	}
	if in.DisplayName != "" {
		changes.DisplayName = &in.DisplayName
	}
	if in.Password != "" {
		hash, err := hashPassword(in.Password)
		if err != nil {
			return user.User{}, err
		}
		changes.PasswordHash = &hash
	}

	rec, err := s.repo.FindOneAndUpdate(ctx, id, changes)
	if err != nil {
		return user.User{}, err
	}
	return s.toEntity(rec), nil
}

func (s *UserService) Remove(ctx context.Context, id uuid.UUID) (user.User, error) {
	rec, err := s.repo.FindOneAndDelete(ctx, id)
	if err != nil {
		return user.User{}, err
	}
	return s.toEntity(rec), nil
}

// VerifyUser checks email/password. Unknown email and wrong password both
// surface as ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *UserService) VerifyUser(ctx context.Context, email, password string) (user.User, error) {
	rec, err := s.repo.FindOneByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, relay_errors.ErrNotFound) {
			return user.User{}, relay_errors.ErrInvalidCredentials
		}
		return user.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		return user.User{}, relay_errors.ErrInvalidCredentials
	}
	return s.toEntity(rec), nil
}

// toEntity translates a persisted record into the outward entity. The
// image URL is recomputed from the user id rather than trusted from the
// stored value, and the password hash never leaves this layer.
func (s *UserService) toEntity(rec user.Record) user.User {
	return user.User{
		ID:          rec.ID,
		Email:       rec.Email,
		DisplayName: rec.DisplayName,
		ImageURL:    s.store.ObjectURL(s.bucket, s.userImageKey(rec.ID)),
		CreatedAt:   rec.CreatedAt,
	}
}

func (s *UserService) userImageKey(userID uuid.UUID) string {
	return userID.String() + "." + s.imageExt
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
