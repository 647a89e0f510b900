package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID           string `gorm:"primaryKey;size:36"`
	Name         string `gorm:"size:255"`
	Email        string `gorm:"uniqueIndex;size:255"`
	Phone        string `gorm:"size:32"`
	PasswordHash string `gorm:"column:password"`
	Role         string `gorm:"index;size:16"`
	Avatar       string `gorm:"size:512"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepositoryImpl {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, identity *domain.Identity) error {
	if identity.ID == "" {
		identity.ID = uuid.NewString()
	}
	dbUser := r.domainToDB(identity)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	identity.CreatedAt = dbUser.CreatedAt
	return nil
}

// FindByEmail implements domain.UserDirectory. Emails match exactly.
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// List implements domain.UserRepository, oldest account first
func (r *UserRepositoryImpl) List(ctx context.Context) ([]*domain.Identity, error) {
	var rows []DBUser
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	identities := make([]*domain.Identity, 0, len(rows))
	for i := range rows {
		identities = append(identities, r.dbToDomain(&rows[i]))
	}
	return identities, nil
}

// Count implements domain.UserRepository
func (r *UserRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&DBUser{}).Count(&n).Error
	return n, err
}

// domainToDB converts domain identity to database user
func (r *UserRepositoryImpl) domainToDB(identity *domain.Identity) *DBUser {
	return &DBUser{
		ID:           identity.ID,
		Name:         identity.Name,
		Email:        identity.Email,
		Phone:        identity.Phone,
		PasswordHash: identity.CredentialHash,
		Role:         string(identity.Role),
		Avatar:       identity.Avatar,
	}
}

// dbToDomain converts database user to domain identity
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.Identity {
	return &domain.Identity{
		ID:             dbUser.ID,
		Name:           dbUser.Name,
		Email:          dbUser.Email,
		Role:           domain.Role(dbUser.Role),
		Phone:          dbUser.Phone,
		Avatar:         dbUser.Avatar,
		CredentialHash: dbUser.PasswordHash,
		CreatedAt:      dbUser.CreatedAt,
	}
}

// isUniqueViolation recognises duplicate-key errors from drivers that do not
// translate them into gorm.ErrDuplicatedKey
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

var _ domain.UserRepository = (*UserRepositoryImpl)(nil)
