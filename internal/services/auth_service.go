package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/squadhub/backend/internal/config"
	"github.com/squadhub/backend/internal/dto"
	"github.com/squadhub/backend/internal/models"
	"github.com/squadhub/backend/internal/storage"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const profileImageFolder = "employee"

// AuthService is the identity store: credential verification, token
// issuance and admin-side employee management.
type AuthService struct {
	db    *gorm.DB
	cfg   *config.Config
	files storage.Store
}

func NewAuthService(db *gorm.DB, cfg *config.Config, files storage.Store) *AuthService {
	return &AuthService{db: db, cfg: cfg, files: files}
}

// Login verifies credentials and issues a token pair. Every failure mode
// returns the same generic error so callers cannot probe which emails
// exist.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(&user)
}

// Refresh rotates a refresh token: the presented token is revoked and a
// fresh pair is issued.
func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.LoginResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ? AND revoked = ?", tokenHash, false).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		s.db.Model(&stored).Update("revoked", true)
		return nil, ErrInvalidToken
	}

	s.db.Model(&stored).Update("revoked", true)

	var user models.User
	if err := s.db.First(&user, "id = ?", stored.UserID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return s.generateTokenPair(&user)
}

func (s *AuthService) Logout(req *dto.LogoutRequest) error {
	tokenHash := hashToken(req.RefreshToken)
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

// CreateEmployee creates an employee account with an optional profile
// image stored via the blob collaborator.
func (s *AuthService) CreateEmployee(req *dto.CreateEmployeeRequest, image *multipart.FileHeader) (*models.User, error) {
	fields := map[string]string{}
	if req.Name == "" {
		fields["name"] = "name is required"
	}
	if req.Email == "" {
		fields["email"] = "email is required"
	}
	if len(req.Password) < 6 {
		fields["password"] = "password must be at least 6 characters"
	}
	if !validGender(req.Gender) {
		fields["gender"] = "gender must be male, female or other"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if err := s.checkUnique(req.Email, req.EmployeeNo, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:          uuid.New(),
		Name:        req.Name,
		Email:       req.Email,
		Password:    string(hash),
		Role:        models.RoleEmployee,
		Phone:       req.Phone,
		Designation: req.Designation,
		Gender:      req.Gender,
	}
	if req.EmployeeNo != "" {
		no := req.EmployeeNo
		user.EmployeeNo = &no
	}

	if image != nil {
		ref, err := s.files.Save(image, profileImageFolder)
		if err != nil {
			return nil, fmt.Errorf("failed to store profile image: %w", err)
		}
		user.ProfileImage = ref
	}

	if err := s.db.Create(&user).Error; err != nil {
		if user.ProfileImage != "" {
			if delErr := s.files.Delete(user.ProfileImage); delErr != nil {
				slog.Error("failed to remove orphaned profile image", "ref", user.ProfileImage, "error", delErr)
			}
		}
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	return &user, nil
}

func validGender(g string) bool {
	switch g {
	case "", "male", "female", "other":
		return true
	}
	return false
}

// UpdateEmployee applies a partial update. The password is re-hashed only
// when a new one is supplied; a replaced profile image deletes the old
// artifact best-effort.
func (s *AuthService) UpdateEmployee(id uuid.UUID, req *dto.UpdateEmployeeRequest, image *multipart.FileHeader) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	email := user.Email
	if req.Email != nil {
		email = *req.Email
	}
	employeeNo := ""
	if req.EmployeeNo != nil {
		employeeNo = *req.EmployeeNo
	}
	if err := s.checkUnique(email, employeeNo, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Designation != nil {
		updates["designation"] = *req.Designation
	}
	if req.Gender != nil {
		if !validGender(*req.Gender) {
			return nil, &ValidationError{Fields: map[string]string{"gender": "gender must be male, female or other"}}
		}
		updates["gender"] = *req.Gender
	}
	if req.EmployeeNo != nil {
		if *req.EmployeeNo == "" {
			updates["employee_no"] = nil
		} else {
			updates["employee_no"] = *req.EmployeeNo
		}
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password"] = string(hash)
	}

	if image != nil {
		ref, err := s.files.Save(image, profileImageFolder)
		if err != nil {
			return nil, fmt.Errorf("failed to store profile image: %w", err)
		}
		if user.ProfileImage != "" {
			if err := s.files.Delete(user.ProfileImage); err != nil {
				slog.Error("failed to delete old profile image", "user_id", id.String(), "error", err)
			}
		}
		updates["profile_image"] = ref
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update employee: %w", err)
		}
	}

	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}
	return &user, nil
}

// DeleteEmployee removes the user together with their membership rows and
// refresh tokens in one transaction. The stored profile image is cleaned
// up best-effort after the record is gone; a storage failure is logged,
// never surfaced.
func (s *AuthService) DeleteEmployee(id uuid.UUID) error {
	var user models.User
	err := s.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Membership{}).Error; err != nil {
			return fmt.Errorf("failed to delete memberships: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.RefreshToken{}).Error; err != nil {
			return fmt.Errorf("failed to delete refresh tokens: %w", err)
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return err
	}

	if user.ProfileImage != "" {
		if err := s.files.Delete(user.ProfileImage); err != nil {
			slog.Error("failed to delete profile image", "user_id", id.String(), "error", err)
		}
	}
	return nil
}

// SearchEmployees lists employees, optionally filtered by a case-
// insensitive substring over name, email, designation and employee number,
// newest first.
func (s *AuthService) SearchEmployees(search string) ([]models.User, error) {
	query := s.db.Where("role = ?", models.RoleEmployee)

	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(designation) LIKE ? OR LOWER(employee_no) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var users []models.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to search employees: %w", err)
	}
	return users, nil
}

func (s *AuthService) checkUnique(email, employeeNo string, selfID uuid.UUID) error {
	if email != "" {
		var count int64
		q := s.db.Model(&models.User{}).Where("email = ?", email)
		if selfID != uuid.Nil {
			q = q.Where("id <> ?", selfID)
		}
		if err := q.Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if count > 0 {
			return ErrEmailTaken
		}
	}
	if employeeNo != "" {
		var count int64
		q := s.db.Model(&models.User{}).Where("employee_no = ?", employeeNo)
		if selfID != uuid.Nil {
			q = q.Where("id <> ?", selfID)
		}
		if err := q.Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check employee number: %w", err)
		}
		if count > 0 {
			return ErrEmployeeNoTaken
		}
	}
	return nil
}

func (s *AuthService) generateTokenPair(user *models.User) (*dto.LoginResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		Role:         user.Role,
		User:         *user,
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  user.Role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
