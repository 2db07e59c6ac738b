package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nexusops/fulfillment-api/internal/domain"
	"github.com/nexusops/fulfillment-api/internal/store"
	"github.com/nexusops/fulfillment-api/pkg/errors"
)

type UserService struct {
	store     *store.Store
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(st *store.Store, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *UserService {
	return &UserService{
		store:     st,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Login verifies credentials and issues a bearer token.
func (s *UserService) Login(username, password string) (domain.User, string, error) {
	user, err := s.store.UserByUsername(username)
	if err != nil {
		return domain.User{}, "", &errors.ErrUnauthorized{Message: "用户名或密码错误"}
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.User{}, "", &errors.ErrUnauthorized{Message: "用户名或密码错误"}
	}

	claims := jwt.MapClaims{
		"sub":  user.Username,
		"role": string(user.Role),
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
		"iat":  time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		s.logger.Error("failed to sign token", zap.Error(err))
		return domain.User{}, "", err
	}
	return user, token, nil
}

// Authenticate resolves a bearer token back to the account it was issued to.
func (s *UserService) Authenticate(token string) (domain.User, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &errors.ErrUnauthorized{Message: "unexpected signing method"}
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return domain.User{}, &errors.ErrUnauthorized{Message: "invalid token"}
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return domain.User{}, &errors.ErrUnauthorized{Message: "invalid token claims"}
	}
	username, _ := claims["sub"].(string)
	user, err := s.store.UserByUsername(username)
	if err != nil {
		return domain.User{}, &errors.ErrUnauthorized{Message: "account no longer exists"}
	}
	return user, nil
}

// UsersByShop lists the user-role accounts assigned to a shop.
func (s *UserService) UsersByShop(shopID int) []domain.User {
	out := []domain.User{}
	for _, u := range s.store.Users() {
		if u.Role != domain.RoleUser {
			continue
		}
		for _, id := range u.AssignedShopIDs {
			if id == shopID {
				out = append(out, u)
				break
			}
		}
	}
	return out
}

// Save creates or updates a staff account. A blank password on update keeps
// the stored hash; a blank password on create is rejected.
func (s *UserService) Save(actor *domain.User, p UserPayload) error {
	if !actor.IsAdmin() {
		return &errors.ErrForbidden{Action: "manage users"}
	}

	role := domain.UserRole(p.Role)
	if role != domain.RoleAdmin && role != domain.RoleUser {
		role = domain.RoleUser
	}
	user := domain.User{
		Username:        p.Username,
		Name:            p.Name,
		Role:            role,
		Avatar:          p.Avatar,
		AssignedShopIDs: p.AssignedShopIDs,
		Permissions:     p.Permissions,
	}
	if user.Avatar == "" {
		user.Avatar = "https://api.dicebear.com/7.x/avataaars/svg?seed=" + p.Username
	}

	existing, err := s.store.UserByUsername(p.Username)
	switch {
	case p.Password != "":
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return hashErr
		}
		user.PasswordHash = string(hash)
	case err == nil:
		user.PasswordHash = existing.PasswordHash
	default:
		return &errors.ErrValidation{Field: "password", Message: "password is required for new accounts"}
	}

	return s.store.SaveUser(user)
}

// Delete removes an account; unknown usernames are a no-op.
func (s *UserService) Delete(actor *domain.User, username string) error {
	if !actor.IsAdmin() {
		return &errors.ErrForbidden{Action: "manage users"}
	}
	s.store.DeleteUser(username)
	return nil
}
