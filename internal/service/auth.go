package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/ziggy-data/investimento/internal/model"
	"github.com/ziggy-data/investimento/internal/repository"
)

// Identity - аутентифицированная личность, извлечённая из токена.
// Разрешается один раз на границе запроса и передаётся явно;
// бизнес-логика не обращается к глобальному контексту безопасности.
type Identity struct {
	UserID string
	Role   string
}

// tokenClaims - claims JWT токена с ролью пользователя
type tokenClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type AuthService struct {
	userRepo    *repository.UserRepository
	jwtSecret   string
	tokenExpiry time.Duration
	logger      *logrus.Logger
}

func NewAuthService(userRepo *repository.UserRepository, jwtSecret string, tokenExpiry time.Duration, logger *logrus.Logger) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
		logger:      logger,
	}
}

// Login Аутентификация пользователя и выдача JWT токена
func (s *AuthService) Login(ctx context.Context, input model.LoginInput) (string, error) {
	s.logger.WithField("username", input.Username).Info("Попытка входа пользователя")

	// Поиск пользователя по имени
	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		s.logger.WithError(err).Warn("Пользователь не найден или неверные учётные данные")
		return "", model.NewAuthError("Usuário ou senha inválidos.")
	}

	// Проверка пароля
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		s.logger.Warn("Неверный пароль при попытке входа")
		return "", model.NewAuthError("Usuário ou senha inválidos.")
	}

	// Генерация JWT токена
	token, err := s.GenerateToken(user.ID.String(), user.Role)
	if err != nil {
		s.logger.WithError(err).Error("Не удалось сгенерировать JWT токен")
		return "", fmt.Errorf("ошибка генерации токена: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("Пользователь успешно вошёл в систему")
	return token, nil
}

// GenerateToken Генерация JWT токена с ролью в claims
func (s *AuthService) GenerateToken(userID, role string) (string, error) {
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Role: role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ParseToken Разбор и валидация JWT токена
func (s *AuthService) ParseToken(tokenString string) (*Identity, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil || !token.Valid {
		s.logger.WithError(err).Warn("Невалидный JWT токен")
		return nil, model.NewAuthError("Token inválido ou expirado.")
	}

	if claims.Subject == "" {
		s.logger.Error("Не удалось извлечь идентификатор пользователя из токена")
		return nil, model.NewAuthError("Token inválido ou expirado.")
	}

	return &Identity{UserID: claims.Subject, Role: claims.Role}, nil
}

// EnsureAdminUser создаёт пользователя admin, если таблица пользователей
// пуста. Пароль берётся из конфигурации.
func (s *AuthService) EnsureAdminUser(ctx context.Context, password string) error {
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("ошибка проверки количества пользователей: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	admin := &model.User{
		ID:        uuid.New(),
		Username:  "admin",
		Password:  string(hashedPassword),
		Role:      model.RoleAdmin,
		CreatedAt: time.Now(),
	}

	if err := s.userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("ошибка создания пользователя admin: %w", err)
	}

	s.logger.Info("Пользователь 'admin' по умолчанию создан")
	return nil
}
