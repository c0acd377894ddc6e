package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ziggy-data/investimento/internal/model"
	"github.com/ziggy-data/investimento/internal/repository"
	"github.com/ziggy-data/investimento/internal/service"
)

func newLoginRouter(t *testing.T) (*mux.Router, sqlmock.Sqlmock, *service.AuthService) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := newTestLogger()
	userRepo := repository.NewUserRepository(db, logger)
	auth := service.NewAuthService(userRepo, "test-secret", time.Hour, logger)

	router := mux.NewRouter()
	sub := router.PathPrefix("/api/v1/auth").Subrouter()
	NewAuthHandler(auth, logger).RegisterRoutes(sub)

	return router, mock, auth
}

func TestLoginEndpoint(t *testing.T) {
	router, mock, auth := newLoginRouter(t)

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("FROM usuarios").
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "role", "created_at"}).
			AddRow(uuid.New().String(), "admin", string(hashed), model.RoleAdmin, time.Now()))

	body := `{"username": "admin", "password": "password123"}`
	request := httptest.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var response model.LoginResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)

	// Выданный токен проходит валидацию
	identity, err := auth.ParseToken(response.Token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, identity.Role)
}

func TestLoginEndpointWrongPassword(t *testing.T) {
	router, mock, _ := newLoginRouter(t)

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("FROM usuarios").
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "role", "created_at"}).
			AddRow(uuid.New().String(), "admin", string(hashed), model.RoleAdmin, time.Now()))

	body := `{"username": "admin", "password": "wrong"}`
	request := httptest.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	var apiError APIError
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &apiError))
	assert.Equal(t, "Autenticação Falhou", apiError.Message)
	assert.Contains(t, apiError.Details, "Usuário ou senha inválidos.")
}

func TestLoginEndpointBlankUsername(t *testing.T) {
	router, _, _ := newLoginRouter(t)

	body := `{"username": "  ", "password": "password123"}`
	request := httptest.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var apiError APIError
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &apiError))
	assert.Equal(t, "Erro de Validação", apiError.Message)
	assert.Contains(t, apiError.Details, "O nome do usuário não pode ser vazio.")
}
