package model

// Типизированные ошибки приложения. Обработчики HTTP сопоставляют их
// с кодами ответов: валидация и бизнес-правила -> 400, аутентификация -> 401,
// всё остальное -> 500 без деталей для клиента.

// ValidationError - ошибка валидации входных данных (запрос отклоняется до бизнес-логики)
type ValidationError struct {
	Message string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// BusinessError - нарушение бизнес-правила (например, нет подходящего продукта).
// Сообщение всегда содержит описание с указанием входных данных.
type BusinessError struct {
	Message string
}

func NewBusinessError(message string) *BusinessError {
	return &BusinessError{Message: message}
}

func (e *BusinessError) Error() string {
	return e.Message
}

// AuthError - ошибка аутентификации (неверные учётные данные, невалидный токен)
type AuthError struct {
	Message string
}

func NewAuthError(message string) *AuthError {
	return &AuthError{Message: message}
}

func (e *AuthError) Error() string {
	return e.Message
}
