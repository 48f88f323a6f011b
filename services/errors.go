package services

import (
	"errors"
	"fmt"
)

// Базовые виды ошибок. Конкретные ошибки ниже оборачивают один из них,
// поэтому в хендлерах достаточно errors.Is(err, ErrNotFound) и т.п.
var (
	ErrNotFound             = errors.New("requested resource not found")
	ErrConflict             = errors.New("conflict with current state")
	ErrInvalidState         = errors.New("operation is not valid in the current state")
	ErrValidationFailed     = errors.New("validation failed")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")
)

// Не найдено
var (
	ErrEventNotFound       = fmt.Errorf("%w: tournament not found", ErrNotFound)
	ErrBattleNotFound      = fmt.Errorf("%w: battle not found", ErrNotFound)
	ErrParticipantNotFound = fmt.Errorf("%w: participant not found", ErrNotFound)
	ErrJudgeNotFound       = fmt.Errorf("%w: judge not found", ErrNotFound)
	ErrUserNotFound        = fmt.Errorf("%w: user not found", ErrNotFound)
)

// Конфликты
var (
	ErrEventAlreadyExists    = fmt.Errorf("%w: tournament already exists", ErrConflict)
	ErrDuplicateVote         = fmt.Errorf("%w: judge already voted for this participant in this battle", ErrConflict)
	ErrBattleAlreadyResolved = fmt.Errorf("%w: battle already has a winner", ErrConflict)
	ErrNextBattleResolved    = fmt.Errorf("%w: next battle already has a winner", ErrConflict)
	ErrPhoenixPowerUsed      = fmt.Errorf("%w: phoenix power already used", ErrConflict)
	ErrUserNicknameConflict  = fmt.Errorf("%w: nickname is already in use", ErrConflict)
)

// Недопустимое состояние
var (
	ErrParticipantNotInBattle = fmt.Errorf("%w: participant does not take part in this battle", ErrInvalidState)
	ErrBattleNotReady         = fmt.Errorf("%w: both battle participants must be set", ErrInvalidState)
	ErrNextBattleMissing      = fmt.Errorf("%w: next battle does not exist", ErrInvalidState)
	ErrNextBattleFull         = fmt.Errorf("%w: next battle has no free slot", ErrInvalidState)
)

// Валидация
var (
	ErrInvalidRoster    = fmt.Errorf("%w: invalid participants list", ErrValidationFailed)
	ErrInvalidScore     = fmt.Errorf("%w: ratings must not be negative", ErrValidationFailed)
	ErrInvalidTimer     = fmt.Errorf("%w: timers must not be negative", ErrValidationFailed)
	ErrInvalidRole      = fmt.Errorf("%w: unknown user role", ErrValidationFailed)
	ErrNicknameRequired = fmt.Errorf("%w: nickname is required", ErrValidationFailed)
	ErrPasswordTooShort = fmt.Errorf("%w: password is too short", ErrValidationFailed)
)

// Аутентификация и доступ
var (
	ErrAuthInvalidCredentials = fmt.Errorf("%w: invalid nickname or password", ErrAuthenticationFailed)
	ErrSelfDeleteForbidden    = fmt.Errorf("%w: users cannot delete themselves", ErrForbiddenOperation)
)
