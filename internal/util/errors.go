package util

import (
	"errors"

	"career_compass_backend/internal/model"
)

var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrEmailRegistered   = errors.New("该邮箱已被注册")
	ErrUsernameTaken     = errors.New("该用户名已被占用")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrUnknownGroup      = model.ErrUnknownGroup
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionBusy       = errors.New("another request is in flight for this session")
	ErrSessionFinished   = errors.New("session already finished")
	ErrNoAnswerSelected  = errors.New("no answer selected")
	ErrNotSkippable      = errors.New("this question cannot be skipped")
	ErrTranscriptTooLong = errors.New("transcript exceeds maximum question count")

	ErrEngineCancelled      = errors.New("request cancelled by user")
	ErrEngineTimeout        = errors.New("engine request timed out")
	ErrInvalidEngineReply   = errors.New("engine returned an incomplete response")
	ErrQuestionGeneration   = errors.New("failed to generate next question")
	ErrResultNotFound       = errors.New("result not found")
	ErrTryoutNotFound       = errors.New("tryout not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskAlreadyCompleted = errors.New("task already completed")
)
