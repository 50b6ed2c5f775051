package user

import (
	"context"
	"errors"
)

// stage 流水线中的一个具名步骤，第一个失败的步骤决定返回的错误
type stage struct {
	name string
	run  func(ctx context.Context) error
}

// StageError 记录失败的步骤名；Error() 保持原错误文案
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Err.Error() }
func (e *StageError) Unwrap() error { return e.Err }

// StageOf 返回失败步骤名，非流水线错误返回空串
func StageOf(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

func run(ctx context.Context, stages ...stage) error {
	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return &StageError{Stage: s.name, Err: err}
		}
		if err := s.run(ctx); err != nil {
			return &StageError{Stage: s.name, Err: err}
		}
	}
	return nil
}

// 步骤名
const (
	StageID              = "id"
	StageExists          = "exists"
	StageAuthorize       = "authorize"
	StageDemo            = "demo"
	StageBody            = "body"
	StageSchema          = "schema"
	StageFormat          = "format"
	StageCurrentPassword = "current_password"
	StageVerifyPassword  = "verify_password"
	StageUnique          = "unique"
	StageGist            = "gist"
	StageHash            = "hash"
	StageCredentials     = "credentials"
	StagePersist         = "persist"
)
