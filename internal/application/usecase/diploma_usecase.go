// internal/application/usecase/diploma_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"

	diplomadom "github.com/palukuba/proofchain-schools/internal/domain/diploma"
)

// ============================================================
// Ports
// ============================================================

type diplomaRepo interface {
	ListBySchoolID(ctx context.Context, schoolID string) ([]diplomadom.Record, error)
	ListByStudentID(ctx context.Context, studentID string) ([]diplomadom.Record, error)
	CountBySchoolID(ctx context.Context, schoolID string) (int, error)
}

// ============================================================
// DiplomaUsecase
// ============================================================

// DiplomaUsecase reads the issued-diploma registry. Records are
// append-only; nothing here mutates them.
type DiplomaUsecase struct {
	diplomas diplomaRepo
}

func NewDiplomaUsecase(diplomas diplomaRepo) *DiplomaUsecase {
	return &DiplomaUsecase{diplomas: diplomas}
}

func (u *DiplomaUsecase) ListForSchool(ctx context.Context, schoolID string) ([]diplomadom.Record, error) {
	schoolID = strings.TrimSpace(schoolID)
	if schoolID == "" {
		return nil, errors.New("diploma: empty schoolId")
	}
	return u.diplomas.ListBySchoolID(ctx, schoolID)
}

func (u *DiplomaUsecase) ListForStudent(ctx context.Context, studentID string) ([]diplomadom.Record, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, errors.New("diploma: empty studentId")
	}
	return u.diplomas.ListByStudentID(ctx, studentID)
}

func (u *DiplomaUsecase) CountForSchool(ctx context.Context, schoolID string) (int, error) {
	schoolID = strings.TrimSpace(schoolID)
	if schoolID == "" {
		return 0, errors.New("diploma: empty schoolId")
	}
	return u.diplomas.CountBySchoolID(ctx, schoolID)
}
