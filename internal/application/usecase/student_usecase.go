// internal/application/usecase/student_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	studentdom "github.com/palukuba/proofchain-schools/internal/domain/student"
)

// ============================================================
// Ports
// ============================================================

type studentRepo interface {
	GetByUserID(ctx context.Context, userID string) (studentdom.Profile, error)
	ListBySchoolID(ctx context.Context, schoolID string) ([]studentdom.Profile, error)
	Create(ctx context.Context, p studentdom.Profile) (studentdom.Profile, error)
}

// ============================================================
// StudentUsecase
// ============================================================

// StudentUsecase backs the recipient directory the issuance workflow
// picks from.
type StudentUsecase struct {
	students studentRepo
	now      func() time.Time
}

func NewStudentUsecase(students studentRepo) *StudentUsecase {
	return &StudentUsecase{students: students, now: time.Now}
}

// ListForSchool returns the school's enrolled students.
func (u *StudentUsecase) ListForSchool(ctx context.Context, schoolID string) ([]studentdom.Profile, error) {
	schoolID = strings.TrimSpace(schoolID)
	if schoolID == "" {
		return nil, errors.New("student: empty schoolId")
	}
	return u.students.ListBySchoolID(ctx, schoolID)
}

// CreateInput is the enrollment payload.
type CreateStudentInput struct {
	UserID       string `json:"userId"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	PublicWallet string `json:"publicWallet"`
}

// Enroll registers a student under the school.
func (u *StudentUsecase) Enroll(ctx context.Context, schoolID string, in CreateStudentInput) (studentdom.Profile, error) {
	p, err := studentdom.New(in.UserID, schoolID, in.FullName, in.Email, in.PublicWallet, u.now())
	if err != nil {
		return studentdom.Profile{}, err
	}
	return u.students.Create(ctx, p)
}

// Get resolves one student profile.
func (u *StudentUsecase) Get(ctx context.Context, userID string) (studentdom.Profile, error) {
	return u.students.GetByUserID(ctx, userID)
}
