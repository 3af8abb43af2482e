// internal/domain/diploma/entity.go
package diploma

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrInvalidSchoolID  = errors.New("diploma: invalid schoolId")
	ErrInvalidStudentID = errors.New("diploma: invalid studentId")
	ErrInvalidIPFSHash  = errors.New("diploma: invalid ipfsHash")
	ErrInvalidTxHash    = errors.New("diploma: invalid transactionHash")
	ErrNotFound         = errors.New("diploma: not found")
)

// Record is an issued diploma. Written once per recipient per successful
// mint submission and never updated or deleted afterwards; the repository
// port deliberately has no update/delete methods.
type Record struct {
	ID              string            `json:"id"`
	SchoolID        string            `json:"schoolId"`
	StudentID       string            `json:"studentId"`
	StudentName     string            `json:"studentName,omitempty"`
	TemplateID      string            `json:"templateId,omitempty"`
	IPFSHash        string            `json:"ipfsHash"`
	TransactionHash string            `json:"transactionHash"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	IssuedAt        time.Time         `json:"issuedAt"`
}

// New constructs an issued-diploma record.
func New(schoolID, studentID, templateID, ipfsHash, txHash string, metadata map[string]string, issuedAt time.Time) (Record, error) {
	r := Record{
		SchoolID:        strings.TrimSpace(schoolID),
		StudentID:       strings.TrimSpace(studentID),
		TemplateID:      strings.TrimSpace(templateID),
		IPFSHash:        strings.TrimSpace(ipfsHash),
		TransactionHash: strings.TrimSpace(txHash),
		Metadata:        metadata,
		IssuedAt:        issuedAt.UTC(),
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

func (r Record) Validate() error {
	if r.SchoolID == "" {
		return ErrInvalidSchoolID
	}
	if r.StudentID == "" {
		return ErrInvalidStudentID
	}
	if r.IPFSHash == "" {
		return ErrInvalidIPFSHash
	}
	if r.TransactionHash == "" {
		return ErrInvalidTxHash
	}
	return nil
}
