package util

import "errors"

var (
	ErrTeacherNotFound      = errors.New("teacher not found")
	ErrStudentNotFound      = errors.New("student not found")
	ErrSectionNotFound      = errors.New("class section not found")
	ErrSurveyNotFound       = errors.New("survey not found")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrInvalidStatusChange  = errors.New("survey status change not allowed")
	ErrNotAssignable        = errors.New("closed or past-due surveys cannot be assigned")
	ErrDuplicateAssignment  = errors.New("survey already assigned to this section")
	ErrDuplicateOrder       = errors.New("question order already used in this survey")
	ErrAlreadySubmitted     = errors.New("survey already submitted")
	ErrNotEligible          = errors.New("survey not available to this student")
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrSectionCodeDuplicate = errors.New("class section code already exists")
	ErrSurveyClosed         = errors.New("survey is closed")
	ErrProfileExists        = errors.New("profile already exists for this account")
)
