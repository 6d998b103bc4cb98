// internals/features/attendance/requests/service/decision_service.go
package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"attendku_backend/internals/constants"
	attModel "attendku_backend/internals/features/attendance/attendances/model"
	attService "attendku_backend/internals/features/attendance/attendances/service"
	"attendku_backend/internals/features/attendance/requests/model"
)

var (
	ErrNotPending     = errors.New("request already decided")
	ErrNoSubjects     = errors.New("class has no subjects to excuse")
	ErrMissingSubject = errors.New("correction request needs a subject")
)

// TargetStatus: status presensi hasil approval.
func TargetStatus(reqType string) string {
	if reqType == constants.RequestTypeCorrection {
		return constants.AttendancePresent
	}
	return constants.AttendanceExcused
}

// Snapshot: jejak keputusan yang disimpan di kolom jsonb.
func Snapshot(decision string, by uuid.UUID, at time.Time, remarks *string, subjects []uuid.UUID, prev map[string]string) datatypes.JSONMap {
	ids := make([]string, 0, len(subjects))
	for _, s := range subjects {
		ids = append(ids, s.String())
	}
	snap := datatypes.JSONMap{
		"decision":    decision,
		"decided_by":  by.String(),
		"decided_at":  at.UTC().Format(time.RFC3339),
		"subject_ids": ids,
	}
	if remarks != nil {
		snap["remarks"] = *remarks
	}
	if len(prev) > 0 {
		p := map[string]any{}
		for k, v := range prev {
			p[k] = v
		}
		snap["previous_status"] = p
	}
	return snap
}

// lockPending: ambil request dengan FOR UPDATE; selain pending → ErrNotPending.
func lockPending(tx *gorm.DB, id uuid.UUID) (*model.AttendanceRequestModel, error) {
	var r model.AttendanceRequestModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&r, "attendance_request_id = ?", id).Error; err != nil {
		return nil, err
	}
	if r.AttendanceRequestStatus != constants.RequestPending {
		return &r, ErrNotPending
	}
	return &r, nil
}

// Approve: correction → present (source=request); leave → excused untuk subject
// yang diminta, atau semua subject kelas bila kosong.
func Approve(tx *gorm.DB, id, reviewer uuid.UUID, remarks *string, now time.Time) (*model.AttendanceRequestModel, []uuid.UUID, error) {
	r, err := lockPending(tx, id)
	if err != nil {
		return r, nil, err
	}

	var subjects []uuid.UUID
	if r.AttendanceRequestSubjectID != nil {
		subjects = []uuid.UUID{*r.AttendanceRequestSubjectID}
	} else {
		if r.AttendanceRequestType == constants.RequestTypeCorrection {
			return r, nil, ErrMissingSubject
		}
		if err := tx.Table("subjects").
			Where("subject_class_id = ? AND subject_deleted_at IS NULL", r.AttendanceRequestClassID).
			Order("subject_code ASC").
			Pluck("subject_id", &subjects).Error; err != nil {
			return r, nil, err
		}
		if len(subjects) == 0 {
			return r, nil, ErrNoSubjects
		}
	}

	// status lama untuk jejak audit
	prev := map[string]string{}
	var olds []attModel.AttendanceModel
	if err := tx.Where("attendance_student_id = ? AND attendance_date = ? AND attendance_subject_id IN ?",
		r.AttendanceRequestStudentID, r.AttendanceRequestDate, subjects).
		Find(&olds).Error; err != nil {
		return r, nil, err
	}
	for _, o := range olds {
		prev[o.AttendanceSubjectID.String()] = o.AttendanceStatus
	}

	status := TargetStatus(r.AttendanceRequestType)
	for _, sid := range subjects {
		row := &attModel.AttendanceModel{
			AttendanceStudentID: r.AttendanceRequestStudentID,
			AttendanceSubjectID: sid,
			AttendanceDate:      r.AttendanceRequestDate,
			AttendanceClassID:   r.AttendanceRequestClassID,
			AttendanceStatus:    status,
			AttendanceSource:    constants.SourceRequest,
			AttendanceMarkedBy:  &reviewer,
			AttendanceMarkedAt:  now,
			AttendanceRemarks:   remarks,
		}
		if err := attService.Upsert(tx, row); err != nil {
			return r, nil, err
		}
	}

	if err := decide(tx, r, constants.RequestApproved, reviewer, remarks, now, Snapshot(constants.RequestApproved, reviewer, now, remarks, subjects, prev)); err != nil {
		return r, nil, err
	}
	return r, subjects, nil
}

func Reject(tx *gorm.DB, id, reviewer uuid.UUID, remarks *string, now time.Time) (*model.AttendanceRequestModel, error) {
	r, err := lockPending(tx, id)
	if err != nil {
		return r, err
	}
	if err := decide(tx, r, constants.RequestRejected, reviewer, remarks, now, Snapshot(constants.RequestRejected, reviewer, now, remarks, nil, nil)); err != nil {
		return r, err
	}
	return r, nil
}

func decide(tx *gorm.DB, r *model.AttendanceRequestModel, status string, reviewer uuid.UUID, remarks *string, now time.Time, snap datatypes.JSONMap) error {
	if err := tx.Model(&model.AttendanceRequestModel{}).
		Where("attendance_request_id = ?", r.AttendanceRequestID).
		Updates(map[string]any{
			"attendance_request_status":      status,
			"attendance_request_reviewed_by": reviewer,
			"attendance_request_reviewed_at": now,
			"attendance_request_remarks":     remarks,
			"attendance_request_snapshot":    snap,
		}).Error; err != nil {
		return err
	}
	r.AttendanceRequestStatus = status
	r.AttendanceRequestReviewedBy = &reviewer
	r.AttendanceRequestReviewedAt = &now
	r.AttendanceRequestRemarks = remarks
	r.AttendanceRequestSnapshot = snap
	return nil
}
