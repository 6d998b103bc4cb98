package constants

// Status kehadiran (kolom attendance_status)
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
	AttendanceExcused = "excused"
)

// Sumber pencatatan (kolom attendance_source)
const (
	SourceQR      = "qr"
	SourceManual  = "manual"
	SourceRequest = "request"
)

// Request (pengajuan) siswa
const (
	RequestTypeLeave      = "leave"
	RequestTypeCorrection = "correction"

	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

var AttendanceStatuses = []string{
	AttendancePresent,
	AttendanceAbsent,
	AttendanceLate,
	AttendanceExcused,
}

// IsCountedPresent: status yang dihitung "hadir" di rekap.
func IsCountedPresent(status string) bool {
	return status == AttendancePresent || status == AttendanceLate
}
