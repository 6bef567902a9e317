// FILE: internal/dto/cleanup_dto.go
package dto

// CleanupReport summarizes one reclamation sweep. Partial failures are
// counted here instead of failing the sweep.
type CleanupReport struct {
	SessionsReclaimed    int  `json:"sessions_reclaimed"`
	FilesRemoved         int  `json:"files_removed"`
	OrphanedFilesRemoved int  `json:"orphaned_files_removed"`
	Failures             int  `json:"failures"`
	Skipped              bool `json:"skipped"`
}

type ScheduleCleanupRequest struct {
	IntervalMinutes int `json:"interval_minutes" validate:"required,min=1,max=1440"`
}

type ScheduleCleanupResponse struct {
	IntervalMinutes int `json:"interval_minutes"`
}

type StatsResponse struct {
	SessionsTracked      int    `json:"sessions_tracked"`
	SessionsWithDocs     int    `json:"sessions_with_documents"`
	DocumentsStored      int    `json:"documents_stored"`
	CleanupIntervalMins  int    `json:"cleanup_interval_minutes"`
	CleanupSchedulerLive bool   `json:"cleanup_scheduler_live"`
	Provider             string `json:"provider"`
}
