package pipeline

import "time"

// Stage is a phase of a profile run. Linear, no loops, no retries:
// pending → preparing → building → compressing → archiving → uploading.
type Stage string

const (
	StagePending     Stage = "pending"
	StagePreparing   Stage = "preparing"
	StageBuilding    Stage = "building"
	StageCompressing Stage = "compressing"
	StageArchiving   Stage = "archiving"
	StageUploading   Stage = "uploading"
)

// StepRecord captures one executed (or skipped) step of a profile run.
type StepRecord struct {
	Name     string // "gtk install", "toolchain", "cargo build", ...
	Stage    Stage
	Status   string // "success", "failed", "skipped"
	Detail   string // error text or skip reason
	Duration time.Duration
}

// ProfileResult captures the outcome of a single profile's run.
type ProfileResult struct {
	Profile     Profile
	Steps       []StepRecord
	ArchivePath string // written archive, "" before archiving
	AssetName   string // uploaded asset name
	Status      string // "success" or "failed"
	FailedStage Stage  // stage the run halted at, "" on success
	Duration    time.Duration
	Err         error
}

// Failed reports whether any profile in results failed.
func Failed(results []ProfileResult) bool {
	for _, r := range results {
		if r.Status != "success" {
			return true
		}
	}
	return false
}

// Archives returns the written archive paths of successful profiles.
func Archives(results []ProfileResult) []string {
	var paths []string
	for _, r := range results {
		if r.Status == "success" && r.ArchivePath != "" {
			paths = append(paths, r.ArchivePath)
		}
	}
	return paths
}
