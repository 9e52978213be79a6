package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
)

// Runner executes profiles in parallel. Isolation is total: no shared
// mutable state between profiles, and a failure in one run neither
// cancels nor blocks the others.
type Runner struct {
	Exec       Executor
	SkipUpload bool
}

// Run executes every profile and returns one result per profile, in
// input order. It returns only after all profiles have finished.
func (r *Runner) Run(ctx context.Context, tag string, profiles []Profile) []ProfileResult {
	results := make([]ProfileResult, len(profiles))

	var g errgroup.Group
	for i, p := range profiles {
		g.Go(func() error {
			results[i] = r.runProfile(ctx, tag, p)
			return nil
		})
	}
	// Errors are carried in the results; the group only joins.
	_ = g.Wait()

	return results
}

// runProfile drives one profile through the linear stage sequence,
// halting at the first failure.
func (r *Runner) runProfile(ctx context.Context, tag string, p Profile) ProfileResult {
	start := time.Now()
	res := ProfileResult{Profile: p, Status: "success"}

	step := func(stage Stage, name string, run func() error) {
		if res.Status == "failed" {
			return
		}
		s := time.Now()
		if err := run(); err != nil {
			res.Steps = append(res.Steps, StepRecord{
				Name:     name,
				Stage:    stage,
				Status:   "failed",
				Detail:   err.Error(),
				Duration: time.Since(s),
			})
			res.Status = "failed"
			res.FailedStage = stage
			res.Err = fmt.Errorf("%s: %s: %w", p.Platform, stage, err)
			return
		}
		res.Steps = append(res.Steps, StepRecord{
			Name:     name,
			Stage:    stage,
			Status:   "success",
			Duration: time.Since(s),
		})
	}

	skip := func(stage Stage, name, reason string) {
		if res.Status == "failed" {
			return
		}
		res.Steps = append(res.Steps, StepRecord{
			Name:   name,
			Stage:  stage,
			Status: "skipped",
			Detail: reason,
		})
	}

	if p.NeedsGUIToolkit {
		step(StagePreparing, "gtk install", func() error {
			return r.Exec.PrepareHost(ctx, p)
		})
	} else {
		skip(StagePreparing, "gtk install", "not a linux host")
	}

	step(StagePreparing, "toolchain", func() error {
		return r.Exec.InstallToolchain(ctx, p)
	})

	var binPath string
	step(StageBuilding, "cargo build", func() error {
		var err error
		binPath, err = r.Exec.Build(ctx, p)
		return err
	})

	if p.SupportsCompression {
		step(StageCompressing, "upx", func() error {
			return r.Exec.Compress(ctx, p, binPath)
		})
	} else {
		skip(StageCompressing, "upx", "archive format compresses")
	}

	step(StageArchiving, "archive", func() error {
		var err error
		res.ArchivePath, err = r.Exec.Archive(ctx, p, tag, binPath)
		if err == nil {
			res.AssetName = filepath.Base(res.ArchivePath)
		}
		return err
	})

	if r.SkipUpload {
		skip(StageUploading, "upload", "upload disabled")
	} else {
		step(StageUploading, "upload", func() error {
			return r.Exec.Upload(ctx, p, res.ArchivePath)
		})
	}

	res.Duration = time.Since(start)
	return res
}
