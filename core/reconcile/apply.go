package reconcile

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"modsync/core/apperr"
	"modsync/core/archive"

	"github.com/spf13/afero"
)

// ErrPlanConsumed is returned when a plan is applied a second time.
var ErrPlanConsumed = errors.New("plan already applied")

// Extractor writes a single manifest entry into a directory.
// *archive.Archive satisfies it.
type Extractor interface {
	Extract(entryName, destDir string) (string, error)
}

// Stage names the apply phase a PartialError occurred in.
type Stage string

const (
	StageRemove  Stage = "remove"
	StageExtract Stage = "extract"
)

// PartialError reports an apply that stopped after changing the directory.
// Nothing is rolled back; Removed and Installed list exactly what completed.
type PartialError struct {
	// Stage is the phase that failed.
	Stage Stage

	// Name is the file the failing step was working on.
	Name string

	// Removed lists the files deleted before the failure.
	Removed []string

	// Installed lists the files extracted before the failure.
	Installed []string

	// Err is the underlying failure.
	Err error
}

func (e *PartialError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "apply failed during %s of %s after removing %d and installing %d file(s)",
		e.Stage, e.Name, len(e.Removed), len(e.Installed))
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *PartialError) Unwrap() error {
	return e.Err
}

func (e *PartialError) Is(target error) bool {
	return target == apperr.ErrFailedPartial
}

// Apply executes plan against installedDir. Every removal completes before
// the first extraction starts. A failing removal aborts before any extraction;
// a failing extraction aborts the remaining ones. Both report a *PartialError.
// An unsafe name anywhere in the plan is rejected before anything is removed.
// Apply does not observe cancellation.
func Apply(fsys afero.Fs, plan *Plan, installedDir string, src Extractor, opts ApplyOptions) (*ApplyResult, error) {
	if plan.consumed {
		return nil, ErrPlanConsumed
	}
	if err := Validate(plan, installedDir); err != nil {
		return nil, err
	}
	plan.consumed = true

	start := time.Now()
	removed := make([]string, 0, len(plan.ToRemove))

	for _, name := range plan.ToRemove {
		if err := removeInstalled(fsys, installedDir, name); err != nil {
			return nil, &PartialError{Stage: StageRemove, Name: name, Removed: removed, Err: err}
		}
		removed = append(removed, name)
		if opts.OnRemove != nil {
			opts.OnRemove(name)
		}
	}

	installed := make([]string, 0, len(plan.ToAdd)+len(plan.ToUpdate))
	for _, name := range plan.Install() {
		if opts.OnInstall != nil {
			opts.OnInstall(name)
		}
		if _, err := src.Extract(name, installedDir); err != nil {
			return nil, &PartialError{Stage: StageExtract, Name: name, Removed: removed, Installed: installed, Err: err}
		}
		installed = append(installed, name)
	}

	return &ApplyResult{
		Removed: len(removed),
		Added:   len(plan.ToAdd),
		Updated: len(plan.ToUpdate),
		Elapsed: time.Since(start),
	}, nil
}

// Validate checks that every name plan touches stays inside installedDir.
func Validate(plan *Plan, installedDir string) error {
	for _, names := range [][]string{plan.ToRemove, plan.Install()} {
		for _, name := range names {
			if _, err := archive.SafeJoin(installedDir, name); err != nil {
				return err
			}
		}
	}
	return nil
}

// removeInstalled deletes one installed file. A file that is already gone
// counts as removed.
func removeInstalled(fsys afero.Fs, dir, name string) error {
	target, err := archive.SafeJoin(dir, name)
	if err != nil {
		return err
	}
	if err := fsys.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperr.IO("remove", target, err)
	}
	return nil
}
