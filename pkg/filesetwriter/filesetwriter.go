/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

// Package filesetwriter writes a set of generated files as one planned
// operation: scan what would change, preview it, then write.
package filesetwriter

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	clierrors "github.com/coffeeshop/cli/internal/errors"
	"github.com/coffeeshop/cli/pkg/styles"
	"github.com/dustin/go-humanize"
	"github.com/google/renameio/v2"
	"github.com/rs/zerolog/log"
)

// ConflictPolicy determines what happens when a target file already exists
// with different content.
type ConflictPolicy int

const (
	Overwrite ConflictPolicy = iota // Replace the existing file (default).
	Skip                            // Don't write; keep the original.
)

// PlannedFile represents a single file to be written.
type PlannedFile struct {
	Path        string         // Target path to write to.
	Content     []byte         // File content.
	Perm        os.FileMode    // Permission bits for new files.
	OnConflict  ConflictPolicy // What to do if Path already exists.
	Description string         // Shown in preview, eg, 'production settings'.
}

// FileAction describes the resolved action for a file after scanning.
type FileAction int

const (
	ActionCreate    FileAction = iota // File is new, will be created.
	ActionOverwrite                   // File exists with other content, will be replaced.
	ActionSkip                        // File exists with other content, will be kept.
	ActionUnchanged                   // File exists with identical content, nothing to do.
)

func (action FileAction) String() string {
	switch action {
	case ActionCreate:
		return "create"
	case ActionOverwrite:
		return "overwrite"
	case ActionSkip:
		return "skip"
	case ActionUnchanged:
		return "unchanged"
	default:
		return fmt.Sprintf("FileAction(%d)", int(action))
	}
}

// FileResult is the scan result for a single planned file.
type FileResult struct {
	File     PlannedFile // The original planned file.
	Action   FileAction  // Resolved action after scan.
	Exists   bool        // Target path already exists on disk.
	ReadOnly bool        // Existing file is read-only.
}

// Plan holds planned file operations and their resolved outcomes.
type Plan struct {
	files   []PlannedFile
	results []FileResult
	scanned bool
	written []string // Paths successfully written during Execute.
}

// NewPlan creates a new empty file plan.
func NewPlan() *Plan {
	return &Plan{}
}

// Add appends a file that replaces any existing file at the path.
func (p *Plan) Add(path string, content []byte, perm os.FileMode, description string) *Plan {
	p.files = append(p.files, PlannedFile{
		Path:        path,
		Content:     content,
		Perm:        perm,
		OnConflict:  Overwrite,
		Description: description,
	})
	return p
}

// AddSkipExisting appends a file that is only written if it does not exist yet.
func (p *Plan) AddSkipExisting(path string, content []byte, perm os.FileMode, description string) *Plan {
	p.files = append(p.files, PlannedFile{
		Path:        path,
		Content:     content,
		Perm:        perm,
		OnConflict:  Skip,
		Description: description,
	})
	return p
}

// SetConflictPolicy overrides the conflict policy of all planned files. Must
// be called before Scan.
func (p *Plan) SetConflictPolicy(policy ConflictPolicy) *Plan {
	for ndx := range p.files {
		p.files[ndx].OnConflict = policy
	}
	return p
}

// Scan inspects the filesystem and resolves the action for each planned file.
func (p *Plan) Scan() error {
	p.results = make([]FileResult, 0, len(p.files))

	for _, f := range p.files {
		r := FileResult{File: f}

		info, err := os.Stat(f.Path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR) {
			return clierrors.Wrapf(err, "Failed to stat %s", f.Path)
		}
		r.Exists = err == nil

		switch {
		case !r.Exists:
			r.Action = ActionCreate
		case info.IsDir():
			return clierrors.Newf("Cannot write %s, it is a directory", f.Path)
		default:
			existing, err := os.ReadFile(f.Path)
			if err != nil {
				return clierrors.Wrapf(err, "Failed to read %s", f.Path)
			}
			r.ReadOnly = isReadOnly(info)
			if bytes.Equal(existing, f.Content) {
				r.Action = ActionUnchanged
			} else if f.OnConflict == Skip {
				r.Action = ActionSkip
			} else {
				r.Action = ActionOverwrite
			}
		}

		p.results = append(p.results, r)
	}

	p.scanned = true
	return nil
}

func (p *Plan) requireScanned(method string) {
	if !p.scanned {
		panic(fmt.Sprintf("filesetwriter: %s() called before Scan()", method))
	}
}

// Results returns the scan results. Panics if Scan has not been called.
func (p *Plan) Results() []FileResult {
	p.requireScanned("Results")
	return p.results
}

// FilesToWrite returns the number of files that will actually be written.
func (p *Plan) FilesToWrite() int {
	p.requireScanned("FilesToWrite")
	count := 0
	for _, r := range p.results {
		if r.Action == ActionCreate || r.Action == ActionOverwrite {
			count++
		}
	}
	return count
}

// HasReadOnlyFiles returns true if any file to be overwritten is read-only.
func (p *Plan) HasReadOnlyFiles() bool {
	p.requireScanned("HasReadOnlyFiles")
	for _, r := range p.results {
		if r.ReadOnly && r.Action == ActionOverwrite {
			return true
		}
	}
	return false
}

// HasConflicts returns true if writing would replace existing content.
func (p *Plan) HasConflicts() bool {
	p.requireScanned("HasConflicts")
	for _, r := range p.results {
		if r.Action == ActionOverwrite {
			return true
		}
	}
	return false
}

// Preview logs a line per planned file with the resolved action.
func (p *Plan) Preview() {
	p.requireScanned("Preview")

	for _, r := range p.results {
		badge := ""
		switch r.Action {
		case ActionCreate:
			badge = styles.RenderSuccess(" (new)")
		case ActionOverwrite:
			badge = styles.RenderAttention(" (overwrite)")
		case ActionSkip:
			badge = styles.RenderMuted(" (skip, exists)")
		case ActionUnchanged:
			badge = styles.RenderMuted(" (unchanged)")
		}

		readOnlyBadge := ""
		if r.ReadOnly && r.Action == ActionOverwrite {
			readOnlyBadge = styles.RenderWarning(" [read-only]")
		}

		description := ""
		if r.File.Description != "" {
			description = styles.RenderMuted(" -- " + r.File.Description)
		}

		log.Info().Msgf("  %s%s%s%s", styles.RenderTechnical(filepath.ToSlash(r.File.Path)), badge, readOnlyBadge, description)
	}
}

// Execute writes the files resolved to create or overwrite. Each file is
// replaced atomically. On failure, the error lists the files already written.
func (p *Plan) Execute() error {
	p.requireScanned("Execute")
	p.written = nil

	for _, r := range p.results {
		if r.Action != ActionCreate && r.Action != ActionOverwrite {
			continue
		}

		dir := filepath.Dir(r.File.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return p.wrapWriteError(err, fmt.Sprintf("Failed to create directory %s", dir))
		}

		if err := renameio.WriteFile(r.File.Path, r.File.Content, r.File.Perm); err != nil {
			return p.wrapWriteError(err, fmt.Sprintf("Failed to write file %s", r.File.Path))
		}
		p.written = append(p.written, r.File.Path)

		verb := "Created"
		if r.Action == ActionOverwrite {
			verb = "Updated"
		}
		log.Info().Msgf("  %s", styles.RenderMuted(fmt.Sprintf("%s %s (%s)", verb, r.File.Path, humanize.Bytes(uint64(len(r.File.Content))))))
	}

	return nil
}

// Written returns the paths that were successfully written during Execute.
// Before a failure this is the partial list; on success it is all written paths.
func (p *Plan) Written() []string {
	return p.written
}

// wrapWriteError wraps a write error with details about previously written files.
func (p *Plan) wrapWriteError(err error, message string) error {
	cliErr := clierrors.Wrap(err, message).
		WithSuggestion("Check that you have write permissions to the output directory")
	if len(p.written) > 0 {
		details := make([]string, 0, len(p.written)+1)
		details = append(details, fmt.Sprintf("Successfully wrote %d file(s) before failure:", len(p.written)))
		for _, w := range p.written {
			details = append(details, fmt.Sprintf("  %s", w))
		}
		cliErr = cliErr.WithDetails(details...)
	}
	return cliErr
}

// isReadOnly returns true if the file's permission bits indicate it is read-only
// (owner write bit not set).
func isReadOnly(info os.FileInfo) bool {
	return info.Mode().Perm()&0200 == 0
}
