// Package changes extracts the uncommitted state of a single file from its
// enclosing git repository, producing the pre-edit and current content
// pairs the analysis prompt builder works on.
package changes

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"

	"github.com/hyperb1iss/lucidity-mcp/internal/analysis"
	"github.com/hyperb1iss/lucidity-mcp/internal/logging"
)

var (
	// ErrNoChanges is returned when the file has no uncommitted changes.
	ErrNoChanges = errors.New("no changes detected")

	// ErrSkippedFile is returned for files that are never worth analyzing,
	// such as lockfiles and checksum databases.
	ErrSkippedFile = errors.New("file type is excluded from analysis")

	// ErrFileTooLarge is returned when the worktree file exceeds the size
	// limit.
	ErrFileTooLarge = errors.New("file exceeds size limit")

	// ErrNothingToAnalyze is returned when the change leaves no code to
	// analyze: the file was deleted, or the change is trivially small.
	ErrNothingToAnalyze = errors.New("nothing to analyze")
)

// Status classifies the change applied to a file.
type Status string

const (
	StatusAdded    Status = "added"
	StatusModified Status = "modified"
	StatusDeleted  Status = "deleted"
	StatusRenamed  Status = "renamed"
)

// FileChange is the extracted uncommitted change for a single file.
type FileChange struct {
	// Path is the file path relative to the repository root.
	Path string

	// Status classifies the change.
	Status Status

	// Language is the detected programming language of the file.
	Language string

	// OriginalCode is the file content at HEAD. Empty for files that did
	// not exist at HEAD (untracked or newly added) or when the repository
	// has no commits yet.
	OriginalCode string

	// Code is the current worktree content. Empty for deleted files.
	Code string
}

// skippedSuffixes marks files that never carry analyzable code.
var skippedSuffixes = []string{
	".lock",
	".sum",
	".mod",
	"package-lock.json",
	"yarn.lock",
	".DS_Store",
}

const (
	// maxFileSize bounds the worktree content read into memory.
	maxFileSize = 5 * 1024 * 1024

	// minChangeSize is the smallest worktree content considered worth
	// analyzing, in significant characters.
	minChangeSize = 10
)

// Extractor reads single-file changes out of git worktrees.
type Extractor struct {
	logger *logging.AppLogger
}

// NewExtractor creates a change extractor.
func NewExtractor(logger *logging.AppLogger) *Extractor {
	return &Extractor{logger: logger}
}

// ExtractFileChange locates the repository enclosing path and returns the
// uncommitted change for that one file: the worktree content as Code and
// the HEAD content as OriginalCode. The path may be absolute or relative
// to the working directory.
func (e *Extractor) ExtractFileChange(path string) (*FileChange, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("file path must not be empty")
	}

	if isSkippedFile(path) {
		return nil, fmt.Errorf("%w: %s", ErrSkippedFile, filepath.Base(path))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := git.PlainOpenWithOptions(filepath.Dir(absPath), &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository for %s: %w", path, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	relPath, err := filepath.Rel(wt.Filesystem.Root(), absPath)
	if err != nil || strings.HasPrefix(relPath, "..") {
		return nil, fmt.Errorf("%s is outside the repository worktree", path)
	}
	relPath = filepath.ToSlash(relPath)

	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to read worktree status: %w", err)
	}

	fileStatus, ok := status[relPath]
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNoChanges, relPath)
	}

	change := &FileChange{
		Path:     relPath,
		Status:   classifyStatus(fileStatus),
		Language: analysis.DetectLanguage(relPath),
	}

	if change.Status != StatusDeleted {
		change.Code, err = e.readWorktreeFile(wt, relPath)
		if err != nil {
			return nil, err
		}
	}

	change.OriginalCode, err = readHeadFile(repo, relPath)
	if err != nil {
		return nil, err
	}

	if change.Status == StatusDeleted {
		return nil, fmt.Errorf("%w: %s was deleted", ErrNothingToAnalyze, relPath)
	}
	if len(strings.TrimSpace(change.Code)) < minChangeSize {
		return nil, fmt.Errorf("%w: change in %s is too small", ErrNothingToAnalyze, relPath)
	}

	e.logger.Debug("Extracted file change",
		"path", change.Path,
		"status", change.Status,
		"language", change.Language,
	)

	return change, nil
}

// classifyStatus folds the index and worktree status codes into a single
// change classification. Worktree state wins when both differ.
func classifyStatus(fs *git.FileStatus) Status {
	if fs.Worktree == git.Untracked || fs.Staging == git.Untracked {
		return StatusAdded
	}
	if fs.Worktree == git.Deleted || fs.Staging == git.Deleted {
		return StatusDeleted
	}
	if fs.Staging == git.Renamed {
		return StatusRenamed
	}
	if fs.Staging == git.Added {
		return StatusAdded
	}
	return StatusModified
}

// readWorktreeFile reads the current content of the file, enforcing the
// size limit before pulling it into memory.
func (e *Extractor) readWorktreeFile(wt *git.Worktree, relPath string) (string, error) {
	info, err := wt.Filesystem.Stat(relPath)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", relPath, err)
	}
	if info.Size() > maxFileSize {
		return "", fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, relPath, info.Size())
	}

	f, err := wt.Filesystem.Open(relPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", relPath, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", relPath, err)
	}
	return string(content), nil
}

// readHeadFile returns the file content at HEAD. Files absent from HEAD
// and repositories without commits yield an empty string.
func readHeadFile(repo *git.Repository, relPath string) (string, error) {
	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("failed to load HEAD commit: %w", err)
	}

	file, err := commit.File(relPath)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s at HEAD: %w", relPath, err)
	}

	content, err := file.Contents()
	if err != nil {
		return "", fmt.Errorf("failed to read %s at HEAD: %w", relPath, err)
	}
	return content, nil
}

func isSkippedFile(path string) bool {
	name := filepath.Base(path)
	for _, suffix := range skippedSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
