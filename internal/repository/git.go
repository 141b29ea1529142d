// Package repository manages the optional git-backed catalog source: a
// remote repository of pattern files cloned into the local patterns
// directory and refreshed on demand.
package repository

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"patternbook/internal/logging"
	"patternbook/pkg/fileops"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/transport/http"
)

// DirectoryStatus classifies the state of a target clone directory.
type DirectoryStatus int

const (
	// DirectoryStatusEmpty indicates the directory doesn't exist or is empty - safe to clone
	DirectoryStatusEmpty DirectoryStatus = iota
	// DirectoryStatusSameRepo indicates the directory contains the same git repository - safe to fetch
	DirectoryStatusSameRepo
	// DirectoryStatusDifferentRepo indicates the directory contains a different git repository
	DirectoryStatusDifferentRepo
	// DirectoryStatusConflict indicates the directory contains non-git content
	DirectoryStatusConflict
)

func (ds DirectoryStatus) String() string {
	switch ds {
	case DirectoryStatusEmpty:
		return "empty or doesn't exist"
	case DirectoryStatusSameRepo:
		return "same git repository"
	case DirectoryStatusDifferentRepo:
		return "different git repository"
	case DirectoryStatusConflict:
		return "contains non-git content"
	default:
		return "unknown status"
	}
}

// GitSource is a remote pattern catalog. Authentication is tried public
// first, with a GitHub Personal Access Token fallback from the system
// keyring for private repositories.
type GitSource struct {
	RemoteURL string  // Git repository URL (HTTPS format, SSH URLs auto-converted)
	Branch    *string // Optional branch name (nil defaults to remote's HEAD branch)
	Path      string  // Local path where the catalog is cloned
}

// NewGitSource creates a GitSource. URL validation is deferred to Prepare.
func NewGitSource(remoteURL string, branch *string, localPath string) GitSource {
	return GitSource{
		RemoteURL: remoteURL,
		Branch:    branch,
		Path:      localPath,
	}
}

// Prepare clones the catalog on first use or fetches updates on later runs,
// and returns the local path. A directory holding a different repository or
// non-git content is never overwritten.
func (gs GitSource) Prepare(logger *logging.AppLogger) (string, error) {
	if strings.TrimSpace(gs.RemoteURL) == "" {
		return "", fmt.Errorf("remote URL cannot be empty")
	}
	if strings.TrimSpace(gs.Path) == "" {
		return "", fmt.Errorf("local path cannot be empty")
	}

	normalizedURL, err := gs.normalizeRemoteURL()
	if err != nil {
		return "", fmt.Errorf("invalid remote URL: %w", err)
	}

	cleanPath, err := gs.validateLocalPath()
	if err != nil {
		return "", err
	}

	status, err := gs.validateCloneDirectory(cleanPath, normalizedURL)
	if err != nil {
		return "", err
	}

	switch status {
	case DirectoryStatusEmpty:
		if err := gs.cloneWithAuth(cleanPath, normalizedURL, logger); err != nil {
			return "", err
		}
	case DirectoryStatusSameRepo:
		if err := gs.fetchWithAuth(cleanPath, logger); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("directory conflict at %s (%s): resolve manually by removing or relocating it",
			cleanPath, status)
	}

	logger.Info("Pattern catalog prepared", "localPath", cleanPath)
	return cleanPath, nil
}

func (gs GitSource) normalizeRemoteURL() (string, error) {
	info, err := ParseGitURL(gs.RemoteURL)
	if err != nil {
		return "", err
	}
	// HTTPS with a .git suffix, whatever form came in.
	return fmt.Sprintf("https://%s/%s/%s.git", info.Host, info.Owner, info.Repo), nil
}

func (gs GitSource) validateLocalPath() (string, error) {
	clean := filepath.Clean(fileops.ExpandPath(gs.Path))

	if err := fileops.ValidatePathSecurity(clean); err != nil {
		return "", fmt.Errorf("invalid local path: %w", err)
	}
	if fileops.IsReservedDirectory(clean) {
		return "", fmt.Errorf("cannot clone into reserved directory: %s", clean)
	}

	abs, err := filepath.Abs(clean)
	if err != nil {
		return "", fmt.Errorf("cannot resolve absolute path: %w", err)
	}
	return abs, nil
}

// getAuthentication retrieves a PAT from the credential manager, or nil when
// none is stored (public access).
func (gs GitSource) getAuthentication(logger *logging.AppLogger) (*http.BasicAuth, error) {
	credMgr := NewCredentialManager()

	if !credMgr.HasGitHubToken() {
		return nil, nil
	}

	token, err := credMgr.GetGitHubToken()
	if err != nil {
		return nil, err
	}

	logger.Debug("Using GitHub Personal Access Token for authentication")

	// GitHub PAT authentication uses "token" as username.
	return &http.BasicAuth{
		Username: "token",
		Password: token,
	}, nil
}

func (gs GitSource) cloneWithAuth(localPath, remoteURL string, logger *logging.AppLogger) error {
	err := gs.clone(localPath, remoteURL, nil, logger)
	if err == nil {
		return nil
	}

	if !isAuthenticationError(err) {
		return err
	}

	logger.Debug("Public access failed, retrying with authentication")
	auth, authErr := gs.getAuthentication(logger)
	if authErr != nil {
		return fmt.Errorf("GitHub authentication failed: %w", authErr)
	}
	if auth == nil {
		return fmt.Errorf("GitHub authentication required - store a Personal Access Token with 'patternbook sync --store-token'")
	}

	return gs.clone(localPath, remoteURL, auth, logger)
}

func (gs GitSource) clone(localPath, remoteURL string, auth *http.BasicAuth, logger *logging.AppLogger) error {
	logger.Info("Cloning pattern catalog", "remoteURL", remoteURL, "localPath", localPath)

	parentDir := filepath.Dir(localPath)
	if err := fileops.ValidatePathSecurity(parentDir); err != nil {
		return fmt.Errorf("parent directory failed security validation: %w", err)
	}
	if err := os.MkdirAll(parentDir, 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	cloneOpts := &git.CloneOptions{
		URL:   remoteURL,
		Depth: 1,
	}
	if auth != nil {
		cloneOpts.Auth = auth
	}
	if gs.Branch != nil && *gs.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(*gs.Branch)
		cloneOpts.SingleBranch = true
	}

	if _, err := git.PlainClone(localPath, cloneOpts); err != nil {
		return translateGitError("clone", err)
	}
	return nil
}

func (gs GitSource) fetchWithAuth(localPath string, logger *logging.AppLogger) error {
	err := gs.fetch(localPath, nil, logger)
	if err == nil {
		return nil
	}

	if !isAuthenticationError(err) {
		return err
	}

	logger.Debug("Public fetch failed, retrying with authentication")
	auth, authErr := gs.getAuthentication(logger)
	if authErr != nil {
		return fmt.Errorf("GitHub authentication failed: %w", authErr)
	}
	if auth == nil {
		return fmt.Errorf("GitHub authentication required - store a Personal Access Token with 'patternbook sync --store-token'")
	}

	return gs.fetch(localPath, auth, logger)
}

func (gs GitSource) fetch(localPath string, auth *http.BasicAuth, logger *logging.AppLogger) error {
	repo, err := git.PlainOpen(localPath)
	if err != nil {
		return fmt.Errorf("failed to open existing repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get working tree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return fmt.Errorf("failed to get working tree status: %w", err)
	}

	// Local edits win: a dirty catalog is left alone rather than reset.
	if !status.IsClean() {
		logger.Warn("Local catalog has uncommitted changes, skipping sync")
		return nil
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return fmt.Errorf("failed to get origin remote: %w", err)
	}

	err = remote.Fetch(&git.FetchOptions{Auth: auth, Force: true})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return translateGitError("fetch", err)
	}

	if err == git.NoErrAlreadyUpToDate {
		logger.Debug("Pattern catalog already up to date")
	} else {
		logger.Info("Pattern catalog updated")
	}

	if gs.Branch != nil && *gs.Branch != "" {
		if err := checkoutBranch(repo, worktree, *gs.Branch, logger); err != nil {
			logger.Warn("Failed to checkout configured branch", "branch", *gs.Branch, "error", err)
		}
	}

	return nil
}

// validateCloneDirectory checks whether the target directory can safely back
// the given remote.
func (gs GitSource) validateCloneDirectory(clonePath, expectedRemoteURL string) (DirectoryStatus, error) {
	info, err := os.Stat(clonePath)
	if os.IsNotExist(err) {
		return DirectoryStatusEmpty, nil
	}
	if err != nil {
		return DirectoryStatusConflict, fmt.Errorf("cannot access directory %s: %w", clonePath, err)
	}
	if !info.IsDir() {
		return DirectoryStatusConflict, fmt.Errorf("path exists but is not a directory: %s", clonePath)
	}

	isEmpty, err := fileops.IsDirEmpty(clonePath)
	if err != nil {
		return DirectoryStatusConflict, err
	}
	if isEmpty {
		return DirectoryStatusEmpty, nil
	}

	currentRemote, err := originURL(clonePath)
	if err != nil {
		if errorIsNotARepo(err) {
			return DirectoryStatusConflict, nil
		}
		return DirectoryStatusConflict, err
	}

	if normalizeGitURL(currentRemote) == normalizeGitURL(expectedRemoteURL) {
		return DirectoryStatusSameRepo, nil
	}
	return DirectoryStatusDifferentRepo, nil
}

func originURL(repoPath string) (string, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		if err == git.ErrRepositoryNotExists {
			return "", fmt.Errorf("directory is not a git repository: %s", repoPath)
		}
		return "", fmt.Errorf("cannot open git repository: %w", err)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("cannot get origin remote: %w", err)
	}

	cfg := remote.Config()
	if cfg == nil || len(cfg.URLs) == 0 {
		return "", fmt.Errorf("no URLs configured for origin remote")
	}
	return cfg.URLs[0], nil
}

func errorIsNotARepo(err error) bool {
	return err != nil && strings.Contains(err.Error(), "not a git repository")
}

func checkoutBranch(repo *git.Repository, worktree *git.Worktree, branchName string, logger *logging.AppLogger) error {
	head, err := repo.Head()
	if err != nil && err != plumbing.ErrReferenceNotFound {
		return fmt.Errorf("failed to get current branch: %w", err)
	}
	if head != nil && head.Name().Short() == branchName {
		return nil
	}

	localRef := plumbing.NewBranchReferenceName(branchName)
	remoteRef := plumbing.NewRemoteReferenceName("origin", branchName)

	if _, err := repo.Reference(remoteRef, true); err != nil {
		return fmt.Errorf("branch '%s' does not exist on remote 'origin'", branchName)
	}

	if _, err := repo.Reference(localRef, true); err == plumbing.ErrReferenceNotFound {
		remoteHead, err := repo.Reference(remoteRef, true)
		if err != nil {
			return fmt.Errorf("failed to get remote branch reference: %w", err)
		}
		newRef := plumbing.NewHashReference(localRef, remoteHead.Hash())
		if err := repo.Storer.SetReference(newRef); err != nil {
			return fmt.Errorf("failed to create local branch: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("failed to get local branch reference: %w", err)
	}

	if err := worktree.Checkout(&git.CheckoutOptions{Branch: localRef}); err != nil {
		return fmt.Errorf("failed to checkout branch: %w", err)
	}

	logger.Info("Checked out branch", "branch", branchName)
	return nil
}

// translateGitError turns common Git failures into actionable messages.
func translateGitError(op string, err error) error {
	errStr := strings.ToLower(err.Error())

	if containsAuthErrorPatterns(err.Error()) {
		if strings.Contains(errStr, "403") || strings.Contains(errStr, "forbidden") {
			return fmt.Errorf("GitHub token lacks required permissions - ensure the 'repo' scope is enabled")
		}
		return fmt.Errorf("GitHub authentication failed - update your Personal Access Token")
	}
	if strings.Contains(errStr, "404") || strings.Contains(errStr, "not found") {
		return fmt.Errorf("repository not found - check the URL or your access")
	}
	if strings.Contains(errStr, "network") || strings.Contains(errStr, "connection") || strings.Contains(errStr, "timeout") {
		return fmt.Errorf("network error during %s: %w", op, err)
	}
	return fmt.Errorf("failed to %s repository: %w", op, err)
}

func isAuthenticationError(err error) bool {
	return err != nil && containsAuthErrorPatterns(err.Error())
}

func containsAuthErrorPatterns(errMsg string) bool {
	errStr := strings.ToLower(errMsg)
	for _, pattern := range []string{"authentication required", "401", "unauthorized", "403", "forbidden"} {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// GitURLInfo contains the parsed components of a Git repository URL.
type GitURLInfo struct {
	Host  string
	Owner string
	Repo  string // without .git suffix
}

var sshURLPattern = regexp.MustCompile(`^git@([^:]+):([^/]+)/(.+?)(?:\.git)?$`)

// ParseGitURL parses SSH (git@host:owner/repo.git) and HTTPS
// (https://host/owner/repo.git) repository URLs.
func ParseGitURL(gitURL string) (GitURLInfo, error) {
	gitURL = strings.TrimSpace(gitURL)

	if matches := sshURLPattern.FindStringSubmatch(gitURL); matches != nil {
		return GitURLInfo{Host: matches[1], Owner: matches[2], Repo: matches[3]}, nil
	}

	parsed, err := url.Parse(gitURL)
	if err != nil {
		return GitURLInfo{}, fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Host == "" {
		return GitURLInfo{}, fmt.Errorf("URL missing host component")
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 {
		return GitURLInfo{}, fmt.Errorf("URL path should contain owner/repo: %s", parsed.Path)
	}

	owner := parts[0]
	repo := strings.TrimSuffix(parts[1], ".git")
	if owner == "" || repo == "" {
		return GitURLInfo{}, fmt.Errorf("could not extract owner/repo from URL path: %s", parsed.Path)
	}

	return GitURLInfo{Host: parsed.Host, Owner: owner, Repo: repo}, nil
}

// normalizeGitURL reduces SSH and HTTPS forms of the same repository to one
// comparable string.
func normalizeGitURL(gitURL string) string {
	gitURL = strings.TrimSpace(gitURL)
	gitURL = strings.TrimSuffix(gitURL, ".git")

	if matches := regexp.MustCompile(`^git@([^:]+):(.+)$`).FindStringSubmatch(gitURL); matches != nil {
		return matches[1] + "/" + matches[2]
	}
	if after, found := strings.CutPrefix(gitURL, "https://"); found {
		return after
	}
	if after, found := strings.CutPrefix(gitURL, "http://"); found {
		return after
	}
	return gitURL
}
