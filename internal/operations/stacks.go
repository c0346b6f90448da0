package operations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"stackhand/internal/compose"
	"stackhand/internal/config"
	"stackhand/internal/container"
	"stackhand/internal/db"
	"stackhand/internal/discovery"
	"stackhand/internal/errors"
	"stackhand/internal/files"
	"stackhand/internal/lock"
	"stackhand/internal/logger"
	"stackhand/internal/relocate"
	"stackhand/internal/validation"
)

// StackOperations provides shared backend functions for stack discovery and
// relocation. The HTTP server and the CLI both go through it.
type StackOperations struct {
	cfg       *config.GlobalConfig
	stacks    StackStore
	paths     ExternalPathStore
	runtime   Runtime
	scanner   *discovery.Scanner
	matcher   *discovery.Matcher
	adopter   *discovery.Adopter
	relocator Relocator
	browser   *files.Browser
	locks     *lock.Keyed
}

// NewStackOperations creates a new StackOperations instance. runtime may be
// nil, in which case running state is reported as unknown.
func NewStackOperations(cfg *config.GlobalConfig, stacks StackStore, paths ExternalPathStore, runtime Runtime) *StackOperations {
	var lister discovery.ActiveStackLister
	if runtime != nil {
		lister = runtime
	}
	return &StackOperations{
		cfg:       cfg,
		stacks:    stacks,
		paths:     paths,
		runtime:   runtime,
		scanner:   discovery.NewScanner(),
		matcher:   discovery.NewMatcher(lister),
		adopter:   discovery.NewAdopter(stacks),
		relocator: relocate.New(),
		browser:   files.NewBrowser(),
		locks:     lock.NewKeyed(),
	}
}

// SetRelocator replaces the relocator (for testing)
func (so *StackOperations) SetRelocator(r Relocator) {
	so.relocator = r
}

// BasePath returns the directory new stacks are created in
func (so *StackOperations) BasePath() string {
	return so.cfg.StacksDir()
}

// PathHintsResponse tells where a running or stopped stack was started from
type PathHintsResponse struct {
	StackName   string   `json:"stackName"`
	WorkingDir  *string  `json:"workingDir"`
	ConfigFiles []string `json:"configFiles"`
}

// PathHints reads the compose labels of the stack's containers. The
// environment id is accepted for API symmetry; there is a single local
// runtime.
func (so *StackOperations) PathHints(ctx context.Context, name string, envID *int64) (*PathHintsResponse, error) {
	if name == "" {
		return nil, errors.InvalidInput("name", "stack name is required")
	}
	if so.runtime == nil {
		return nil, errors.RuntimeUnavailable(fmt.Errorf("no container runtime configured"))
	}

	hints, err := so.runtime.ProjectHints(ctx, compose.NormalizeProjectName(name))
	if err != nil {
		return nil, err
	}
	if hints == nil {
		hints = &container.PathHints{}
	}

	return &PathHintsResponse{
		StackName:   name,
		WorkingDir:  hints.WorkingDir,
		ConfigFiles: hints.ConfigFiles,
	}, nil
}

// ScanRequest selects the scan mode. An empty Path scans every configured
// external path one level deep; a Path is scanned recursively.
type ScanRequest struct {
	Path string `json:"path,omitempty"`
}

// ScanStacks discovers stack directories, flags running ones and moves the
// ones already in the inventory to Skipped.
func (so *StackOperations) ScanStacks(ctx context.Context, req ScanRequest) (*discovery.ScanResult, error) {
	var result discovery.ScanResult

	if req.Path != "" {
		if !filepath.IsAbs(req.Path) {
			return nil, errors.InvalidPath(req.Path, "path must be absolute")
		}
		result = so.scanner.ScanPath(req.Path)
	} else {
		roots, err := so.externalPaths(ctx)
		if err != nil {
			return nil, err
		}
		result = so.scanner.ScanConfigured(roots)
	}

	annotated := so.matcher.Annotate(ctx, result.Discovered)

	known := map[string]bool{}
	if paths, err := so.stacks.ListComposePaths(ctx); err != nil {
		logger.WithError(err).Warn("Failed to load inventory, nothing will be marked as skipped")
	} else {
		for _, p := range paths {
			known[filepath.Clean(p)] = true
		}
	}

	result.Discovered = []discovery.StackCandidate{}
	result.Skipped = []discovery.StackCandidate{}
	for _, c := range annotated {
		if known[c.ComposePath] {
			result.Skipped = append(result.Skipped, c)
		} else {
			result.Discovered = append(result.Discovered, c)
		}
	}

	logger.WithFields(logger.Fields{
		"path":       req.Path,
		"discovered": len(result.Discovered),
		"skipped":    len(result.Skipped),
		"errors":     len(result.Errors),
	}).Info("Scanned for stacks")

	return &result, nil
}

// ValidatePath checks path against the configured external paths
func (so *StackOperations) ValidatePath(ctx context.Context, path string) (validation.PathResult, error) {
	if path == "" {
		return validation.PathResult{Code: errors.ErrInvalidPath, Reason: "Path is required"}, nil
	}

	existing, err := so.externalPaths(ctx)
	if err != nil {
		return validation.PathResult{}, err
	}

	return validation.StackPath(path, existing), nil
}

// AdoptRequest contains the stacks to adopt and the environment they belong to
type AdoptRequest struct {
	Stacks        []discovery.StackCandidate `json:"stacks"`
	EnvironmentID int64                      `json:"environmentId"`
}

// AdoptStacks persists the selected stacks. Per-stack failures are
// reported in the result.
func (so *StackOperations) AdoptStacks(ctx context.Context, req AdoptRequest) (*discovery.AdoptResult, error) {
	if len(req.Stacks) == 0 {
		return nil, errors.InvalidInput("stacks", "at least one stack")
	}
	if err := validation.EnvironmentID(req.EnvironmentID); err != nil {
		return nil, err
	}

	result := so.adopter.Adopt(ctx, req.Stacks, req.EnvironmentID)
	return &result, nil
}

// InspectDirectory returns the stack candidate for a single directory
func (so *StackOperations) InspectDirectory(dir string) (*discovery.StackCandidate, error) {
	if !filepath.IsAbs(dir) {
		return nil, errors.InvalidPath(dir, "path must be absolute")
	}
	candidate, err := so.scanner.Inspect(dir)
	if err != nil {
		return nil, errors.FromStat(dir, err)
	}
	if candidate == nil {
		return nil, errors.InvalidInput(dir, "a directory containing a compose file")
	}
	return candidate, nil
}

// RelocateRequest moves a stack's files to the directory of NewComposePath
type RelocateRequest struct {
	Name           string `json:"-"`
	EnvironmentID  *int64 `json:"-"`
	OldDir         string `json:"oldDir"`
	NewComposePath string `json:"newComposePath"`
	NewEnvPath     string `json:"newEnvPath,omitempty"`
}

// RelocateResponse is the relocation result plus the stack's content read
// back from the new location
type RelocateResponse struct {
	Success bool `json:"success"`
	*relocate.Result
	Persisted      bool             `json:"persisted"`
	ComposeContent string           `json:"composeContent"`
	RawEnvContent  string           `json:"rawEnvContent"`
	EnvVars        []compose.EnvVar `json:"envVars"`
	Error          string           `json:"error,omitempty"`
	Code           errors.ErrorCode `json:"code,omitempty"`
}

// RelocateStack moves the files of a stack and repoints its record. The
// record is only updated when the compose file exists at its new path and
// was not reported as failed; otherwise the response is returned together with a MANIFEST_NOT_MOVED
// error.
func (so *StackOperations) RelocateStack(ctx context.Context, req RelocateRequest) (*RelocateResponse, error) {
	if err := validation.StackName(req.Name); err != nil {
		return nil, err
	}
	if req.OldDir == "" || req.NewComposePath == "" {
		return nil, errors.InvalidInput("relocation", "oldDir and newComposePath are required")
	}
	for _, p := range []string{req.OldDir, req.NewComposePath, req.NewEnvPath} {
		if p != "" && !filepath.IsAbs(p) {
			return nil, errors.InvalidPath(p, "path must be absolute")
		}
	}

	unlock := so.locks.Lock(stackKey(req.Name, req.EnvironmentID))
	defer unlock()

	if _, err := so.stacks.GetStackSource(ctx, req.Name, req.EnvironmentID); err != nil {
		return nil, err
	}

	plan := relocate.Plan{
		SourceDir:              req.OldDir,
		DestinationComposePath: req.NewComposePath,
		DestinationEnvPath:     req.NewEnvPath,
	}
	log := logger.WithContext(ctx).WithFields(logger.Fields{
		"stack":       req.Name,
		"source":      plan.SourceDir,
		"destination": plan.DestinationDir(),
	})

	result, err := so.relocator.Relocate(plan)
	if err != nil {
		log.WithError(err).Warn("Relocation did not start")
		return nil, err
	}
	summary := log.WithFields(logger.Fields{
		"moved":  len(result.MovedFiles),
		"failed": len(result.FailedFiles),
	})
	if result.OK() {
		summary.Info("Relocated stack files")
	} else {
		summary.Warn("Relocated stack files with failures")
	}

	resp := &RelocateResponse{Result: result, EnvVars: []compose.EnvVar{}}

	// A file already at the destination does not count when the manifest
	// itself failed to move.
	_, statErr := os.Stat(req.NewComposePath)
	if statErr != nil || result.Failed(filepath.Base(req.NewComposePath)) {
		se := errors.ManifestNotMoved(req.NewComposePath)
		if statErr != nil {
			se = se.WithCause(statErr)
		}
		resp.Error, resp.Code = se.Message, se.Code
		log.Warn("Compose file not at destination, stack record left unchanged")
		return resp, se
	}

	var envPath *string
	if req.NewEnvPath != "" {
		envPath = &req.NewEnvPath
	}
	err = so.stacks.UpdateStackSource(ctx, req.Name, req.EnvironmentID, db.StackSource{
		ComposePath: req.NewComposePath,
		EnvPath:     envPath,
	})
	if err != nil {
		se := errors.PersistenceFailure(req.Name, err)
		resp.Error, resp.Code = se.Message, se.Code
		log.WithError(err).Error("Failed to update stack record after relocation")
		return resp, se
	}
	resp.Persisted = true
	resp.Success = true

	so.readBack(resp, plan)
	return resp, nil
}

// readBack fills in the compose and env content from the new location.
// Read failures leave the fields empty.
func (so *StackOperations) readBack(resp *RelocateResponse, plan relocate.Plan) {
	if content, err := so.browser.ReadContent(plan.DestinationComposePath); err == nil {
		resp.ComposeContent = content.Content
	} else {
		logger.WithError(err).WithField("path", plan.DestinationComposePath).Warn("Failed to read relocated compose file")
	}

	envPath := plan.DestinationEnvPath
	if envPath == "" {
		envPath = filepath.Join(plan.DestinationDir(), compose.EnvFileName)
	}
	content, err := so.browser.ReadContent(envPath)
	if err != nil {
		return
	}
	resp.RawEnvContent = content.Content

	vars, err := compose.ParseEnvFile(content.Content)
	if err != nil {
		logger.WithError(err).WithField("path", envPath).Warn("Failed to parse env file")
		return
	}
	resp.EnvVars = vars
}

// ListDirectory lists a directory of the host filesystem
func (so *StackOperations) ListDirectory(path string) (*files.Listing, error) {
	return so.browser.List(path)
}

// ReadFile returns the content of a file of the host filesystem
func (so *StackOperations) ReadFile(path string) (*files.Content, error) {
	return so.browser.ReadContent(path)
}

// ExternalPathInfo is a scan root and where it is configured
type ExternalPathInfo struct {
	Path   string `json:"path"`
	Source string `json:"source"` // "config" or "database"
}

// ListExternalPaths returns the scan roots from config.toml followed by the
// ones added at runtime
func (so *StackOperations) ListExternalPaths(ctx context.Context) ([]ExternalPathInfo, error) {
	stored, err := so.paths.ListExternalPaths(ctx)
	if err != nil {
		return nil, errors.InternalError("failed to list external paths", err)
	}

	infos := []ExternalPathInfo{}
	seen := map[string]bool{}
	for _, p := range so.cfg.Scan.ExternalPaths {
		if !seen[p] {
			seen[p] = true
			infos = append(infos, ExternalPathInfo{Path: p, Source: "config"})
		}
	}
	for _, p := range stored {
		if !seen[p] {
			seen[p] = true
			infos = append(infos, ExternalPathInfo{Path: p, Source: "database"})
		}
	}
	return infos, nil
}

// AddExternalPath validates path and stores it as a scan root
func (so *StackOperations) AddExternalPath(ctx context.Context, path string) (string, error) {
	result, err := so.ValidatePath(ctx, path)
	if err != nil {
		return "", err
	}
	if !result.Valid {
		if result.Code == errors.ErrOverlapConflict {
			return "", errors.OverlapConflict(path, result.OverlapsWith).
				WithContext("overlapsWith", result.OverlapsWith)
		}
		return "", errors.NewWithDetails(result.Code, result.Reason, fmt.Sprintf("Path: %s", path))
	}

	cleaned := filepath.Clean(path)
	if err := so.paths.AddExternalPath(ctx, cleaned); err != nil {
		return "", errors.InternalError("failed to store external path", err)
	}

	logger.WithField("path", cleaned).Info("Added external stack path")
	return cleaned, nil
}

// RemoveExternalPath removes a scan root added at runtime. Roots from
// config.toml have to be removed there.
func (so *StackOperations) RemoveExternalPath(ctx context.Context, path string) error {
	if err := validation.NonEmptyString("path", path); err != nil {
		return err
	}
	cleaned := filepath.Clean(path)
	for _, p := range so.cfg.Scan.ExternalPaths {
		if p == cleaned {
			return errors.InvalidInput(path, "a path added at runtime; this one is set in config.toml")
		}
	}

	if err := so.paths.RemoveExternalPath(ctx, cleaned); err != nil {
		return err
	}

	logger.WithField("path", cleaned).Info("Removed external stack path")
	return nil
}

func (so *StackOperations) externalPaths(ctx context.Context) ([]string, error) {
	infos, err := so.ListExternalPaths(ctx)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(infos))
	for _, info := range infos {
		paths = append(paths, info.Path)
	}
	return paths, nil
}

// stackKey identifies a stack for locking: "name@env", env empty when unset
func stackKey(name string, envID *int64) string {
	if envID == nil {
		return name + "@"
	}
	return name + "@" + strconv.FormatInt(*envID, 10)
}
