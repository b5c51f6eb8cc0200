package modes

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/eezsync/internal/config"
	"github.com/harrison/eezsync/internal/filelock"
	"github.com/harrison/eezsync/internal/logger"
	"github.com/harrison/eezsync/internal/models"
)

// Logger receives stage progress and free-form messages.
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogStageStart(stage string, index, total int)
	LogStageResult(result models.StageResult)
	LogSummary(summary models.RunSummary)
}

// Recorder persists run history.
type Recorder interface {
	StartRun(ctx context.Context, runID string, started time.Time, modes []string, projectDir string) error
	RecordStage(ctx context.Context, runID string, result models.StageResult) error
	FinishRun(ctx context.Context, summary models.RunSummary) error
}

// Settings holds the resolved paths and options the stages act on.
type Settings struct {
	SourceDir   string
	BackupDir   string
	ProjectDir  string
	TemplateDir string

	HeaderFind       string
	HeaderReplace    string
	HeaderExtensions []string
	HeaderInclude    []string

	ActionsHeader string
	ActionsSource string

	DryRun bool
}

// SettingsFromConfig copies the stage-relevant values out of cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		SourceDir:        cfg.SourceDir,
		BackupDir:        cfg.BackupDir,
		ProjectDir:       cfg.ProjectDir,
		TemplateDir:      cfg.TemplateDir,
		HeaderFind:       cfg.Headers.Find,
		HeaderReplace:    cfg.Headers.Replace,
		HeaderExtensions: cfg.Headers.Extensions,
		HeaderInclude:    cfg.Headers.Include,
		ActionsHeader:    cfg.Actions.Header,
		ActionsSource:    cfg.Actions.Source,
	}
}

func (s Settings) actionsHeaderPath() string {
	return filepath.Join(s.ProjectDir, s.ActionsHeader)
}

func (s Settings) actionsSourcePath() string {
	return filepath.Join(s.ProjectDir, s.ActionsSource)
}

func (s Settings) actionsTemplatePath() string {
	return filepath.Join(s.TemplateDir, s.ActionsSource)
}

// Dispatcher runs stages sequentially against one project.
type Dispatcher struct {
	settings Settings
	logger   Logger
	confirm  Confirmer
	recorder Recorder
	lockPath string
	runID    string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithConfirmer sets the confirmation policy. The default declines.
func WithConfirmer(c Confirmer) Option {
	return func(d *Dispatcher) { d.confirm = c }
}

// WithRecorder records each run and stage.
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) { d.recorder = r }
}

// WithRunLock makes Run hold an exclusive lock on path for its duration.
func WithRunLock(path string) Option {
	return func(d *Dispatcher) { d.lockPath = path }
}

// WithRunID fixes the run ID instead of generating one.
func WithRunID(id string) Option {
	return func(d *Dispatcher) { d.runID = id }
}

// NewDispatcher creates a Dispatcher for settings.
func NewDispatcher(settings Settings, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		settings: settings,
		logger:   logger.NewNoOpLogger(),
		confirm:  NeverConfirm,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Run executes stages in order and returns the summary plus the joined
// errors of failed stages. A failed backup-ui stops the run; later stages
// are reported as skipped. The context is checked between stages.
func (d *Dispatcher) Run(ctx context.Context, stages []Mode) (*models.RunSummary, error) {
	if d.lockPath != "" {
		lock, err := filelock.AcquireRunLock(d.lockPath)
		if err != nil {
			return nil, fmt.Errorf("another eezsync run is in progress: %w", err)
		}
		defer lock.Unlock()
	}

	runID := d.runID
	if runID == "" {
		runID = NewRunID()
	}
	summary := &models.RunSummary{RunID: runID, Started: time.Now()}

	names := make([]string, len(stages))
	for i, m := range stages {
		names[i] = string(m)
	}
	if d.recorder != nil {
		if err := d.recorder.StartRun(context.WithoutCancel(ctx), runID, summary.Started, names, d.settings.ProjectDir); err != nil {
			d.logger.LogWarn(fmt.Sprintf("history: %v", err))
		}
	}

	if d.settings.DryRun {
		d.logger.LogInfo("Dry run: no files will be written")
	}

	var errs []error
	var stopReason string
	for i, m := range stages {
		if stopReason == "" && ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			stopReason = "run canceled"
		}
		if stopReason != "" {
			result := models.StageResult{Stage: string(m), Status: models.StatusSkipped, Warnings: []string{stopReason}}
			d.finishStage(ctx, summary, result)
			continue
		}

		d.logger.LogStageStart(string(m), i+1, len(stages))
		start := time.Now()
		result := d.runStage(ctx, m)
		result.Stage = string(m)
		result.Duration = time.Since(start)
		d.finishStage(ctx, summary, result)

		if result.Failed() {
			errs = append(errs, fmt.Errorf("%s: %w", m, result.Error))
			if m == BackupUI {
				summary.Aborted = true
				stopReason = "backup-ui failed"
			}
		}
	}

	summary.Duration = time.Since(summary.Started)
	d.logger.LogSummary(*summary)
	if d.recorder != nil {
		if err := d.recorder.FinishRun(context.WithoutCancel(ctx), *summary); err != nil {
			d.logger.LogWarn(fmt.Sprintf("history: %v", err))
		}
	}

	return summary, errors.Join(errs...)
}

func (d *Dispatcher) finishStage(ctx context.Context, summary *models.RunSummary, result models.StageResult) {
	summary.Stages = append(summary.Stages, result)
	d.logger.LogStageResult(result)
	if d.recorder != nil {
		if err := d.recorder.RecordStage(context.WithoutCancel(ctx), summary.RunID, result); err != nil {
			d.logger.LogWarn(fmt.Sprintf("history: %v", err))
		}
	}
}

func (d *Dispatcher) runStage(ctx context.Context, m Mode) models.StageResult {
	switch m {
	case BackupUI:
		return d.backupUI(ctx)
	case RestoreUI:
		return d.restoreUI(ctx)
	case DeleteBackup:
		return d.deleteBackup(ctx)
	case CopyUI:
		return d.copyUI(ctx)
	case FixHeaders:
		return d.fixHeaders()
	case FixCMake:
		return d.seedStage("CMakeLists.txt")
	case FixActions:
		return d.fixActions()
	case FixFlow:
		return d.seedStage("eez-flow.h")
	default:
		return failed(fmt.Errorf("%w: %q is not a stage", ErrUnknownMode, m))
	}
}
