package modes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrison/eezsync/internal/config"
	"github.com/harrison/eezsync/internal/mirror"
	"github.com/harrison/eezsync/internal/models"
	"github.com/harrison/eezsync/internal/patch"
	"github.com/harrison/eezsync/internal/reconcile"
	"github.com/harrison/eezsync/internal/seed"
)

func failed(err error) models.StageResult {
	return models.StageResult{Status: models.StatusFailed, Error: err}
}

// finish sets OK or WARNING depending on collected warnings.
func finish(r models.StageResult) models.StageResult {
	if r.Status == "" {
		r.Status = models.StatusOK
		if len(r.Warnings) > 0 {
			r.Status = models.StatusWarning
		}
	}
	return r
}

func (d *Dispatcher) mirrorStage(ctx context.Context, src, dst string) models.StageResult {
	d.logger.LogInfo(fmt.Sprintf("Copying UI files from '%s' to '%s'", src, dst))

	res, err := mirror.Mirror(ctx, src, dst, mirror.Options{DryRun: d.settings.DryRun})
	r := models.StageResult{Processed: res.FilesCopied, Created: res.FilesCopied}
	for _, f := range res.Files {
		d.logger.LogDebug(fmt.Sprintf("Copied %s", f))
	}
	if err != nil {
		r.Status = models.StatusFailed
		r.Error = err
		return r
	}
	d.logger.LogInfo(fmt.Sprintf("Total files copied: %d", res.FilesCopied))
	return finish(r)
}

func (d *Dispatcher) backupUI(ctx context.Context) models.StageResult {
	if !dirExists(d.settings.ProjectDir) {
		return finish(models.StageResult{
			Warnings: []string{fmt.Sprintf("project directory %s does not exist, nothing to back up", d.settings.ProjectDir)},
		})
	}
	return d.mirrorStage(ctx, d.settings.ProjectDir, d.settings.BackupDir)
}

func (d *Dispatcher) restoreUI(ctx context.Context) models.StageResult {
	if !dirExists(d.settings.BackupDir) {
		return finish(models.StageResult{
			Warnings: []string{fmt.Sprintf("backup directory %s does not exist, nothing restored", d.settings.BackupDir)},
		})
	}
	return d.mirrorStage(ctx, d.settings.BackupDir, d.settings.ProjectDir)
}

func (d *Dispatcher) copyUI(ctx context.Context) models.StageResult {
	hasHeader, err := config.CheckSourceDir(d.settings.SourceDir)
	if err != nil {
		return failed(err)
	}

	r := d.mirrorStage(ctx, d.settings.SourceDir, d.settings.ProjectDir)
	if !hasHeader {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%s does not contain a 'ui.h' file", d.settings.SourceDir))
		if r.Status == models.StatusOK {
			r.Status = models.StatusWarning
		}
	}
	return r
}

func (d *Dispatcher) deleteBackup(ctx context.Context) models.StageResult {
	dir := d.settings.BackupDir
	if !dirExists(dir) {
		return finish(models.StageResult{
			Warnings: []string{fmt.Sprintf("backup directory %s does not exist", dir)},
		})
	}

	ok, err := d.confirm.Confirm(ctx, fmt.Sprintf("Delete backup directory '%s'?", dir))
	if err != nil {
		return failed(fmt.Errorf("confirm delete: %w", err))
	}
	if !ok {
		return models.StageResult{
			Status:   models.StatusSkipped,
			Skipped:  1,
			Warnings: []string{"deletion declined"},
		}
	}

	r := models.StageResult{Processed: 1, Created: 0}
	if !d.settings.DryRun {
		if err := os.RemoveAll(dir); err != nil {
			return failed(fmt.Errorf("remove %s: %w", dir, err))
		}
	}
	d.logger.LogInfo(fmt.Sprintf("Backup directory '%s' deleted", dir))
	return finish(r)
}

func (d *Dispatcher) fixHeaders() models.StageResult {
	d.logger.LogInfo(fmt.Sprintf("Replacing occurrences of '%s' with '%s' in %s",
		d.settings.HeaderFind, d.settings.HeaderReplace, d.settings.ProjectDir))

	res, err := patch.PatchAll(d.settings.ProjectDir, d.settings.HeaderFind, d.settings.HeaderReplace, patch.Options{
		Extensions: d.settings.HeaderExtensions,
		Include:    d.settings.HeaderInclude,
		DryRun:     d.settings.DryRun,
	})
	if err != nil {
		return failed(err)
	}

	for _, f := range res.Changed {
		d.logger.LogDebug(fmt.Sprintf("Updated '%s'", f))
	}
	return finish(models.StageResult{
		Processed: res.FilesScanned,
		Created:   res.FilesChanged,
		Skipped:   res.FilesScanned - res.FilesChanged,
	})
}

// seedStage copies name from the template directory into the project when
// the project lacks it. A missing template is a warning.
func (d *Dispatcher) seedStage(name string) models.StageResult {
	target := filepath.Join(d.settings.ProjectDir, name)
	template := filepath.Join(d.settings.TemplateDir, name)

	var outcome seed.Outcome
	var err error
	if d.settings.DryRun {
		outcome, err = seed.Check(target, template)
	} else {
		outcome, err = seed.EnsureFromTemplate(target, template)
	}

	switch {
	case errors.Is(err, seed.ErrTemplateUnavailable):
		return finish(models.StageResult{
			Processed: 1,
			Warnings:  []string{fmt.Sprintf("%s missing and template %s not found", target, template)},
		})
	case err != nil:
		return failed(err)
	case outcome == seed.Seeded:
		d.logger.LogInfo(fmt.Sprintf("%s missing. Created it from %s", target, template))
		return finish(models.StageResult{Processed: 1, Created: 1})
	default:
		d.logger.LogInfo(fmt.Sprintf("Using existing %s", target))
		return finish(models.StageResult{Processed: 1, Skipped: 1})
	}
}

func (d *Dispatcher) fixActions() models.StageResult {
	header := d.settings.actionsHeaderPath()
	source := d.settings.actionsSourcePath()

	res, err := reconcile.ReconcileFile(header, source, reconcile.Options{
		TemplatePath: d.settings.actionsTemplatePath(),
		DryRun:       d.settings.DryRun,
	})
	if res == nil {
		return failed(err)
	}

	d.logger.LogInfo(fmt.Sprintf("Found %d extern functions in %s", len(res.Declared), header))
	for _, name := range res.Skipped {
		d.logger.LogDebug(fmt.Sprintf("Function %s found in %s already. Skipping.", name, source))
	}
	for _, name := range res.Created {
		d.logger.LogDebug(fmt.Sprintf("Adding extern function: %s", name))
	}

	r := models.StageResult{
		Processed: len(res.Declared),
		Created:   len(res.Created),
		Skipped:   len(res.Skipped),
	}
	if w := res.Warning(); w != nil {
		r.Warnings = append(r.Warnings, w.Error())
	}
	if err != nil {
		r.Status = models.StatusFailed
		r.Error = err
		return r
	}
	return finish(r)
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
