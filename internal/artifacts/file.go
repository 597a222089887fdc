package artifacts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"collateral-pipeline/internal/models"
)

// FileSink writes <dir>/<runID>/<name>.json. A run directory appears with all
// artifacts or not at all; a rewrite replaces the previous directory whole.
type FileSink struct {
	dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

func (s *FileSink) Name() string { return SinkFile }

func (s *FileSink) Write(ctx context.Context, run models.RunArtifacts) error {
	docs, err := Encode(run)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	stage, err := os.MkdirTemp(s.dir, "."+run.RunID+"-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(stage)

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(stage, doc.Name+".json"), doc.Body, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", doc.Name, err)
		}
	}
	if err := os.Chmod(stage, 0o755); err != nil {
		return fmt.Errorf("chmod staging dir: %w", err)
	}

	return swapDir(stage, filepath.Join(s.dir, run.RunID))
}

// swapDir moves stage to target. An existing target is set aside first and
// restored if the move fails.
func swapDir(stage, target string) error {
	var backup string
	if _, err := os.Stat(target); err == nil {
		backup = stage + ".old"
		if err := os.Rename(target, backup); err != nil {
			return fmt.Errorf("set aside %s: %w", target, err)
		}
	}

	if err := os.Rename(stage, target); err != nil {
		if backup != "" {
			_ = os.Rename(backup, target)
		}
		return fmt.Errorf("rename run dir: %w", err)
	}

	if backup != "" {
		_ = os.RemoveAll(backup)
	}
	return nil
}
