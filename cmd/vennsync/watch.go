package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ukaji3/vennsync/pkg/vennsync"
	"github.com/ukaji3/vennsync/pkg/vennsync/models"
	"github.com/ukaji3/vennsync/pkg/vennsync/xlsx"
)

const defaultDebounce = 500 * time.Millisecond

var debounce time.Duration

// sheetEdits returns one edit per non-empty sheet covering its data region.
func sheetEdits(w *xlsx.Workbook) ([]models.Edit, error) {
	var edits []models.Edit
	for _, sheetID := range w.SheetIDs() {
		ext, ok, err := w.UsedExtent(sheetID)
		if err != nil {
			return nil, err
		}
		if ok {
			edits = append(edits, models.Edit{SheetID: sheetID, Extent: ext})
		}
	}
	return edits, nil
}

// applyEdits handles edits one at a time and saves the workbook if any
// diagram changed.
func applyEdits(cmd *cobra.Command, s *session, edits []models.Edit) ([]*vennsync.Result, error) {
	var errs error
	var results []*vennsync.Result
	changed := false

	for _, edit := range edits {
		res, err := s.engine.HandleEdit(cmd.Context(), edit)
		errs = multierr.Append(errs, err)
		if res == nil {
			continue
		}
		results = append(results, res)
		if len(res.Updated) > 0 {
			changed = true
		}
	}

	if changed {
		if err := s.workbook.Save(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("failed to save workbook: %w", err))
		}
	}
	return results, errs
}

// fileStamp identifies a version of a file on disk.
type fileStamp struct {
	size    int64
	modTime time.Time
}

func (a fileStamp) same(b fileStamp) bool {
	return a.size == b.size && a.modTime.Equal(b.modTime)
}

func statStamp(path string) (fileStamp, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, err
	}
	return fileStamp{size: fi.Size(), modTime: fi.ModTime()}, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	s, err := openSession(path)
	if err != nil {
		return err
	}
	defer s.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Spreadsheet applications save by replacing the file, so the directory is watched.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd.SetContext(ctx)

	own, _ := statStamp(path)
	var pending <-chan time.Time

	s.logger.Info("Watching workbook", zap.String("path", path))
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				pending = time.After(debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("Watcher error", zap.Error(err))

		case <-pending:
			pending = nil

			stamp, err := statStamp(path)
			if err != nil {
				s.logger.Debug("Workbook not readable yet", zap.Error(err))
				continue
			}
			if stamp.same(own) {
				continue
			}

			if err := s.reload(ctx, path); err != nil {
				s.logger.Warn("Failed to reload workbook", zap.Error(err))
				continue
			}
			edits, err := sheetEdits(s.workbook)
			if err != nil {
				s.logger.Warn("Failed to read workbook", zap.Error(err))
				continue
			}
			if _, err := applyEdits(cmd, s, edits); err != nil {
				s.logger.Warn("Sync finished with errors", zap.Error(err))
			}
			if own, err = statStamp(path); err != nil {
				s.logger.Warn("Failed to stat workbook", zap.Error(err))
			}
		}
	}
}
