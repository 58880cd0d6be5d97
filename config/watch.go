package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
)

// settleDelay is how long a file must stay quiet before it is re-read.
const settleDelay = 100 * time.Millisecond

// Watch reloads the dotenv file at path whenever it changes and passes the fresh
// configuration to fn. Values from the file override the process environment.
// It blocks until ctx is done.
//
// The parent directory is watched rather than the file, so editors that save by
// rename are still picked up.
func Watch(ctx context.Context, path string, fn func(*Config)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	ticker := time.NewTicker(settleDelay / 2)
	defer ticker.Stop()

	var pending time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending = time.Now()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", path, err)

		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < settleDelay {
				continue
			}
			pending = time.Time{}
			// a file mid-rename may be missing; the next event retries
			if err := godotenv.Overload(abs); err != nil {
				continue
			}
			fn(fromEnv())
		}
	}
}
