package game

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches the rules directories and triggers a callback on YAML or JSON changes.
type FileWatcher struct {
	Paths    []string // directories to watch
	onChange func(string)
	onError  func(error)
	w        *fsnotify.Watcher
	done     chan struct{}
}

// NewFileWatcher creates a watcher for the given directories.
// onError may be nil.
func NewFileWatcher(dirs []string, onChange func(string), onError func(error)) *FileWatcher {
	return &FileWatcher{
		Paths:    dirs,
		onChange: onChange,
		onError:  onError,
		done:     make(chan struct{}),
	}
}

// WatchLoader watches the default file's directory, the banners directory and any extra
// directories, e.g. where the catalog export lives.
func WatchLoader(l *Loader, onChange func(string), onError func(error), extra ...string) *FileWatcher {
	dirs := []string{l.paths.BaseDir, l.paths.BannerDir()}
	for _, d := range extra {
		if d != l.paths.BaseDir && d != l.paths.BannerDir() {
			dirs = append(dirs, d)
		}
	}
	return NewFileWatcher(dirs, onChange, onError)
}

// Start registers the directories and begins delivering events in a goroutine.
// Missing directories are skipped.
func (fw *FileWatcher) Start() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, p := range fw.Paths {
		if err := w.Add(p); err != nil && fw.onError != nil {
			fw.onError(err)
		}
	}
	fw.w = w
	go fw.loop()
	return nil
}

func (fw *FileWatcher) loop() {
	defer close(fw.done)
	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			if fw.onChange != nil {
				fw.onChange(ev.Name)
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			if fw.onError != nil {
				fw.onError(err)
			}
		}
	}
}

// Stop terminates the watcher and waits for the event loop to exit.
func (fw *FileWatcher) Stop() {
	if fw.w == nil {
		return
	}
	_ = fw.w.Close()
	<-fw.done
}

func relevant(ev fsnotify.Event) bool {
	switch strings.ToLower(filepath.Ext(ev.Name)) {
	case ".yaml", ".yml", ".json":
	default:
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}
