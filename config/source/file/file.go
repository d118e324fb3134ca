package file

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/go-slark/baton/encoding/toml"
	"github.com/go-slark/baton/encoding/yaml"
	"github.com/go-slark/baton/logger"
	"github.com/go-slark/baton/pkg/routine"
)

type File struct {
	path   string
	dir    string
	notify chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

func NewFile(path string) *File {
	path, err := filepath.Abs(path)
	if err != nil {
		logger.Log(context.TODO(), logger.PanicLevel, map[string]interface{}{"error": err})
	}
	f := &File{
		path:   path,
		dir:    dir(path),
		notify: make(chan struct{}, 1),
	}
	f.ctx, f.cancel = context.WithCancel(context.Background())
	routine.GoSafe(f.ctx, f.watch)
	return f
}

// watch is the only sender on notify and closes it on the way out, so
// Close never races a late event into a closed channel.
func (f *File) watch() {
	defer close(f.notify)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Log(f.ctx, logger.ErrorLevel, map[string]interface{}{"error": err}, "file watcher create fail")
		return
	}
	defer w.Close()

	err = w.Add(f.dir)
	if err != nil {
		logger.Log(f.ctx, logger.ErrorLevel, map[string]interface{}{"error": err, "dir": f.dir}, "file watch add fail")
		return
	}

	// only a write or create of the watched file reloads it
	const writeOrCreateMask = fsnotify.Write | fsnotify.Create
	for {
		select {
		case <-f.ctx.Done():
			return
		case event := <-w.Events:
			if event.Op&writeOrCreateMask == 0 || filepath.Clean(event.Name) != filepath.Clean(f.path) {
				continue
			}
			logger.Log(f.ctx, logger.InfoLevel, map[string]interface{}{"file": event.Name}, "file modify")
			select {
			case f.notify <- struct{}{}:
			default:
			}
		case e := <-w.Errors:
			logger.Log(f.ctx, logger.ErrorLevel, map[string]interface{}{"error": e}, "file watch error")
		}
	}
}

func (f *File) Load() ([]byte, error) {
	return os.ReadFile(f.path)
}

func (f *File) Watch() <-chan struct{} {
	return f.notify
}

func (f *File) Close() error {
	f.cancel()
	return nil
}

// Format follows the file extension, toml when there is none.
func (f *File) Format() string {
	ext := strings.TrimPrefix(filepath.Ext(f.path), ".")
	switch ext {
	case "":
		return toml.Name
	case "yml":
		return yaml.Name
	}
	return ext
}

func isDir(path string) (bool, error) {
	f, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	switch mode := f.Mode(); {
	case mode.IsDir():
		return true, nil
	case mode.IsRegular():
		return false, nil
	}
	return false, nil
}

func handleDir(dir string) string {
	if runtime.GOOS == "windows" {
		dir = strings.Replace(dir, "\\", "/", -1)
	}

	runes := []rune(dir)
	l := strings.LastIndex(dir, "/")
	if l > len(runes) {
		l = len(runes)
	}
	return string(runes[0:l])
}

func dir(path string) string {
	ok, err := isDir(path)
	if ok || err != nil {
		return path
	}
	return handleDir(path)
}
