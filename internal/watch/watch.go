// Package watch monitors the inbox directory and hands newly dropped
// ebooks to the analysis pipeline.
package watch

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay is how long a file must stay quiet before it is handed to
// the handler. Ebooks are copied into the inbox in multiple writes; each
// new event restarts the clock.
const settleDelay = 2 * time.Second

// Watcher monitors one directory for new ebook files.
type Watcher struct {
	dir     string
	handler func(path string)

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a Watcher over dir. handler is called once per settled
// ebook file, from a timer goroutine.
func New(dir string, handler func(path string)) *Watcher {
	return &Watcher{
		dir:     dir,
		handler: handler,
		pending: make(map[string]*time.Timer),
	}
}

// Run watches the inbox until done is closed. Files already present are
// handed to the handler first, oldest first.
func (w *Watcher) Run(done <-chan struct{}) error {
	existing, err := Scan(w.dir)
	if err != nil {
		return fmt.Errorf("scan inbox: %w", err)
	}
	for _, f := range existing {
		w.handler(f.Path)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	for {
		select {
		case <-done:
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !IsEbook(event.Name) {
				continue
			}
			w.schedule(event.Name)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error: %w", err)
		}
	}
}

// schedule arms (or re-arms) the settle timer for path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Reset(settleDelay)
		return
	}
	w.pending[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.handler(path)
	})
}
