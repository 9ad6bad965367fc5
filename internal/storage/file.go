package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/yourname/sleepdiary/internal"
)

// FileStore keeps every key in memory and mirrors the map to one JSON file.
// Writes are batched by a background worker; Close flushes synchronously.
type FileStore struct {
	items        map[string]string
	mu           sync.RWMutex
	file         string
	saveChan     chan struct{}
	shutdownChan chan struct{}
	done         chan struct{}
	saveDelay    time.Duration
	logger       internal.Logger
	closeOnce    sync.Once
}

func NewFileStore(file string, logger internal.Logger) (*FileStore, error) {
	s := &FileStore{
		items:        make(map[string]string),
		file:         file,
		saveChan:     make(chan struct{}, 1),
		shutdownChan: make(chan struct{}),
		done:         make(chan struct{}),
		saveDelay:    500 * time.Millisecond,
		logger:       logger,
	}

	if dir := filepath.Dir(file); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Errorf("storage: failed to create %s: %v", dir, err)
			return nil, err
		}
	}
	if err := s.load(); err != nil {
		logger.Errorf("storage: failed to load %s: %v", file, err)
		return nil, err
	}

	go s.saveWorker()

	return s, nil
}

func (s *FileStore) load() error {
	file, err := os.Open(s.file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	items := make(map[string]string)
	if err := json.NewDecoder(file).Decode(&items); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStore) save() error {
	s.mu.RLock()
	snapshot := make(map[string]string, len(s.items))
	for k, v := range s.items {
		snapshot[k] = v
	}
	s.mu.RUnlock()

	return atomicWriteFileJSON(s.file, snapshot)
}

func (s *FileStore) saveWorker() {
	defer close(s.done)

	timer := time.NewTimer(s.saveDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-s.saveChan:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := s.save(); err != nil {
				s.logger.Errorf("storage: error saving %s: %v", s.file, err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

func (s *FileStore) signalSave() {
	select {
	case s.saveChan <- struct{}{}:
	default:
	}
}

func (s *FileStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *FileStore) SetItem(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.items[key] = value
	s.mu.Unlock()
	s.signalSave()
	return nil
}

func (s *FileStore) RemoveItem(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	s.signalSave()
	return nil
}

// Close stops the worker and writes pending data.
func (s *FileStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.shutdownChan)
		<-s.done
		err = s.save()
	})
	return err
}

var _ KeyValueStore = (*FileStore)(nil)
