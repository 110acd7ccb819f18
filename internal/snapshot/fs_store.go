package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const snapshotDir = "snapshots"

// NewStore 以 basePath 为根目录构建快照存储，format 决定写入的编码。
func NewStore(basePath, format string) (Store, error) {
	if basePath == "" {
		return nil, errors.New("storage path required")
	}
	codec, err := CodecFor(format)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve storage path: %w", err)
	}
	dir := filepath.Join(abs, snapshotDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot path: %w", err)
	}

	return &fileStore{
		dir:   dir,
		codec: codec,
		locks: make(map[string]*entryLock),
		now:   time.Now,
	}, nil
}

// fileStore 通过 entryLock 避免同名快照并发写入。
type fileStore struct {
	dir   string
	codec Codec
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*entryLock
}

type entryLock struct {
	mu   sync.Mutex
	refs int
}

func (s *fileStore) Save(ctx context.Context, name string, state map[string]any) (*Entry, error) {
	filePath, err := s.path(name)
	if err != nil {
		return nil, err
	}
	unlock := s.lockEntry(name)
	defer unlock()

	if state == nil {
		state = map[string]any{}
	}
	var buf bytes.Buffer
	if err := s.codec.Encode(&buf, state); err != nil {
		return nil, fmt.Errorf("encode snapshot %s: %w", name, err)
	}

	tempFile, err := os.CreateTemp(s.dir, ".snapshot-*")
	if err != nil {
		return nil, err
	}
	tempName := tempFile.Name()

	written, err := copyWithContext(ctx, tempFile, &buf)
	closeErr := tempFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempName)
		return nil, err
	}

	if err := os.Rename(tempName, filePath); err != nil {
		os.Remove(tempName)
		return nil, err
	}

	modTime := s.now().UTC()
	if err := os.Chtimes(filePath, modTime, modTime); err != nil {
		return nil, err
	}

	return &Entry{
		Name:      name,
		Format:    s.codec.Format(),
		FilePath:  filePath,
		SizeBytes: written,
		ModTime:   modTime,
	}, nil
}

func (s *fileStore) Load(ctx context.Context, name string) (map[string]any, *Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	filePath, err := s.path(name)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	state := map[string]any{}
	if err := s.codec.Decode(f, &state); err != nil {
		return nil, nil, fmt.Errorf("decode snapshot %s: %w", name, err)
	}
	return state, &Entry{
		Name:      name,
		Format:    s.codec.Format(),
		FilePath:  filePath,
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}

func (s *fileStore) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var result []Entry
	ext := s.codec.Ext()
	for _, item := range items {
		if item.IsDir() || !strings.HasSuffix(item.Name(), ext) {
			continue
		}
		info, err := item.Info()
		if err != nil {
			continue
		}
		result = append(result, Entry{
			Name:      strings.TrimSuffix(item.Name(), ext),
			Format:    s.codec.Format(),
			FilePath:  filepath.Join(s.dir, item.Name()),
			SizeBytes: info.Size(),
			ModTime:   info.ModTime(),
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ModTime.After(result[j].ModTime)
	})
	return result, nil
}

func (s *fileStore) Remove(ctx context.Context, name string) error {
	filePath, err := s.path(name)
	if err != nil {
		return err
	}
	unlock := s.lockEntry(name)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *fileStore) lockEntry(name string) func() {
	s.mu.Lock()
	lock := s.locks[name]
	if lock == nil {
		lock = &entryLock{}
		s.locks[name] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		s.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(s.locks, name)
		}
		s.mu.Unlock()
	}
}

// path 将快照名映射到文件路径，拒绝空名、隐藏文件与任何路径分隔符。
func (s *fileStore) path(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || trimmed != name || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.dir, name+s.codec.Ext()), nil
}

func copyWithContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	var copied int64
	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			return copied, err
		}
		n, err := src.Read(buf)
		if n > 0 {
			w, wErr := dst.Write(buf[:n])
			copied += int64(w)
			if wErr != nil {
				return copied, wErr
			}
			if w < n {
				return copied, io.ErrShortWrite
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return copied, nil
			}
			return copied, err
		}
	}
}
