package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/btuid/model"
	"github.com/viant/btuid/service/dao"
)

const tempSuffix = ".tmp"

// Service implements a filesystem-based state storage. The id is the URL of
// the state document; any afs scheme is supported.
type Service struct {
	fs afs.Service
	mu sync.Mutex
}

// Ensure Service implements dao.Service
var _ dao.Service[string, model.Record] = (*Service)(nil)

// Load retrieves a state record
func (s *Service) Load(ctx context.Context, URL string) (*model.Record, error) {
	if URL == "" {
		return nil, dao.ErrInvalidID
	}
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check if state exists: %w", err)
	}
	if !exists {
		return nil, dao.ErrNotFound
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read state file %s: %w", URL, err)
	}
	record, err := model.DecodeRecord(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dao.ErrMalformed, URL, err)
	}
	return record, nil
}

// Create writes a state record only when nothing exists at URL yet
func (s *Service) Create(ctx context.Context, URL string, record *model.Record) error {
	data, err := encode(URL, record)
	if err != nil {
		return err
	}
	if url.Scheme(URL, file.Scheme) == file.Scheme {
		return createLocal(url.Path(URL), data)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to check if state exists: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %s", dao.ErrAlreadyExists, URL)
	}
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to create state file %s: %w", URL, err)
	}
	return nil
}

// Save overwrites the state record. Local files are staged next to the
// target and renamed over it so readers never observe a partial write.
func (s *Service) Save(ctx context.Context, URL string, record *model.Record) error {
	data, err := encode(URL, record)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if url.Scheme(URL, file.Scheme) == file.Scheme {
		return replaceLocal(url.Path(URL), data)
	}
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to check if state exists: %w", err)
	}
	if exists {
		if err = s.fs.Delete(ctx, URL); err != nil {
			return fmt.Errorf("failed to replace state file %s: %w", URL, err)
		}
	}
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save state to file %s: %w", URL, err)
	}
	return nil
}

// createLocal links a fully written temp file to the target; link fails when
// the target exists, which gives an exclusive create without partial files.
func createLocal(location string, data []byte) error {
	temp, err := stageLocal(location, data)
	if err != nil {
		return err
	}
	defer os.Remove(temp)
	if err = os.Link(temp, location); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", dao.ErrAlreadyExists, location)
		}
		return fmt.Errorf("failed to create state file %s: %w", location, err)
	}
	return nil
}

// replaceLocal renames a fully written temp file over the target.
func replaceLocal(location string, data []byte) error {
	temp, err := stageLocal(location, data)
	if err != nil {
		return err
	}
	if err = os.Rename(temp, location); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("failed to save state file %s: %w", location, err)
	}
	return nil
}

// stageLocal writes data to a synced temp file in the target directory and
// returns its name.
func stageLocal(location string, data []byte) (string, error) {
	if err := os.MkdirAll(filepath.Dir(location), file.DefaultDirOsMode); err != nil {
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}
	temp, err := os.CreateTemp(filepath.Dir(location), filepath.Base(location)+".*"+tempSuffix)
	if err != nil {
		return "", fmt.Errorf("failed to stage state file: %w", err)
	}
	if _, err = temp.Write(data); err == nil {
		err = temp.Sync()
	}
	if closeErr := temp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(temp.Name())
		return "", fmt.Errorf("failed to stage state file: %w", err)
	}
	return temp.Name(), nil
}

func encode(URL string, record *model.Record) ([]byte, error) {
	if URL == "" {
		return nil, dao.ErrInvalidID
	}
	if record == nil {
		return nil, dao.ErrNilEntity
	}
	return record.Encode()
}

// New creates a new filesystem state storage service
func New(fs afs.Service) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{fs: fs}
}
