package memory

import (
	"context"
	"fmt"

	"github.com/viant/btuid/model"
	"github.com/viant/btuid/service/dao"
	"github.com/viant/btuid/service/dao/store"
)

// Service keeps encoded records in memory so that every Load returns a fresh
// copy, the same way the file backed store does.
type Service struct {
	store *store.MemoryStore[string, []byte]
}

var _ dao.Service[string, model.Record] = (*Service)(nil)

func (s *Service) Load(ctx context.Context, id string) (*model.Record, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	data, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	record, err := model.DecodeRecord(*data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dao.ErrMalformed, id, err)
	}
	return record, nil
}

func (s *Service) Create(ctx context.Context, id string, record *model.Record) error {
	data, err := s.encode(id, record)
	if err != nil {
		return err
	}
	return s.store.Create(ctx, id, &data)
}

func (s *Service) Save(ctx context.Context, id string, record *model.Record) error {
	data, err := s.encode(id, record)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, id, &data)
}

// Delete removes a record; used by tests to simulate a first run.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *Service) encode(id string, record *model.Record) ([]byte, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	if record == nil {
		return nil, dao.ErrNilEntity
	}
	return record.Encode()
}

// New creates an in-memory state store.
func New() *Service {
	return &Service{store: store.NewMemoryStore[string, []byte]()}
}
