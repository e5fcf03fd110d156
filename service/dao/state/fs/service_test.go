package fs

import (
	"context"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	"github.com/viant/btuid/model"
	"github.com/viant/btuid/service/dao"
)

func TestService_Local(t *testing.T) {
	ctx := context.Background()
	location := filepath.Join(t.TempDir(), "nested", "state.json")
	service := New(afs.New())

	_, err := service.Load(ctx, location)
	assert.True(t, errors.Is(err, dao.ErrNotFound))

	record := model.NewRecord(model.NewState(29, big.NewInt(184467440737095516), big.NewInt(1000)), map[string][]string{"0": {"0", "£"}})
	assert.NoError(t, service.Create(ctx, location, record))
	err = service.Create(ctx, location, record)
	assert.True(t, errors.Is(err, dao.ErrAlreadyExists))

	for _, cursor := range []int64{41, 42} {
		record.Cursor = model.NewInt64(cursor)
		assert.NoError(t, service.Save(ctx, location, record))
	}

	loaded, err := service.Load(ctx, location)
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, "42", loaded.Cursor.String())
	assert.Equal(t, "184467440737095516", loaded.StartOffset.String())
	assert.Equal(t, []string{"0", "£"}, loaded.Table["0"])

	staged, err := filepath.Glob(filepath.Join(filepath.Dir(location), "*"+tempSuffix))
	assert.NoError(t, err)
	assert.Empty(t, staged)
	info, err := os.Stat(location)
	if assert.NoError(t, err) {
		assert.False(t, info.IsDir())
	}
}

func TestService_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	location := filepath.Join(t.TempDir(), "state.json")
	service := New(afs.New())
	record := model.NewRecord(model.NewState(2, big.NewInt(0), big.NewInt(1)), nil)

	var wg sync.WaitGroup
	results := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = New(afs.New()).Create(ctx, location, record)
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range results {
		if err == nil {
			created++
			continue
		}
		assert.True(t, errors.Is(err, dao.ErrAlreadyExists), err.Error())
	}
	assert.Equal(t, 1, created)
	_, err := service.Load(ctx, location)
	assert.NoError(t, err)
}

func TestService_Malformed(t *testing.T) {
	ctx := context.Background()
	location := filepath.Join(t.TempDir(), "state.json")
	assert.NoError(t, os.WriteFile(location, []byte(`{"depth":"x"}`), 0644))

	_, err := New(nil).Load(ctx, location)
	assert.True(t, errors.Is(err, dao.ErrMalformed))
}

func TestService_MemoryScheme(t *testing.T) {
	ctx := context.Background()
	location := "mem://localhost/btuid/state.json"
	service := New(afs.New())
	record := model.NewRecord(model.NewState(2, big.NewInt(0), big.NewInt(1)), nil)

	assert.NoError(t, service.Create(ctx, location, record))
	assert.True(t, errors.Is(service.Create(ctx, location, record), dao.ErrAlreadyExists))

	for _, depth := range []int64{2, 3} {
		record.Depth = model.NewInt64(depth)
		assert.NoError(t, service.Save(ctx, location, record))
	}
	loaded, err := service.Load(ctx, location)
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, "3", loaded.Depth.String())
}
