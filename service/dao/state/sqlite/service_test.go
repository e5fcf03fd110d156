package sqlite

import (
	"context"
	"errors"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/btuid/model"
	"github.com/viant/btuid/service/dao"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	service, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if !assert.NoError(t, err) {
		return
	}
	defer service.Close()

	_, err = service.Load(ctx, "default")
	assert.True(t, errors.Is(err, dao.ErrNotFound))

	record := model.NewRecord(model.NewState(29, big.NewInt(7), big.NewInt(1000)), nil)
	assert.NoError(t, service.Create(ctx, "default", record))
	assert.True(t, errors.Is(service.Create(ctx, "default", record), dao.ErrAlreadyExists))
	assert.NoError(t, service.Create(ctx, "other", record))

	record.PassCount = model.NewInt64(1)
	assert.NoError(t, service.Save(ctx, "default", record))

	loaded, err := service.Load(ctx, "default")
	assert.NoError(t, err)
	assert.Equal(t, "1", loaded.PassCount.String())

	other, err := service.Load(ctx, "other")
	assert.NoError(t, err)
	assert.Equal(t, "0", other.PassCount.String())

	_, err = service.db.Exec(`UPDATE allocator_state SET data = '{' WHERE id = 'other'`)
	assert.NoError(t, err)
	_, err = service.Load(ctx, "other")
	assert.True(t, errors.Is(err, dao.ErrMalformed))
}
