package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/assetdesk-io/assetdesk-api/internal/models"
)

func setupRegistryDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Computer{}))
	return db
}

func TestComputerRepositoryCRUD(t *testing.T) {
	repo := NewComputerRepository(setupRegistryDB(t))
	ctx := context.Background()

	computer := models.Computer{Serial: "C-1000", Hostname: "wks-a"}
	require.NoError(t, repo.Create(ctx, &computer))
	require.NotZero(t, computer.ID)

	fetched, err := repo.GetByID(ctx, computer.ID)
	require.NoError(t, err)
	require.Equal(t, "C-1000", fetched.Serial)

	fetched.Hostname = "wks-b"
	require.NoError(t, repo.Update(ctx, &fetched))

	computers, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, computers, 1)
	require.Equal(t, "wks-b", computers[0].Hostname)

	require.NoError(t, repo.Delete(ctx, computer.ID))

	_, err = repo.GetByID(ctx, computer.ID)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestComputerRepositoryDeleteMissingRow(t *testing.T) {
	repo := NewComputerRepository(setupRegistryDB(t))

	err := repo.Delete(context.Background(), 999)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestComputerRepositoryListOrdersBySerial(t *testing.T) {
	repo := NewComputerRepository(setupRegistryDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Computer{Serial: "C-2000"}))
	require.NoError(t, repo.Create(ctx, &models.Computer{Serial: "C-0500"}))

	computers, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, computers, 2)
	require.Equal(t, "C-0500", computers[0].Serial)
}
