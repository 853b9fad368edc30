package postgres

import (
	"testing"

	"github.com/OCAP2/kmlscene/internal/config"
	gormstorage "github.com/OCAP2/kmlscene/internal/storage/gorm"
	"github.com/OCAP2/kmlscene/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unreachable() config.DBConfig {
	return config.DBConfig{Host: "127.0.0.1", Port: "1", Username: "u", Password: "p", Database: "d"}
}

func TestNew_DoesNotConnect(t *testing.T) {
	b := New(unreachable(), gormstorage.Options{})
	require.NotNil(t, b)
	assert.Nil(t, b.DB())
}

func TestInit_Unreachable(t *testing.T) {
	b := New(unreachable(), gormstorage.Options{})
	err := b.Init()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}

func TestBeforeInit(t *testing.T) {
	b := New(unreachable(), gormstorage.Options{})

	assert.ErrorIs(t, b.StartDocument(&core.Document{}), gormstorage.ErrNotInitialized)
	assert.ErrorIs(t, b.AddNode(&core.NodeRecord{}), core.ErrNoDocument)
	assert.NoError(t, b.Close())
}
