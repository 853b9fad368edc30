package logging

import (
	"log/slog"
	"testing"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGELFHandler_SendsRecord(t *testing.T) {
	r, err := gelf.NewReader("127.0.0.1:0")
	require.NoError(t, err)

	w, err := NewGELFWriter(r.Addr(), "kmlscene")
	require.NoError(t, err)
	defer w.Close()

	log := slog.New(NewGELFHandler(w, "info"))
	log.Info("hello graylog", "placemarks", 4)

	msg, err := r.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, msg.Short, "hello graylog")
	assert.Contains(t, msg.Short, `"placemarks":4`)
}

func TestNewGELFWriter_BadAddress(t *testing.T) {
	_, err := NewGELFWriter("not an address", "kmlscene")
	assert.Error(t, err)
}
