package main

import (
	"testing"

	"github.com/wgdzlh/tifoverlay/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type syncCounter struct {
	zapcore.Core
	n int
}

func (s *syncCounter) Sync() error {
	s.n++
	return nil
}

func TestExecuteSyncsLogOnError(t *testing.T) {
	core := &syncCounter{Core: zapcore.NewNopCore()}
	prev := log.Logger()
	log.SetLogger(zap.New(core))
	defer log.SetLogger(prev)

	rootCmd.SetArgs([]string{"labels", "--log-level", "loud"})
	defer rootCmd.SetArgs(nil)
	err := execute()
	require.Error(t, err)
	assert.Equal(t, 1, core.n)
}
