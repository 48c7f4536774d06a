package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLoggerCapturesEntries(t *testing.T) {
	m := &MockLogger{}
	m.Info("hello", Field{Key: "k", Value: "v"})
	m.Warn("careful")

	require.Len(t, m.Entries, 2)
	assert.Equal(t, "INFO", m.Entries[0].Level)
	assert.Equal(t, "hello", m.Entries[0].Message)
	assert.True(t, m.HasEntry("WARN", "careful"))
	assert.Len(t, m.EntriesByLevel("WARN"), 1)
}

func TestMockLoggerDerivedLoggersShareEntries(t *testing.T) {
	m := &MockLogger{}
	err := errors.New("boom")

	m.WithError(err).WithField("file", "a.csv").Warn("failed")

	require.Len(t, m.Entries, 1)
	assert.Equal(t, err, m.Entries[0].Error)
	require.Len(t, m.Entries[0].Fields, 1)
	assert.Equal(t, "file", m.Entries[0].Fields[0].Key)
}

func TestMockLoggerPendingFieldsDoNotLeakBetweenDerived(t *testing.T) {
	m := &MockLogger{}
	withA := m.WithField("a", 1)
	withB := m.WithField("b", 2)

	withA.Info("first")
	withB.Info("second")

	require.Len(t, m.Entries, 2)
	assert.Equal(t, "a", m.Entries[0].Fields[0].Key)
	assert.Equal(t, "b", m.Entries[1].Fields[0].Key)
}

func TestNewLogrusAdapter(t *testing.T) {
	logger := NewLogrusAdapter("debug", "json")
	require.NotNil(t, logger)

	// Derived loggers must also satisfy the interface.
	derived := logger.WithField("k", "v").WithError(errors.New("x"))
	assert.NotNil(t, derived)
}

func TestGetLoggerReturnsWorkingLogger(t *testing.T) {
	logger := GetLogger()
	require.NotNil(t, logger)
	logger.Debug("should not panic")
}
