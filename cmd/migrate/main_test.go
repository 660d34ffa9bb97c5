package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMigrator struct {
	mock.Mock
}

func (m *MockMigrator) Up() error { return m.Called().Error(0) }

func (m *MockMigrator) Down() error { return m.Called().Error(0) }

func (m *MockMigrator) Steps(n int) error { return m.Called(n).Error(0) }

func (m *MockMigrator) Version() (uint, bool, error) {
	args := m.Called()
	return args.Get(0).(uint), args.Bool(1), args.Error(2)
}

func TestRunUp(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    string
		wantErr bool
	}{
		{"applied", nil, "Migrations applied successfully!", false},
		{"nothing to do", migrate.ErrNoChange, "No pending migrations.", false},
		{"failure", errors.New("syntax error"), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockMigrator)
			m.On("Up").Return(tt.err)
			var out bytes.Buffer

			err := runUp(m, &out)
			if tt.wantErr {
				assert.ErrorContains(t, err, "failed to run migrations")
			} else {
				require.NoError(t, err)
				assert.Contains(t, out.String(), tt.want)
			}
			m.AssertExpectations(t)
		})
	}
}

func TestRunDown(t *testing.T) {
	t.Run("all", func(t *testing.T) {
		m := new(MockMigrator)
		m.On("Down").Return(nil)
		var out bytes.Buffer

		require.NoError(t, runDown(m, &out, true, 1))
		assert.Contains(t, out.String(), "Successfully rolled back all migrations")
		m.AssertExpectations(t)
	})

	t.Run("steps", func(t *testing.T) {
		m := new(MockMigrator)
		m.On("Steps", -2).Return(nil)
		var out bytes.Buffer

		require.NoError(t, runDown(m, &out, false, 2))
		assert.Contains(t, out.String(), "Successfully rolled back 2 migration(s)")
		m.AssertExpectations(t)
	})

	t.Run("invalid steps", func(t *testing.T) {
		m := new(MockMigrator)
		assert.ErrorContains(t, runDown(m, &bytes.Buffer{}, false, 0), "--steps must be at least 1")
		m.AssertNotCalled(t, "Steps", mock.Anything)
	})
}

func TestRunVersion(t *testing.T) {
	m := new(MockMigrator)
	m.On("Version").Return(uint(1), false, nil).Once()
	m.On("Version").Return(uint(0), false, migrate.ErrNilVersion).Once()

	var out bytes.Buffer
	require.NoError(t, runVersion(m, &out))
	assert.Equal(t, "version: 1 dirty: false\n", out.String())

	out.Reset()
	require.NoError(t, runVersion(m, &out))
	assert.Equal(t, "version: none\n", out.String())
	m.AssertExpectations(t)
}
