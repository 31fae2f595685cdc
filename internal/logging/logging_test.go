// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.WarnLevel},
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{" warning ", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, test := range tests {
		got, err := ParseLevel(test.in)
		require.NoError(t, err, test.in)
		require.Equal(t, test.want, got, test.in)
	}

	_, err := ParseLevel("chatty")
	require.Error(t, err)
	require.Contains(t, err.Error(), "chatty")
}

func TestNew(t *testing.T) {
	logger, err := New("debug")
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = New("")
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = New("bogus")
	require.Error(t, err)
}
