package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func Test_ParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		give string
		want Format
	}{
		{give: "console", want: FormatConsole},
		{give: " Human ", want: FormatConsole},
		{give: "json", want: FormatJSON},
		{give: "", want: FormatJSON},
		{give: "xml", want: FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.give, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ParseFormat(tt.give))
		})
	}
}

func Test_Config_New(t *testing.T) {
	t.Parallel()

	for _, f := range []Format{FormatJSON, FormatConsole} {
		lggr, err := Config{Level: zapcore.WarnLevel, Format: f}.New()
		require.NoError(t, err)
		require.NotNil(t, lggr)
	}
}

func Test_Named(t *testing.T) {
	t.Parallel()

	lggr, logs := TestObserved(t, zapcore.InfoLevel)
	named := Named(Named(lggr, "treasury"), "balances")

	assert.Equal(t, "treasury.balances", named.Name())

	named.Infow("fetched", "ring", "tinkernet")
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "treasury.balances", entry.LoggerName)
	assert.Equal(t, "tinkernet", entry.ContextMap()["ring"])
}
