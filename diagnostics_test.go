package watermarks

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestOutputPane_LazyAndNamed(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	built := 0
	pane := NewOutputPane(func(p *OutputPane) {
		p.build = func() (*zap.Logger, error) {
			built++

			return zap.New(core), nil
		}
	})

	assert.NoError(t, pane.Sync())
	assert.Zero(t, built)

	pane.Write("first")
	pane.Write("second")
	assert.Equal(t, 1, built)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Message)
	assert.Equal(t, "Water Mark", entries[0].LoggerName)
	assert.Equal(t, "second", entries[1].Message)
}

func TestOutputPane_Options(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	pane := NewOutputPane(WithPaneLogger(zap.New(core)), WithPaneName("watermarks"))

	pane.Write("hello")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "watermarks", logs.All()[0].LoggerName)
}

func TestOutputPane_BuildFailure(t *testing.T) {
	pane := NewOutputPane(func(p *OutputPane) {
		p.build = func() (*zap.Logger, error) {
			return nil, errors.New("no stderr")
		}
	})

	assert.NotPanics(t, func() {
		pane.Write("lost")
	})
}

func TestResolver_LogsEveryReport(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewSettings()
	sink := &recordingSink{}
	r := NewResolver(s, nil, WithLogger(zap.New(core)), WithDiagnostics(sink))

	r.Report("Unable to set image", errLookup)

	assert.Empty(t, sink.messages)
	entries := logs.FilterMessage("Unable to set image").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "solution not loaded", entries[0].ContextMap()["error"])
}

func TestResolver_OutputPaneSink(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := NewSettings()
	s.SetShowDebugOutput(true)
	r := NewResolver(s, nil, WithDiagnostics(NewOutputPane(WithPaneLogger(zap.New(core)))))

	r.Report("Unable to load options", errLookup)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Unable to load options: solution not loaded", logs.All()[0].Message)
}
