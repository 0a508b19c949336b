package spamguard

import (
	"bytes"
	"log"
	"testing"

	"github.com/rs/zerolog"
	requireLib "github.com/stretchr/testify/require"
)

func TestStdLogger(t *testing.T) {
	require := requireLib.New(t)
	var buf bytes.Buffer
	StdLogger(log.New(&buf, "", 0))("spam list is full, can't add new address", "a@x")
	require.Equal("spam list is full, can't add new address a@x\n", buf.String())
}

func TestZerologLogger(t *testing.T) {
	require := requireLib.New(t)
	var buf bytes.Buffer
	ZerologLogger(zerolog.New(&buf))("evicted", "a@x")
	require.JSONEq(`{"level":"warn","message":"evicted a@x"}`, buf.String())
}

func TestSetLoggerNilFallsBackToNop(t *testing.T) {
	require := requireLib.New(t)
	params := DefaultParams()
	params.Capacity = 1
	classifier, err := NewBoundedFilter(params)
	require.NoError(err)
	classifier.SetLogger(nil)
	classifier.SetHooks(nil)

	require.NoError(classifier.AddSpam("a@x"))
	require.Error(classifier.AddSpam("b@x"))
}
