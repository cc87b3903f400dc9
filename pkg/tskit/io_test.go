package tskit

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/treeviz/pkg/errors"
)

func TestWriteReadJSON(t *testing.T) {
	ts := basicsTS(t)

	var buf bytes.Buffer
	require.NoError(t, ts.WriteJSON(&buf))
	assert.Contains(t, buf.String(), `"format": "treeviz.trees"`)

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, ts.Nodes(), got.Nodes())
	assert.Equal(t, ts.Edges(), got.Edges())
	assert.Equal(t, ts.Mutations(), got.Mutations())
}

func TestReadJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"wrong format", `{"format": "tskit", "version": 1, "sequence_length": 1}`, errors.ErrCodeInvalidFormat},
		{"future version", `{"format": "treeviz.trees", "version": 9, "sequence_length": 1}`, errors.ErrCodeUnsupported},
		{"bad tables", `{"format": "treeviz.trees", "version": 1, "sequence_length": 0}`, errors.ErrCodeInvalidTreeSequence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}

	_, err := ReadJSON(strings.NewReader("{"))
	assert.ErrorContains(t, err, "decode")
}

func TestLoad_DataFile(t *testing.T) {
	ts, err := Load(filepath.Join("..", "..", "data", "basics.trees"))
	require.NoError(t, err)

	want := basicsTS(t)
	assert.Equal(t, want.Edges(), ts.Edges())
	assert.Equal(t, want.Sites(), ts.Sites())
	assert.Equal(t, want.Mutations(), ts.Mutations())
	assert.Equal(t, 2, ts.NumTrees())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.trees"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "open ")
}

func TestDump(t *testing.T) {
	ts := basicsTS(t)
	path := filepath.Join(t.TempDir(), "out.trees")
	require.NoError(t, ts.Dump(path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ts.Nodes(), back.Nodes())
}
