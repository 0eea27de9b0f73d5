package dataset_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/absmach/gridfl/pkg/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `hour,load,temp,y
0,1.5,20,0
1,2.5,21,1
2,3.5,19,1
`

func TestRead(t *testing.T) {
	t.Parallel()

	ds, err := dataset.Read(strings.NewReader(sample), []string{"temp", "load"}, "y")
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{20, 1.5}, {21, 2.5}, {19, 3.5}}, ds.Features)
	assert.Equal(t, []float64{0, 1, 1}, ds.Labels)
	assert.Equal(t, 3, ds.Len())
}

func TestReadHeaderOnly(t *testing.T) {
	t.Parallel()

	ds, err := dataset.Read(strings.NewReader("a,y\n"), []string{"a"}, "y")
	require.NoError(t, err)
	assert.NotNil(t, ds.Features)
	assert.NotNil(t, ds.Labels)
	assert.Zero(t, ds.Len())
}

func TestReadErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		desc     string
		input    string
		features []string
		label    string
		err      error
	}{
		{desc: "missing feature", input: sample, features: []string{"wind"}, label: "y", err: dataset.ErrMissingColumn},
		{desc: "missing label", input: sample, features: []string{"load"}, label: "target", err: dataset.ErrMissingColumn},
		{desc: "no features", input: sample, label: "y", err: dataset.ErrNoColumns},
		{desc: "non numeric", input: "a,y\nx,1\n", features: []string{"a"}, label: "y", err: dataset.ErrInvalidValue},
		{desc: "non numeric label", input: "a,y\n1,yes\n", features: []string{"a"}, label: "y", err: dataset.ErrInvalidValue},
	}

	for _, tc := range cases {
		_, err := dataset.Read(strings.NewReader(tc.input), tc.features, tc.label)
		assert.ErrorIs(t, err, tc.err, tc.desc)
	}

	_, err := dataset.Read(strings.NewReader(""), []string{"a"}, "y")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "train.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	ds, err := dataset.Load(path, []string{"load"}, "y")
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())

	_, err = dataset.Load(filepath.Join(t.TempDir(), "missing.csv"), []string{"load"}, "y")
	assert.Error(t, err)
}
