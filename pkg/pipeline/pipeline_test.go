package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFailFast(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	boom := errors.New("boom")
	var ran []string
	record := func(name string, err error) Stage {
		return Stage{
			Name: name,
			Run: func(context.Context) error {
				ran = append(ran, name)
				return err
			},
		}
	}

	err := Run(ctx,
		record("one", nil),
		record("two", boom),
		record("three", nil),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "stage two")
	assert.Equal(t, []string{"one", "two"}, ran)
}

func TestRunBestEffortContinues(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var ran []string
	err := Run(ctx,
		Stage{Name: "build", Run: func(context.Context) error {
			ran = append(ran, "build")
			return nil
		}},
		Stage{Name: "sign", BestEffort: true, Run: func(context.Context) error {
			ran = append(ran, "sign")
			return errors.New("signtool exited 1")
		}},
		Stage{Name: "package", Run: func(context.Context) error {
			ran = append(ran, "package")
			return nil
		}},
	)
	assert.NoError(t, err)
	assert.Equal(t, []string{"build", "sign", "package"}, ran)
}

func TestRunEmpty(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Run(context.Background()))
}

func TestMissingArtifactError(t *testing.T) {
	t.Parallel()
	err := error(&MissingArtifactError{Path: "dist/App/App.exe"})
	assert.Contains(t, err.Error(), `"dist/App/App.exe"`)
	assert.Contains(t, err.Error(), "reported success")

	var missing *MissingArtifactError
	assert.True(t, errors.As(err, &missing))
}
