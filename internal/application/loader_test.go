package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"fashion-eval/internal/domain/entity"
)

// fakeMaskReader отдаёт маски из памяти по пути файла
type fakeMaskReader struct {
	masks map[string]*entity.LabelMask
}

func (r *fakeMaskReader) ReadMask(path string) (*entity.LabelMask, error) {
	m, ok := r.masks[path]
	if !ok {
		return nil, errors.New("cannot decode")
	}
	return m, nil
}

// touch создаёт пустой файл, чтобы os.Stat его находил
func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestMaskLoader_Load(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	bad := filepath.Join(dir, "bad.png")
	broken := filepath.Join(dir, "broken.png")
	for _, p := range []string{good, bad, broken} {
		touch(t, p)
	}

	reader := &fakeMaskReader{masks: map[string]*entity.LabelMask{
		good: {Width: 2, Height: 1, Pix: []uint8{0, 17}},
		bad:  {Width: 2, Height: 1, Pix: []uint8{0, 18}},
	}}
	loader := NewMaskLoader(reader, entity.DefaultClassMapping(), zerolog.Nop())

	mask, err := loader.Load(good)
	require.NoError(t, err)
	require.Equal(t, []uint8{0, 17}, mask.Pix)

	_, err = loader.Load(bad)
	require.ErrorIs(t, err, entity.ErrInvalidMask)

	_, err = loader.Load(broken)
	require.ErrorIs(t, err, entity.ErrNotFound)

	_, err = loader.Load(filepath.Join(dir, "missing.png"))
	require.ErrorIs(t, err, entity.ErrNotFound)
}
