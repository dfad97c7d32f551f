package app

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"fashion-eval/internal/domain/entity"
)

func TestPairMasks(t *testing.T) {
	pairs, err := PairMasks(
		[]string{"mask_2.png", "notes.txt", "mask_1.png"},
		[]string{"mask_1.png", "mask_2.png", "mask_3.png"},
		"pred", "gt",
	)
	require.NoError(t, err)
	require.Equal(t, []entity.MaskPair{
		{GroundTruthPath: filepath.Join("gt", "mask_1.png"), PredictedPath: filepath.Join("pred", "mask_1.png"), ImageID: "mask_1.png"},
		{GroundTruthPath: filepath.Join("gt", "mask_2.png"), PredictedPath: filepath.Join("pred", "mask_2.png"), ImageID: "mask_2.png"},
	}, pairs)
}

func TestPairMasks_MissingGroundTruth(t *testing.T) {
	_, err := PairMasks([]string{"mask_9.png"}, []string{"mask_1.png"}, "pred", "gt")
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestPairDirectories(t *testing.T) {
	root := t.TempDir()
	predDir := filepath.Join(root, "pred")
	gtDir := filepath.Join(root, "gt")
	touch(t, filepath.Join(predDir, "mask_1.png"))
	touch(t, filepath.Join(gtDir, "mask_1.png"))
	touch(t, filepath.Join(gtDir, "README.md"))

	pairs, err := PairDirectories(predDir, gtDir)
	require.NoError(t, err)
	require.Len(t, pairs, 1)

	_, err = PairDirectories(filepath.Join(root, "nope"), gtDir)
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestFileNames(t *testing.T) {
	require.Equal(t, "12", ImageNumber("mask_12.png"))
	require.Equal(t, "result_12.png", ResultFileName("dir/image_12.jpg"))
	require.Equal(t, "mask_3.png", MaskFileName("image_3.jpg"))
	require.Equal(t, "mask_3.png", MaskFileName("image_3.jpeg"))
	require.True(t, IsImageFile("A.JPG"))
	require.False(t, IsImageFile("a.gif"))
}
