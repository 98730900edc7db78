package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaddingSize(t *testing.T) {
	const emptyDefault = OffsetBuckets + DefaultBucketCount*BucketSlotBytes // 16420

	tests := []struct {
		name      string
		alignment int
		fileSize  int64
		keySize   int64
		valueSize int64
		want      int64
	}{
		{"no padding", 0, emptyDefault, 4, 1, 0},
		{"align to 16", 16, emptyDefault, 4, 1, 7},
		{"already aligned pads a full unit", 8, emptyDefault, 2, 2, 8},
		{"large positive alignment", 4096, emptyDefault, 4, 1, 3895},
		{"small value gets the fixed reserve", -1, emptyDefault, 4, 10, PaddingHeaderWidth},
		{"large value on block boundary", -1, 8192, 4, 5000, 7124},
		{"large value off block boundary", -1, emptyDefault, 4, 5000, 5040},
		{"block sized value drops its share", -1, 8192, 4, 3000, 932},
		{"small share of a huge value", -13, 8192, 4, 100000, 2236},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paddingSize(tt.alignment, tt.fileSize, tt.keySize, tt.valueSize)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaddingSize_PositiveAlignsRecordEnd(t *testing.T) {
	for _, align := range []int{1, 2, 8, 16, 512, 4096} {
		for _, v := range []int64{1, 7, 100, 5000} {
			pad := paddingSize(align, 16420, 4, v)
			assert.Greater(t, pad, int64(0))
			assert.LessOrEqual(t, pad, int64(align))
			assert.Zero(t, (16420+PaddingHeaderWidth+4+v+pad)%int64(align))
		}
	}
}
