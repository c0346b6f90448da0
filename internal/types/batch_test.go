package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchKeepsOrder(t *testing.T) {
	var b Batch[string]
	b.Succeed("a")
	b.Fail("b", "boom")
	b.Succeed("c")
	b.Fail("d", "bang")

	assert.Equal(t, []string{"a", "c"}, b.Succeeded())
	items, reasons := b.FailedItems()
	assert.Equal(t, []string{"b", "d"}, items)
	assert.Equal(t, []string{"boom", "bang"}, reasons)
	assert.True(t, b.HasFailures())
	assert.Equal(t, 4, b.Len())
}

func TestEmptyBatch(t *testing.T) {
	var b Batch[int]
	assert.NotNil(t, b.Succeeded())
	assert.NotNil(t, b.Failed())
	assert.Empty(t, b.Succeeded())
	assert.False(t, b.HasFailures())
}
