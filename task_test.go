package jobharvest_test

import (
	"testing"

	"github.com/fwojciec/jobharvest"
	"github.com/stretchr/testify/assert"
)

func TestTaskResult(t *testing.T) {
	t.Parallel()

	t.Run("ok carries data and key", func(t *testing.T) {
		t.Parallel()

		r := jobharvest.OK([]int{1, 2}, "acme")

		assert.True(t, r.IsSuccess())
		assert.False(t, r.IsFailure())
		assert.Equal(t, []int{1, 2}, r.Data)
		assert.Equal(t, "acme", r.Key)
		assert.Empty(t, r.Error)
	})

	t.Run("ok with empty data is still success", func(t *testing.T) {
		t.Parallel()

		r := jobharvest.OK([]int{}, "acme")

		assert.True(t, r.IsSuccess())
		assert.Empty(t, r.Data)
	})

	t.Run("fail carries error and key", func(t *testing.T) {
		t.Parallel()

		r := jobharvest.Fail[[]int]("boom", "acme")

		assert.False(t, r.IsSuccess())
		assert.True(t, r.IsFailure())
		assert.Equal(t, "boom", r.Error)
		assert.Equal(t, "acme", r.Key)
		assert.Nil(t, r.Data)
	})
}

func TestSignature(t *testing.T) {
	t.Parallel()

	a := jobharvest.Signature("acme", "Go Engineer", "https://acme.test/jobs/1")
	b := jobharvest.Signature("acme", "Go Engineer", "https://acme.test/jobs/1")
	c := jobharvest.Signature("acme", "Go Engineer", "https://acme.test/jobs/2")

	assert.Equal(t, a, b, "same content yields same signature")
	assert.NotEqual(t, a, c, "different URL yields different signature")
	assert.Len(t, a, 16)
}
