package countstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemCountStore(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := NewMemCountStore()

	c, err := s.GetCount(ctx, "quota", "ban", PeriodDay)
	assert.NoError(err)
	assert.Equal(0, c)

	assert.NoError(s.Increment(ctx, "quota", "ban"))
	assert.NoError(s.Increment(ctx, "quota", "ban"))
	assert.NoError(s.Increment(ctx, "quota", "kick"))

	for _, period := range []string{PeriodTotal, PeriodDay, PeriodHour} {
		c, err = s.GetCount(ctx, "quota", "ban", period)
		assert.NoError(err)
		assert.Equal(2, c, period)
	}

	c, err = s.GetCount(ctx, "quota", "kick", PeriodDay)
	assert.NoError(err)
	assert.Equal(1, c)
}
