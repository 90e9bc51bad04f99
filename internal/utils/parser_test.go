package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCodeNameMap(t *testing.T) {
	pairs, err := ParseCodeNameMap(`{"/m/02l7c8": "Romance Film", "/m/01z4y": "Comedy", "/m/07s9rl0": "Drama"}`)
	require.NoError(t, err)
	require.Len(t, pairs, 3)

	// 必须保持原文出现顺序，map 不满足这一点
	assert.Equal(t, CodeName{Code: "/m/02l7c8", Name: "Romance Film"}, pairs[0])
	assert.Equal(t, CodeName{Code: "/m/01z4y", Name: "Comedy"}, pairs[1])
	assert.Equal(t, CodeName{Code: "/m/07s9rl0", Name: "Drama"}, pairs[2])
}

func TestParseCodeNameMapEmpty(t *testing.T) {
	pairs, err := ParseCodeNameMap("")
	require.NoError(t, err)
	assert.Empty(t, pairs)

	pairs, err = ParseCodeNameMap("{}")
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestParseCodeNameMapMalformed(t *testing.T) {
	_, err := ParseCodeNameMap(`{"/m/01z4y": "Comedy"`)
	assert.Error(t, err)

	_, err = ParseCodeNameMap(`["Comedy"]`)
	assert.Error(t, err)

	_, err = ParseCodeNameMap(`not json at all`)
	assert.Error(t, err)
}

func TestMapValues(t *testing.T) {
	names := MapValues([]CodeName{
		{Code: "/m/01z4y", Name: "Comedy"},
		{Code: "/m/07s9rl0", Name: "Drama"},
	})
	assert.Equal(t, []string{"Comedy", "Drama"}, names)

	assert.Nil(t, MapValues(nil))
}
