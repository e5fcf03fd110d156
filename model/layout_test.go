package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayout_ResolveFanout(t *testing.T) {
	testCases := []struct {
		description string
		layout      *Layout
		expect      int
		expectErr   bool
	}{
		{
			description: "default page layout",
			layout:      DefaultLayout(),
			expect:      29,
		},
		{
			description: "explicit fanout wins over sizes",
			layout:      &Layout{Fanout: 2, PageSize: -1},
			expect:      2,
		},
		{
			description: "small page",
			layout:      &Layout{PageSize: 512, KeySize: 8, IDSize: 4, EntryMetaSize: 2, PointerSize: 2, PaddingSize: 0},
			expect:      11,
		},
		{
			description: "zero overhead",
			layout:      &Layout{PageSize: 8192},
			expectErr:   true,
		},
		{
			description: "negative size",
			layout:      &Layout{PageSize: 8192, KeySize: -16, IDSize: 6},
			expectErr:   true,
		},
		{
			description: "page smaller than overhead",
			layout:      &Layout{PageSize: 16, KeySize: 16, IDSize: 6, EntryMetaSize: 4, PointerSize: 4, PaddingSize: 2},
			expectErr:   true,
		},
		{
			description: "negative fanout",
			layout:      &Layout{Fanout: -3},
			expectErr:   true,
		},
		{
			description: "nil layout",
			expectErr:   true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			actual, err := testCase.layout.ResolveFanout()
			if testCase.expectErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidLayout))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, testCase.expect, actual)
		})
	}
}
