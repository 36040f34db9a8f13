package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencodereview/opencodereview/review"
)

func TestParseLineRanges(t *testing.T) {
	tests := []struct {
		input   string
		want    []review.LineRange
		wantErr bool
	}{
		{input: "10-12", want: []review.LineRange{{Start: 10, End: 12}}},
		{input: "40", want: []review.LineRange{{Start: 40, End: 40}}},
		{input: "10-12,40", want: []review.LineRange{{Start: 10, End: 12}, {Start: 40, End: 40}}},
		{input: " 3 - 7 , 9 ", want: []review.LineRange{{Start: 3, End: 7}, {Start: 9, End: 9}}},
		{input: "", wantErr: true},
		{input: ",", wantErr: true},
		{input: "a-b", wantErr: true},
		{input: "10-", wantErr: true},
		{input: "10-12-14", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseLineRanges(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
