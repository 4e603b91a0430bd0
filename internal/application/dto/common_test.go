package dto

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_DefaultPage(t *testing.T) {
	tests := []struct {
		name       string
		in         PageRequest
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"vacío", PageRequest{}, 1, DefaultLimit, 0},
		{"negativos", PageRequest{Page: -3, Limit: -1}, 1, DefaultLimit, 0},
		{"limit acotado", PageRequest{Page: 2, Limit: 500}, 2, MaxLimit, MaxLimit},
		{"página enorme", PageRequest{Page: math.MaxInt64, Limit: MaxLimit}, MaxPage, MaxLimit, (MaxPage - 1) * MaxLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.DefaultPage()
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset())
			assert.GreaterOrEqual(t, p.Offset(), 0)
		})
	}
}
