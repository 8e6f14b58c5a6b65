package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	tests := []struct {
		name        string
		start, stop int64
		n           int64
		lo, hi      int64
		ok          bool
	}{
		{name: "whole", start: 0, stop: -1, n: 5, lo: 0, hi: 5, ok: true},
		{name: "head", start: 0, stop: 0, n: 5, lo: 0, hi: 1, ok: true},
		{name: "trim to eleven", start: 0, stop: 10, n: 12, lo: 0, hi: 11, ok: true},
		{name: "stop past end", start: 2, stop: 100, n: 5, lo: 2, hi: 5, ok: true},
		{name: "negative start", start: -2, stop: -1, n: 5, lo: 3, hi: 5, ok: true},
		{name: "negative start below zero", start: -10, stop: 1, n: 5, lo: 0, hi: 2, ok: true},
		{name: "start past end", start: 5, stop: 10, n: 5, ok: false},
		{name: "start after stop", start: 3, stop: 1, n: 5, ok: false},
		{name: "empty", start: 0, stop: -1, n: 0, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi, ok := Window(tt.start, tt.stop, tt.n)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.lo, lo)
				assert.Equal(t, tt.hi, hi)
			}
		})
	}
}
