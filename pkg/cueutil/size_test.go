// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		size    int
		max     int64
		wantErr bool
	}{
		{name: "within limit", size: 11, max: 100},
		{name: "exact limit", size: 100, max: 100},
		{name: "over limit", size: 101, max: 100, wantErr: true},
		{name: "empty data", size: 0, max: 100},
		{name: "limit disabled", size: 1 << 10, max: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckFileSize(make([]byte, tt.size), tt.max, "tree.json")
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckFileSize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "tree.json") {
				t.Errorf("error should contain filename, got: %v", err)
			}
		})
	}
}
