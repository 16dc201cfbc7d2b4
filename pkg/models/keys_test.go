package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRowKey_MoreRecentThan(t *testing.T) {
	jan := RowKey{Identifier: "123", Date: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), DateValid: true}
	mar := RowKey{Identifier: "123", Date: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), DateValid: true}
	sentinel := RowKey{Identifier: "123"}

	tests := []struct {
		name string
		k    RowKey
		o    RowKey
		want bool
	}{
		{"later beats earlier", mar, jan, true},
		{"earlier does not beat later", jan, mar, false},
		{"equal dates are not more recent", jan, jan, false},
		{"valid beats sentinel", jan, sentinel, true},
		{"sentinel never beats valid", sentinel, jan, false},
		{"sentinel against sentinel is a tie", sentinel, sentinel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.k.MoreRecentThan(tt.o))
		})
	}
}
