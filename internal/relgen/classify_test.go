package relgen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/josephgoksu/planwing/internal/task"
)

func TestClassifyLinkError(t *testing.T) {
	tests := []struct {
		message string
		want    task.ReasonCode
	}{
		{"cross-project link", task.ReasonCrossProject},
		{"Circular dependency", task.ReasonCircular},
		{"DUPLICATE link", task.ReasonDuplicate},
		{"invalid split hierarchy", task.ReasonInvalid},
		{"self reference", task.ReasonInvalid},
		{"task not found", task.ReasonUnknown},
		{"", task.ReasonUnknown},
		// first matching rule wins
		{"duplicate link in another project", task.ReasonCrossProject},
		{"circular duplicate", task.ReasonCircular},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyLinkError(tt.message))
		})
	}
}
