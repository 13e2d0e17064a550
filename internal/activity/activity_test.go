package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputePoints(t *testing.T) {
	tests := []struct {
		name       string
		code       ServiceCode
		complexity Complexity
		want       float64
	}{
		{"install simple", ServiceInstall, ComplexitySimple, 1.0},
		{"install complex", ServiceInstall, ComplexityComplex, 1.5},
		{"maintenance simple", ServiceMaintenance, ComplexitySimple, 0.6},
		{"maintenance complex", ServiceMaintenance, ComplexityComplex, 1.0},
		{"removal ignores complexity", ServiceRemoval, ComplexityComplex, 0.3},
		{"unknown service", ServiceCode("PODA"), ComplexitySimple, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputePoints(tt.code, tt.complexity))
		})
	}
}
