// Package activity defines performed service events and their point values.
package activity

// ServiceCode enumerates the billable service categories.
type ServiceCode string

const (
	ServiceInstall     ServiceCode = "INSTALACAO"
	ServiceMaintenance ServiceCode = "MANUTENCAO"
	ServiceRemoval     ServiceCode = "RETIRADA"
)

// Complexity qualifies a service for point weighting.
type Complexity string

const (
	ComplexitySimple  Complexity = "SIMPLES"
	ComplexityComplex Complexity = "COMPLEXA"
)

// Activity is a performed service event. Immutable once created.
type Activity struct {
	ID          string      `json:"id"`
	DateISO     string      `json:"dateISO"`
	OSNumber    string      `json:"osNumber,omitempty"`
	ServiceCode ServiceCode `json:"serviceType"`
	Complexity  Complexity  `json:"complexity"`
	Points      float64     `json:"points"`
	Notes       string      `json:"notes,omitempty"`
}

type rule struct {
	base         float64
	byComplexity map[Complexity]float64
}

var pointsRules = map[ServiceCode]rule{
	ServiceInstall: {
		base: 1,
		byComplexity: map[Complexity]float64{
			ComplexitySimple:  1.0,
			ComplexityComplex: 1.5,
		},
	},
	ServiceMaintenance: {
		base: 0.6,
		byComplexity: map[Complexity]float64{
			ComplexitySimple:  0.6,
			ComplexityComplex: 1.0,
		},
	},
	ServiceRemoval: {
		base: 0.3,
	},
}

// ComputePoints derives the point value for a service. Unknown service
// codes are worth nothing rather than an error; the rules table is the
// single source of truth.
func ComputePoints(code ServiceCode, complexity Complexity) float64 {
	r, ok := pointsRules[code]
	if !ok {
		return 0
	}
	if r.byComplexity != nil {
		if v, ok := r.byComplexity[complexity]; ok {
			return v
		}
	}
	return r.base
}
