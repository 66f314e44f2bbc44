package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
)

// NumericFeature is a standard-scaled numeric input.
type NumericFeature struct {
	Name        string  `json:"name"`
	Mean        float64 `json:"mean"`
	Scale       float64 `json:"scale"`
	Coefficient float64 `json:"coefficient"`
}

// CategoricalFeature is a one-hot encoded input. Categories absent from
// Coefficients contribute nothing, like an encoder ignoring unknown values.
type CategoricalFeature struct {
	Name         string             `json:"name"`
	Coefficients map[string]float64 `json:"coefficients"`
}

// BooleanFeature is an equipment flag encoded as 0 or 1.
type BooleanFeature struct {
	Name        string  `json:"name"`
	Coefficient float64 `json:"coefficient"`
}

// PipelineArtifact is the exported form of a fitted linear pipeline.
type PipelineArtifact struct {
	Version     string               `json:"version"`
	Intercept   float64              `json:"intercept"`
	Numeric     []NumericFeature     `json:"numeric"`
	Categorical []CategoricalFeature `json:"categorical"`
	Boolean     []BooleanFeature     `json:"boolean"`
}

// Pipeline evaluates a PipelineArtifact in process.
type Pipeline struct {
	art     PipelineArtifact
	weights *mat.VecDense
}

// LoadPipeline reads a JSON artifact from disk.
func LoadPipeline(path string) (*Pipeline, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline: %w", err)
	}
	var art PipelineArtifact
	if err := json.Unmarshal(b, &art); err != nil {
		return nil, fmt.Errorf("decode pipeline: %w", err)
	}
	return NewPipeline(art)
}

// NewPipeline validates the artifact against the known feature columns.
func NewPipeline(art PipelineArtifact) (*Pipeline, error) {
	var f Features
	var w []float64
	for _, n := range art.Numeric {
		if _, ok := f.numeric(n.Name); !ok {
			return nil, fmt.Errorf("unknown numeric feature %q", n.Name)
		}
		if n.Scale == 0 {
			return nil, fmt.Errorf("numeric feature %q has zero scale", n.Name)
		}
		w = append(w, n.Coefficient)
	}
	for _, c := range art.Categorical {
		if _, ok := f.categorical(c.Name); !ok {
			return nil, fmt.Errorf("unknown categorical feature %q", c.Name)
		}
		w = append(w, 1)
	}
	for _, b := range art.Boolean {
		if _, ok := f.boolean(b.Name); !ok {
			return nil, fmt.Errorf("unknown boolean feature %q", b.Name)
		}
		w = append(w, b.Coefficient)
	}
	if len(w) == 0 {
		return nil, fmt.Errorf("pipeline has no features")
	}
	return &Pipeline{art: art, weights: mat.NewVecDense(len(w), w)}, nil
}

// Name implements Predictor.
func (p *Pipeline) Name() string { return "local" }

// Predict implements Predictor.
func (p *Pipeline) Predict(ctx context.Context, f Features) (float64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	x := p.encode(f)
	return Round2(p.art.Intercept + mat.Dot(p.weights, x)), nil
}

// encode builds the design row in the same column order as the weights. A
// one-hot block collapses to the coefficient of the active category, so its
// weight is 1.
func (p *Pipeline) encode(f Features) *mat.VecDense {
	x := make([]float64, 0, p.weights.Len())
	for _, n := range p.art.Numeric {
		v, _ := f.numeric(n.Name)
		x = append(x, (v-n.Mean)/n.Scale)
	}
	for _, c := range p.art.Categorical {
		v, _ := f.categorical(c.Name)
		x = append(x, c.Coefficients[v])
	}
	for _, b := range p.art.Boolean {
		v, _ := f.boolean(b.Name)
		if v {
			x = append(x, 1)
		} else {
			x = append(x, 0)
		}
	}
	return mat.NewVecDense(len(x), x)
}
