// Package neural provides the feedforward decision network that drives each agent.
package neural

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Network dimensions. The topology is fixed for the lifetime of the engine.
const (
	NumInputs  = 5 // y, velocity, gap top, distance, offset from gap center
	NumHidden  = 8
	NumOutputs = 1 // flap probability
)

// Mutation defaults.
const (
	DefaultSigma       = 0.5
	DefaultWeightLimit = 5.0
)

// sigmoidClamp bounds the output pre-activation so the sigmoid stays strictly inside (0,1)
// in float64.
const sigmoidClamp = 30.0

// Network is a two-layer feedforward network: ReLU hidden layer, sigmoid output.
// W1 is inputs×hidden and W2 is hidden×outputs so that a row vector of inputs
// multiplies from the left.
type Network struct {
	W1 *mat.Dense    // input -> hidden weights (NumInputs × NumHidden)
	B1 *mat.VecDense // hidden biases
	W2 *mat.Dense    // hidden -> output weights (NumHidden × NumOutputs)
	B2 *mat.VecDense // output biases
}

// MutationParams controls a mutation pass.
type MutationParams struct {
	Rate  float64 // probability each parameter is perturbed
	Sigma float64 // standard deviation of the Gaussian perturbation
	Limit float64 // parameters are clamped to [-Limit, Limit]
}

// Mutation returns params for the given rate with default sigma and limit.
func Mutation(rate float64) MutationParams {
	return MutationParams{Rate: rate, Sigma: DefaultSigma, Limit: DefaultWeightLimit}
}

// Fresh creates a randomly initialized network.
// Weights use He initialization (N(0,1) * sqrt(2/fan_in)); biases start at zero.
func Fresh(rng *rand.Rand) *Network {
	nn := zero()

	scale1 := math.Sqrt(2.0 / float64(NumInputs))
	scale2 := math.Sqrt(2.0 / float64(NumHidden))

	w1 := nn.W1.RawMatrix().Data
	for i := range w1 {
		w1[i] = rng.NormFloat64() * scale1
	}
	w2 := nn.W2.RawMatrix().Data
	for i := range w2 {
		w2[i] = rng.NormFloat64() * scale2
	}

	return nn
}

// FromParent creates a child network: a copy of parent mutated with p.
func FromParent(parent *Network, rng *rand.Rand, p MutationParams) *Network {
	return parent.CloneWithMutation(rng, p)
}

// Constant creates a network that outputs p for every input.
// p must be in (0,1).
func Constant(p float64) *Network {
	if p <= 0 || p >= 1 {
		panic(fmt.Sprintf("neural: constant output %v outside (0,1)", p))
	}
	nn := zero()
	nn.B2.SetVec(0, math.Log(p/(1-p)))
	return nn
}

func zero() *Network {
	return &Network{
		W1: mat.NewDense(NumInputs, NumHidden, nil),
		B1: mat.NewVecDense(NumHidden, nil),
		W2: mat.NewDense(NumHidden, NumOutputs, nil),
		B2: mat.NewVecDense(NumOutputs, nil),
	}
}

// Infer computes the flap probability for the given sensor vector.
// The result is always in the open interval (0,1).
func (nn *Network) Infer(inputs [NumInputs]float64) float64 {
	out, _ := nn.forward(inputs, false)
	return out
}

// Activations holds captured intermediate layer values.
type Activations struct {
	Inputs []float64
	Hidden []float64
	Output float64
}

// InferWithActivations computes the network output and captures all layer activations.
func (nn *Network) InferWithActivations(inputs [NumInputs]float64) (float64, *Activations) {
	return nn.forward(inputs, true)
}

func (nn *Network) forward(inputs [NumInputs]float64, capture bool) (float64, *Activations) {
	nn.mustShape()

	x := mat.NewVecDense(NumInputs, inputs[:])

	// hidden = relu(x·W1 + b1)
	var hidden mat.VecDense
	hidden.MulVec(nn.W1.T(), x)
	hidden.AddVec(&hidden, nn.B1)
	for i := 0; i < hidden.Len(); i++ {
		if hidden.AtVec(i) < 0 {
			hidden.SetVec(i, 0)
		}
	}

	// output = sigmoid(hidden·W2 + b2)
	var out mat.VecDense
	out.MulVec(nn.W2.T(), &hidden)
	out.AddVec(&out, nn.B2)
	output := sigmoid(out.AtVec(0))

	if !capture {
		return output, nil
	}
	act := &Activations{
		Inputs: append([]float64(nil), inputs[:]...),
		Hidden: make([]float64, NumHidden),
		Output: output,
	}
	for i := range act.Hidden {
		act.Hidden[i] = hidden.AtVec(i)
	}
	return output, act
}

func sigmoid(z float64) float64 {
	if z > sigmoidClamp {
		z = sigmoidClamp
	} else if z < -sigmoidClamp {
		z = -sigmoidClamp
	}
	return 1 / (1 + math.Exp(-z))
}

// Clone creates a deep copy of the network.
func (nn *Network) Clone() *Network {
	nn.mustShape()
	return &Network{
		W1: mat.DenseCopyOf(nn.W1),
		B1: mat.VecDenseCopyOf(nn.B1),
		W2: mat.DenseCopyOf(nn.W2),
		B2: mat.VecDenseCopyOf(nn.B2),
	}
}

// CloneWithMutation returns a mutated deep copy; the receiver is untouched.
func (nn *Network) CloneWithMutation(rng *rand.Rand, p MutationParams) *Network {
	clone := nn.Clone()
	clone.MutateInPlace(rng, p)
	return clone
}

// MutateInPlace perturbs each parameter independently with probability p.Rate
// by N(0, p.Sigma), then clamps every parameter to [-p.Limit, p.Limit].
// Returns avgAbsDelta: the average absolute delta of the applied perturbations.
func (nn *Network) MutateInPlace(rng *rand.Rand, p MutationParams) float64 {
	nn.mustShape()

	limit := p.Limit
	if limit <= 0 {
		limit = DefaultWeightLimit
	}

	var totalDelta float64
	var count int
	for _, params := range nn.tensors() {
		for i := range params {
			if rng.Float64() < p.Rate {
				delta := rng.NormFloat64() * p.Sigma
				params[i] += delta
				totalDelta += math.Abs(delta)
				count++
			}
			params[i] = clamp(params[i], limit)
		}
	}

	if count == 0 {
		return 0
	}
	return totalDelta / float64(count)
}

// tensors returns the backing storage of every parameter tensor, in a fixed order.
func (nn *Network) tensors() [4][]float64 {
	return [4][]float64{
		nn.W1.RawMatrix().Data,
		nn.B1.RawVector().Data,
		nn.W2.RawMatrix().Data,
		nn.B2.RawVector().Data,
	}
}

// Params returns a flattened copy of all parameters (W1, B1, W2, B2).
func (nn *Network) Params() []float64 {
	nn.mustShape()
	out := make([]float64, 0, ParamCount())
	for _, params := range nn.tensors() {
		out = append(out, params...)
	}
	return out
}

// ParamCount returns the number of trainable parameters.
func ParamCount() int {
	return NumInputs*NumHidden + NumHidden + NumHidden*NumOutputs + NumOutputs
}

// Distance returns the mean absolute difference between the parameters of a and b.
func Distance(a, b *Network) float64 {
	pa, pb := a.Params(), b.Params()
	var sum float64
	for i := range pa {
		sum += math.Abs(pa[i] - pb[i])
	}
	return sum / float64(len(pa))
}

// Equal reports whether a and b hold identical parameters.
func Equal(a, b *Network) bool {
	return mat.Equal(a.W1, b.W1) && mat.Equal(a.B1, b.B1) &&
		mat.Equal(a.W2, b.W2) && mat.Equal(a.B2, b.B2)
}

// mustShape panics if any tensor deviates from the fixed topology.
func (nn *Network) mustShape() {
	if r, c := nn.W1.Dims(); r != NumInputs || c != NumHidden {
		panic(fmt.Sprintf("neural: network shape mismatch: W1 is %dx%d, want %dx%d", r, c, NumInputs, NumHidden))
	}
	if n := nn.B1.Len(); n != NumHidden {
		panic(fmt.Sprintf("neural: network shape mismatch: B1 has %d entries, want %d", n, NumHidden))
	}
	if r, c := nn.W2.Dims(); r != NumHidden || c != NumOutputs {
		panic(fmt.Sprintf("neural: network shape mismatch: W2 is %dx%d, want %dx%d", r, c, NumHidden, NumOutputs))
	}
	if n := nn.B2.Len(); n != NumOutputs {
		panic(fmt.Sprintf("neural: network shape mismatch: B2 has %d entries, want %d", n, NumOutputs))
	}
}

func clamp(x, limit float64) float64 {
	if x > limit {
		return limit
	}
	if x < -limit {
		return -limit
	}
	return x
}
