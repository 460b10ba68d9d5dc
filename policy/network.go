package policy

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/patrikeh/go-deep"
)

// NetworkConfig defines the network architecture and, optionally, its
// trained weights.
type NetworkConfig struct {
	Name         string        `json:"name"`
	InputSize    int           `json:"input_size"`
	HiddenLayers []int         `json:"hidden_layers"`
	OutputSize   int           `json:"output_size"`
	Weights      [][][]float64 `json:"weights,omitempty"`
}

// DefaultNetworkConfig sizes a network for a layout with untrained weights.
func DefaultNetworkConfig(layout Layout, hidden []int) NetworkConfig {
	if len(hidden) == 0 {
		hidden = []int{64, 64}
	}
	return NetworkConfig{
		Name:         "default",
		InputSize:    layout.FeatureLen(),
		HiddenLayers: hidden,
		OutputSize:   MenuLen(layout.Maps.Len()),
	}
}

// LoadConfig reads a JSON network config from path.
func LoadConfig(path string) (NetworkConfig, error) {
	var cfg NetworkConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read network config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal network config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg as JSON to path.
func SaveConfig(path string, cfg NetworkConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal network config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write network config: %w", err)
	}
	return nil
}

// ErrShapeMismatch reports weights or inputs that do not fit the network.
var ErrShapeMismatch = errors.New("network shape mismatch")

// Network scores every menu entry for a feature vector.
type Network struct {
	net     *deep.Neural
	cfg     NetworkConfig
	epsilon float64
	rng     *rand.Rand
}

// NewNetwork builds the network and applies cfg.Weights when present.
// epsilon is the probability SelectAction explores instead of exploiting.
func NewNetwork(cfg NetworkConfig, epsilon float64, rng *rand.Rand) (*Network, error) {
	if cfg.InputSize <= 0 || cfg.OutputSize <= 0 {
		return nil, fmt.Errorf("%w: input %d output %d", ErrShapeMismatch, cfg.InputSize, cfg.OutputSize)
	}
	for _, h := range cfg.HiddenLayers {
		if h <= 0 {
			return nil, fmt.Errorf("%w: hidden layer size %d", ErrShapeMismatch, h)
		}
	}

	layout := append(append([]int{}, cfg.HiddenLayers...), cfg.OutputSize)
	net := deep.NewNeural(&deep.Config{
		Inputs:     cfg.InputSize,
		Layout:     layout,
		Activation: deep.ActivationReLU,
		Mode:       deep.ModeRegression,
		Weight:     deep.NewNormal(0.1, 0.0),
		Bias:       true,
	})

	if cfg.Weights != nil {
		if err := sameShape(net.Weights(), cfg.Weights); err != nil {
			return nil, err
		}
		net.ApplyWeights(cfg.Weights)
	}

	return &Network{
		net:     net,
		cfg:     cfg,
		epsilon: math.Min(math.Max(epsilon, 0), 1),
		rng:     rng,
	}, nil
}

// Config returns the architecture together with the current weights.
func (n *Network) Config() NetworkConfig {
	cfg := n.cfg
	cfg.Weights = n.net.Weights()
	return cfg
}

// Scores runs the network on squashed features.
func (n *Network) Scores(features []float64) ([]float64, error) {
	if len(features) != n.cfg.InputSize {
		return nil, fmt.Errorf("%w: got %d features, want %d", ErrShapeMismatch, len(features), n.cfg.InputSize)
	}
	in := make([]float64, len(features))
	for i, f := range features {
		in[i] = Squash(f)
	}
	return n.net.Predict(in), nil
}

// SelectAction returns a menu index: uniformly random with probability
// epsilon, otherwise the highest-scoring entry.
func (n *Network) SelectAction(features []float64) (int, error) {
	scores, err := n.Scores(features)
	if err != nil {
		return 0, err
	}
	if n.epsilon > 0 && n.rng.Float64() < n.epsilon {
		return n.rng.Intn(len(scores)), nil
	}
	return argmax(scores), nil
}

// Squash compresses large magnitudes (distances of 999999, energies in the
// thousands) while keeping sign and order.
func Squash(x float64) float64 {
	if x < 0 {
		return -math.Log1p(-x)
	}
	return math.Log1p(x)
}

// argmax returns the first index holding the largest value.
func argmax(xs []float64) int {
	best := 0
	for i, x := range xs {
		if x > xs[best] {
			best = i
		}
	}
	return best
}

func sameShape(want, got [][][]float64) error {
	if len(want) != len(got) {
		return fmt.Errorf("%w: %d weight layers, want %d", ErrShapeMismatch, len(got), len(want))
	}
	for i := range want {
		if len(want[i]) != len(got[i]) {
			return fmt.Errorf("%w: layer %d has %d neurons, want %d", ErrShapeMismatch, i, len(got[i]), len(want[i]))
		}
		for j := range want[i] {
			if len(want[i][j]) != len(got[i][j]) {
				return fmt.Errorf("%w: layer %d neuron %d has %d weights, want %d", ErrShapeMismatch, i, j, len(got[i][j]), len(want[i][j]))
			}
		}
	}
	return nil
}
