package forecast

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
)

// TreeNode is one node of a flattened regression tree. Internal nodes route
// on vec[Feature] < Threshold (left when true); leaves carry Left == -1 and
// the output in Value.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree is a single regression tree of the ensemble.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

func (t Tree) predict(vec []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Left < 0 {
			return n.Value
		}
		if vec[n.Feature] < n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Performance carries the offline evaluation metrics stored with the model.
type Performance struct {
	RMSE float64 `json:"rmse"`
}

// Artifact is the serialized trained regressor: a gradient-boosted tree
// ensemble plus the training metadata the API exposes. It is loaded once at
// startup and never mutated, so concurrent reads need no locking.
type Artifact struct {
	ModelVersion      string             `json:"model_version"`
	ModelType         string             `json:"model_type"`
	Target            string             `json:"target"`
	CreatedDate       string             `json:"created_date"`
	Performance       Performance        `json:"performance"`
	Features          []string           `json:"features"`
	FeatureImportance map[string]float64 `json:"feature_importance"`
	BaseScore         float64            `json:"base_score"`
	Trees             []Tree             `json:"trees"`
}

// LoadArtifact reads and validates a model artifact from path. All failures
// wrap ErrModelUnavailable so callers can keep serving and report 503s.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrModelUnavailable, path, err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrModelUnavailable, path, err)
	}
	if err := a.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelUnavailable, path, err)
	}
	return &a, nil
}

// validate enforces the feature-order invariant and tree well-formedness.
// Child indexes must point forward so traversal always terminates.
func (a *Artifact) validate() error {
	if len(a.Trees) == 0 {
		return fmt.Errorf("artifact has no trees")
	}
	if len(a.Features) != len(FeatureNames) {
		return fmt.Errorf("artifact declares %d features, transform produces %d", len(a.Features), len(FeatureNames))
	}
	for i, name := range a.Features {
		if name != FeatureNames[i] {
			return fmt.Errorf("feature order mismatch at position %d: artifact has %q, transform produces %q", i, name, FeatureNames[i])
		}
	}
	if math.IsNaN(a.BaseScore) || math.IsInf(a.BaseScore, 0) {
		return fmt.Errorf("base_score is not finite")
	}
	for ti, tree := range a.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d is empty", ti)
		}
		for ni, n := range tree.Nodes {
			if n.Left < 0 {
				continue
			}
			if n.Right < 0 {
				return fmt.Errorf("tree %d node %d: internal node missing right child", ti, ni)
			}
			if n.Feature < 0 || n.Feature >= len(FeatureNames) {
				return fmt.Errorf("tree %d node %d: feature index %d out of range", ti, ni, n.Feature)
			}
			if n.Left <= ni || n.Left >= len(tree.Nodes) || n.Right <= ni || n.Right >= len(tree.Nodes) {
				return fmt.Errorf("tree %d node %d: child index out of range", ti, ni)
			}
		}
	}
	return nil
}

// Predict sums the tree outputs over a feature vector in FeatureNames order.
func (a *Artifact) Predict(vec []float64) float64 {
	sum := a.BaseScore
	for _, t := range a.Trees {
		sum += t.predict(vec)
	}
	return sum
}

// ImportanceEntry is one row of the feature-importance ranking.
type ImportanceEntry struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// Importance returns the stored importance scores sorted descending, ties
// broken by feature name so the order is stable across calls.
func (a *Artifact) Importance() []ImportanceEntry {
	entries := make([]ImportanceEntry, 0, len(a.FeatureImportance))
	for feature, score := range a.FeatureImportance {
		entries = append(entries, ImportanceEntry{Feature: feature, Importance: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Importance != entries[j].Importance {
			return entries[i].Importance > entries[j].Importance
		}
		return entries[i].Feature < entries[j].Feature
	})
	return entries
}
