package predictor

import (
	"errors"
	"fmt"

	"github.com/iliyamo/smart-medicine-box/internal/model"
)

// TreeNode is one node of a flattened binary tree. Samples with
// x[FeatureIdx] <= Threshold go to LeftChild.
type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	ClassLabel int     `json:"class_label,omitempty"`
	Value      float64 `json:"value,omitempty"`
	IsLeaf     bool    `json:"is_leaf"`
}

// DecisionTree is a classification tree; Predict returns the class label
// of the reached leaf.
type DecisionTree struct {
	nodes []TreeNode
}

// NewDecisionTree wraps already-trained nodes.
func NewDecisionTree(nodes []TreeNode) *DecisionTree {
	return &DecisionTree{nodes: nodes}
}

func (dt *DecisionTree) Predict(record model.FeatureRecord) (float64, error) {
	leaf, err := walk(dt.nodes, record.Vector())
	if err != nil {
		return 0, err
	}
	return float64(leaf.ClassLabel), nil
}

// Nodes returns the flattened tree.
func (dt *DecisionTree) Nodes() []TreeNode { return dt.nodes }

// RegressionTree is a regression tree; Predict returns the leaf value.
type RegressionTree struct {
	nodes []TreeNode
}

func NewRegressionTree(nodes []TreeNode) *RegressionTree {
	return &RegressionTree{nodes: nodes}
}

func (rt *RegressionTree) Predict(record model.FeatureRecord) (float64, error) {
	leaf, err := walk(rt.nodes, record.Vector())
	if err != nil {
		return 0, err
	}
	return leaf.Value, nil
}

// Nodes returns the flattened tree.
func (rt *RegressionTree) Nodes() []TreeNode { return rt.nodes }

// walk descends from the root. A well-formed tree reaches a leaf in at most
// len(nodes) steps; anything longer is a cycle.
func walk(nodes []TreeNode, features []float64) (TreeNode, error) {
	if len(nodes) == 0 {
		return TreeNode{}, errors.New("model not trained")
	}
	idx := 0
	for steps := 0; steps <= len(nodes); steps++ {
		node := nodes[idx]
		if node.IsLeaf {
			return node, nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return TreeNode{}, fmt.Errorf("feature index %d out of range", node.FeatureIdx)
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(nodes) {
			return TreeNode{}, errors.New("invalid tree state")
		}
	}
	return TreeNode{}, errors.New("tree does not terminate")
}
