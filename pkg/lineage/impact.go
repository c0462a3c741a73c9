package lineage

import "sort"

// RiskLevel classifies the blast radius of a prospective change.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ImpactReport is the result of analyzing a prospective change to a node.
// The three itemized lists cover datasets, models, and transformations;
// other node types count toward TotalAffected but are not itemized.
type ImpactReport struct {
	NodeID                  string    `json:"node_id"`
	TotalAffected           int       `json:"total_affected"`
	AffectedDatasets        []string  `json:"affected_datasets"`
	AffectedModels          []string  `json:"affected_models"`
	AffectedTransformations []string  `json:"affected_transformations"`
	RiskLevel               RiskLevel `json:"risk_level"`
}

// AnalyzeChange computes the full downstream set of the given node and
// classifies the risk of changing it. Any affected model makes the change
// high risk, any affected dataset (with no model) medium, and a purely
// transformation-level impact low: model retraining is the costliest
// downstream consequence, followed by dataset invalidation.
//
// Unknown IDs produce an empty report with low risk, not an error.
func (t *Tracker) AnalyzeChange(id string) *ImpactReport {
	report := &ImpactReport{
		NodeID:                  id,
		AffectedDatasets:        []string{},
		AffectedModels:          []string{},
		AffectedTransformations: []string{},
		RiskLevel:               RiskLow,
	}

	downstream := t.graph.Downstream(id, 0)
	report.TotalAffected = len(downstream)

	for _, node := range downstream {
		switch node.Type {
		case NodeDataset:
			report.AffectedDatasets = append(report.AffectedDatasets, node.ID)
		case NodeModel:
			report.AffectedModels = append(report.AffectedModels, node.ID)
		case NodeTransformation:
			report.AffectedTransformations = append(report.AffectedTransformations, node.ID)
		}
	}

	// Sort for deterministic output
	sort.Strings(report.AffectedDatasets)
	sort.Strings(report.AffectedModels)
	sort.Strings(report.AffectedTransformations)

	switch {
	case len(report.AffectedModels) > 0:
		report.RiskLevel = RiskHigh
	case len(report.AffectedDatasets) > 0:
		report.RiskLevel = RiskMedium
	}

	return report
}
