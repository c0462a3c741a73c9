// Package lineage provides an in-memory data lineage graph with
// impact-analysis queries.
//
// The package tracks provenance relationships among datasets,
// transformations, models, and artifacts as a directed graph. It answers
// three kinds of questions: where did this data come from (upstream
// ancestry and origin datasets), what depends on it (downstream
// descendants), and how risky is a change to it (impact classification).
//
// The graph is purely in-memory; persistence is the caller's concern via
// the lossless Export surface. The engine does not execute
// transformations, validate data, or enforce schema compatibility between
// nodes - it only records and queries provenance structure.
//
// # Basic Usage
//
//	tracker := lineage.NewTracker()
//	tracker.RegisterDataset("raw_orders", "Raw Orders", "s3://bucket/orders.csv", nil)
//	tracker.RegisterTransformation("clean_orders", "Clean Orders",
//	    []string{"raw_orders"}, []string{"clean_orders_ds"}, nil)
//
//	report := tracker.AnalyzeChange("raw_orders")
//	fmt.Printf("%d nodes affected, risk %s\n", report.TotalAffected, report.RiskLevel)
package lineage
