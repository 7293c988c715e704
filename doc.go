// Package main implements manageAssesmentRbHeatmap, a CLI tool that renders
// a precomputed participant-vs-participant matrix (for example pairwise
// Robinson-Foulds distances between benchmark participants) as an SVG heatmap.
//
// # Usage
//
//	manageAssesmentRbHeatmap [--assess_dir|-a {newick,nexus}] [--output|-o PATH]
//	                         [--event_id|-e ID] [--participant_id|-p ID]
//	                         [--annotate] [--version|-v]
//
// The matrix is read from <assess_dir>/participant_matrix.json:
//
//	{"participants": ["p1", "p2"], "matrix": {"values": [[0, 1], [1, 0]]}}
//
// and the heatmap is written to
// <output>/benchmark_gmi_robinsonfoulds_heatmap.svg. The output directory
// must already exist.
//
// # Exit status
//
// 0 on success, 1 when the assess directory is missing or the matrix cannot be
// loaded, rendered or written, 2 on invalid arguments.
package main
