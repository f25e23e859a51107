/*
Copyright 2025 The capest Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package metrics exposes quarter capacity as Prometheus gauges.
//
// # Key Components
//
// CapacityCollector (collector.go):
//   - Implements prometheus.Collector
//   - Evaluates the quarter on every scrape, so values always reflect the
//     current repository contents
//
// Source (source.go):
//   - Read-only view of members, initiatives and quarters
//   - Satisfied by *store.Repository
//
// # Metrics Exposed
//
// Per member (labels: quarter, member_id, member):
//   - <ns>_member_available_weeks
//   - <ns>_member_allocated_weeks
//   - <ns>_member_remaining_weeks (negative when over-allocated)
//   - <ns>_member_over_allocated (1 or 0)
//
// Per quarter (label: quarter):
//   - <ns>_quarter_available_weeks
//   - <ns>_quarter_allocated_weeks
//
// Per role requirement (labels: quarter, initiative_id, initiative, role, requirement):
//   - <ns>_requirement_shortfall_weeks
//   - <ns>_role_fulfillment_percent
//
// # Error Handling
//
// An unknown quarter is reported through prometheus.NewInvalidMetric so the
// scrape fails loudly instead of exporting an empty quarter.
//
// # Usage Example
//
//	collector := metrics.NewCapacityCollector(repo, "Q3-2025", "capest")
//	families, err := metrics.Gather(collector)
//	if err != nil {
//		return err
//	}
//	return metrics.WriteText(os.Stdout, families)
package metrics
