// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The pipeline stages are split so each can be tested on its own:
//
//   - PromptBuilder: query + anchor date + sources -> RetrievalRequest
//   - Normalizer: RawResponse -> []EventRecord (lenient repair)
//   - DeriveDateBadge / ClassifyCard: display facts per record
//   - EventSearchService: runs the stages around a GroundedGenerator
//   - Session: single in-flight query and the latest result set
package services
