// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
//   - SOPStore: Workspace-scoped SOP persistence (SQLite or memory)
//   - ConfigStore: Application configuration (TOML)
//   - Normaliser: Decodes raw file content into canonical SOPs
package driven
