// Package core provides the business logic for the business directory.
//
// This package holds all domain logic independent of any transport or
// storage backend. It is used by the HTTP handlers, the CLI and tests
// without modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Records: [Business], [BusinessInput] for creation and [BusinessPatch]
//     for partial updates where an absent field means "leave unchanged".
//   - Store: the persistence capability implemented in package store by an
//     in-memory map, PostgreSQL, or a fail-closed placeholder.
//   - Service: the single entry point for CRUD, bulk create, tag listing,
//     import and export.
//   - Import pipeline: [ReadSheet], [MapRow] and [PlanImport].
//   - Export pipeline: [ParseExportFormat], [SelectBusinesses] and
//     [EncodeExport].
//
// # Import
//
// An import turns an uploaded .xlsx or delimited text file into records:
//
//  1. [ReadSheet] sniffs the format, strips a BOM, repairs invalid UTF-8
//     and finds the header row
//  2. [MapRow] maps arbitrary headers ("Naam (zaak)", "Postcode", "PC")
//     onto the canonical fields
//  3. [PlanImport] merges batch tags, validates every row and collects
//     row errors without stopping
//  4. [Service.Import] inserts the valid rows with one Store.BulkCreate
//
// File-level problems return an [UploadError] and abort the import.
// Concurrent imports are bounded by [UploadLimiter].
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - BIZ001, STO001: Directory and storage errors
//   - VAL001-VAL004: Validation errors
//   - FILE001-FILE007: File errors (size, format, encoding)
//   - UPL002-UPL005: Import errors (busy, cancelled, timeout)
//   - DB001-DB007: Database errors
package core
