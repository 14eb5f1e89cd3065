package core

// error_messages.go maps errors to user-facing messages.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Clients receive the code in every error body so support staff
// can find the cause quickly.
//
// # Directory Errors (BIZ001-BIZ099)
//
//	BIZ001 - Not found: No business exists with this id
//	         Action: Refresh the list and try again
//	         Patterns: "business not found"
//
// # Storage Errors (STO001-STO099)
//
//	STO001 - Storage unavailable: Database connection required but unavailable
//	         Action: Please try again later or contact an administrator
//	         Patterns: "storage unavailable"
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: A record with this ID already exists
//	DB004 - Connection refused: Unable to connect to database
//	DB005 - Connection reset: Database connection was interrupted
//	DB006 - Timeout: Operation timed out
//	DB007 - Deadlock: Database was busy with conflicting operations
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Missing fields: Required fields are empty
//	         Patterns: "missing required fields"
//	VAL003 - Invalid record: Record failed validation
//	         Patterns: "validation failed"
//	VAL004 - No header: The file has no header row
//	         Patterns: "no header row"
//	REQ001 - Invalid request: The request body could not be read
//	         Patterns: "invalid request"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum size limit
//	FILE002 - Invalid CSV: File is not a valid CSV
//	FILE003 - Invalid spreadsheet: Workbook could not be opened
//	FILE004 - No file: No file was selected
//	FILE005 - Empty file: The uploaded file is empty
//	FILE006 - Legacy workbook: .xls files are not supported
//	FILE007 - Unknown format: File is neither a workbook nor CSV
//
// # Import Errors (UPL001-UPL099)
//
//	UPL002 - System busy: Too many imports in progress
//	UPL004 - Request cancelled
//	UPL005 - Request timeout
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Unsupported format: Export format is not known
//	         Patterns: "unsupported export format"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check the application logs for
// the technical error.
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns are listed
// before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages.
// Order matters: the first match wins.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Directory and storage errors
	// =========================================================================
	{
		pattern: "business not found",
		msg: UserMessage{
			Message: "No business exists with this id",
			Action:  "Refresh the list and try again",
			Code:    "BIZ001",
		},
	},
	{
		pattern: "storage unavailable",
		msg: UserMessage{
			Message: "Database connection required but unavailable",
			Action:  "Please try again later or contact an administrator",
			Code:    "STO001",
		},
	},

	// =========================================================================
	// Import errors
	// Listed before database errors so "timeout" in a wrapped message does
	// not shadow them.
	// =========================================================================
	{
		pattern: "too many uploads",
		msg: UserMessage{
			Message: "System is busy processing other imports",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Save the file as comma or semicolon separated values",
			Code:    "FILE002",
		},
	},
	{
		pattern: "invalid spreadsheet",
		msg: UserMessage{
			Message: "The workbook could not be opened",
			Action:  "Re-save the file as .xlsx and try again",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select an .xlsx or .csv file to import",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a file with a header row and data rows",
			Code:    "FILE005",
		},
	},
	{
		pattern: "legacy .xls",
		msg: UserMessage{
			Message: "Legacy .xls workbooks are not supported",
			Action:  "Re-save the file as .xlsx and try again",
			Code:    "FILE006",
		},
	},
	{
		pattern: "unrecognized file format",
		msg: UserMessage{
			Message: "The file is neither a workbook nor a CSV file",
			Action:  "Upload an .xlsx or .csv file",
			Code:    "FILE007",
		},
	},
	{
		pattern: "no header row",
		msg: UserMessage{
			Message: "The file has no header row",
			Action:  "Add a first row with column names such as Name, Address, Zipcode, City",
			Code:    "VAL004",
		},
	},

	// =========================================================================
	// Validation errors
	// =========================================================================
	{
		pattern: "unsupported export format",
		msg: UserMessage{
			Message: "Export format is not supported",
			Action:  "Use spreadsheet, csv or document",
			Code:    "EXP001",
		},
	},
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Check the request body format",
			Code:    "REQ001",
		},
	},
	{
		pattern: "missing required fields",
		msg: UserMessage{
			Message: "Required fields are empty",
			Action:  "Fill in name, street, zipcode and city",
			Code:    "VAL001",
		},
	},
	{
		pattern: "validation failed",
		msg: UserMessage{
			Message: "Record failed validation",
			Action:  "Correct the listed fields and try again",
			Code:    "VAL003",
		},
	},

	// =========================================================================
	// Database errors
	// =========================================================================
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this ID already exists",
			Action:  "Please try again",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "UPL005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},

	// =========================================================================
	// Rate limiting
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the ERR000 fallback is returned.
//
// Example:
//
//	msg := MapError(ErrNotFound)
//	// msg.Code == "BIZ001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern, meaning its own
// text is safe to show to clients.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
