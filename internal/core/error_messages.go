// Error Codes Reference
//
// This file maps errors to user-facing messages with codes for support
// reference. Codes are grouped by category:
//
// # Record Errors (REC001-REC099)
//
//	REC001 - Record not found: No question has this ID
//	         Patterns: "record not found"
//	REC002 - Duplicate identifier: A question with this ID already exists
//	         Patterns: "duplicate identifier"
//	REC003 - Missing identifier: A question ID is required
//	         Patterns: "missing identifier"
//
// # Form Errors (FORM001-FORM099)
//
//	FORM001 - Form locked: Hard fields are locked
//	          Patterns: "form locked"
//	FORM002 - Unlock not confirmed: Unlocking needs confirmation
//	          Patterns: "unlock not confirmed"
//	FORM003 - No edit target: No question is loaded for editing
//	          Patterns: "no edit target"
//	FORM004 - Invalid mode: Mode must be new, edit or revise
//	          Patterns: "invalid mode"
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Empty export: There is nothing to export
//	         Patterns: "nothing to export"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the size limit
//	          Patterns: "file too large"
//	FILE002 - No file: No file was selected
//	          Patterns: "no file provided"
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - System busy: Too many imports in progress
//	         Patterns: "too many imports"
//	IMP002 - Request cancelled
//	         Patterns: "context canceled"
//	IMP003 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Invalid request: A request field is missing or malformed
//	         Patterns: "invalid request"
//	REQ002 - Unknown template: No insertion template has this ID
//	         Patterns: "template not found"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//
// # Pattern Matching
//
// Patterns are matched case-insensitively using strings.Contains against the
// error text, so wrapped errors match their sentinel. The first matching
// pattern wins.

package core

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

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps error text patterns (case-insensitive) to user messages.
// To add a pattern, pick the category's next code, place specific patterns
// before general ones and update the reference at the top of this file.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Record Errors (REC001-REC003)
	// =========================================================================
	{
		pattern: "record not found",
		msg: UserMessage{
			Message: "No question has this ID",
			Action:  "Check the question ID or import the file that contains it",
			Code:    "REC001",
		},
	},
	{
		pattern: "duplicate identifier",
		msg: UserMessage{
			Message: "A question with this ID already exists",
			Action:  "Use a new ID; for a revision append a suffix such as R1",
			Code:    "REC002",
		},
	},
	{
		pattern: "missing identifier",
		msg: UserMessage{
			Message: "A question ID is required",
			Action:  "Enter a question ID before saving",
			Code:    "REC003",
		},
	},

	// =========================================================================
	// Form Errors (FORM001-FORM004)
	// =========================================================================
	{
		pattern: "form locked",
		msg: UserMessage{
			Message: "The form is locked",
			Action:  "Unlock the form before saving changes to an existing question",
			Code:    "FORM001",
		},
	},
	{
		pattern: "unlock not confirmed",
		msg: UserMessage{
			Message: "Unlocking was not confirmed",
			Action:  "Confirm the unlock to edit an existing question directly",
			Code:    "FORM002",
		},
	},
	{
		pattern: "no edit target",
		msg: UserMessage{
			Message: "No question is loaded for editing",
			Action:  "Open a question in edit mode first",
			Code:    "FORM003",
		},
	},
	{
		pattern: "invalid mode",
		msg: UserMessage{
			Message: "Unknown form mode",
			Action:  "Use new, edit or revise",
			Code:    "FORM004",
		},
	},

	// =========================================================================
	// Export Errors (EXP001)
	// =========================================================================
	{
		pattern: "nothing to export",
		msg: UserMessage{
			Message: "There is nothing to export",
			Action:  "Import or author questions first",
			Code:    "EXP001",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE002)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to import",
			Code:    "FILE002",
		},
	},

	// =========================================================================
	// Import Errors (IMP001-IMP003)
	// =========================================================================
	{
		pattern: "too many imports",
		msg: UserMessage{
			Message: "System is busy reading other files",
			Action:  "Please wait a moment and try again",
			Code:    "IMP001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "IMP002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "IMP003",
		},
	},

	// =========================================================================
	// Request Errors (REQ001-REQ002)
	// =========================================================================
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request is missing a field or has an invalid value",
			Action:  "Check the highlighted fields and submit again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "template not found",
		msg: UserMessage{
			Message: "The selected template does not exist",
			Action:  "Reload the page to refresh the template list",
			Code:    "REQ002",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
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
// This is the fallback for unexpected errors. Support staff should check
// application logs for the original technical error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := fmt.Errorf("save: %w", ErrDuplicateIdentifier)
//	msg := MapError(err)
//	// msg.Code == "REC002"
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
//
// Example output: "The form is locked (Code: FORM001). Unlock the form before saving changes to an existing question"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}
