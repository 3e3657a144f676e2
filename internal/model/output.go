// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by the session engine.
package model

// =============================================================================
// OUTPUT KIND
// =============================================================================

// OutputKind tags the variant held by an Output.
type OutputKind int

const (
	KindNone        OutputKind = iota // Command echo entries carry no output
	KindPlainText                     // Free-form text (help, errors, not found)
	KindStageMarker                   // Progress marker emitted between stages
	KindResult                        // Terminal status-check outcome
)

// String returns the string representation of the kind.
func (k OutputKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindPlainText:
		return "text"
	case KindStageMarker:
		return "stage"
	case KindResult:
		return "result"
	default:
		return "unknown"
	}
}

// =============================================================================
// RESULT KIND
// =============================================================================

// ResultKind is the outcome carried by a KindResult output.
type ResultKind int

const (
	ResultNone ResultKind = iota
	ResultSuccess
	ResultFailure
	ResultError
)

// String returns the string representation of the result.
func (r ResultKind) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultFailure:
		return "failure"
	case ResultError:
		return "error"
	default:
		return "none"
	}
}

// =============================================================================
// OUTPUT PAYLOAD
// =============================================================================

// Output is a tagged payload. Text holds the plain text, the stage marker
// text, or the error message of a ResultError, depending on Kind.
type Output struct {
	Kind   OutputKind `json:"kind"`
	Text   string     `json:"text,omitempty"`
	Result ResultKind `json:"result,omitempty"`
}

// NoOutput is the empty payload recorded alongside a command echo.
func NoOutput() Output {
	return Output{Kind: KindNone}
}

// PlainText wraps free-form text.
func PlainText(text string) Output {
	return Output{Kind: KindPlainText, Text: text}
}

// StageMarker wraps a progress marker such as "processing...".
func StageMarker(marker string) Output {
	return Output{Kind: KindStageMarker, Text: marker}
}

// Success is the result of a selected identifier.
func Success() Output {
	return Output{Kind: KindResult, Result: ResultSuccess}
}

// Failure is the result of an identifier that was not selected.
func Failure() Output {
	return Output{Kind: KindResult, Result: ResultFailure}
}

// Error is the result of a failed lookup.
func Error(message string) Output {
	return Output{Kind: KindResult, Result: ResultError, Text: message}
}

// IsEmpty returns true for the payload of a command echo.
func (o Output) IsEmpty() bool {
	return o.Kind == KindNone
}

// IsResult returns true if the payload is a terminal outcome.
func (o Output) IsResult() bool {
	return o.Kind == KindResult
}

// String returns the plain-text form used by line-oriented presenters.
// Results render as "success", "failure" and "error: <message>".
func (o Output) String() string {
	switch o.Kind {
	case KindPlainText, KindStageMarker:
		return o.Text
	case KindResult:
		if o.Result == ResultError {
			return "error: " + o.Text
		}
		return o.Result.String()
	default:
		return ""
	}
}
