package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned when a query reaches the pipeline before a retriever is bound.
	ErrNotInitialized = errors.New("orchestrator not initialized: no retriever bound")

	// ErrRecursionLimit is returned when a run exceeds its step ceiling.
	ErrRecursionLimit = errors.New("recursion limit exceeded")

	// ErrEmptyQuestion is returned for blank questions.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrInvalidDecision is returned when routing meets an unknown GradeDecision.
	ErrInvalidDecision = errors.New("invalid grade decision")
)

// Operations reported by InfrastructureError.
const (
	OpEmbed    = "embed"
	OpSearch   = "search"
	OpIndex    = "index"
	OpRespond  = "respond"
	OpRetrieve = "retrieve"
	OpGrade    = "grade"
	OpRewrite  = "rewrite"
	OpAnswer   = "answer"
	OpFallback = "fallback"
)

// InfrastructureError reports a failed embedding, retrieval or model call.
// Timeouts surface here too; they are never turned into a cache miss or a "no" verdict.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

func infraError(op string, err error) error {
	return &InfrastructureError{Op: op, Err: err}
}

// ParseError reports a malformed row in a persisted cache file.
type ParseError struct {
	Path string
	Row  int // 1-based, header is row 1
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: row %d: %v", e.Path, e.Row, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
