package services

import (
	"errors"
	"fmt"
	"strings"
)

// Taxonomy shared by every operation in the core. Single-entity operations
// return the first blocking error; bulk operations absorb per-item failures
// into the excluded count instead.
var (
	// ErrNotFound also covers entities the caller must not learn about.
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

type BadRequestError struct {
	Reason string
}

func (e BadRequestError) Error() string {
	return e.Reason
}

func NewBadRequest(format string, args ...any) BadRequestError {
	return BadRequestError{Reason: fmt.Sprintf(format, args...)}
}

// IncompatibleLinkError rejects linking publications across project or
// content-type boundaries, and self-links.
type IncompatibleLinkError struct {
	BadRequestError
}

func NewIncompatibleLink(format string, args ...any) IncompatibleLinkError {
	return IncompatibleLinkError{NewBadRequest(format, args...)}
}

// DuplicateLanguageError rejects a second member with the same language
// inside one localization group.
type DuplicateLanguageError struct {
	BadRequestError
}

func NewDuplicateLanguage(format string, args ...any) DuplicateLanguageError {
	return DuplicateLanguageError{NewBadRequest(format, args...)}
}

// ChannelValidationFailure is one channel's share of a blocking validation
// error raised while scheduling.
type ChannelValidationFailure struct {
	ChannelID uint     `json:"channel_id"`
	Channel   string   `json:"channel"`
	Platform  string   `json:"platform"`
	Reasons   []string `json:"reasons"`
}

type ValidationError struct {
	Failures []ChannelValidationFailure `json:"failures"`
}

func (e ValidationError) Error() string {
	parts := make([]string, len(e.Failures))
	for idx, failure := range e.Failures {
		parts[idx] = fmt.Sprintf("%s: %s", failure.Channel, strings.Join(failure.Reasons, "; "))
	}
	return fmt.Sprintf("validation failed for %d channel(s): %s", len(e.Failures), strings.Join(parts, " / "))
}
