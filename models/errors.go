package models

import (
	"github.com/cockroachdb/errors"
)

// Base errors, related to default API status codes
var (
	// BadParameterError is rendered with the http status code 400
	BadParameterError = errors.New("bad parameter")

	// UnAuthorizedError is rendered with the http status code 401
	UnAuthorizedError = errors.New("unauthorized")

	// ForbiddenError is rendered with the http status code 403
	ForbiddenError = errors.New("forbidden")

	// NotFoundError is rendered with the http status code 404
	NotFoundError = errors.New("not found")

	// ConflictError is rendered with the http status code 409
	ConflictError = errors.New("duplicate value")
)

// Fact ingestion related errors
var (
	// ErrFactIngestion wraps any upstream fetch or normalization failure. It is
	// propagated to the caller as-is: the engine never retries an ingestion.
	ErrFactIngestion = errors.New("fact ingestion failed")
)

// Policy related errors
var (
	ErrUnknownPolicyScope      = errors.Wrap(BadParameterError, "unknown policy scope")
	ErrUnknownEnforcementLevel = errors.Wrap(BadParameterError, "unknown enforcement level")

	// ErrMalformedRulesLogic marks a policy version whose rules cannot be
	// decoded into a known rule kind. Evaluation fails closed on it.
	ErrMalformedRulesLogic = errors.Wrap(BadParameterError, "malformed rules logic")
)

// Decision and override related errors
var (
	ErrDecisionStillPending = errors.New("decision is still pending evaluation")

	// ErrOverrideInvalidState is returned when an override targets a decision
	// that is not currently blocking or warning.
	ErrOverrideInvalidState = errors.Wrap(ConflictError,
		"decision is not in an overridable state")

	ErrOverrideReasonTooShort = errors.Wrap(BadParameterError,
		"override justification is too short")
)

var ErrIgnoreRollBackError = errors.New("ignore rollback error")
