package seed

import (
	"fmt"
	"strings"

	"quiz-seed/internal/domain"
)

// Policy decides what an upsert does with an entity that already exists.
type Policy string

const (
	// CreateOnly leaves existing entities untouched.
	CreateOnly Policy = "create_only"
	// Overwrite replaces scalar fields and, for questions, the answers.
	Overwrite Policy = "overwrite"
)

// ParsePolicy accepts "create_only" and "overwrite", with '-' or '_'.
func ParsePolicy(s string) (Policy, error) {
	p := Policy(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch p {
	case CreateOnly, Overwrite:
		return p, nil
	}
	return "", domain.NewConfigurationError(fmt.Sprintf("unknown upsert policy %q", s))
}

// Policies maps entity kinds to their policy.
type Policies map[domain.EntityKind]Policy

// DefaultPolicies keeps reference data stable and questions current.
func DefaultPolicies() Policies {
	return Policies{
		domain.KindCategory:    CreateOnly,
		domain.KindSubcategory: CreateOnly,
		domain.KindQuestion:    Overwrite,
		domain.KindUser:        CreateOnly,
	}
}

// For returns the policy of kind, falling back to the default.
func (p Policies) For(kind domain.EntityKind) Policy {
	if policy, ok := p[kind]; ok {
		return policy
	}
	return DefaultPolicies()[kind]
}

// ValidationMode decides what happens to a record that fails validation.
type ValidationMode string

const (
	// Strict fails the batch on the first invalid record.
	Strict ValidationMode = "strict"
	// Permissive skips invalid records with a warning.
	Permissive ValidationMode = "permissive"
)

func ParseValidationMode(s string) (ValidationMode, error) {
	switch m := ValidationMode(strings.ToLower(strings.TrimSpace(s))); m {
	case Strict, Permissive:
		return m, nil
	case "":
		return Strict, nil
	}
	return "", domain.NewConfigurationError(fmt.Sprintf("unknown validation mode %q", s))
}

// Outcome is what an upsert did with a record.
type Outcome string

const (
	Created   Outcome = "created"
	Updated   Outcome = "updated"
	Unchanged Outcome = "unchanged"
	Skipped   Outcome = "skipped"
)

// Outcomes lists every outcome in report order.
var Outcomes = []Outcome{Created, Updated, Unchanged, Skipped}
