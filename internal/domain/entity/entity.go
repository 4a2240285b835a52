package entity

import (
	"fmt"
	"time"
)

// Type tags an entity with its kind in the unified schema.
type Type string

// Entity type constants.
const (
	Challenge   Type = "challenge"
	Stakeholder Type = "stakeholder"
	Technology  Type = "technology"
	Project     Type = "project"
	Capability  Type = "capability"
	Initiative  Type = "initiative"
	FocusArea   Type = "focus_area"
	Milestone   Type = "milestone"
	Stage       Type = "stage"
)

// IsValid checks if the type is one of the supported values.
func (t Type) IsValid() bool {
	switch t {
	case Challenge, Stakeholder, Technology, Project, Capability,
		Initiative, FocusArea, Milestone, Stage:
		return true
	}
	return false
}

// Domain identifies the originating dataset.
type Domain string

// Dataset domain constants.
const (
	Atlas       Domain = "atlas"
	Navigate    Domain = "navigate"
	CPCInternal Domain = "cpc-internal"
	Reference   Domain = "reference"
	CrossDomain Domain = "cross-domain"
)

// IsValid checks if the domain is one of the supported values.
func (d Domain) IsValid() bool {
	switch d {
	case Atlas, Navigate, CPCInternal, Reference, CrossDomain:
		return true
	}
	return false
}

// Metadata carries the domain-specific fields of an entity. Known fields are
// typed; anything an adapter cannot map lands in Custom so it is never
// silently dropped.
type Metadata struct {
	Sector         string            `json:"sector,omitempty"`
	Keywords       []string          `json:"keywords,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
	TRL            int               `json:"trl,omitempty"`
	FundingAmount  float64           `json:"fundingAmount,omitempty"`
	Stage          string            `json:"stage,omitempty"`
	ProblemType    string            `json:"problemType,omitempty"`
	SecondaryTypes []string          `json:"secondaryTypes,omitempty"`
	Organization   string            `json:"organization,omitempty"`
	Custom         map[string]string `json:"custom,omitempty"`
}

// Entity is the canonical unit of search and indexing: one normalized record
// unifying heterogeneous source shapes (challenges, stakeholders,
// technologies, projects) under a single schema.
//
// ID is immutable once assigned. Re-ingesting the same logical record must
// reuse the same ID or downstream relationships dangle.
type Entity struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Type        Type        `json:"entityType"`
	Domain      Domain      `json:"domain"`
	Metadata    Metadata    `json:"metadata"`
	Provenance  *Provenance `json:"provenance,omitempty"`
}

// Validate checks the structural invariants shared by all entities.
func (e *Entity) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("entity id is required")
	}
	if e.Name == "" {
		return fmt.Errorf("entity %s: name is required", e.ID)
	}
	if !e.Type.IsValid() {
		return fmt.Errorf("entity %s: invalid type %q", e.ID, e.Type)
	}
	if !e.Domain.IsValid() {
		return fmt.Errorf("entity %s: invalid domain %q", e.ID, e.Domain)
	}
	if e.Provenance != nil {
		if err := e.Provenance.Validate(); err != nil {
			return fmt.Errorf("entity %s: %w", e.ID, err)
		}
	}
	return nil
}

// VerificationStatus is the provenance quality state.
type VerificationStatus string

// Verification status constants.
const (
	Unverified VerificationStatus = "unverified"
	Verified   VerificationStatus = "verified"
	Disputed   VerificationStatus = "disputed"
)

// IsValid checks if the status is one of the supported values.
func (v VerificationStatus) IsValid() bool {
	return v == Unverified || v == Verified || v == Disputed
}

// Source describes where an entity's data came from.
type Source struct {
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Reference  string    `json:"reference,omitempty"`
	IngestedAt time.Time `json:"ingestedAt"`
}

// Quality describes how trustworthy and fresh the entity data is.
type Quality struct {
	Confidence   float64            `json:"confidence"`
	Verification VerificationStatus `json:"verification"`
}

// ChangeEvent is a single entry in an entity's audit trail.
type ChangeEvent struct {
	At          time.Time `json:"at"`
	Actor       string    `json:"actor"`
	Description string    `json:"description"`
}

// Provenance bundles source, quality, and audit trail. The audit trail is
// stored in insertion order; display layers reverse it.
type Provenance struct {
	Source  Source        `json:"source"`
	Quality Quality       `json:"quality"`
	Audit   []ChangeEvent `json:"audit,omitempty"`
}

// Validate checks provenance invariants.
func (p *Provenance) Validate() error {
	if p.Quality.Confidence < 0 || p.Quality.Confidence > 1 {
		return fmt.Errorf("confidence must be between 0 and 1, got %v", p.Quality.Confidence)
	}
	if !p.Quality.Verification.IsValid() {
		return fmt.Errorf("invalid verification status %q", p.Quality.Verification)
	}
	return nil
}

// RecordChange appends an audit event to the provenance trail.
func (p *Provenance) RecordChange(actor, description string, at time.Time) {
	p.Audit = append(p.Audit, ChangeEvent{At: at, Actor: actor, Description: description})
}
