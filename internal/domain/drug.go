package domain

import (
	"errors"
)

// Drug-specific validation errors
var (
	// ErrDrugNameEmpty is returned when a drug's name is empty.
	ErrDrugNameEmpty = errors.New("drug name cannot be empty")

	// ErrDrugClassEmpty is returned when a drug's class is empty.
	ErrDrugClassEmpty = errors.New("drug class cannot be empty")

	// ErrDrugSystemEmpty is returned when a drug's body system is empty.
	ErrDrugSystemEmpty = errors.New("drug system cannot be empty")

	// ErrDrugMechanismEmpty is returned when a drug's mechanism of action is empty.
	ErrDrugMechanismEmpty = errors.New("drug mechanism of action cannot be empty")
)

// Drug represents a single study item in the pharmacology catalog.
// Drugs are authored by admins (or drafted by the AI generator) and are
// immutable from the point of view of the study engine.
type Drug struct {
	ID                int        `json:"id"`
	Name              string     `json:"name"`
	Class             string     `json:"class"`
	System            BodySystem `json:"system"`
	Mechanism         string     `json:"moa"`
	Uses              []string   `json:"uses"`
	SideEffects       []string   `json:"side_effects"`
	Mnemonic          string     `json:"mnemonic,omitempty"`
	Contraindications []string   `json:"contraindications,omitempty"`
	Dosage            string     `json:"dosage,omitempty"`
}

// Validate checks if the Drug has valid data.
// Returns an error if any required field fails validation.
func (d *Drug) Validate() error {
	if d.Name == "" {
		return ErrDrugNameEmpty
	}

	if d.Class == "" {
		return ErrDrugClassEmpty
	}

	if d.System == "" {
		return ErrDrugSystemEmpty
	}

	if d.Mechanism == "" {
		return ErrDrugMechanismEmpty
	}

	return nil
}
