package validate

import (
	"github.com/ppiankov/claimroute/internal/model"
)

// DefaultMandatory is the fixed set of fields every routable claim needs
var DefaultMandatory = []model.FieldName{
	model.FieldPolicyNumber,
	model.FieldPolicyholderName,
	model.FieldIncidentDate,
	model.FieldIncidentLocation,
	model.FieldIncidentDescription,
	model.FieldClaimType,
	model.FieldEstimatedDamage,
}

// Validator checks claim records for missing mandatory fields
type Validator struct {
	mandatory []model.FieldName
}

// New creates a validator. With no fields the default mandatory set is used.
func New(fields ...model.FieldName) *Validator {
	if len(fields) == 0 {
		fields = DefaultMandatory
	}

	mandatory := make([]model.FieldName, len(fields))
	copy(mandatory, fields)

	return &Validator{mandatory: mandatory}
}

// Mandatory returns the fields this validator requires, in check order
func (v *Validator) Mandatory() []model.FieldName {
	out := make([]model.FieldName, len(v.mandatory))
	copy(out, v.mandatory)
	return out
}

// FindMissing returns the mandatory fields the record lacks, in mandatory-set order.
// Absent fields and blank strings both count as missing. The result is never nil.
func (v *Validator) FindMissing(rec *model.ClaimRecord) []model.FieldName {
	missing := []model.FieldName{}
	for _, name := range v.mandatory {
		if rec == nil || rec.Value(name) == nil {
			missing = append(missing, name)
		}
	}
	return missing
}

// Names converts field names to plain strings for output
func Names(fields []model.FieldName) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = string(f)
	}
	return out
}
