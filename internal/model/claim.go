package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ClaimType categorizes the nature of the loss
type ClaimType string

const (
	ClaimTypeBodilyInjury   ClaimType = "Bodily Injury"   // Narrative mentions an injury
	ClaimTypePropertyDamage ClaimType = "Property Damage" // Everything else
)

// FieldName is the snake_case key of an extracted field. Consumers depend on these names.
type FieldName string

const (
	FieldPolicyNumber        FieldName = "policy_number"
	FieldPolicyholderName    FieldName = "policyholder_name"
	FieldEffectiveDates      FieldName = "effective_dates"
	FieldIncidentDate        FieldName = "incident_date"
	FieldIncidentTime        FieldName = "incident_time"
	FieldIncidentLocation    FieldName = "incident_location"
	FieldIncidentDescription FieldName = "incident_description"
	FieldCountry             FieldName = "country"
	FieldState               FieldName = "state"
	FieldClaimantName        FieldName = "claimant_name"
	FieldClaimantContact     FieldName = "claimant_contact"
	FieldThirdPartyNames     FieldName = "third_party_names"
	FieldThirdPartyContacts  FieldName = "third_party_contacts"
	FieldAssetType           FieldName = "asset_type"
	FieldAssetID             FieldName = "asset_id"
	FieldVIN                 FieldName = "vin"
	FieldVehicleYear         FieldName = "vehicle_year"
	FieldVehicleMake         FieldName = "vehicle_make"
	FieldVehicleModel        FieldName = "vehicle_model"
	FieldDriverName          FieldName = "driver_name"
	FieldDriverLicense       FieldName = "driver_license"
	FieldPoliceReportNumber  FieldName = "police_report_number"
	FieldEstimatedDamage     FieldName = "estimated_damage"
	FieldInitialEstimate     FieldName = "initial_estimate"
	FieldClaimType           FieldName = "claim_type"
	FieldAttachments         FieldName = "attachments"
)

// ClaimRecord holds the fields extracted from one FNOL document.
// An empty string, nil slice or nil amount means the field was not found.
type ClaimRecord struct {
	PolicyNumber     string
	PolicyholderName string
	EffectiveDates   string

	IncidentDate        string
	IncidentTime        string
	IncidentLocation    string
	IncidentDescription string
	Country             string
	State               string // Jurisdiction code, always present in the compliance table

	ClaimantName       string
	ClaimantContact    string
	ThirdPartyNames    []string
	ThirdPartyContacts []string

	AssetType    string
	AssetID      string
	VIN          string
	VehicleYear  string
	VehicleMake  string
	VehicleModel string

	DriverName         string
	DriverLicense      string
	PoliceReportNumber string

	EstimatedDamage *decimal.Decimal
	InitialEstimate *decimal.Decimal

	ClaimType   ClaimType
	Attachments []string
}

// Value returns the value of a field, or nil when the field is absent
func (c *ClaimRecord) Value(name FieldName) any {
	switch name {
	case FieldPolicyNumber:
		return stringValue(c.PolicyNumber)
	case FieldPolicyholderName:
		return stringValue(c.PolicyholderName)
	case FieldEffectiveDates:
		return stringValue(c.EffectiveDates)
	case FieldIncidentDate:
		return stringValue(c.IncidentDate)
	case FieldIncidentTime:
		return stringValue(c.IncidentTime)
	case FieldIncidentLocation:
		return stringValue(c.IncidentLocation)
	case FieldIncidentDescription:
		return stringValue(c.IncidentDescription)
	case FieldCountry:
		return stringValue(c.Country)
	case FieldState:
		return stringValue(c.State)
	case FieldClaimantName:
		return stringValue(c.ClaimantName)
	case FieldClaimantContact:
		return stringValue(c.ClaimantContact)
	case FieldThirdPartyNames:
		return listValue(c.ThirdPartyNames)
	case FieldThirdPartyContacts:
		return listValue(c.ThirdPartyContacts)
	case FieldAssetType:
		return stringValue(c.AssetType)
	case FieldAssetID:
		return stringValue(c.AssetID)
	case FieldVIN:
		return stringValue(c.VIN)
	case FieldVehicleYear:
		return stringValue(c.VehicleYear)
	case FieldVehicleMake:
		return stringValue(c.VehicleMake)
	case FieldVehicleModel:
		return stringValue(c.VehicleModel)
	case FieldDriverName:
		return stringValue(c.DriverName)
	case FieldDriverLicense:
		return stringValue(c.DriverLicense)
	case FieldPoliceReportNumber:
		return stringValue(c.PoliceReportNumber)
	case FieldEstimatedDamage:
		return amountValue(c.EstimatedDamage)
	case FieldInitialEstimate:
		return amountValue(c.InitialEstimate)
	case FieldClaimType:
		return stringValue(string(c.ClaimType))
	case FieldAttachments:
		return listValue(c.Attachments)
	}
	return nil
}

// Fields returns every populated field keyed by its snake_case name.
// Absent fields are omitted entirely.
func (c *ClaimRecord) Fields() map[string]any {
	fields := make(map[string]any)
	for _, name := range AllFields {
		if v := c.Value(name); v != nil {
			fields[string(name)] = v
		}
	}
	return fields
}

// AllFields lists every field in record order
var AllFields = []FieldName{
	FieldPolicyNumber, FieldPolicyholderName, FieldEffectiveDates,
	FieldIncidentDate, FieldIncidentTime, FieldIncidentLocation, FieldIncidentDescription,
	FieldClaimantName, FieldThirdPartyNames, FieldClaimantContact, FieldThirdPartyContacts,
	FieldAssetType, FieldAssetID, FieldEstimatedDamage,
	FieldClaimType, FieldAttachments, FieldInitialEstimate,
	FieldVIN, FieldVehicleYear, FieldVehicleMake, FieldVehicleModel,
	FieldDriverName, FieldDriverLicense, FieldPoliceReportNumber,
	FieldCountry, FieldState,
}

func stringValue(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func listValue(items []string) any {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}

// amountValue renders an amount as a JSON number
func amountValue(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.InexactFloat64()
}

// Classification is derived from the incident narrative only
type Classification struct {
	FraudDetected  bool     `json:"fraud_detected"`
	FraudKeywords  []string `json:"fraud_keywords_matched"`
	InjuryDetected bool     `json:"injury_detected"`
	InjuryKeyword  string   `json:"injury_keyword,omitempty"` // First injury keyword that matched
}

// ClaimType maps the injury outcome onto the claim type enum
func (c Classification) ClaimType() ClaimType {
	if c.InjuryDetected {
		return ClaimTypeBodilyInjury
	}
	return ClaimTypePropertyDamage
}
