package extract

import (
	"strings"

	"github.com/ppiankov/claimroute/internal/classify"
	"github.com/ppiankov/claimroute/internal/compliance"
	"github.com/ppiankov/claimroute/internal/model"
)

// DefaultAssetType is assumed for every ACORD 2 automobile loss notice
const DefaultAssetType = "Vehicle - Automobile"

// Extractor turns raw FNOL text into a ClaimRecord.
// It holds only read-only tables and is safe for concurrent use.
type Extractor struct {
	table      *compliance.Table
	classifier *classify.Classifier
}

// NewExtractor creates an extractor. Nil arguments fall back to the
// embedded compliance table and the default keyword classifier.
func NewExtractor(table *compliance.Table, classifier *classify.Classifier) *Extractor {
	if table == nil {
		table = compliance.Default()
	}
	if classifier == nil {
		classifier = classify.New()
	}
	return &Extractor{
		table:      table,
		classifier: classifier,
	}
}

// Extract never fails: each field independently degrades to absent
func (e *Extractor) Extract(rawText string) *model.ClaimRecord {
	text := normalizeNewlines(rawText)
	rec := &model.ClaimRecord{}

	// Policy
	rec.PolicyNumber, _ = policyNumberRules.First(text)
	rec.PolicyholderName, _ = policyholderRules.First(text)
	rec.EffectiveDates, _ = effectiveDatesRules.First(text)

	// Incident
	rec.IncidentDate, _ = incidentDateRules.First(text)
	rec.IncidentTime, _ = incidentTimeRules.First(text)

	street, _ := streetRules.First(text)
	cityStateZip, _ := cityStateZipRules.First(text)
	rec.IncidentLocation = joinNonEmpty(", ", street, cityStateZip)
	if rec.IncidentLocation != "" {
		if entry, ok := e.table.Resolve(rec.IncidentLocation); ok {
			rec.State = entry.Code
		}
	}

	rec.Country, _ = countryRules.First(text)
	rec.IncidentDescription, _ = narrativeRules.First(text)

	// Asset
	rec.VIN, _ = vinRules.First(text)
	rec.AssetID = rec.VIN
	if id, ok := assetIDRules.First(text); ok {
		rec.AssetID = id
	}
	rec.AssetType = DefaultAssetType
	if t, ok := assetTypeRules.First(text); ok {
		rec.AssetType = t
	}
	rec.VehicleYear, _ = vehicleYearRules.First(text)
	rec.VehicleMake, _ = vehicleMakeRules.First(text)
	rec.VehicleModel, _ = vehicleModelRules.First(text)

	// Driver and report
	rec.DriverName, _ = driverNameRules.First(text)
	rec.DriverLicense, _ = driverLicenseRules.First(text)
	rec.PoliceReportNumber, _ = policeReportRules.First(text)

	// Amounts
	if v, ok := estimateRules.First(text); ok {
		if d, ok := parseAmount(v); ok {
			initial := d
			rec.EstimatedDamage = &d
			rec.InitialEstimate = &initial
		}
	}

	// Parties
	rec.ClaimantName = rec.PolicyholderName
	if c, ok := claimantRules.First(text); ok {
		rec.ClaimantName = c
	}
	rec.ClaimantContact, _ = claimantContactRules.First(text)
	rec.ThirdPartyNames = thirdPartyNameRules.All(text)
	rec.ThirdPartyContacts = thirdPartyContactRules.All(text)

	if list, ok := attachmentRules.First(text); ok {
		rec.Attachments = listItems(list)
	}

	// Must be set before validation and routing read it
	rec.ClaimType = e.classifier.ClaimType(rec.IncidentDescription)

	return rec
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
