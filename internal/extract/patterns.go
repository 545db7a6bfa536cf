package extract

// Label cascades for ACORD 2 loss notices. Every pattern is matched
// case-insensitively against the whole document; within a cascade the
// first rule that matches and normalizes wins.

const (
	// Separators never cross a line break, so a blank label cannot borrow
	// the next line's text as its value.
	sep    = `[: \t]+`
	optSep = `[: \t]*`

	datePattern   = `\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}`
	identPattern  = `[A-Z0-9\-]+`
	namePattern   = `[A-Za-z \t\.\-]+?`
	phonePattern  = `\(?\d{3}\)?[-\. \t]?\d{3}[-\. \t]?\d{4}`
	amountPattern = `\$?[ \t]*([0-9,]+(?:\.\d{2})?)`

	// A continuation line may not start a new section or an upper-case label
	narrativeStop = `(?!LOSS|DRIVER|OWNER|INSURED\s+VEHICLE|(?-i:[ \t]*[A-Z][A-Z0-9 .'#/,()\-]*:))`
	narrativeBody = `([^\n]+(?:\n` + narrativeStop + `[^\n]+)*)`

	// The narrative may start on the line after its label unless that line is another label
	narrativeLead = `(?:\n` + narrativeStop + `)?`
)

var policyNumberRules = Cascade{
	{re(`POLICY\s+NUMBER` + sep + `(` + identPattern + `)`), verbatim},
	// Needs "#" or ":" so a bare "POLICY NUMBER" label is never read as "NUMBER"
	{re(`Policy[ \t]*(?:#[ \t]*:?|:)[ \t]*(` + identPattern + `)`), verbatim},
	{re(`\bPOL` + sep + `(` + identPattern + `)`), verbatim},
}

var policyholderRules = Cascade{
	{re(`NAME\s+OF\s+INSURED` + sep + `\(First,\s*Middle,\s*Last\)` + optSep + `(` + namePattern + `)(?:\n|INSURED|DATE|$)`), name},
	{re(`\bINSURED` + sep + `(` + namePattern + `)(?:\n|POLICY|DATE|$)`), name},
	{re(`\bPolicyholder` + sep + `(` + namePattern + `)(?:\n|$)`), name},
}

var effectiveDatesRules = Cascade{
	{re(`\bEFFECTIVE\s+DATES?` + sep + `(` + datePattern + `(?:[ \t]*(?:-|TO|THROUGH)[ \t]*` + datePattern + `)?)`), collapsed},
}

var incidentDateRules = Cascade{
	{re(`DATE\s+OF\s+LOSS` + sep + `(?:AND\s+TIME` + sep + `)?(` + datePattern + `)`), verbatim},
	{re(`\bLOSS\s+DATE` + sep + `(` + datePattern + `)`), verbatim},
	{re(`\bINCIDENT\s+DATE` + sep + `(` + datePattern + `)`), verbatim},
}

var incidentTimeRules = Cascade{
	{re(`DATE\s+OF\s+LOSS\s+AND\s+TIME` + sep + datePattern + `[ \t]+(\d{1,2}:\d{2})(?:[ \t]*(AM|PM)\b)?`), joinGroups},
	{re(`\bTIME` + sep + `(\d{1,2}:\d{2})(?:[ \t]*(AM|PM)\b)?`), joinGroups},
	{re(`\b(\d{1,2}:\d{2})(?:[ \t]*(AM|PM)\b)?`), joinGroups},
}

var streetRules = Cascade{
	{re(`\bSTREET` + sep + `([A-Za-z0-9 \t\.,\-]+?)(?:\n|CITY|LOCATION|$)`), verbatim},
}

var cityStateZipRules = Cascade{
	{re(`CITY,?\s*STATE,?\s*ZIP` + sep + `([A-Za-z0-9 \t\.,\-]+?)(?:\n|COUNTRY|$)`), verbatim},
}

var countryRules = Cascade{
	{re(`\bCOUNTRY` + sep + `([A-Za-z \t]+?)(?:\n|CITY|$)`), verbatim},
}

var narrativeRules = Cascade{
	{reBacktrack(`DESCRIPTION\s+OF\s+ACCIDENT` + optSep + `(?:\([^)\n]*\))?` + optSep + narrativeLead + narrativeBody), narrative},
	{reBacktrack(`ACCIDENT\s+DESCRIPTION` + sep + narrativeLead + narrativeBody), narrative},
	{reBacktrack(`\bDESCRIPTION[ \t]*:` + optSep + narrativeLead + narrativeBody), narrative},
}

var vinRules = Cascade{
	{re(`\bV\.?I\.?N\.?` + sep + `([A-Z0-9]{17}|` + identPattern + `)`), verbatim},
}

var assetIDRules = Cascade{
	{re(`\bASSET\s+ID(?:ENTIFIER)?` + sep + `(` + identPattern + `)`), verbatim},
}

var assetTypeRules = Cascade{
	{re(`\bASSET\s+TYPE[ \t]*:[ \t]*([A-Za-z][A-Za-z /\-]*[A-Za-z])`), collapsed},
}

var vehicleYearRules = Cascade{
	{re(`(?:VEH\s*#\s*)?\bYEAR` + sep + `(\d{4})`), verbatim},
}

var vehicleMakeRules = Cascade{
	{re(`\bMAKE` + sep + `([A-Za-z0-9 \t\-]+?)(?:[ \t]+MODEL|:|\n|$)`), shortText},
}

var vehicleModelRules = Cascade{
	{re(`\bMODEL` + sep + `([A-Za-z0-9 \t\-]+?)(?:[ \t]+BODY|:|\n|VEH|$)`), shortText},
}

var driverNameRules = Cascade{
	{re(`DRIVER['’]?S\s+NAME\s+AND\s+ADDRESS` + optSep + `(?:\([^)\n]*\))?` + optSep + `(` + namePattern + `)(?:\n|PHONE|$)`), name},
	{re(`\bDRIVER\s+NAME` + sep + `(` + namePattern + `)(?:\n|PHONE|$)`), name},
}

var driverLicenseRules = Cascade{
	{re(`DRIVER['’]?S\s+LICENSE\s+NUMBER` + sep + `(` + identPattern + `)`), verbatim},
	{re(`\bLICENSE\s+NUMBER` + sep + `(` + identPattern + `)`), verbatim},
	{re(`\bDL\s*#?` + sep + `(` + identPattern + `)`), verbatim},
}

// Report labels after the first require a colon so "POLICE REPORT NUMBER"
// never yields "NUMBER" when the first rule rejects a placeholder.
var policeReportRules = Cascade{
	{re(`\bREPORT\s+NUMBER` + sep + `(N/A|` + identPattern + `)`), reportNumber},
	{re(`\bPOLICE\s+REPORT[ \t]*(?:#|NO\.?)?[ \t]*:[ \t]*(N/A|` + identPattern + `)`), reportNumber},
	{re(`\bCASE\s+NUMBER` + sep + `(N/A|` + identPattern + `)`), reportNumber},
}

var estimateRules = Cascade{
	{re(`\bESTIMATE\s+AMOUNT` + sep + amountPattern), amount},
	{re(`\bESTIMATED?\s+DAMAGE` + sep + amountPattern), amount},
	{re(`\bDAMAGE\s+ESTIMATE` + sep + amountPattern), amount},
}

var claimantRules = Cascade{
	{re(`(?m)^[ \t]*CLAIMANT(?:['’]S)?(?:\s+NAME)?[ \t]*:[ \t]*([A-Za-z .'\-]+?)[ \t]*$`), name},
}

// The first phone number not labelled as a third party's
var claimantContactRules = Cascade{
	{reBacktrack(`(?<!(?:THIRD[\s\-]+PARTY|OTHER\s+DRIVER|OTHER\s+PARTY)\s+)PHONE.*?(` + phonePattern + `)`), verbatim},
}

var thirdPartyNameRules = Cascade{
	{re(`(?m)^[ \t]*(?:THIRD[\s\-]+PARTY|OTHER\s+DRIVER|OTHER\s+PARTY)(?:\s+NAME)?[ \t]*:[ \t]*([A-Za-z .'\-]+?)[ \t]*$`), name},
}

var thirdPartyContactRules = Cascade{
	{re(`(?m)^[ \t]*(?:THIRD[\s\-]+PARTY|OTHER\s+DRIVER|OTHER\s+PARTY)\s+(?:PHONE|CONTACT)[ \t]*:[ \t]*(` + phonePattern + `)`), verbatim},
}

var attachmentRules = Cascade{
	{re(`(?m)^[ \t]*ATTACHMENTS?[ \t]*:[ \t]*([^\n]*\S)`), verbatim},
}
