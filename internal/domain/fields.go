package domain

import "regexp"

// Field name keys. These are the canonical keys used across extraction maps,
// confidence maps and the model response schema.
const (
	FieldReportNumber   = "report_number"
	FieldViolationDate  = "violation_date"
	FieldViolationType  = "violation_type"
	FieldFineAmount     = "fine_amount"
	FieldViolationTime  = "violation_time"
	FieldLocation       = "location"
	FieldDriverName     = "driver_name"
	FieldLicenseNumber  = "license_number"
	FieldPoints         = "points"
	FieldVehiclePlate   = "vehicle_plate"
	FieldAppealDeadline = "appeal_deadline"
)

var (
	reportNumberShape  = regexp.MustCompile(`^\d{6,}$`)
	dateShape          = regexp.MustCompile(`^\d{1,2}[./-]\d{1,2}[./-]\d{2,4}$`)
	timeShape          = regexp.MustCompile(`^\d{1,2}[:.]\d{2}$`)
	amountShape        = regexp.MustCompile(`^(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d+)?$`)
	pointsShape        = regexp.MustCompile(`^\d{1,2}$`)
	licenseNumberShape = regexp.MustCompile(`^\d{5,9}$`)
	vehiclePlateShape  = regexp.MustCompile(`^(?:\d{2,3}-\d{2,3}-\d{2,3}|\d{7,8})$`)
)

// FieldDefinition is a static catalog entry for one ticket field.
type FieldDefinition struct {
	Name        string
	Description string
	Required    bool
	// Keywords are the Hebrew label variants a ticket may print next to the value.
	Keywords []string
	// Shape validates a candidate value. nil means any non-empty value passes.
	Shape *regexp.Regexp
}

// Validate reports whether a raw candidate value satisfies the field's shape rule.
func (d *FieldDefinition) Validate(value string) bool {
	if value == "" {
		return false
	}
	if d.Shape == nil {
		return true
	}
	return d.Shape.MatchString(value)
}

// Catalog is the ordered set of field definitions for a traffic-violation ticket.
type Catalog struct {
	defs  []FieldDefinition
	byKey map[string]*FieldDefinition
}

// NewCatalog builds the default traffic-ticket field catalog.
func NewCatalog() *Catalog {
	defs := []FieldDefinition{
		{
			Name: FieldReportNumber, Description: "ticket report number", Required: true,
			Keywords: []string{"מספר דוח", "מס' דוח", "דוח מספר", "מספר הזמנה לדין"},
			Shape:    reportNumberShape,
		},
		{
			Name: FieldViolationDate, Description: "date the violation occurred", Required: true,
			Keywords: []string{"תאריך העבירה", "תאריך ביצוע העבירה", "בתאריך"},
			Shape:    dateShape,
		},
		{
			Name: FieldViolationType, Description: "violation clause or description", Required: true,
			Keywords: []string{"מהות העבירה", "סעיף העבירה", "פרטי העבירה", "תיאור העבירה"},
		},
		{
			Name: FieldFineAmount, Description: "fine amount in shekels", Required: true,
			Keywords: []string{"סכום הקנס", "קנס בסך", "סכום לתשלום", "לתשלום"},
			Shape:    amountShape,
		},
		{
			Name: FieldViolationTime, Description: "time the violation occurred",
			Keywords: []string{"שעת העבירה", "בשעה", "שעה"},
			Shape:    timeShape,
		},
		{
			Name: FieldLocation, Description: "location of the violation",
			Keywords: []string{"מקום העבירה", "מקום ביצוע העבירה", "ברחוב", "בכביש"},
		},
		{
			Name: FieldDriverName, Description: "driver full name",
			Keywords: []string{"שם הנהג", "שם פרטי ומשפחה", "שם המבקש"},
		},
		{
			Name: FieldLicenseNumber, Description: "driver license number",
			Keywords: []string{"מספר רישיון", "רישיון נהיגה", "מס' רישיון נהיגה"},
			Shape:    licenseNumberShape,
		},
		{
			Name: FieldPoints, Description: "demerit points",
			Keywords: []string{"נקודות", "ניקוד", "נקודות חובה"},
			Shape:    pointsShape,
		},
		{
			Name: FieldVehiclePlate, Description: "vehicle registration plate",
			Keywords: []string{"מספר רכב", "מספר רישוי", "לוחית רישוי"},
			Shape:    vehiclePlateShape,
		},
		{
			Name: FieldAppealDeadline, Description: "deadline for requesting a trial or appeal",
			Keywords: []string{"מועד אחרון לערעור", "בקשה להישפט", "ערעור עד", "המועד האחרון"},
			Shape:    dateShape,
		},
	}

	byKey := make(map[string]*FieldDefinition, len(defs))
	for i := range defs {
		byKey[defs[i].Name] = &defs[i]
	}
	return &Catalog{defs: defs, byKey: byKey}
}

// Fields returns all definitions in catalog order.
func (c *Catalog) Fields() []FieldDefinition {
	return c.defs
}

// Get returns the definition for a field name, or nil.
func (c *Catalog) Get(name string) *FieldDefinition {
	return c.byKey[name]
}

// RequiredFields returns the names of required fields in catalog order.
func (c *Catalog) RequiredFields() []string {
	var out []string
	for _, d := range c.defs {
		if d.Required {
			out = append(out, d.Name)
		}
	}
	return out
}

// OptionalFields returns the names of optional fields in catalog order.
func (c *Catalog) OptionalFields() []string {
	var out []string
	for _, d := range c.defs {
		if !d.Required {
			out = append(out, d.Name)
		}
	}
	return out
}
