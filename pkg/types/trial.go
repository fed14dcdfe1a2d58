// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Intervention is one intervention arm of a trial: what was administered
// or performed, under what protocol name.
type Intervention struct {
	// Type is the intervention category (e.g. "Drug", "Device", "Behavioral").
	Type *string `json:"type" yaml:"type"`

	// Name is the protocol name of the intervention.
	Name *string `json:"name" yaml:"name"`

	// Description is the free-text description, when the registry provides one.
	Description *string `json:"description" yaml:"description"`
}

// LocationSummary condenses a trial's site list into the counts useful for
// modeling: how many facilities, and in which countries.
type LocationSummary struct {
	// FacilityCount is the number of listed sites that name a facility.
	FacilityCount int `json:"facility_count" yaml:"facility_count"`

	// Countries is the sorted, de-duplicated set of countries the trial
	// runs in, combining the registry's country list with facility addresses.
	Countries []string `json:"countries" yaml:"countries"`
}

// TrialRecord is the flat, modeling-friendly view of one registry XML
// document. Scalar fields are pointers: nil means the source element (or
// attribute) was absent and serializes as JSON null. Multi-valued fields
// are never nil; absence serializes as an empty array. Field declaration
// order fixes the key order of the serialized record.
type TrialRecord struct {
	// XMLPath is the index line that produced this record.
	XMLPath string `json:"xml_path" yaml:"xml_path"`

	// NCTID is the registry identifier (e.g. "NCT00000102").
	NCTID *string `json:"nct_id" yaml:"nct_id"`

	// OrgStudyID is the sponsor's own protocol identifier.
	OrgStudyID *string `json:"org_study_id" yaml:"org_study_id"`

	BriefTitle    *string `json:"brief_title" yaml:"brief_title"`
	OfficialTitle *string `json:"official_title" yaml:"official_title"`

	// OverallStatus is the recruitment status (e.g. "Completed", "Terminated").
	OverallStatus *string `json:"overall_status" yaml:"overall_status"`

	// WhyStopped explains early termination, when given.
	WhyStopped *string `json:"why_stopped" yaml:"why_stopped"`

	Phase     *string `json:"phase" yaml:"phase"`
	StudyType *string `json:"study_type" yaml:"study_type"`

	// LeadSponsor is the lead sponsor agency name.
	LeadSponsor *string `json:"lead_sponsor" yaml:"lead_sponsor"`

	// Collaborators lists collaborating agency names in document order.
	Collaborators []string `json:"collaborators" yaml:"collaborators"`

	// Registry dates are kept as the registry's free-text values (e.g.
	// "June 2014"); the *_type companions carry the "Actual"/"Anticipated"
	// qualifier attribute.
	PrimaryCompletionDate     *string `json:"primary_completion_date" yaml:"primary_completion_date"`
	PrimaryCompletionDateType *string `json:"primary_completion_date_type" yaml:"primary_completion_date_type"`
	CompletionDate            *string `json:"completion_date" yaml:"completion_date"`
	CompletionDateType        *string `json:"completion_date_type" yaml:"completion_date_type"`
	StartDate                 *string `json:"start_date" yaml:"start_date"`
	StartDateType             *string `json:"start_date_type" yaml:"start_date_type"`
	StudyFirstPosted          *string `json:"study_first_posted" yaml:"study_first_posted"`
	LastUpdatePosted          *string `json:"last_update_posted" yaml:"last_update_posted"`

	Enrollment     *string `json:"enrollment" yaml:"enrollment"`
	EnrollmentType *string `json:"enrollment_type" yaml:"enrollment_type"`

	// Eligibility fields.
	Gender              *string `json:"gender" yaml:"gender"`
	MinimumAge          *string `json:"minimum_age" yaml:"minimum_age"`
	MaximumAge          *string `json:"maximum_age" yaml:"maximum_age"`
	HealthyVolunteers   *string `json:"healthy_volunteers" yaml:"healthy_volunteers"`
	EligibilityCriteria *string `json:"eligibility_criteria" yaml:"eligibility_criteria"`

	// Conditions are the studied conditions; ConditionMeshTerms the
	// registry-assigned MeSH vocabulary for them.
	Conditions         []string `json:"conditions" yaml:"conditions"`
	ConditionMeshTerms []string `json:"condition_mesh_terms" yaml:"condition_mesh_terms"`

	Keywords []string `json:"keywords" yaml:"keywords"`

	Interventions         []Intervention `json:"interventions" yaml:"interventions"`
	InterventionMeshTerms []string       `json:"intervention_mesh_terms" yaml:"intervention_mesh_terms"`

	// Outcome measure texts, in document order.
	PrimaryOutcomes   []string `json:"primary_outcomes" yaml:"primary_outcomes"`
	SecondaryOutcomes []string `json:"secondary_outcomes" yaml:"secondary_outcomes"`

	NumberOfArms   *string `json:"number_of_arms" yaml:"number_of_arms"`
	NumberOfGroups *string `json:"number_of_groups" yaml:"number_of_groups"`

	Locations LocationSummary `json:"locations" yaml:"locations"`
}

// NewTrialRecord returns a record for xmlPath with every multi-valued
// field initialized empty, so absent fields serialize as [] rather than null.
func NewTrialRecord(xmlPath string) *TrialRecord {
	return &TrialRecord{
		XMLPath:               xmlPath,
		Collaborators:         []string{},
		Conditions:            []string{},
		ConditionMeshTerms:    []string{},
		Keywords:              []string{},
		Interventions:         []Intervention{},
		InterventionMeshTerms: []string{},
		PrimaryOutcomes:       []string{},
		SecondaryOutcomes:     []string{},
		Locations:             LocationSummary{Countries: []string{}},
	}
}
