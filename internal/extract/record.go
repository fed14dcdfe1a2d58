// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/trialstream/internal/fieldmap"
	"github.com/pdiddy/trialstream/internal/xmldoc"
	"github.com/pdiddy/trialstream/pkg/types"
)

// scalarTargets binds contract names to scalar record fields. A text or
// attr mapping must name one of these.
var scalarTargets = map[string]func(*types.TrialRecord, *string){
	"nct_id":                       func(r *types.TrialRecord, v *string) { r.NCTID = v },
	"org_study_id":                 func(r *types.TrialRecord, v *string) { r.OrgStudyID = v },
	"brief_title":                  func(r *types.TrialRecord, v *string) { r.BriefTitle = v },
	"official_title":               func(r *types.TrialRecord, v *string) { r.OfficialTitle = v },
	"overall_status":               func(r *types.TrialRecord, v *string) { r.OverallStatus = v },
	"why_stopped":                  func(r *types.TrialRecord, v *string) { r.WhyStopped = v },
	"phase":                        func(r *types.TrialRecord, v *string) { r.Phase = v },
	"study_type":                   func(r *types.TrialRecord, v *string) { r.StudyType = v },
	"lead_sponsor":                 func(r *types.TrialRecord, v *string) { r.LeadSponsor = v },
	"primary_completion_date":      func(r *types.TrialRecord, v *string) { r.PrimaryCompletionDate = v },
	"primary_completion_date_type": func(r *types.TrialRecord, v *string) { r.PrimaryCompletionDateType = v },
	"completion_date":              func(r *types.TrialRecord, v *string) { r.CompletionDate = v },
	"completion_date_type":         func(r *types.TrialRecord, v *string) { r.CompletionDateType = v },
	"start_date":                   func(r *types.TrialRecord, v *string) { r.StartDate = v },
	"start_date_type":              func(r *types.TrialRecord, v *string) { r.StartDateType = v },
	"study_first_posted":           func(r *types.TrialRecord, v *string) { r.StudyFirstPosted = v },
	"last_update_posted":           func(r *types.TrialRecord, v *string) { r.LastUpdatePosted = v },
	"enrollment":                   func(r *types.TrialRecord, v *string) { r.Enrollment = v },
	"enrollment_type":              func(r *types.TrialRecord, v *string) { r.EnrollmentType = v },
	"gender":                       func(r *types.TrialRecord, v *string) { r.Gender = v },
	"minimum_age":                  func(r *types.TrialRecord, v *string) { r.MinimumAge = v },
	"maximum_age":                  func(r *types.TrialRecord, v *string) { r.MaximumAge = v },
	"healthy_volunteers":           func(r *types.TrialRecord, v *string) { r.HealthyVolunteers = v },
	"eligibility_criteria":         func(r *types.TrialRecord, v *string) { r.EligibilityCriteria = v },
	"number_of_arms":               func(r *types.TrialRecord, v *string) { r.NumberOfArms = v },
	"number_of_groups":             func(r *types.TrialRecord, v *string) { r.NumberOfGroups = v },
}

// listTargets binds contract names to multi-valued record fields. A
// text_list mapping must name one of these.
var listTargets = map[string]func(*types.TrialRecord, []string){
	"collaborators":           func(r *types.TrialRecord, v []string) { r.Collaborators = v },
	"conditions":              func(r *types.TrialRecord, v []string) { r.Conditions = v },
	"condition_mesh_terms":    func(r *types.TrialRecord, v []string) { r.ConditionMeshTerms = v },
	"keywords":                func(r *types.TrialRecord, v []string) { r.Keywords = v },
	"intervention_mesh_terms": func(r *types.TrialRecord, v []string) { r.InterventionMeshTerms = v },
	"primary_outcomes":        func(r *types.TrialRecord, v []string) { r.PrimaryOutcomes = v },
	"secondary_outcomes":      func(r *types.TrialRecord, v []string) { r.SecondaryOutcomes = v },
}

// validateBinding checks that every contract field names a record field of
// the right shape. Run fails fast on the first mismatch rather than emitting
// records that silently dropped a mapped field.
func validateBinding(fm *fieldmap.Map) error {
	for _, f := range fm.Fields {
		if f.Kind == fieldmap.KindTextList {
			if _, ok := listTargets[f.Name]; ok {
				continue
			}
			if _, ok := scalarTargets[f.Name]; ok {
				return fmt.Errorf("fieldmap: %q is a scalar record field, not multi-valued", f.Name)
			}
			return fmt.Errorf("fieldmap: no record field named %q", f.Name)
		}
		if _, ok := scalarTargets[f.Name]; ok {
			continue
		}
		if _, ok := listTargets[f.Name]; ok {
			return fmt.Errorf("fieldmap: %q is a multi-valued record field, use kind text_list", f.Name)
		}
		return fmt.Errorf("fieldmap: no record field named %q", f.Name)
	}
	return nil
}

// buildRecord applies the contract to a parsed document. Absent elements
// leave scalar fields nil and multi-valued fields empty; a present field is
// its trimmed text. buildRecord never fails: a valid document always yields
// a whole record.
func buildRecord(doc *xmldoc.Element, xmlPath string, fm *fieldmap.Map) *types.TrialRecord {
	rec := types.NewTrialRecord(xmlPath)

	for _, f := range fm.Fields {
		switch f.Kind {
		case fieldmap.KindText:
			scalarTargets[f.Name](rec, textAt(doc, f.Path))
		case fieldmap.KindAttr:
			scalarTargets[f.Name](rec, attrAt(doc, f.Path, f.Attr))
		case fieldmap.KindTextList:
			listTargets[f.Name](rec, textListAt(doc, f.Path))
		}
	}

	rec.Interventions = parseInterventions(doc)
	rec.Locations = parseLocations(doc)
	return rec
}

// textAt returns the trimmed text of the first element at path, or nil when
// the path matches nothing.
func textAt(el *xmldoc.Element, path string) *string {
	found := el.Find(path)
	if found == nil {
		return nil
	}
	v := strings.TrimSpace(found.Text)
	return &v
}

// attrAt returns the trimmed attribute value of the first element at path,
// or nil when the element or the attribute is absent.
func attrAt(el *xmldoc.Element, path, name string) *string {
	found := el.Find(path)
	if found == nil {
		return nil
	}
	v, ok := found.Attr(name)
	if !ok {
		return nil
	}
	v = strings.TrimSpace(v)
	return &v
}

// textListAt returns the trimmed, non-empty texts of every element at path,
// in document order.
func textListAt(el *xmldoc.Element, path string) []string {
	out := []string{}
	for _, found := range el.FindAll(path) {
		if v := strings.TrimSpace(found.Text); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func blank(v *string) bool {
	return v == nil || *v == ""
}

// parseInterventions collects the document's intervention entries. The
// element names are fixed by the registry schema, not the contract. Entries
// with no type, name, or description are dropped.
func parseInterventions(doc *xmldoc.Element) []types.Intervention {
	out := []types.Intervention{}
	for _, el := range doc.FindAll("intervention") {
		iv := types.Intervention{
			Type:        textAt(el, "intervention_type"),
			Name:        textAt(el, "intervention_name"),
			Description: textAt(el, "description"),
		}
		if blank(iv.Type) && blank(iv.Name) && blank(iv.Description) {
			continue
		}
		out = append(out, iv)
	}
	return out
}

// parseLocations condenses the document's site list: a count of locations
// naming a facility, and the sorted union of the registry's country list
// with facility address countries. De-duplication is per document.
func parseLocations(doc *xmldoc.Element) types.LocationSummary {
	seen := map[string]bool{}
	countries := []string{}
	add := func(text string) {
		v := strings.TrimSpace(text)
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		countries = append(countries, v)
	}

	for _, el := range doc.FindAll("location_countries/country") {
		add(el.Text)
	}

	facilities := 0
	for _, loc := range doc.FindAll("location") {
		if loc.Find("facility") == nil {
			continue
		}
		facilities++
		if c := loc.Find("facility/address/country"); c != nil {
			add(c.Text)
		}
	}

	sort.Strings(countries)
	return types.LocationSummary{FacilityCount: facilities, Countries: countries}
}
