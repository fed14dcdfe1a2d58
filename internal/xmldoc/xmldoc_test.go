package xmldoc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<clinical_study rank="117">
  <id_info>
    <org_study_id>ABC-123</org_study_id>
    <nct_id>NCT00000102</nct_id>
  </id_info>
  <brief_title>  Congenital Adrenal Hyperplasia: Calcium Channels  </brief_title>
  <enrollment type="Anticipated">600</enrollment>
  <condition>Asthma</condition>
  <condition>Chronic Bronchitis</condition>
  <location>
    <facility>
      <name>Site A</name>
      <address><country>United States</country></address>
    </facility>
  </location>
  <location>
    <facility>
      <name>Site B</name>
      <address><country>Canada</country></address>
    </facility>
  </location>
  <empty_tag/>
</clinical_study>`

func parseSample(t *testing.T) *Element {
	t.Helper()
	doc, err := Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestParseRoot(t *testing.T) {
	doc := parseSample(t)
	if doc.Name != "clinical_study" {
		t.Errorf("root name = %q, want %q", doc.Name, "clinical_study")
	}
	if v, ok := doc.Attr("rank"); !ok || v != "117" {
		t.Errorf("rank attr = %q, %v; want %q, true", v, ok, "117")
	}
}

func TestFind(t *testing.T) {
	doc := parseSample(t)

	tests := []struct {
		name     string
		path     string
		wantText string
		wantNil  bool
	}{
		{"nested path", "id_info/nct_id", "NCT00000102", false},
		{"sibling under same parent", "id_info/org_study_id", "ABC-123", false},
		{"top-level element", "enrollment", "600", false},
		{"first of repeated elements", "condition", "Asthma", false},
		{"deep path", "location/facility/address/country", "United States", false},
		{"missing element", "id_info/secondary_id", "", true},
		{"missing intermediate", "sponsors/lead_sponsor/agency", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := doc.Find(tt.path)
			if tt.wantNil {
				if el != nil {
					t.Fatalf("Find(%q) = %v, want nil", tt.path, el)
				}
				return
			}
			if el == nil {
				t.Fatalf("Find(%q) = nil", tt.path)
			}
			if got := strings.TrimSpace(el.Text); got != tt.wantText {
				t.Errorf("Find(%q).Text = %q, want %q", tt.path, got, tt.wantText)
			}
		})
	}
}

func TestFindAllDocumentOrder(t *testing.T) {
	doc := parseSample(t)

	conditions := doc.FindAll("condition")
	if len(conditions) != 2 {
		t.Fatalf("got %d conditions, want 2", len(conditions))
	}
	if conditions[0].Text != "Asthma" || conditions[1].Text != "Chronic Bronchitis" {
		t.Errorf("conditions out of order: %q, %q", conditions[0].Text, conditions[1].Text)
	}

	countries := doc.FindAll("location/facility/address/country")
	if len(countries) != 2 {
		t.Fatalf("got %d countries, want 2", len(countries))
	}
	if countries[0].Text != "United States" || countries[1].Text != "Canada" {
		t.Errorf("countries out of order: %q, %q", countries[0].Text, countries[1].Text)
	}
}

func TestFindAllNoMatch(t *testing.T) {
	doc := parseSample(t)
	if got := doc.FindAll("keyword"); len(got) != 0 {
		t.Errorf("got %d matches, want 0", len(got))
	}
}

func TestAttr(t *testing.T) {
	doc := parseSample(t)

	el := doc.Find("enrollment")
	if el == nil {
		t.Fatal("enrollment not found")
	}
	if v, ok := el.Attr("type"); !ok || v != "Anticipated" {
		t.Errorf("type attr = %q, %v; want %q, true", v, ok, "Anticipated")
	}
	if _, ok := el.Attr("units"); ok {
		t.Error("absent attribute reported present")
	}
}

func TestEmptyElementText(t *testing.T) {
	doc := parseSample(t)
	el := doc.Find("empty_tag")
	if el == nil {
		t.Fatal("empty_tag not found")
	}
	if el.Text != "" {
		t.Errorf("empty element text = %q, want empty", el.Text)
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unclosed element", `<clinical_study><id_info></clinical_study>`},
		{"truncated document", `<clinical_study><brief_title>Stu`},
		{"not XML at all", `{"nct_id": "NCT00000102"}`},
		{"empty input", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.doc)); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "study.xml")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if doc.Name != "clinical_study" {
		t.Errorf("root name = %q, want %q", doc.Name, "clinical_study")
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "no-such-file.xml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseFileMalformed(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "bad.xml")
	if err := os.WriteFile(path, []byte("<clinical_study><unclosed>"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ParseFile(path)
	if err == nil {
		t.Fatal("expected error for malformed file")
	}
	if !strings.Contains(err.Error(), "bad.xml") {
		t.Errorf("error = %q, should name the file", err.Error())
	}
}
