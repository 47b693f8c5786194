package model

import (
	"fmt"
	"strings"
)

// SectionID identifies one of the five fixed sections.
type SectionID int

const (
	SectionOverview SectionID = iota
	SectionBusinessModel
	SectionCompetitors
	SectionTeam
	SectionFinancials
)

// SectionCount is the number of sections in ProjectData.
const SectionCount = 5

// FieldID identifies one leaf of ProjectData.
type FieldID int

const (
	FieldProjectName FieldID = iota
	FieldDescription
	FieldCategory
	FieldStage
	FieldRevenueStreams
	FieldTargetMarket
	FieldValueProposition
	FieldMainCompetitors
	FieldFounders
	FieldTeamSize
	FieldFundingNeeded
	FieldCurrentRevenue
	FieldProjectedRevenue
)

const fieldCount = 13

type sectionSpec struct {
	key    string
	title  string
	fields []FieldID
}

type fieldSpec struct {
	section     SectionID
	key         string
	label       string
	placeholder string
	multiline   bool
	choices     []string
}

var sectionSpecs = [SectionCount]sectionSpec{
	SectionOverview: {
		key:    "overview",
		title:  "Project overview",
		fields: []FieldID{FieldProjectName, FieldDescription, FieldCategory, FieldStage},
	},
	SectionBusinessModel: {
		key:    "businessModel",
		title:  "Business model",
		fields: []FieldID{FieldRevenueStreams, FieldTargetMarket, FieldValueProposition},
	},
	SectionCompetitors: {
		key:    "competitors",
		title:  "Competitors",
		fields: []FieldID{FieldMainCompetitors},
	},
	SectionTeam: {
		key:    "team",
		title:  "Team",
		fields: []FieldID{FieldFounders, FieldTeamSize},
	},
	SectionFinancials: {
		key:    "financials",
		title:  "Financials",
		fields: []FieldID{FieldFundingNeeded, FieldCurrentRevenue, FieldProjectedRevenue},
	},
}

// CategoryChoices and StageChoices are suggestions offered by the wizard.
// Any other string is still accepted.
var (
	CategoryChoices = []string{"fintech", "healthtech", "edtech", "ecommerce", "saas", "ai", "blockchain", "iot", "greentech", "other"}
	StageChoices    = []string{"idea", "prototype", "mvp", "early", "growth", "scale"}
)

var fieldSpecs = [fieldCount]fieldSpec{
	FieldProjectName: {
		section: SectionOverview, key: "projectName", label: "Project name",
		placeholder: "Enter the name of your project",
	},
	FieldDescription: {
		section: SectionOverview, key: "description", label: "Description",
		placeholder: "Describe the project, its goal and key features", multiline: true,
	},
	FieldCategory: {
		section: SectionOverview, key: "category", label: "Category",
		placeholder: "Pick a category", choices: CategoryChoices,
	},
	FieldStage: {
		section: SectionOverview, key: "stage", label: "Stage",
		placeholder: "Pick a stage", choices: StageChoices,
	},
	FieldRevenueStreams: {
		section: SectionBusinessModel, key: "revenueStreams", label: "Revenue streams",
		placeholder: "How will the project make money?", multiline: true,
	},
	FieldTargetMarket: {
		section: SectionBusinessModel, key: "targetMarket", label: "Target market",
		placeholder: "Target audience and market segments", multiline: true,
	},
	FieldValueProposition: {
		section: SectionBusinessModel, key: "valueProposition", label: "Value proposition",
		placeholder: "What unique value does the project provide?", multiline: true,
	},
	FieldMainCompetitors: {
		section: SectionCompetitors, key: "mainCompetitors", label: "Main competitors",
		placeholder: "List and describe your main competitors", multiline: true,
	},
	FieldFounders: {
		section: SectionTeam, key: "founders", label: "Founders",
		placeholder: "Describe the founding team and its experience", multiline: true,
	},
	FieldTeamSize: {
		section: SectionTeam, key: "teamSize", label: "Team size",
		placeholder: "e.g. 5 full-time, 3 part-time",
	},
	FieldFundingNeeded: {
		section: SectionFinancials, key: "fundingNeeded", label: "Funding needed",
		placeholder: "e.g. $500K, $2M",
	},
	FieldCurrentRevenue: {
		section: SectionFinancials, key: "currentRevenue", label: "Current revenue",
		placeholder: "e.g. $50K MRR, $0 (pre-revenue)",
	},
	FieldProjectedRevenue: {
		section: SectionFinancials, key: "projectedRevenue", label: "Projected revenue",
		placeholder: "Revenue projections for the next 3-5 years", multiline: true,
	},
}

// AllSections returns the section ids in display order.
func AllSections() []SectionID {
	return []SectionID{SectionOverview, SectionBusinessModel, SectionCompetitors, SectionTeam, SectionFinancials}
}

func (s SectionID) Valid() bool {
	return s >= SectionOverview && s <= SectionFinancials
}

// Key is the JSON key of the section.
func (s SectionID) Key() string {
	if !s.Valid() {
		return ""
	}
	return sectionSpecs[s].key
}

func (s SectionID) Title() string {
	if !s.Valid() {
		return ""
	}
	return sectionSpecs[s].title
}

// Fields returns the fields of the section in display order.
func (s SectionID) Fields() []FieldID {
	if !s.Valid() {
		return nil
	}
	out := make([]FieldID, len(sectionSpecs[s].fields))
	copy(out, sectionSpecs[s].fields)
	return out
}

func (s SectionID) String() string {
	if !s.Valid() {
		return fmt.Sprintf("SectionID(%d)", int(s))
	}
	return s.Key()
}

func (f FieldID) Valid() bool {
	return f >= FieldProjectName && f <= FieldProjectedRevenue
}

// Section is the section the field belongs to.
func (f FieldID) Section() SectionID {
	if !f.Valid() {
		return -1
	}
	return fieldSpecs[f].section
}

// Key is the JSON key of the field inside its section.
func (f FieldID) Key() string {
	if !f.Valid() {
		return ""
	}
	return fieldSpecs[f].key
}

func (f FieldID) Label() string {
	if !f.Valid() {
		return ""
	}
	return fieldSpecs[f].label
}

func (f FieldID) Placeholder() string {
	if !f.Valid() {
		return ""
	}
	return fieldSpecs[f].placeholder
}

func (f FieldID) Multiline() bool {
	return f.Valid() && fieldSpecs[f].multiline
}

// Choices returns the suggested values for the field, if any.
func (f FieldID) Choices() []string {
	if !f.Valid() {
		return nil
	}
	return fieldSpecs[f].choices
}

// Path is the dotted "section.field" form, e.g. "overview.projectName".
func (f FieldID) Path() string {
	return f.Section().Key() + "." + f.Key()
}

func (f FieldID) String() string {
	if !f.Valid() {
		return fmt.Sprintf("FieldID(%d)", int(f))
	}
	return f.Path()
}

// ParseFieldPath resolves a dotted "section.field" path.
func ParseFieldPath(path string) (FieldID, error) {
	sectionKey, fieldKey, ok := strings.Cut(strings.TrimSpace(path), ".")
	if !ok {
		return -1, fmt.Errorf("invalid field path %q: expected section.field", path)
	}
	for _, s := range AllSections() {
		if s.Key() != sectionKey {
			continue
		}
		for _, f := range s.Fields() {
			if f.Key() == fieldKey {
				return f, nil
			}
		}
		return -1, fmt.Errorf("unknown field %q in section %q", fieldKey, sectionKey)
	}
	return -1, fmt.Errorf("unknown section %q", sectionKey)
}
