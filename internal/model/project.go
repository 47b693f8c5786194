package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ProjectData is the pitch collected by the wizard. The five sections and
// their fields are fixed; nothing is added or removed at runtime.
type ProjectData struct {
	Overview      Overview      `json:"overview"`
	BusinessModel BusinessModel `json:"businessModel"`
	Competitors   Competitors   `json:"competitors"`
	Team          Team          `json:"team"`
	Financials    Financials    `json:"financials"`
}

// Section is implemented by exactly the five section structs of ProjectData.
type Section interface {
	ID() SectionID
	// Values returns the field values in the order of ID().Fields().
	Values() []string
	section()
}

type Overview struct {
	ProjectName string `json:"projectName"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Stage       string `json:"stage"`
}

type BusinessModel struct {
	RevenueStreams   string `json:"revenueStreams"`
	TargetMarket     string `json:"targetMarket"`
	ValueProposition string `json:"valueProposition"`
}

type Competitors struct {
	MainCompetitors string `json:"mainCompetitors"`
}

type Team struct {
	Founders string `json:"founders"`
	TeamSize string `json:"teamSize"`
}

type Financials struct {
	FundingNeeded    string `json:"fundingNeeded"`
	CurrentRevenue   string `json:"currentRevenue"`
	ProjectedRevenue string `json:"projectedRevenue"`
}

func (Overview) ID() SectionID      { return SectionOverview }
func (BusinessModel) ID() SectionID { return SectionBusinessModel }
func (Competitors) ID() SectionID   { return SectionCompetitors }
func (Team) ID() SectionID          { return SectionTeam }
func (Financials) ID() SectionID    { return SectionFinancials }

func (o Overview) Values() []string {
	return []string{o.ProjectName, o.Description, o.Category, o.Stage}
}

func (b BusinessModel) Values() []string {
	return []string{b.RevenueStreams, b.TargetMarket, b.ValueProposition}
}

func (c Competitors) Values() []string {
	return []string{c.MainCompetitors}
}

func (t Team) Values() []string {
	return []string{t.Founders, t.TeamSize}
}

func (f Financials) Values() []string {
	return []string{f.FundingNeeded, f.CurrentRevenue, f.ProjectedRevenue}
}

func (Overview) section()      {}
func (BusinessModel) section() {}
func (Competitors) section()   {}
func (Team) section()          {}
func (Financials) section()    {}

// Section returns a copy of the section identified by id, or nil for an
// unknown id.
func (p *ProjectData) Section(id SectionID) Section {
	switch id {
	case SectionOverview:
		return p.Overview
	case SectionBusinessModel:
		return p.BusinessModel
	case SectionCompetitors:
		return p.Competitors
	case SectionTeam:
		return p.Team
	case SectionFinancials:
		return p.Financials
	}
	return nil
}

// Sections returns copies of all sections in display order.
func (p *ProjectData) Sections() []Section {
	out := make([]Section, 0, SectionCount)
	for _, id := range AllSections() {
		out = append(out, p.Section(id))
	}
	return out
}

// Get returns the value of a single field.
func (p *ProjectData) Get(f FieldID) string {
	if ref := p.ref(f); ref != nil {
		return *ref
	}
	return ""
}

// Set replaces the value of a single field. It reports false for an unknown
// field.
func (p *ProjectData) Set(f FieldID, value string) bool {
	ref := p.ref(f)
	if ref == nil {
		return false
	}
	*ref = value
	return true
}

func (p *ProjectData) ref(f FieldID) *string {
	switch f {
	case FieldProjectName:
		return &p.Overview.ProjectName
	case FieldDescription:
		return &p.Overview.Description
	case FieldCategory:
		return &p.Overview.Category
	case FieldStage:
		return &p.Overview.Stage
	case FieldRevenueStreams:
		return &p.BusinessModel.RevenueStreams
	case FieldTargetMarket:
		return &p.BusinessModel.TargetMarket
	case FieldValueProposition:
		return &p.BusinessModel.ValueProposition
	case FieldMainCompetitors:
		return &p.Competitors.MainCompetitors
	case FieldFounders:
		return &p.Team.Founders
	case FieldTeamSize:
		return &p.Team.TeamSize
	case FieldFundingNeeded:
		return &p.Financials.FundingNeeded
	case FieldCurrentRevenue:
		return &p.Financials.CurrentRevenue
	case FieldProjectedRevenue:
		return &p.Financials.ProjectedRevenue
	}
	return nil
}

// DecodeProjectData parses an exported project document. Unknown keys are
// rejected so a typo in a hand-edited file does not silently drop data.
func DecodeProjectData(data []byte) (ProjectData, error) {
	var p ProjectData
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return ProjectData{}, fmt.Errorf("failed to parse project data: %w", err)
	}
	return p, nil
}

// IsBlank reports whether a value counts as empty for completion purposes.
func IsBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
