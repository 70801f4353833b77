package models

import (
	"time"

	"github.com/google/uuid"
)

// ScaffoldType is one of the non-exclusive scaffold tags a field report can carry.
type ScaffoldType string

const (
	ScaffoldConventional      ScaffoldType = "conventional"
	ScaffoldSpecial           ScaffoldType = "special"
	ScaffoldBracing           ScaffoldType = "bracing"
	ScaffoldStairway          ScaffoldType = "stairway"
	ScaffoldConfinedSpace     ScaffoldType = "confinedSpace"
	ScaffoldTowerAbove5m      ScaffoldType = "towerAbove5m"
	ScaffoldTowerBelow5m      ScaffoldType = "towerBelow5m"
	ScaffoldGuardrail         ScaffoldType = "guardrail"
	ScaffoldWalkway           ScaffoldType = "walkway"
	ScaffoldLifeline          ScaffoldType = "lifeline"
	ScaffoldSuspendedPlatform ScaffoldType = "suspendedPlatform"
	ScaffoldLoadBoom          ScaffoldType = "loadBoom"
	ScaffoldTent              ScaffoldType = "tent"
	ScaffoldCaster            ScaffoldType = "caster"
)

// ScaffoldTypes lists every known scaffold tag in form order.
var ScaffoldTypes = []ScaffoldType{
	ScaffoldConventional,
	ScaffoldSpecial,
	ScaffoldBracing,
	ScaffoldStairway,
	ScaffoldConfinedSpace,
	ScaffoldTowerAbove5m,
	ScaffoldTowerBelow5m,
	ScaffoldGuardrail,
	ScaffoldWalkway,
	ScaffoldLifeline,
	ScaffoldSuspendedPlatform,
	ScaffoldLoadBoom,
	ScaffoldTent,
	ScaffoldCaster,
}

// Appropriation is the assembly or disassembly block of a report.
// Date is "YYYY-MM-DD", times are "HH:MM".
type Appropriation struct {
	Date         string `json:"date"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	Requester    string `json:"requester"`
	Registration string `json:"registration"`
}

type Availability struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type ServiceRequester struct {
	Name  string `json:"name"`
	Badge string `json:"badge"`
}

type Dimensions struct {
	Length   string `json:"length"`
	Width    string `json:"width"`
	Height   string `json:"height"`
	Quantity string `json:"quantity"`
}

type Crew struct {
	AssemblyLead bool `json:"assemblyLead"`
	Assembler    bool `json:"assembler"`
}

type Signatories struct {
	Company string `json:"company"`
	Client  string `json:"client"`
}

// FieldReport is a scaffold field-service record ("boletim").
// None of its fields is mandatory at the storage layer.
type FieldReport struct {
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"ownerId"`

	Number     string `json:"number"`
	Date       string `json:"date"`
	Client     string `json:"client"`
	Requester  string `json:"requester"`
	Equipment  string `json:"equipment"`
	Order      string `json:"order"`
	Management string `json:"management"`

	Assembled    bool `json:"assembled"`
	Disassembled bool `json:"disassembled"`

	ServiceDescription string `json:"serviceDescription"`
	Observations       string `json:"observations"`

	Assembly    Appropriation `json:"assembly"`
	Disassembly Appropriation `json:"disassembly"`

	Scaffold map[ScaffoldType]bool `json:"scaffold"`

	Dimensions       Dimensions       `json:"dimensions"`
	Availability     Availability     `json:"availability"`
	ServiceRequester ServiceRequester `json:"serviceRequester"`
	Crew             Crew             `json:"crew"`
	Signatories      Signatories      `json:"signatories"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasScaffold reports whether the tag is checked; unset tags count as false.
func (r *FieldReport) HasScaffold(t ScaffoldType) bool {
	return r.Scaffold[t]
}
