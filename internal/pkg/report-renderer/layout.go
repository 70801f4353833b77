package reportrenderer

import (
	"fmt"
	"time"

	"boletimCampo/internal/domain/models"
)

// Field names a drawable slot of the template.
type Field string

const (
	FieldNumber     Field = "number"
	FieldClient     Field = "client"
	FieldEquipment  Field = "equipment"
	FieldRequester  Field = "requester"
	FieldOrder      Field = "order"
	FieldManagement Field = "management"

	FieldAssembled    Field = "assembled"
	FieldDisassembled Field = "disassembled"

	FieldServiceDescription Field = "serviceDescription"

	FieldAssemblyDate         Field = "assembly.date"
	FieldAssemblyStart        Field = "assembly.startTime"
	FieldAssemblyEnd          Field = "assembly.endTime"
	FieldAssemblyRequester    Field = "assembly.requester"
	FieldAssemblyRegistration Field = "assembly.registration"

	FieldDisassemblyDate         Field = "disassembly.date"
	FieldDisassemblyStart        Field = "disassembly.startTime"
	FieldDisassemblyEnd          Field = "disassembly.endTime"
	FieldDisassemblyRequester    Field = "disassembly.requester"
	FieldDisassemblyRegistration Field = "disassembly.registration"

	FieldLength   Field = "dimensions.length"
	FieldWidth    Field = "dimensions.width"
	FieldHeight   Field = "dimensions.height"
	FieldQuantity Field = "dimensions.quantity"

	FieldAvailabilityDate  Field = "availability.date"
	FieldAvailabilityStart Field = "availability.startTime"
	FieldAvailabilityEnd   Field = "availability.endTime"

	FieldServiceRequesterName  Field = "serviceRequester.name"
	FieldServiceRequesterBadge Field = "serviceRequester.badge"

	FieldCrewAssemblyLead Field = "crew.assemblyLead"
	FieldCrewAssembler    Field = "crew.assembler"

	FieldObservations Field = "observations"

	FieldSignatoryCompany Field = "signatories.company"
	FieldSignatoryClient  Field = "signatories.client"
)

// ScaffoldField is the template slot of a scaffold tag mark.
func ScaffoldField(t models.ScaffoldType) Field {
	return Field("scaffold." + string(t))
}

// Slot is the placement of one field, in points from the template's top-left
// corner. Y is the text baseline.
type Slot struct {
	X, Y float64
	Size float64
	Bold bool

	// Parts holds the x of each decomposed sub-value: day, month, year for
	// dates and hour, minute for times. Empty for plain fields.
	Parts []float64

	// Wrapped free text.
	LineLimit  int
	MaxLines   int
	LineHeight float64
}

// Anchor rows of the template, tuned against the printed form.
const (
	headerY      = 145.0
	statusY      = headerY + 74
	descriptionY = headerY + 100
	tableY       = headerY + 187
	signaturesY  = tableY + 40
	typesY       = tableY + 100
	dimensionsY  = typesY + 65
	availableY   = dimensionsY + 35
	requesterY   = availableY + 65
	observeY     = requesterY + 65
	responsibleY = observeY + 105

	gridX = 40.0
)

// Table is the full coordinate table of the template.
var Table = map[Field]Slot{
	FieldNumber:     {X: 475, Y: 107, Size: 10, Bold: true},
	FieldClient:     {X: 150, Y: headerY, Size: 9},
	FieldEquipment:  {X: 435, Y: headerY, Size: 9},
	FieldRequester:  {X: 150, Y: headerY + 20, Size: 9},
	FieldOrder:      {X: 435, Y: headerY + 20, Size: 9},
	FieldManagement: {X: 175, Y: headerY + 50, Size: 9},

	FieldAssembled:    {X: 132, Y: statusY, Size: 10, Bold: true},
	FieldDisassembled: {X: 310, Y: statusY, Size: 10, Bold: true},

	FieldServiceDescription: {X: 132, Y: descriptionY, Size: 8, LineLimit: 80, MaxLines: 3, LineHeight: 11},

	FieldAssemblyDate:         {Y: tableY, Size: 8, Parts: []float64{48, 72, 95}},
	FieldAssemblyStart:        {Y: tableY, Size: 8, Parts: []float64{155, 172}},
	FieldAssemblyEnd:          {Y: tableY, Size: 8, Parts: []float64{248, 265}},
	FieldAssemblyRequester:    {X: 75, Y: signaturesY, Size: 7},
	FieldAssemblyRegistration: {X: 210, Y: signaturesY, Size: 7},

	FieldDisassemblyDate:         {Y: tableY, Size: 8, Parts: []float64{330, 353, 375}},
	FieldDisassemblyStart:        {Y: tableY, Size: 8, Parts: []float64{432, 449}},
	FieldDisassemblyEnd:          {Y: tableY, Size: 8, Parts: []float64{513, 529}},
	FieldDisassemblyRequester:    {X: 350, Y: signaturesY, Size: 7},
	FieldDisassemblyRegistration: {X: 485, Y: signaturesY, Size: 7},

	ScaffoldField(models.ScaffoldConventional): {X: 115, Y: typesY - 14, Size: 8, Bold: true},
	ScaffoldField(models.ScaffoldSpecial):      {X: 328, Y: typesY - 14, Size: 8, Bold: true},

	ScaffoldField(models.ScaffoldBracing):           {X: gridX, Y: typesY + 10, Size: 8, Bold: true},
	ScaffoldField(models.ScaffoldTowerAbove5m):      {X: gridX + 126, Y: typesY + 9, Size: 8, Bold: true},
	ScaffoldField(models.ScaffoldWalkway):           {X: gridX + 248, Y: typesY + 9, Size: 8, Bold: true},
	ScaffoldField(models.ScaffoldSuspendedPlatform): {X: gridX + 366, Y: typesY + 8, Size: 8, Bold: true},

	ScaffoldField(models.ScaffoldStairway):     {X: gridX, Y: typesY + 22, Size: 8, Bold: true},
	ScaffoldField(models.ScaffoldTowerBelow5m): {X: gridX + 126, Y: typesY + 22, Size: 8, Bold: true},
	ScaffoldField(models.ScaffoldLifeline):     {X: gridX + 248, Y: typesY + 22, Size: 8, Bold: true},
	ScaffoldField(models.ScaffoldLoadBoom):     {X: gridX + 366, Y: typesY + 22, Size: 8, Bold: true},

	ScaffoldField(models.ScaffoldConfinedSpace): {X: gridX, Y: typesY + 34, Size: 8, Bold: true},
	ScaffoldField(models.ScaffoldGuardrail):     {X: gridX + 126, Y: typesY + 34, Size: 8, Bold: true},
	ScaffoldField(models.ScaffoldCaster):        {X: gridX + 248, Y: typesY + 34, Size: 8, Bold: true},
	ScaffoldField(models.ScaffoldTent):          {X: gridX + 366, Y: typesY + 34, Size: 8, Bold: true},

	FieldLength:   {X: 105, Y: dimensionsY, Size: 8},
	FieldWidth:    {X: 225, Y: dimensionsY, Size: 8},
	FieldHeight:   {X: 355, Y: dimensionsY, Size: 8},
	FieldQuantity: {X: 510, Y: dimensionsY, Size: 8},

	FieldAvailabilityDate:  {X: 130, Y: availableY, Size: 8},
	FieldAvailabilityStart: {X: 305, Y: availableY, Size: 8},
	FieldAvailabilityEnd:   {X: 500, Y: availableY, Size: 8},

	FieldServiceRequesterName:  {X: 75, Y: requesterY - 5, Size: 8},
	FieldServiceRequesterBadge: {X: 255, Y: requesterY - 5, Size: 8},

	FieldCrewAssemblyLead: {X: 377, Y: requesterY - 17, Size: 12, Bold: true},
	FieldCrewAssembler:    {X: 377, Y: requesterY + 3, Size: 12, Bold: true},

	FieldObservations: {X: 35, Y: observeY, Size: 9, LineLimit: 85, MaxLines: 4, LineHeight: 14},

	FieldSignatoryCompany: {X: 100, Y: responsibleY, Size: 8},
	FieldSignatoryClient:  {X: 335, Y: responsibleY, Size: 8},
}

// MarkGlyph is drawn for every checked flag.
const MarkGlyph = "X"

type Kind int

const (
	KindText Kind = iota
	KindMark
)

// Annotation is one piece of text placed on the template.
type Annotation struct {
	Field Field
	Kind  Kind
	Text  string
	X, Y  float64
	Size  float64
	Bold  bool
}

// Layout computes every annotation for the report. Empty fields produce
// nothing; unchecked flags produce nothing. now feeds the number fallback.
func Layout(r *models.FieldReport, now time.Time) []Annotation {
	l := layout{}

	l.text(FieldNumber, NumberOrFallback(r.Number, now))
	l.text(FieldClient, r.Client)
	l.text(FieldEquipment, r.Equipment)
	l.text(FieldRequester, r.Requester)
	l.text(FieldOrder, r.Order)
	l.text(FieldManagement, r.Management)

	l.mark(FieldAssembled, r.Assembled)
	l.mark(FieldDisassembled, r.Disassembled)

	l.wrapped(FieldServiceDescription, r.ServiceDescription)

	l.date(FieldAssemblyDate, r.Assembly.Date)
	l.clock(FieldAssemblyStart, r.Assembly.StartTime)
	l.clock(FieldAssemblyEnd, r.Assembly.EndTime)
	l.text(FieldAssemblyRequester, r.Assembly.Requester)
	l.text(FieldAssemblyRegistration, r.Assembly.Registration)

	l.date(FieldDisassemblyDate, r.Disassembly.Date)
	l.clock(FieldDisassemblyStart, r.Disassembly.StartTime)
	l.clock(FieldDisassemblyEnd, r.Disassembly.EndTime)
	l.text(FieldDisassemblyRequester, r.Disassembly.Requester)
	l.text(FieldDisassemblyRegistration, r.Disassembly.Registration)

	for _, t := range models.ScaffoldTypes {
		l.mark(ScaffoldField(t), r.HasScaffold(t))
	}

	l.text(FieldLength, r.Dimensions.Length)
	l.text(FieldWidth, r.Dimensions.Width)
	l.text(FieldHeight, r.Dimensions.Height)
	l.text(FieldQuantity, r.Dimensions.Quantity)

	l.text(FieldAvailabilityDate, FormatDate(r.Availability.Date))
	l.text(FieldAvailabilityStart, r.Availability.StartTime)
	l.text(FieldAvailabilityEnd, r.Availability.EndTime)

	l.text(FieldServiceRequesterName, r.ServiceRequester.Name)
	l.text(FieldServiceRequesterBadge, r.ServiceRequester.Badge)

	l.mark(FieldCrewAssemblyLead, r.Crew.AssemblyLead)
	l.mark(FieldCrewAssembler, r.Crew.Assembler)

	l.wrapped(FieldObservations, r.Observations)

	l.text(FieldSignatoryCompany, r.Signatories.Company)
	l.text(FieldSignatoryClient, r.Signatories.Client)

	return l.out
}

// NumberOrFallback returns the report number, or "MMYYYY" of now when blank.
func NumberOrFallback(number string, now time.Time) string {
	if number != "" {
		return number
	}

	return fmt.Sprintf("%02d%04d", int(now.Month()), now.Year())
}

type layout struct {
	out []Annotation
}

func (l *layout) put(f Field, kind Kind, text string, x, y float64) {
	s := Table[f]
	l.out = append(l.out, Annotation{
		Field: f,
		Kind:  kind,
		Text:  text,
		X:     x,
		Y:     y,
		Size:  s.Size,
		Bold:  s.Bold,
	})
}

func (l *layout) text(f Field, value string) {
	if value == "" {
		return
	}
	s := Table[f]
	l.put(f, KindText, value, s.X, s.Y)
}

func (l *layout) mark(f Field, checked bool) {
	if !checked {
		return
	}
	s := Table[f]
	l.put(f, KindMark, MarkGlyph, s.X, s.Y)
}

func (l *layout) wrapped(f Field, value string) {
	s := Table[f]
	for i, line := range Wrap(value, s.LineLimit, s.MaxLines) {
		l.put(f, KindText, line, s.X, s.Y+float64(i)*s.LineHeight)
	}
}

func (l *layout) date(f Field, value string) {
	day, month, year := SplitDate(value)
	l.parts(f, day, month, year)
}

func (l *layout) clock(f Field, value string) {
	hour, minute := SplitTime(value)
	l.parts(f, hour, minute)
}

func (l *layout) parts(f Field, values ...string) {
	s := Table[f]
	for i, v := range values {
		if v == "" || i >= len(s.Parts) {
			continue
		}
		l.put(f, KindText, v, s.Parts[i], s.Y)
	}
}
