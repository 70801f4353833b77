package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"boletimCampo/internal/domain/models"
	repo "boletimCampo/internal/repository"
)

const (
	fieldID        = "id"
	fieldOwnerID   = "ownerId"
	fieldCreatedAt = "createdAt"
	fieldUpdatedAt = "updatedAt"

	scaffoldPrefix = "scaffold."
)

// Flat record layout of a FieldReport: one accessor per persisted field.
var stringFields = []struct {
	key string
	ptr func(*models.FieldReport) *string
}{
	{"number", func(r *models.FieldReport) *string { return &r.Number }},
	{"date", func(r *models.FieldReport) *string { return &r.Date }},
	{"client", func(r *models.FieldReport) *string { return &r.Client }},
	{"requester", func(r *models.FieldReport) *string { return &r.Requester }},
	{"equipment", func(r *models.FieldReport) *string { return &r.Equipment }},
	{"order", func(r *models.FieldReport) *string { return &r.Order }},
	{"management", func(r *models.FieldReport) *string { return &r.Management }},
	{"serviceDescription", func(r *models.FieldReport) *string { return &r.ServiceDescription }},
	{"observations", func(r *models.FieldReport) *string { return &r.Observations }},

	{"assemblyDate", func(r *models.FieldReport) *string { return &r.Assembly.Date }},
	{"assemblyStartTime", func(r *models.FieldReport) *string { return &r.Assembly.StartTime }},
	{"assemblyEndTime", func(r *models.FieldReport) *string { return &r.Assembly.EndTime }},
	{"assemblyRequester", func(r *models.FieldReport) *string { return &r.Assembly.Requester }},
	{"assemblyRegistration", func(r *models.FieldReport) *string { return &r.Assembly.Registration }},

	{"disassemblyDate", func(r *models.FieldReport) *string { return &r.Disassembly.Date }},
	{"disassemblyStartTime", func(r *models.FieldReport) *string { return &r.Disassembly.StartTime }},
	{"disassemblyEndTime", func(r *models.FieldReport) *string { return &r.Disassembly.EndTime }},
	{"disassemblyRequester", func(r *models.FieldReport) *string { return &r.Disassembly.Requester }},
	{"disassemblyRegistration", func(r *models.FieldReport) *string { return &r.Disassembly.Registration }},

	{"length", func(r *models.FieldReport) *string { return &r.Dimensions.Length }},
	{"width", func(r *models.FieldReport) *string { return &r.Dimensions.Width }},
	{"height", func(r *models.FieldReport) *string { return &r.Dimensions.Height }},
	{"quantity", func(r *models.FieldReport) *string { return &r.Dimensions.Quantity }},

	{"availabilityDate", func(r *models.FieldReport) *string { return &r.Availability.Date }},
	{"availabilityStartTime", func(r *models.FieldReport) *string { return &r.Availability.StartTime }},
	{"availabilityEndTime", func(r *models.FieldReport) *string { return &r.Availability.EndTime }},

	{"serviceRequesterName", func(r *models.FieldReport) *string { return &r.ServiceRequester.Name }},
	{"serviceRequesterBadge", func(r *models.FieldReport) *string { return &r.ServiceRequester.Badge }},

	{"signatoryCompany", func(r *models.FieldReport) *string { return &r.Signatories.Company }},
	{"signatoryClient", func(r *models.FieldReport) *string { return &r.Signatories.Client }},
}

var boolFields = []struct {
	key string
	ptr func(*models.FieldReport) *bool
}{
	{"assembled", func(r *models.FieldReport) *bool { return &r.Assembled }},
	{"disassembled", func(r *models.FieldReport) *bool { return &r.Disassembled }},
	{"crewAssemblyLead", func(r *models.FieldReport) *bool { return &r.Crew.AssemblyLead }},
	{"crewAssembler", func(r *models.FieldReport) *bool { return &r.Crew.Assembler }},
}

func toRecord(r models.FieldReport) repo.Record {
	rec := repo.Record{
		fieldID:        r.ID.String(),
		fieldOwnerID:   r.OwnerID.String(),
		fieldCreatedAt: r.CreatedAt.UTC().Format(time.RFC3339Nano),
		fieldUpdatedAt: r.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}

	for _, f := range stringFields {
		rec[f.key] = *f.ptr(&r)
	}
	for _, f := range boolFields {
		rec[f.key] = *f.ptr(&r)
	}
	for _, t := range models.ScaffoldTypes {
		rec[scaffoldPrefix+string(t)] = r.Scaffold[t]
	}

	return rec
}

// fromRecord tolerates partial records: missing fields decode as zero values.
// The id and owner must parse, otherwise the collection is corrupt.
func fromRecord(rec repo.Record) (models.FieldReport, error) {
	var (
		r   models.FieldReport
		err error
	)

	if r.ID, err = uuid.Parse(rec.String(fieldID)); err != nil {
		return models.FieldReport{}, fmt.Errorf("%w: bad report id: %w", repo.ErrStorageUnavailable, err)
	}
	if r.OwnerID, err = uuid.Parse(rec.String(fieldOwnerID)); err != nil {
		return models.FieldReport{}, fmt.Errorf("%w: bad report owner: %w", repo.ErrStorageUnavailable, err)
	}

	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, rec.String(fieldCreatedAt))
	r.UpdatedAt, _ = time.Parse(time.RFC3339Nano, rec.String(fieldUpdatedAt))

	for _, f := range stringFields {
		*f.ptr(&r) = rec.String(f.key)
	}
	for _, f := range boolFields {
		*f.ptr(&r) = rec.Bool(f.key)
	}

	r.Scaffold = make(map[models.ScaffoldType]bool, len(models.ScaffoldTypes))
	for _, t := range models.ScaffoldTypes {
		if rec.Bool(scaffoldPrefix + string(t)) {
			r.Scaffold[t] = true
		}
	}

	return r, nil
}
