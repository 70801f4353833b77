package reportrenderer

import (
	"time"

	"boletimCampo/internal/domain/models"
)

// SampleReport returns a report with every field and flag filled, dated now.
// It is used to check the template alignment and to seed new installs.
func SampleReport(now time.Time) models.FieldReport {
	day := now.Format("2006-01-02")

	scaffold := make(map[models.ScaffoldType]bool, len(models.ScaffoldTypes))
	for _, t := range models.ScaffoldTypes {
		scaffold[t] = true
	}

	return models.FieldReport{
		Number:     "2023-001",
		Date:       day,
		Client:     "Exemplo de Cliente Ltda",
		Requester:  "João da Silva",
		Equipment:  "Andaime Multidirecional",
		Order:      "OM-12345",
		Management: "Gerência de Operações",

		Assembled:    true,
		Disassembled: true,

		ServiceDescription: "SERVIÇO DE MONTAGEM E DESMONTAGEM DE ANDAIMES FACHADEIROS E METÁLICOS. " +
			"Execução de montagem de andaime tubular metálico em estrutura metálica, com altura máxima de 12,00m, " +
			"com plataformas de trabalho em prancha de madeira, escada de acesso, guarda-corpo e rodapé de segurança. " +
			"Instalação de tela de proteção contra queda de materiais e sinalização de segurança.",

		Assembly: models.Appropriation{
			Date:         day,
			StartTime:    "08:00",
			EndTime:      "12:00",
			Requester:    "Carlos Eduardo",
			Registration: "MAT-789",
		},
		Disassembly: models.Appropriation{
			Date:         day,
			StartTime:    "16:00",
			EndTime:      "17:30",
			Requester:    "Ana Paula",
			Registration: "MAT-456",
		},

		Scaffold: scaffold,

		Dimensions: models.Dimensions{Length: "10,00", Width: "5,00", Height: "8,50", Quantity: "2"},

		Availability: models.Availability{Date: day, StartTime: "08:00", EndTime: "18:00"},

		ServiceRequester: models.ServiceRequester{
			Name:  "Engenheiro de Segurança do Trabalho Responsável",
			Badge: "ENG-123",
		},

		Crew: models.Crew{AssemblyLead: true, Assembler: true},

		Observations: "Área isolada e sinalizada durante toda a execução. " +
			"Estrutura inspecionada e liberada para uso pelo técnico de segurança.",

		Signatories: models.Signatories{Company: "Carlos Eduardo Mendes", Client: "Ana Paula Oliveira"},
	}
}
