package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/fondazionealfieri/clinicalfolders/pkg/entity"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/sync/errgroup"
)

// sectionTypes are the clinical sections the packet splitter knows
// about, in the order they are searched for.
var sectionTypes = []string{
	"lettera_dimissione",
	"referto_laboratorio",
	"visita_specialistica",
	"radiologia",
}

// Pipeline drives an uploaded packet through the processing stages the
// production backend reports, one goroutine per packet.
type Pipeline struct {
	store *Store

	stepDelay time.Duration
}

func NewPipeline(store *Store, stepDelay time.Duration) *Pipeline {
	return &Pipeline{
		store: store,

		stepDelay: stepDelay,
	}
}

type stage struct {
	status   string
	progress int
	message  string
}

var stages = []stage{
	{StatusQueued, 5, "Avvio elaborazione pacchetto clinico..."},
	{StatusOCRRunning, 15, "OCR in esecuzione"},
	{StatusOCRDone, 30, "OCR completato"},
	{StatusSegmenting, 40, "Segmentazione del pacchetto"},
	{StatusSegmented, 55, "Segmentazione completata"},
	{StatusExtracting, 65, "Estrazione delle entità"},
	{StatusProcessingSections, 80, "Elaborazione delle sezioni"},
	{StatusConsolidating, 92, "Consolidamento della cartella"},
}

// Process runs the packet through every stage. The job is keyed under
// patientID; when hadPatientID is false a definitive identifier is
// assigned after OCR and the job becomes reachable under both.
func (p *Pipeline) Process(patientID, filename string, data []byte, hadPatientID bool) {
	currentID := patientID

	p.store.PutJob(&ProcessingStatus{
		PatientID: patientID,

		Status:   StatusQueued,
		Message:  stages[0].message,
		Progress: stages[0].progress,

		Filename: filename,

		SectionsFound:   []string{},
		SectionsMissing: []string{},

		DocumentsCreated: []DocumentCreated{},
		Errors:           []string{},
	})

	pages := pageCount(data)

	sections := sectionTypes

	if pages < len(sections) {
		sections = sectionTypes[:pages]
	}

	for _, s := range stages[1:] {
		time.Sleep(p.stepDelay)

		if s.status == StatusOCRRunning && strings.HasPrefix(filename, "fail") {
			p.store.UpdateJob(currentID, func(job *ProcessingStatus) {
				job.Status = StatusFailed
				job.Message = "Elaborazione fallita"
				job.Errors = append(job.Errors, "OCR non riuscito per "+filename)
			})

			return
		}

		p.store.UpdateJob(currentID, func(job *ProcessingStatus) {
			job.Status = s.status
			job.Message = s.message
			job.Progress = s.progress
		})

		switch s.status {
		case StatusOCRDone:
			p.store.SetOCRText(currentID, ocrText(filename, pages))

			if !hadPatientID {
				finalID := p.store.NextPatientID()

				p.store.Alias(finalID, patientID)

				p.store.UpdateJob(currentID, func(job *ProcessingStatus) {
					job.OriginalPatientID = patientID
					job.FinalPatientID = finalID
					job.PatientID = finalID
				})

				currentID = finalID
			}

		case StatusSegmented:
			p.store.UpdateJob(currentID, func(job *ProcessingStatus) {
				job.SectionsFound = append([]string{}, sections...)

				for _, t := range sectionTypes {
					if !slices.Contains(sections, t) {
						job.SectionsMissing = append(job.SectionsMissing, t)
					}
				}
			})

		case StatusProcessingSections:
			p.processSections(currentID, filename, data, sections)
		}
	}

	time.Sleep(p.stepDelay)

	p.store.UpdateJob(currentID, func(job *ProcessingStatus) {
		if len(job.Errors) > 0 {
			job.Status = StatusCompletedWithErrors
			job.Message = "Elaborazione completata con errori"
		} else {
			job.Status = StatusCompleted
			job.Message = "Cartella clinica elaborata"
		}

		job.Progress = 100
		job.CurrentSection = ""
	})
}

func (p *Pipeline) processSections(patientID, filename string, data []byte, sections []string) {
	var group errgroup.Group

	for _, section := range sections {
		group.Go(func() error {
			doc := p.store.AddDocument(patientID, "", section, sectionFilename(filename, section), sectionEntities(section), data)

			p.store.UpdateJob(patientID, func(job *ProcessingStatus) {
				job.CurrentSection = section

				job.DocumentsCreated = append(job.DocumentsCreated, DocumentCreated{
					DocumentID:   doc.ID,
					DocumentType: section,
					Filename:     doc.Filename,

					Status:        "processed",
					EntitiesCount: len(doc.Entities),
				})
			})

			return nil
		})
	}

	group.Wait()
}

func pageCount(data []byte) int {
	config := model.NewDefaultConfiguration()
	config.ValidationMode = model.ValidationRelaxed

	count, err := api.PageCount(bytes.NewReader(data), config)

	if err != nil || count < 1 {
		slog.Warn("unable to read packet page count", "error", err)
		return 1
	}

	return count
}

func sectionFilename(packet, section string) string {
	name := strings.TrimSuffix(packet, ".pdf")
	return name + "_" + section + ".pdf"
}

func ocrText(filename string, pages int) string {
	var text strings.Builder

	fmt.Fprintf(&text, "CARTELLA CLINICA - %s\n", filename)

	for page := 1; page <= pages; page++ {
		fmt.Fprintf(&text, "\n--- Pagina %d ---\n", page)
	}

	return text.String()
}

// sectionEntities fabricates the entities extraction would produce for
// a section, positioned on the first page.
func sectionEntities(section string) []entity.Entity {
	position := &entity.Position{
		Page: 1,

		X0: 56,
		Y0: 96,
		X1: 280,
		Y1: 114,

		Width:  595,
		Height: 842,
	}

	switch section {
	case "lettera_dimissione":
		return []entity.Entity{
			{ID: "diagnosi", Type: "Diagnosi", Value: "Scompenso cardiaco", Confidence: 0.94, Position: position},
			{ID: "parametri_fisici", Type: "Parametri Fisici", Value: "Altezza: 170, Peso: 70, BMI: 24.2", Confidence: 0.88},
		}

	case "referto_laboratorio":
		return []entity.Entity{
			{ID: "emoglobina", Type: "Emoglobina", Value: "13.5 g/dL", Confidence: 0.91, Position: position},
			{ID: "creatinina", Type: "Creatinina", Value: "1.1 mg/dL", Confidence: 0.9},
		}

	case "visita_specialistica":
		return []entity.Entity{
			{ID: "parametri_cardiaci", Type: "Parametri Cardiaci", Value: "FE: 55, FC: 72, PAS: 120, PAD: 80", Confidence: 0.86, Position: position},
		}

	default:
		return []entity.Entity{
			{ID: "referto", Type: "Referto", Value: "Esame radiologico senza reperti patologici", Confidence: 0.82, Position: position},
		}
	}
}
