package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fondazionealfieri/clinicalfolders/config"
	"github.com/fondazionealfieri/clinicalfolders/pkg/backend"
	"github.com/fondazionealfieri/clinicalfolders/pkg/otel"
	"github.com/fondazionealfieri/clinicalfolders/pkg/packet"
)

func main() {
	urlFlag := flag.String("url", "", "backend url")
	tokenFlag := flag.String("token", "", "backend token")
	configFlag := flag.String("config", "", "config file")

	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Parse(*configFlag)

	if err != nil {
		panic(err)
	}

	if *urlFlag != "" {
		cfg.BackendURL = *urlFlag
	}

	if *tokenFlag != "" {
		cfg.BackendToken = *tokenFlag
	}

	options := []backend.RequestOption{}

	if cfg.BackendToken != "" {
		options = append(options, backend.WithToken(cfg.BackendToken))
	}

	client := backend.New(cfg.BackendURL, options...)

	switch flag.Arg(0) {
	case "patients":
		listPatients(ctx, client)

	case "patient":
		showPatient(ctx, client, flag.Arg(1))

	case "document":
		showDocument(ctx, client, flag.Arg(1))

	case "upload":
		upload(ctx, client, flag.Arg(1), flag.Arg(2), flag.Arg(3))

	case "packet":
		runPacket(ctx, cfg, client, flag.Arg(1), flag.Arg(2))

	case "ocr":
		showOCRText(ctx, client, flag.Arg(1))

	case "files":
		showFiles(ctx, client, flag.Arg(1))

	case "delete":
		deleteDocument(ctx, client, flag.Arg(1))

	case "export":
		export(ctx, client, flag.Arg(1))

	default:
		fmt.Fprintln(os.Stderr, "usage: client [flags] patients|patient|document|upload|packet|ocr|files|delete|export")
		os.Exit(2)
	}
}

func listPatients(ctx context.Context, client *backend.Client) {
	patients, err := client.Patients.List(ctx)

	if err != nil {
		panic(err)
	}

	for _, p := range patients {
		fmt.Printf("%-12s %-30s %2d documenti  %s\n", p.ID, p.Name, p.DocumentCount, p.LastDocumentDate)
	}
}

func showPatient(ctx context.Context, client *backend.Client, id string) {
	patient, err := client.Patients.Get(ctx, id)

	if err != nil {
		panic(err)
	}

	fmt.Printf("%s (%s)\n", patient.Name, patient.ID)

	for _, d := range patient.Documents {
		fmt.Printf("  %-50s %-22s %2d entità  %s\n", d.ID, d.DocumentType, d.EntitiesCount, d.Status)
	}
}

func showDocument(ctx context.Context, client *backend.Client, id string) {
	document, err := client.Documents.Get(ctx, id)

	if err != nil {
		panic(err)
	}

	fmt.Printf("%s  %s  %s\n", document.ID, document.Filename, document.PDF())

	for _, e := range document.NormalizedEntities() {
		fmt.Printf("  %-24s %-40s %.2f\n", e.Type, e.Value, e.Confidence)
	}
}

func upload(ctx context.Context, client *backend.Client, path, patientID, documentType string) {
	file, err := os.Open(path)

	if err != nil {
		panic(err)
	}

	defer file.Close()

	document, err := client.Documents.Upload(ctx, backend.UploadRequest{
		Name:   filepath.Base(path),
		Reader: file,

		PatientID:    patientID,
		DocumentType: documentType,
	})

	if err != nil {
		panic(err)
	}

	fmt.Println(document.ID)
}

func runPacket(ctx context.Context, cfg *config.Config, client *backend.Client, path, patientID string) {
	file, err := os.Open(path)

	if err != nil {
		panic(err)
	}

	defer file.Close()

	watcher := otel.NewPacketWatcher(cfg.BackendURL, &client.Packets)

	resp, err := watcher.Upload(ctx, backend.PacketUploadRequest{
		Name:   filepath.Base(path),
		Reader: file,

		PatientID: patientID,
	})

	if err != nil {
		panic(err)
	}

	options := append(cfg.FlowOptions(), packet.WithUpdateFunc(func(status *backend.ProcessingStatus) {
		fmt.Printf("[%3d%%] %-22s %s\n", status.Progress, status.Status, status.Message)
	}))

	poller := packet.New(watcher.Status, options...)

	result := poller.Run(ctx, resp.PatientID)

	if result.Err != nil {
		fmt.Fprintln(os.Stderr, result.Err)
		os.Exit(1)
	}

	fmt.Printf("%s: %s\n", result.State, result.PatientID)
}

func showOCRText(ctx context.Context, client *backend.Client, id string) {
	text, err := client.Packets.OCRText(ctx, id)

	if err != nil {
		panic(err)
	}

	fmt.Println(text.OCRText)
}

func showFiles(ctx context.Context, client *backend.Client, id string) {
	files, err := client.Packets.Files(ctx, id)

	if err != nil {
		panic(err)
	}

	for name, folder := range files.Folders {
		fmt.Println(name)

		for _, f := range folder.Files {
			fmt.Printf("  %-40s %8d  %s\n", f.Name, f.Size, f.Path)
		}
	}
}

func deleteDocument(ctx context.Context, client *backend.Client, id string) {
	result, err := client.Documents.Delete(ctx, id)

	if err != nil {
		panic(err)
	}

	fmt.Printf("eliminato (paziente rimosso: %v)\n", result.PatientDeleted)
}

func export(ctx context.Context, client *backend.Client, path string) {
	if path == "" {
		path = "dati_clinici.xlsx"
	}

	data, err := client.Export.Spreadsheet(ctx)

	if err != nil {
		panic(err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		panic(err)
	}

	fmt.Println(path)
}
