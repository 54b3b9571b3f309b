package otel

import (
	"context"

	"github.com/fondazionealfieri/clinicalfolders/pkg/backend"

	"go.opentelemetry.io/otel"
)

// PacketWatcher is the observable view of packet processing: uploads
// and status polls traced per call.
type PacketWatcher interface {
	Observable

	Upload(ctx context.Context, input backend.PacketUploadRequest) (*backend.UploadResult, error)
	Status(ctx context.Context, id string) (*backend.ProcessingStatus, error)
}

type observablePackets struct {
	url string

	packets *backend.PacketService
}

func NewPacketWatcher(url string, packets *backend.PacketService) PacketWatcher {
	return &observablePackets{
		url: url,

		packets: packets,
	}
}

func (p *observablePackets) otelSetup() {
}

func (p *observablePackets) Upload(ctx context.Context, input backend.PacketUploadRequest) (*backend.UploadResult, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "packet-upload "+input.Name)
	defer span.End()

	span.SetAttributes(
		String("server.url", p.url),
		String("packet.filename", input.Name),
	)

	result, err := p.packets.Upload(ctx, input)

	if result != nil {
		span.SetAttributes(String("patient.id", result.PatientID))
	}

	return result, err
}

func (p *observablePackets) Status(ctx context.Context, id string) (*backend.ProcessingStatus, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "packet-status "+id)
	defer span.End()

	span.SetAttributes(
		String("server.url", p.url),
		String("patient.id", id),
	)

	result, err := p.packets.Status(ctx, id)

	if result != nil {
		span.SetAttributes(
			String("packet.status", result.Status),
			Strings("packet.sections", result.SectionsFound),
		)
	}

	return result, err
}
