package backend_test

import (
	"testing"

	"github.com/fondazionealfieri/clinicalfolders/pkg/backend"

	"github.com/stretchr/testify/require"
)

func TestProcessingStatusTerminal(t *testing.T) {
	terminal := []string{
		backend.StatusCompleted,
		backend.StatusCompletedWithErrors,
		backend.StatusFailed,
	}

	for _, status := range terminal {
		s := &backend.ProcessingStatus{Status: status}
		require.True(t, s.Terminal(), status)
	}

	running := []string{
		backend.StatusQueued,
		backend.StatusOCRRunning,
		backend.StatusSegmenting,
		backend.StatusConsolidating,
	}

	for _, status := range running {
		s := &backend.ProcessingStatus{Status: status}
		require.False(t, s.Terminal(), status)
	}
}
