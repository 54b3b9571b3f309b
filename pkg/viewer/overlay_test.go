package viewer_test

import (
	"testing"

	"github.com/fondazionealfieri/clinicalfolders/pkg/entity"
	"github.com/fondazionealfieri/clinicalfolders/pkg/viewer"

	"github.com/stretchr/testify/require"
)

func TestOverlayRectFullPage(t *testing.T) {
	position := &entity.Position{Page: 1, X0: 0, Y0: 0, X1: 595, Y1: 842}

	rect := viewer.OverlayRect(position, viewer.PageSize{Width: 595, Height: 842})

	require.Equal(t, 0.0, rect.Left)
	require.Equal(t, 0.0, rect.Top)
	require.Equal(t, 100.0, rect.Width)
	require.Equal(t, 100.0, rect.Height)
}

func TestOverlayRectTruePageSize(t *testing.T) {
	// Same box, letter-size page: percentages follow the true size.
	position := &entity.Position{Page: 1, X0: 153, Y0: 198, X1: 306, Y1: 396}

	rect := viewer.OverlayRect(position, viewer.PageSize{Width: 612, Height: 792})

	require.InDelta(t, 25.0, rect.Left, 0.001)
	require.InDelta(t, 25.0, rect.Top, 0.001)
	require.InDelta(t, 25.0, rect.Width, 0.001)
	require.InDelta(t, 25.0, rect.Height, 0.001)
}

func TestOverlayRectFallback(t *testing.T) {
	position := &entity.Position{Page: 1, X0: 0, Y0: 0, X1: 595, Y1: 842}

	rect := viewer.OverlayRect(position, viewer.PageSize{})

	require.Equal(t, 100.0, rect.Width)
	require.Equal(t, 100.0, rect.Height)
}
