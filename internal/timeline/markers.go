package timeline

import (
	"fmt"

	"github.com/vincentbai/sessionlens/internal/models"
)

// markerLabelMax caps marker label length for scrub-bar tooltips.
const markerLabelMax = 80

// Markers projects scrub-bar annotations from both streams, independent of
// any active filter. Error-severity console events become red markers; every
// network event becomes a blue one regardless of outcome — markers show when
// things happened, not whether they succeeded. The result carries no ordering
// guarantee; the scrub bar positions markers purely by TimeMs.
func Markers(console []models.ConsoleEvent, network []models.NetworkEvent) []models.Marker {
	var markers []models.Marker
	for _, e := range console {
		if !e.IsError() {
			continue
		}
		markers = append(markers, models.Marker{
			TimeMs: e.RelativeMs,
			Color:  models.MarkerColorError,
			Label:  truncateLabel(e.Message),
		})
	}
	for _, e := range network {
		markers = append(markers, models.Marker{
			TimeMs: e.RelativeMs,
			Color:  models.MarkerColorRequest,
			Label:  truncateLabel(fmt.Sprintf("%s %s", e.Method(), e.URL())),
		})
	}
	return markers
}

func truncateLabel(s string) string {
	runes := []rune(s)
	if len(runes) <= markerLabelMax {
		return s
	}
	return string(runes[:markerLabelMax-1]) + "…"
}
