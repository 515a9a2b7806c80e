package tui

import "github.com/MKhiriev/go-e2ee-keeper/models"

type errorOverlayModel struct {
	err *models.FlowError
}

func (m errorOverlayModel) View() string {
	if m.err == nil {
		return ""
	}
	content := "Ошибка\n\n" + m.err.Message + "\n\n"
	if m.err.Retryable {
		content += "r повторить    esc отмена"
	} else {
		content += "esc отмена"
	}
	return overlayBoxStyle.Render(errorStyle.Render(content))
}
