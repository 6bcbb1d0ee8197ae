package services

import (
	"time"

	"github.com/dmitrijs2005/gotodo/internal/server/models"
	"github.com/dmitrijs2005/gotodo/internal/timex"
)

// ToEvent projects a todo onto a calendar event, dating it in loc.
func ToEvent(t *models.Todo, loc *time.Location) models.Event {
	color := models.EventColorPending
	if t.Completed {
		color = models.EventColorCompleted
	}
	return models.Event{
		Title:       t.Title,
		Start:       timex.FormatDate(t.DateCreated.In(loc)),
		Description: t.Content,
		FromTime:    t.FromTime,
		ToTime:      t.ToTime,
		Completed:   t.Completed,
		Color:       color,
		TextColor:   models.EventTextColor,
		BorderColor: models.EventBorderColor,
	}
}
