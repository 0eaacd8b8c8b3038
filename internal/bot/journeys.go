// SPDX-License-Identifier: MIT

package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vpolyany/polyansky-bot/internal/log"
	"github.com/vpolyany/polyansky-bot/internal/metrics"
	"github.com/vpolyany/polyansky-bot/internal/transit"
)

func (b *Bot) runSearch(ctx context.Context, cb *tgbotapi.CallbackQuery, conv Conversation, chatID int64, messageID int, userID int64) error {
	if conv.Origin == "" || conv.Destination == "" {
		b.alert(cb.ID, textNeedBothStops)
		return nil
	}
	if conv.Origin == conv.Destination {
		b.alert(cb.ID, textSameStops)
		return nil
	}

	b.answer(cb.ID, textSearching)

	now := b.now()
	q := transit.Query{
		Origin:      conv.Origin,
		Destination: conv.Destination,
		After:       transit.DayTimeOf(now),
		Day:         now.Weekday(),
		Max:         b.cfg.Current().MaxJourneys,
	}
	switch {
	case conv.Departure != "":
		dt, err := transit.ParseDayTime(conv.Departure)
		if err == nil {
			q.After = dt
		}
	case conv.Arrival != "":
		dt, err := transit.ParseDayTime(conv.Arrival)
		if err == nil {
			q.After = dt
			q.ArriveBy = true
		}
	}

	logger := log.WithComponentFromContext(ctx, "journeys")
	logger.Info().
		Str(log.FieldOrigin, q.Origin).
		Str(log.FieldDestination, q.Destination).
		Str("after", q.After.String()).
		Bool("arrive_by", q.ArriveBy).
		Str("event", "journeys.search").
		Msg("journey search")

	journeys, err := b.planner.Find(ctx, q)
	if err != nil {
		metrics.JourneySearchesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("find journeys: %w", err)
	}

	if b.searches != nil {
		if err := b.searches.Record(ctx, userID, conv.Origin, conv.Destination); err != nil {
			metrics.RecordStorageError("record_search")
			logger.Warn().Err(err).Msg("search history write failed")
		}
	}

	if len(journeys) == 0 {
		metrics.JourneySearchesTotal.WithLabelValues("empty").Inc()
		b.editWithKeyboard(chatID, messageID, textNoJourneys, journeysKeyboard())
		return nil
	}

	metrics.JourneySearchesTotal.WithLabelValues("found").Inc()
	metrics.JourneysFound.Observe(float64(len(journeys)))

	b.editWithKeyboard(chatID, messageID, formatJourneys(journeys), journeysKeyboard())
	b.sendOriginLocation(ctx, chatID, journeys[0])
	return nil
}

// sendOriginLocation shares the boarding stop position on the map.
func (b *Bot) sendOriginLocation(ctx context.Context, chatID int64, j transit.Journey) {
	stop, err := b.stops.ByCode(ctx, j.Segments[0].From.StopCode)
	if err != nil {
		logger := log.WithComponentFromContext(ctx, "journeys")
		logger.Warn().
			Err(err).
			Str(log.FieldStopCode, j.Segments[0].From.StopCode).
			Msg("boarding stop lookup failed")
		return
	}
	if stop.Latitude == 0 && stop.Longitude == 0 {
		return
	}
	b.send(tgbotapi.NewLocation(chatID, stop.Latitude, stop.Longitude))
}

func formatJourneys(journeys []transit.Journey) string {
	var sb strings.Builder
	sb.WriteString(textJourneysHeader)

	for i, j := range journeys {
		fmt.Fprintf(&sb, "<b>Вариант %d:</b>\n", i+1)
		for _, seg := range j.Segments {
			fmt.Fprintf(&sb,
				"🚌 Маршрут %s\n📍 %s\n🕐 Отправление: %s\n📍 %s\n🕐 Прибытие: %s\n⏱ Время в пути: %s\n\n",
				seg.RouteName,
				seg.From.StopName,
				seg.From.Arrival,
				seg.To.StopName,
				seg.To.Arrival,
				formatDuration(seg.Duration),
			)
		}
		if j.Transfers > 0 {
			fmt.Fprintf(&sb, "🔁 Пересадок: %d\n", j.Transfers)
		}
		fmt.Fprintf(&sb, "✅ Всего: %s\n", formatDuration(j.Duration))
		sb.WriteString("━━━━━━━━━━━━━━\n\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%d ч", minutes/60)
	}
	return fmt.Sprintf("%d ч %d мин", minutes/60, minutes%60)
}
