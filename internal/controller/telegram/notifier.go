// Package telegram отправляет сохранённые расписания в чат школы.
package telegram

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/school_timetable/internal/service"
)

// Notifier реализует service.Notifier через Telegram Bot API
type Notifier struct {
	bot    *bot.Bot
	chatID int64
	logger *zap.Logger
}

// NewNotifier создаёт бота без обращения к getMe, сеть нужна только при отправке
func NewNotifier(token string, chatID int64, logger *zap.Logger, opts ...bot.Option) (*Notifier, error) {
	opts = append([]bot.Option{bot.WithSkipGetMe()}, opts...)
	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Notifier{bot: b, chatID: chatID, logger: logger}, nil
}

// TimetableSaved отправляет картинку расписания с подписью
func (n *Notifier) TimetableSaved(ctx context.Context, notice service.TimetableNotice) error {
	msg, err := n.bot.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:    n.chatID,
		Photo:     &models.InputFileUpload{Filename: "timetable.png", Data: bytes.NewReader(notice.Image)},
		Caption:   caption(notice),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("send timetable photo: %w", err)
	}

	n.logger.Info("Timetable sent to telegram",
		zap.Int64("chat_id", n.chatID),
		zap.Int("message_id", msg.ID),
		zap.String("section", notice.SectionName))
	return nil
}

func caption(n service.TimetableNotice) string {
	var sb strings.Builder
	sb.WriteString("📅 <b>Расписание обновлено</b>\n\n")
	fmt.Fprintf(&sb, "Класс: <b>%s</b>\n", html.EscapeString(n.SectionName))
	if n.YearName != "" {
		fmt.Fprintf(&sb, "Учебный год: %s\n", html.EscapeString(n.YearName))
	}
	fmt.Fprintf(&sb, "Заполнено: %d %s", n.FilledPeriods, pluralizeLessons(n.FilledPeriods))
	return sb.String()
}

// pluralizeLessons возвращает правильное склонение слова "урок"
func pluralizeLessons(count int) string {
	if count%10 == 1 && count%100 != 11 {
		return "урок"
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return "урока"
	}
	return "уроков"
}
