package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "glulam-ndt/internal/application"
	"glulam-ndt/internal/container"
	"glulam-ndt/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я помогаю искать расслоения в клеёных балках по ультразвуковым измерениям.

📋 Команды:
/check — начать новую проверку балки
/analyze — выполнить анализ по толщине
/more — вернуться к вводу измерений по толщине
/list — показать введённые измерения
/remove N — удалить измерение N (без номера удаляется последнее)
/skip — пропустить анализ по глубине
/report — повторить отчёт по последней проверке
/help — справка
/cancel — отменить текущую проверку`

	msgHelp = `ℹ️ Как проходит проверка:

1️⃣ /check и выбор длины балки (8 ft или 12 ft)
2️⃣ Измерения по толщине: по одной паре «позиция TOF» в строке, позиция в дюймах от торца, TOF в мкс. Можно прислать CSV-файл.
3️⃣ /analyze — бот найдёт зоны с повышенным TOF. Если нужно досыпать точки, отправьте /more, ошибочную точку уберёт /remove N
4️⃣ Выберите номер зоны и пришлите 9 значений TOF по глубине сечения (или /skip)
5️⃣ Вы получите отчёт, график профиля и HTML-страницу

💡 Рекомендации:
• Измерения ближе 10" к торцам в базовый уровень не входят
• Для пустых точек сетки по глубине пишите «-» или 0`

	msgChooseBeam         = "📏 Выберите длину балки."
	msgUnsupportedBeam    = "⚠️ Поддерживаются балки 8 ft и 12 ft. Выберите длину кнопкой."
	msgAwaitMeasurements  = "✍️ Пришлите измерения по толщине: по одной паре «позиция TOF» в строке, например:\n12 130\n24 131\n\nКогда закончите, отправьте /analyze."
	msgNoValidLines       = "⚠️ Не нашёл ни одной корректной пары «позиция TOF»."
	msgCancelled          = "❌ Проверка отменена. Отправьте /check для новой проверки."
	msgUnknownCommand     = "❓ Неизвестная команда. Используйте /help для справки."
	msgUseCheck           = "📋 Отправьте /check, чтобы начать проверку балки."
	msgNoInspection       = "ℹ️ Нет активной проверки. Отправьте /check."
	msgInsufficientData   = "⚠️ Нужно минимум 3 корректных измерения. Добавьте ещё и повторите /analyze."
	msgInsufficientInner  = "⚠️ Нужно минимум 3 измерения дальше 10\" от торцов, чтобы определить базовый уровень. Добавьте измерения в средней части балки."
	msgChooseZone         = "🔎 Выберите номер зоны для измерений по глубине или отправьте /skip."
	msgNoZones            = "ℹ️ Зон расслоения не найдено, выбирать нечего."
	msgZoneOutOfRange     = "⚠️ Такой зоны нет. Выберите номер из списка."
	msgAwaitLayers        = "✍️ Пришлите 9 значений TOF по глубине сечения через пробел. Для пустых точек пишите «-» или 0."
	msgInvalidLayers      = "⚠️ Нужно ровно 9 неотрицательных чисел или «-»."
	msgInsufficientLayers = "⚠️ Нужно минимум 5 заполненных точек по глубине."
	msgZoneNotSelected    = "⚠️ Сначала выберите зону."
	msgUseMore            = "ℹ️ Чтобы добавить измерения по толщине, сначала отправьте /more."
	msgSampleOutOfRange   = "⚠️ Нет измерения с таким номером. Список: /list."
	msgDocumentTooLarge   = "⚠️ Файл слишком большой."
	msgProcessingError    = "⚠️ Не удалось обработать запрос. Попробуйте ещё раз."
)

const maxDocumentSize = 1 << 20

var (
	beamKeyboard = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("8 ft"),
			tgbotapi.NewKeyboardButton("12 ft"),
		),
	)
	removeKeyboard = tgbotapi.NewRemoveKeyboard(true)
)

// Bot представляет Telegram-бота
type Bot struct {
	api         *tgbotapi.BotAPI
	users       *app.UserService
	inspections *app.InspectionService
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:         api,
		users:       c.UserService,
		inspections: c.InspectionService,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Printf("Error getting user: %v", err)
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// CSV с измерениями
	if msg.Document != nil {
		b.handleDocument(ctx, msg, user)
		return
	}

	switch user.State {
	case entity.StateAwaitingBeamLength:
		b.handleBeamLength(ctx, msg)
	case entity.StateAwaitingMeasurements:
		b.addMeasurements(ctx, msg, msg.Text)
	case entity.StateAwaitingZone:
		b.handleZone(ctx, msg)
	case entity.StateAwaitingLayerValues:
		b.handleLayerValues(ctx, msg)
	default:
		b.sendMessage(msg.Chat.ID, msgUseCheck)
	}
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		if _, err := b.users.Cancel(ctx, user.ID, chatID); err != nil {
			log.Printf("Error resetting user %d: %v", user.ID, err)
		}
		reply := tgbotapi.NewMessage(chatID, msgStart)
		reply.ReplyMarkup = removeKeyboard
		b.send(reply)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		if _, err := b.inspections.BeginInspection(ctx, user.ID, chatID); err != nil {
			b.replyError(chatID, err)
			return
		}
		reply := tgbotapi.NewMessage(chatID, msgChooseBeam)
		reply.ReplyMarkup = beamKeyboard
		b.send(reply)

	case "analyze":
		b.analyzeThickness(ctx, msg)

	case "more":
		inspection, err := b.inspections.ResumeMeasurements(ctx, user.ID, chatID)
		if err != nil {
			b.replyError(chatID, err)
			return
		}
		reply := tgbotapi.NewMessage(chatID, FormatMeasurements(inspection)+"\n\n"+msgAwaitMeasurements)
		reply.ReplyMarkup = removeKeyboard
		b.send(reply)

	case "list":
		inspection, err := b.inspections.Current(ctx, user.ID)
		if err != nil {
			b.replyError(chatID, err)
			return
		}
		b.sendMessage(chatID, FormatMeasurements(inspection))

	case "remove":
		b.removeMeasurement(ctx, msg)

	case "skip":
		if _, err := b.inspections.Finish(ctx, user.ID, chatID); err != nil {
			b.replyError(chatID, err)
			return
		}
		b.sendReport(ctx, chatID, user.ID)

	case "report":
		b.sendReport(ctx, chatID, user.ID)

	case "cancel":
		if _, err := b.inspections.Cancel(ctx, user.ID, chatID); err != nil {
			b.replyError(chatID, err)
			return
		}
		reply := tgbotapi.NewMessage(chatID, msgCancelled)
		reply.ReplyMarkup = removeKeyboard
		b.send(reply)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

func (b *Bot) handleBeamLength(ctx context.Context, msg *tgbotapi.Message) {
	beam, err := entity.ParseBeamLength(msg.Text)
	if err != nil {
		reply := tgbotapi.NewMessage(msg.Chat.ID, msgUnsupportedBeam)
		reply.ReplyMarkup = beamKeyboard
		b.send(reply)
		return
	}

	inspection, err := b.inspections.SetBeamLength(ctx, msg.From.ID, msg.Chat.ID, beam)
	if err != nil {
		b.replyError(msg.Chat.ID, err)
		return
	}

	log.Printf("Inspection %s started: user=%d beam=%s", inspection.ID, msg.From.ID, beam)
	reply := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("Балка %s (%.0f\").\n\n%s", beam, beam.Inches(), msgAwaitMeasurements))
	reply.ReplyMarkup = removeKeyboard
	b.send(reply)
}

func (b *Bot) addMeasurements(ctx context.Context, msg *tgbotapi.Message, text string) {
	samples, discarded := ParseMeasurements(text)
	if len(samples) == 0 {
		b.sendMessage(msg.Chat.ID, msgNoValidLines)
		return
	}

	inspection, err := b.inspections.AddMeasurements(ctx, msg.From.ID, msg.Chat.ID, samples, discarded)
	if err != nil {
		b.replyError(msg.Chat.ID, err)
		return
	}

	b.sendMessage(msg.Chat.ID, fmt.Sprintf(
		"✅ Принято измерений: %d, отброшено строк: %d. Всего: %d.\nПришлите ещё или отправьте /analyze.",
		len(samples), discarded, len(inspection.Samples),
	))
}

func (b *Bot) removeMeasurement(ctx context.Context, msg *tgbotapi.Message) {
	inspection, err := b.inspections.Current(ctx, msg.From.ID)
	if err != nil {
		b.replyError(msg.Chat.ID, err)
		return
	}

	n, err := ParseMeasurementNumber(msg.CommandArguments(), len(inspection.Samples))
	if err != nil {
		b.replyError(msg.Chat.ID, err)
		return
	}

	removed := inspection.Samples[n-1]
	inspection, err = b.inspections.RemoveMeasurement(ctx, msg.From.ID, msg.Chat.ID, n)
	if err != nil {
		b.replyError(msg.Chat.ID, err)
		return
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(
		"🗑 Удалено измерение %d: %g\" %g мкс. Осталось: %d.\nПришлите ещё или отправьте /analyze.",
		n, removed.Position, removed.TOF, len(inspection.Samples),
	))
	reply.ReplyMarkup = removeKeyboard
	b.send(reply)
}

// documentRejection возвращает причину отказа в приёме файла или пустую строку
func documentRejection(user *entity.User) string {
	switch {
	case !user.InWizard():
		return msgUseCheck
	case user.State != entity.StateAwaitingMeasurements:
		return msgUseMore
	}
	return ""
}

// handleDocument принимает CSV с измерениями по толщине
func (b *Bot) handleDocument(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	if reason := documentRejection(user); reason != "" {
		b.sendMessage(msg.Chat.ID, reason)
		return
	}
	if msg.Document.FileSize > maxDocumentSize {
		b.sendMessage(msg.Chat.ID, msgDocumentTooLarge)
		return
	}

	data, err := b.downloadFile(ctx, msg.Document.FileID)
	if err != nil {
		log.Printf("Error downloading document: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	b.addMeasurements(ctx, msg, string(data))
}

func (b *Bot) analyzeThickness(ctx context.Context, msg *tgbotapi.Message) {
	inspection, err := b.inspections.AnalyzeThickness(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.replyError(msg.Chat.ID, err)
		return
	}

	b.sendMessage(msg.Chat.ID, FormatThickness(inspection))
	if inspection.Thickness.HasDelamination {
		reply := tgbotapi.NewMessage(msg.Chat.ID, msgChooseZone)
		reply.ReplyMarkup = zoneKeyboard(len(inspection.Thickness.Zones))
		b.send(reply)
		return
	}

	b.sendAttachments(ctx, msg.Chat.ID, msg.From.ID)
}

func (b *Bot) handleZone(ctx context.Context, msg *tgbotapi.Message) {
	n, err := ParseZoneNumber(msg.Text)
	if err != nil {
		if samples, _ := ParseMeasurements(msg.Text); len(samples) > 0 {
			b.sendMessage(msg.Chat.ID, msgUseMore)
			return
		}
		b.replyError(msg.Chat.ID, err)
		return
	}

	inspection, err := b.inspections.SelectZone(ctx, msg.From.ID, msg.Chat.ID, n)
	if err != nil {
		b.replyError(msg.Chat.ID, err)
		return
	}

	zone, _ := inspection.Zone()
	reply := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(
		"Зона %d: %.1f\" - %.1f\".\n\n%s\n\n%s",
		n, zone.Start, zone.End, FormatLayerGrid(), msgAwaitLayers,
	))
	reply.ReplyMarkup = removeKeyboard
	b.send(reply)
}

func (b *Bot) handleLayerValues(ctx context.Context, msg *tgbotapi.Message) {
	values, err := ParseLayerValues(msg.Text)
	if err != nil {
		b.replyError(msg.Chat.ID, err)
		return
	}

	if _, err := b.inspections.AnalyzeLayers(ctx, msg.From.ID, msg.Chat.ID, values); err != nil {
		b.replyError(msg.Chat.ID, err)
		return
	}

	b.sendReport(ctx, msg.Chat.ID, msg.From.ID)
}

// sendReport отправляет текстовый отчёт и вложения по текущей проверке
func (b *Bot) sendReport(ctx context.Context, chatID, userID int64) {
	inspection, err := b.inspections.Current(ctx, userID)
	if err != nil {
		b.replyError(chatID, err)
		return
	}

	b.sendMessage(chatID, FormatReport(inspection))
	b.sendAttachments(ctx, chatID, userID)
}

func (b *Bot) sendAttachments(ctx context.Context, chatID, userID int64) {
	_, attachments, err := b.inspections.Report(ctx, userID)
	if err != nil {
		log.Printf("Error rendering report for user %d: %v", userID, err)
		return
	}

	for _, att := range attachments {
		file := tgbotapi.FileBytes{Name: att.Name, Bytes: att.Data}
		switch att.Kind {
		case entity.AttachmentPhoto:
			photo := tgbotapi.NewPhoto(chatID, file)
			photo.Caption = att.Caption
			b.send(photo)
		default:
			doc := tgbotapi.NewDocument(chatID, file)
			doc.Caption = att.Caption
			b.send(doc)
		}
	}
}

// replyError переводит ошибку сервиса в сообщение пользователю
func (b *Bot) replyError(chatID int64, err error) {
	text := errorMessage(err)
	if text == msgProcessingError {
		log.Printf("Error handling chat %d: %v", chatID, err)
	}
	b.sendMessage(chatID, text)
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrNoInspection):
		return msgNoInspection
	case errors.Is(err, entity.ErrUnsupportedBeamLength):
		return msgUnsupportedBeam
	case errors.Is(err, entity.ErrInsufficientData):
		return msgInsufficientData
	case errors.Is(err, entity.ErrInsufficientInteriorData):
		return msgInsufficientInner
	case errors.Is(err, entity.ErrNoZones):
		return msgNoZones
	case errors.Is(err, entity.ErrZoneOutOfRange):
		return msgZoneOutOfRange
	case errors.Is(err, entity.ErrZoneNotSelected):
		return msgZoneNotSelected
	case errors.Is(err, entity.ErrInvalidLayerInput):
		return msgInvalidLayers
	case errors.Is(err, entity.ErrInsufficientLayerData):
		return msgInsufficientLayers
	case errors.Is(err, entity.ErrSampleOutOfRange):
		return msgSampleOutOfRange
	}
	return msgProcessingError
}

func zoneKeyboard(zones int) tgbotapi.ReplyKeyboardMarkup {
	row := make([]tgbotapi.KeyboardButton, 0, zones)
	for i := 1; i <= zones; i++ {
		row = append(row, tgbotapi.NewKeyboardButton(strconv.Itoa(i)))
	}
	kb := tgbotapi.NewReplyKeyboard(row, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton("/skip")))
	kb.OneTimeKeyboard = true
	return kb
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}
