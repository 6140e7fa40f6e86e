package telegram

import (
	"strings"

	ocrbot "github.com/331515Stud/tg-bot-for-gf"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// previewLimit is how many runes of the extraction the confirmation
// message shows before the save buttons.
const previewLimit = 1000

// User-facing replies. The bot speaks Russian.
const (
	msgStart = "Привет! Я бот для извлечения текста из изображений, PDF и XML файлов.\n" +
		"Отправь мне изображение (PNG, JPG, JPEG, BMP, TIFF), и я сразу извлеку текст.\n" +
		"Также поддерживаются PDF и XML файлы.\n" +
		"После извлечения текста ты сможешь сохранить его как TXT, PDF или DOCX.\n" +
		"Команда /paste не поддерживает вставку из буфера обмена в Telegram."
	msgPaste = "В Telegram нельзя напрямую вставить изображение из буфера обмена. " +
		"Пожалуйста, отправь изображение как файл или фото."
	msgSendFile       = "Пожалуйста, отправь изображение, PDF или XML файл."
	msgUnsupported    = "Пожалуйста, отправь файл в формате изображения (PNG, JPG, JPEG, BMP, TIFF), PDF или XML."
	msgNoTextImage    = "Текст не обнаружен в изображении."
	msgNoTextPDF      = "В PDF не найдено текста или изображений."
	msgNoTextXML      = "В XML не найдено текста."
	msgNothingToSave  = "Нет текста для сохранения."
	msgSaveError      = "Ошибка сохранения файла. Попробуй снова."
	msgGenericFailure = "Произошла ошибка. Попробуй снова."
)

// sourceLabel names the extraction source inside the confirmation
// message.
func sourceLabel(source ocrbot.SourceKind) string {
	switch source {
	case ocrbot.SourcePDF:
		return "PDF"
	case ocrbot.SourceXML:
		return "XML"
	}
	return "изображения"
}

// confirmationText builds the extraction reply: a preview of the text
// followed by the save prompt.
func confirmationText(source ocrbot.SourceKind, text string) string {
	var sb strings.Builder
	sb.WriteString("Текст извлечён из ")
	sb.WriteString(sourceLabel(source))
	sb.WriteString(":\n\n")
	sb.WriteString(previewText(text, previewLimit))
	sb.WriteString("\n\nВыбери формат для сохранения текста.")
	return sb.String()
}

// previewText truncates to limit runes, marking the cut with an
// ellipsis. Truncation counts runes so Cyrillic text is never split
// mid-character.
func previewText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

// processFailureText maps an extraction failure to the reply the user
// sees. Informational outcomes keep their specific wording; real
// failures get a per-source apology.
func processFailureText(err error, kind ocrbot.FileKind) string {
	switch ocrbot.ErrorCode(err) {
	case ocrbot.EUNSUPPORTED:
		return msgUnsupported
	case ocrbot.ENOTEXT:
		if kind == ocrbot.FileXML {
			return msgNoTextXML
		}
		return msgNoTextPDF
	case ocrbot.EDECODE:
		return "Не удалось загрузить изображение."
	}
	switch kind {
	case ocrbot.FileImage:
		return "Ошибка обработки изображения. Попробуй снова."
	case ocrbot.FilePDF:
		return "Ошибка обработки PDF. Попробуй снова."
	case ocrbot.FileXML:
		return "Ошибка обработки XML. Попробуй снова."
	}
	return msgGenericFailure
}

// saveKeyboard returns the inline keyboard with the three save options.
func saveKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Сохранить как TXT", "save_txt"),
			tgbotapi.NewInlineKeyboardButtonData("Сохранить как PDF", "save_pdf"),
			tgbotapi.NewInlineKeyboardButtonData("Сохранить как DOCX", "save_docx"),
		),
	)
}

// parseSaveCallback extracts the export format from a save button's
// callback data.
func parseSaveCallback(data string) (ocrbot.ExportFormat, bool) {
	name, ok := strings.CutPrefix(data, "save_")
	if !ok {
		return "", false
	}
	format, err := ocrbot.ParseExportFormat(name)
	if err != nil {
		return "", false
	}
	return format, true
}
