// Package main provides localization for the vidbanner CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Russian translations for CLI messages.
	l10n.Register("ru", l10n.LexiconMap{
		// Root command
		"Play a video as a small, periodically refreshed image with subtitles typed into a chat.": "Воспроизводит видео как маленькое периодически обновляемое изображение и печатает субтитры в чат.",

		// Startup errors
		"Video not found: %s":     "Видео не найдено: %s",
		"Subtitles not found: %s": "Субтитры не найдены: %s",
		"Can't get video info":    "Не удалось получить информацию о видео",
		"video path is required":  "не указан путь к видео",

		// Probe command
		"Frame rate: %.3f fps":  "Частота кадров: %.3f кадр/с",
		"Frame count: %.0f":     "Количество кадров: %.0f",
		"Duration: %.2f second": "Длительность: %.2f сек",
		"Subtitle cues: %d":     "Субтитров: %d",

		// Version command
		"vidbanner (Go) version %s": "vidbanner (Go) версия %s",
	})
}
