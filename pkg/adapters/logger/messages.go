package logger

import "github.com/ideamans/go-l10n"

// Status lines for toggle, reset and publish keep their English wording in
// every language, so they are absent from the lexicon.
func init() {
	l10n.Register("ru", l10n.LexiconMap{
		// Startup (info)
		"Opened %s with %s backend: %.2f fps, %.0f frames, %.2f second": "Открыт %s (бэкенд %s): %.2f кадр/с, %.0f кадров, %.2f сек",
		"Loaded %d subtitle cues": "Загружено субтитров: %d",
		"Publishing %dx%d frames to %s every %d ms": "Кадры %dx%d пишутся в %s каждые %d мс",
		"Press %s to start or stop playback, %s to reset to 0 second.": "Нажмите %s для запуска или остановки, %s для сброса на 0 секунду.",
		"Dry run: keystrokes are logged, not sent": "Пробный запуск: нажатия клавиш только выводятся в лог",
		"Interrupted, shutting down...": "Прервано, завершение работы...",
		"Stopped": "Остановлено",

		// Pacing loop
		"Cue at %.2f second: %s": "Субтитр на %.2f сек: %s",
		"No frame at %.2f second, rewinding to start": "Нет кадра на %.2f сек, возврат к началу",
		"Reset applied, cursor at 0": "Сброс выполнен, позиция 0",

		// Dry run output
		"Would paste trigger: %s": "Вставка триггера: %s",
		"Would type cue: %s": "Ввод субтитра: %s",

		// Warnings
		"Destination locked, retrying: %s": "Файл занят, повтор: %s",
		"OpenCV unavailable, using ffmpeg: %s": "OpenCV недоступен, используется ffmpeg: %s",
		"Failed to publish frame: %s": "Не удалось записать кадр: %s",
		"Failed to send trigger: %s": "Не удалось отправить триггер: %s",
		"Failed to send cue: %s": "Не удалось отправить субтитр: %s",
	})
}
