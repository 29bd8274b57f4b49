package middleware

import (
	"io"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

// accessFormat - строка access-лога; время добавляет slog.
const accessFormat = "${status} - ${latency} ${method} ${path} | Content-Type: ${reqHeader:Content-Type}"

// Logger возвращает middleware логирования запросов. Строку собирает
// fiber logger, пишется она через slog: 5xx как ошибка, 4xx как предупреждение.
func Logger(l *slog.Logger) fiber.Handler {
	if l == nil {
		l = slog.Default()
	}
	return logger.New(logger.Config{
		Format:        accessFormat,
		Stream:        io.Discard,
		DisableColors: true,
		Done: func(c fiber.Ctx, line []byte) {
			l.Log(c.Context(), accessLevel(c.Response().StatusCode()), strings.Join(strings.Fields(string(line)), " "))
		},
	})
}

func accessLevel(status int) slog.Level {
	switch {
	case status >= fiber.StatusInternalServerError:
		return slog.LevelError
	case status >= fiber.StatusBadRequest:
		return slog.LevelWarn
	}
	return slog.LevelInfo
}
