// Package register реализует HTTP-обработчик регистрации пользователя.
//
// Handler принимает JSON-запрос с идентификатором пользователя и множеством
// типов уведомлений, валидирует их и запускает сверку подписок через сервис.
// Один и тот же маршрут покрывает создание, обновление и идемпотентный повтор:
// конечной точкой давно пользуются клиенты, разделять её уже нет смысла.
package register

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/notification-dispatcher/internal/http/response"
	"github.com/magabrotheeeer/notification-dispatcher/internal/lib/sl"
	"github.com/magabrotheeeer/notification-dispatcher/internal/models"
	notificationservice "github.com/magabrotheeeer/notification-dispatcher/internal/services/notification"
)

// Handler управляет HTTP-запросами на регистрацию пользователей.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики регистрации
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	RegisterUser(ctx context.Context, userUID string, desiredTypes []string) (*notificationservice.RegistrationResult, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Зарегистрировать пользователя
// @Description Создает или обновляет пользователя с множеством типов уведомлений и сверяет его подписки на категории.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param request body models.DummyUser true "Данные регистрации"
// @Success 200 {object} map[string]any "Пользователь обновлён или не изменился"
// @Success 201 {object} map[string]any "Пользователь создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при регистрации"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.register"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyUser
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	result, err := h.service.RegisterUser(r.Context(), req.UserID, req.NotificationTypes)
	if err != nil {
		log.Error("failed to register user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not register user"))
		return
	}

	message := "user already exists with the same data"
	switch {
	case result.Created:
		message = "user registered successfully"
		w.WriteHeader(http.StatusCreated)
	case result.Updated:
		message = "user updated successfully"
	}

	log.Info("registration handled",
		slog.Bool("created", result.Created),
		slog.Bool("updated", result.Updated))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message":            message,
		"user_id":            result.User.UID,
		"notification_types": result.User.NotificationTypes,
		"created":            result.Created,
		"updated":            result.Updated,
	}))
}
