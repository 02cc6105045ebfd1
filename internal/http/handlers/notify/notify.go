// Package notify реализует HTTP-обработчик отправки уведомления.
//
// Handler принимает JSON-запрос с получателем, типом и текстом уведомления,
// валидирует его и передаёт сервису проверку права на доставку.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/notification-dispatcher/internal/catalog"
	"github.com/magabrotheeeer/notification-dispatcher/internal/http/response"
	"github.com/magabrotheeeer/notification-dispatcher/internal/lib/sl"
	"github.com/magabrotheeeer/notification-dispatcher/internal/models"
	notificationservice "github.com/magabrotheeeer/notification-dispatcher/internal/services/notification"
)

// Handler управляет HTTP-запросами на отправку уведомлений.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики доставки
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики отправки уведомления.
type Service interface {
	SendNotification(ctx context.Context, dto models.DummyNotification) error
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
// @Summary Отправить уведомление
// @Description Проверяет право пользователя на получение уведомления данного типа и фиксирует доставку.
// @Tags Notifications
// @Accept  json
// @Produce  json
// @Param request body models.DummyNotification true "Данные уведомления"
// @Success 200 {object} map[string]any "Уведомление принято к доставке"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Пользователь не подписан на категорию"
// @Failure 404 {object} response.ErrorResponse "Пользователь или тип уведомления не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при отправке"
// @Router /notify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.notify"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyNotification
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

	err := h.service.SendNotification(r.Context(), req)
	switch {
	case errors.Is(err, notificationservice.ErrUserNotFound):
		log.Warn("user not found", slog.String("user_id", req.UserID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	case errors.Is(err, catalog.ErrTypeNotFound):
		log.Warn("notification type not found", slog.String("notification_type", req.NotificationType))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("notification type not found"))
		return
	case errors.Is(err, notificationservice.ErrNotSubscribed):
		log.Warn("user not subscribed", slog.String("user_id", req.UserID))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("user is not subscribed to the notification category"))
		return
	case err != nil:
		log.Error("failed to send notification", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not send notification"))
		return
	}

	log.Info("notification accepted for delivery")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "notification sent successfully",
	}))
}
